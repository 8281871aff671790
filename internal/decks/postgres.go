// internal/decks/postgres.go
package decks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// LoadPostgres reads the deck dataset from the card_templates table,
// building the connection string from POSTGRES_USER, POSTGRES_PASSWORD,
// PG_HOST, PG_PORT and PG_DATABASE. Rows carry the card text, whether it is
// a character, and an optional JSON actions column of effect flags.
func LoadPostgres(ctx context.Context) (models.DeckData, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DATABASE"),
	)

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return models.DeckData{}, fmt.Errorf("parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return models.DeckData{}, fmt.Errorf("create pgx pool: %w", err)
	}
	defer pool.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return models.DeckData{}, fmt.Errorf("db ping: %w", err)
	}

	rows, err := pool.Query(ctx, `SELECT text, is_char, actions FROM card_templates ORDER BY id`)
	if err != nil {
		return models.DeckData{}, fmt.Errorf("query card_templates: %w", err)
	}
	defer rows.Close()

	var data models.DeckData
	for rows.Next() {
		var (
			text       string
			isChar     bool
			actionsRaw []byte
		)
		if err := rows.Scan(&text, &isChar, &actionsRaw); err != nil {
			return models.DeckData{}, fmt.Errorf("scan card_templates row: %w", err)
		}

		tmpl := models.CardTemplate{Text: text}
		if len(actionsRaw) > 0 {
			if err := json.Unmarshal(actionsRaw, &tmpl.Actions); err != nil {
				return models.DeckData{}, fmt.Errorf("parse actions for card %q: %w", text, err)
			}
		}

		if isChar {
			data.Characters = append(data.Characters, tmpl)
		} else {
			data.Attributes = append(data.Attributes, tmpl)
		}
	}
	if err := rows.Err(); err != nil {
		return models.DeckData{}, fmt.Errorf("iterate card_templates: %w", err)
	}
	return data, validate(data, "postgres")
}
