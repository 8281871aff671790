// internal/decks/file.go

// Package decks loads the static card dataset rooms are built from, either
// from a bundled JSON file or from Postgres.
package decks

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

// DefaultFile is the bundled dataset path, relative to the working
// directory.
const DefaultFile = "decks/decks.json"

// LoadFile reads a deck dataset from a JSON file. An empty path falls back
// to DefaultFile.
func LoadFile(path string) (models.DeckData, error) {
	if path == "" {
		path = DefaultFile
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.DeckData{}, fmt.Errorf("read deck file %s: %w", path, err)
	}

	var data models.DeckData
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.DeckData{}, fmt.Errorf("parse deck file %s: %w", path, err)
	}
	return data, validate(data, path)
}

func validate(data models.DeckData, source string) error {
	if len(data.Characters) == 0 {
		return fmt.Errorf("deck source %s has no character cards", source)
	}
	if len(data.Attributes) == 0 {
		return fmt.Errorf("deck source %s has no attribute cards", source)
	}
	return nil
}
