// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/Rodrigovicente/superfighter-game/internal/decks"
	"github.com/Rodrigovicente/superfighter-game/internal/game"
	"github.com/Rodrigovicente/superfighter-game/internal/handlers"
	"github.com/Rodrigovicente/superfighter-game/internal/journal"
	"github.com/Rodrigovicente/superfighter-game/internal/middleware"
	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	data := loadDeck(logger)
	logger.Infof("Deck loaded: %d characters, %d attributes", len(data.Characters), len(data.Attributes))

	jnl, err := journal.Connect(logger)
	if err != nil {
		logger.Fatalf("journal: %v", err)
	}
	if jnl != nil {
		logger.Info("Room event journal enabled")
		defer jnl.Close()
	}

	dir := game.NewDirectory(data, game.DefaultTiming(), logger)
	dir.Broadcast = handlers.NewBroadcastFunc(logger)
	dir.Send = handlers.NewSendFunc(logger)
	dir.Record = jnl.Record

	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(logger))
	r.Get("/ws", handlers.WSHandler(logger, dir))

	clientDir := os.Getenv("CLIENT_DIR")
	if clientDir == "" {
		clientDir = "client"
	}
	if fi, err := os.Stat(clientDir); err == nil && fi.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(clientDir)))
		logger.Infof("Serving client assets from %s", clientDir)
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}

// loadDeck reads the card dataset from Postgres when DECK_SOURCE=postgres,
// otherwise from the JSON file named by DECKS_FILE. The server cannot run
// without a dataset.
func loadDeck(logger *logrus.Logger) models.DeckData {
	if os.Getenv("DECK_SOURCE") == "postgres" {
		data, err := decks.LoadPostgres(context.Background())
		if err != nil {
			logger.Fatalf("load deck from postgres: %v", err)
		}
		return data
	}

	data, err := decks.LoadFile(os.Getenv("DECKS_FILE"))
	if err != nil {
		logger.Fatalf("load deck file: %v", err)
	}
	return data
}
