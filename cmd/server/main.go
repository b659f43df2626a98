package main

import (
	"context"
	"log"

	"github.com/alkime/notes/internal/config"
	"github.com/alkime/notes/internal/logger"
	"github.com/alkime/notes/internal/server"
	"github.com/alkime/notes/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.SetupLogger(cfg)

	lg.Info("Starting notes server",
		"env", cfg.Env,
		"port", cfg.Port,
		"db", cfg.NotesDB,
	)

	notes, err := store.OpenSQLite(context.Background(), cfg.NotesDB)
	if err != nil {
		lg.Error("Failed to open notes database", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
	defer notes.Close()

	srv := server.New(cfg, lg, notes)
	if err := server.Run(srv); err != nil {
		lg.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
