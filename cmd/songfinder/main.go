package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"songfinder/internal/config"
	"songfinder/internal/logging"
	"songfinder/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.New(logging.Config{
		Component: "songfinder",
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
	})
	logging.SetGlobalLogger(logger)
	logger.Info("Catalog API starting")

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	dataStore := store.New(db, store.Limits{
		MaxConcurrent: cfg.Database.MaxOpenConns,
		QueueDepth:    cfg.Database.QueueDepth,
		Timeout:       cfg.Database.QueryTimeout,
	})

	if err := serve(ctx, cfg, newHTTPHandler(cfg, dataStore)); err != nil {
		logger.Fatal(err, "Server error")
	}
}
