package main

import (
	"fmt"
	"os"

	"crypto-portfolio-go/internal/config"
	"crypto-portfolio-go/internal/database"
	"crypto-portfolio-go/internal/logger"
	"crypto-portfolio-go/internal/pricefeed"
	"crypto-portfolio-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	catalog := store.NewCatalog(db, log, store.NewRecorder())
	client := pricefeed.NewClient(&cfg.PriceFeed, log)
	syncer := pricefeed.NewSyncer(catalog, client, cfg.PriceFeed.QuoteAsset, log)

	updated, err := syncer.Sync()
	if err != nil {
		log.Fatal("Price sync failed", zap.Error(err))
	}
	log.Info("Done", zap.Int("coins_updated", updated))
}
