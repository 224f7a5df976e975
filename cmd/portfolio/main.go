package main

import (
	"fmt"
	"os"

	"crypto-portfolio-go/internal/config"
	"crypto-portfolio-go/internal/database"
	"crypto-portfolio-go/internal/logger"
	"crypto-portfolio-go/internal/reports"
	"crypto-portfolio-go/internal/store"

	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: portfolio <command> [flags]

commands:
  init            drop and rebuild the schema
  catalog         print the coin catalog
  portfolio       print the portfolio with live values
  summary         print invested/gains/value and best/worst performer
  logs            print both audit trails
  add-coin        add a coin to the catalog
  update-coin     update a catalog coin (replaces its categories)
  remove-coin     remove a coin from catalog, categories and portfolio
  add-holding     open a position for a catalog coin
  update-holding  change quantity/entry price/notes of a position
  remove-holding  close a position`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
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

	recorder := store.NewRecorder()
	app := &app{
		log:       log,
		db:        db,
		catalog:   store.NewCatalog(db, log, recorder),
		portfolio: store.NewPortfolio(db, log, recorder),
		reporter:  reports.NewReporter(db, log),
	}

	if err := app.run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
