package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"crypto-portfolio-go/internal/database"
	"crypto-portfolio-go/internal/reports"
	"crypto-portfolio-go/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired components shared by every command.
type app struct {
	log       *zap.Logger
	db        *gorm.DB
	catalog   *store.Catalog
	portfolio *store.Portfolio
	reporter  *reports.Reporter
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "init":
		return database.Reset(a.db)
	case "catalog":
		return a.printCatalog()
	case "portfolio":
		return a.printPortfolio()
	case "summary":
		return a.printSummary()
	case "logs":
		return a.printLogs()
	case "add-coin":
		return a.addCoin(args)
	case "update-coin":
		return a.updateCoin(args)
	case "remove-coin":
		return a.removeCoin(args)
	case "add-holding":
		return a.addHolding(args)
	case "update-holding":
		return a.updateHolding(args)
	case "remove-holding":
		return a.removeHolding(args)
	default:
		usage()
		return nil
	}
}

func coinFlags(name string) (*flag.FlagSet, *store.CoinParams, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	params := &store.CoinParams{}
	fs.StringVar(&params.Ticker, "ticker", "", "coin ticker, e.g. BTC")
	fs.StringVar(&params.Name, "name", "", "coin name")
	fs.Float64Var(&params.LaunchPrice, "launch", 0, "launch price (must be > 0)")
	fs.Float64Var(&params.CurrentPrice, "current", 0, "current price")
	fs.Float64Var(&params.AllTimeLow, "atl", 0, "all-time low")
	fs.Float64Var(&params.AllTimeHigh, "ath", 0, "all-time high")
	categories := fs.String("categories", "", "comma-separated category ids, e.g. 2,5")
	return fs, params, categories
}

func parseCategoryIDs(s string) ([]uint, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid category id '%s': %w", part, err)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (a *app) addCoin(args []string) error {
	fs, params, categories := coinFlags("add-coin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := parseCategoryIDs(*categories)
	if err != nil {
		return err
	}
	params.CategoryIDs = ids
	return a.catalog.AddCoin(*params)
}

func (a *app) updateCoin(args []string) error {
	fs, params, categories := coinFlags("update-coin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := parseCategoryIDs(*categories)
	if err != nil {
		return err
	}
	params.CategoryIDs = ids
	return a.catalog.UpdateCoin(*params)
}

func (a *app) removeCoin(args []string) error {
	fs := flag.NewFlagSet("remove-coin", flag.ExitOnError)
	ticker := fs.String("ticker", "", "coin ticker")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.catalog.RemoveCoinEverywhere(*ticker)
}

func holdingFlags(name string) (*flag.FlagSet, *store.HoldingParams) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	params := &store.HoldingParams{}
	fs.StringVar(&params.Ticker, "ticker", "", "coin ticker")
	fs.Float64Var(&params.Quantity, "quantity", 0, "quantity held")
	fs.Float64Var(&params.EntryPrice, "entry", 0, "entry price (must be > 0)")
	fs.StringVar(&params.Notes, "notes", "", "free-form notes")
	return fs, params
}

func (a *app) addHolding(args []string) error {
	fs, params := holdingFlags("add-holding")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.portfolio.AddHolding(*params)
}

func (a *app) updateHolding(args []string) error {
	fs, params := holdingFlags("update-holding")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.portfolio.UpdateHolding(*params)
}

func (a *app) removeHolding(args []string) error {
	fs := flag.NewFlagSet("remove-holding", flag.ExitOnError)
	ticker := fs.String("ticker", "", "coin ticker")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.portfolio.RemoveHolding(*ticker)
}

func (a *app) printCatalog() error {
	views, err := a.reporter.CatalogView()
	if err != nil {
		return err
	}
	for _, v := range views {
		fmt.Printf("%-8s %-20s %-40s launch %s  current %s  atl %s  ath %s  return %s\n",
			v.Ticker, v.Name, v.Categories,
			v.LaunchPrice, v.CurrentPrice, v.AllTimeLow, v.AllTimeHigh, v.ReturnSinceLaunch)
	}
	return nil
}

func (a *app) printPortfolio() error {
	views, err := a.reporter.PortfolioView()
	if err != nil {
		return err
	}
	for _, v := range views {
		fmt.Printf("%-8s %-20s qty %.8f  entry $%.2f  current $%.2f  value $%.2f  roi %.2f%%\n",
			v.Ticker, v.Name, v.Quantity, v.EntryPrice, v.CurrentPrice, v.CurrentValue, v.ROI)
	}
	return nil
}

func (a *app) printSummary() error {
	invested, err := a.reporter.TotalInvested()
	if err != nil {
		return err
	}
	gains, err := a.reporter.TotalGains()
	if err != nil {
		return err
	}
	value, err := a.reporter.TotalValue()
	if err != nil {
		return err
	}
	fmt.Printf("total invested: $%.2f\ntotal gains:    $%.2f\ntotal value:    $%.2f\n", invested, gains, value)

	if best, ok, err := a.reporter.BestPerformer(); err != nil {
		return err
	} else if ok {
		fmt.Printf("best performer:  %s (%.2f%%)\n", best.Ticker, best.ROI)
	}
	if worst, ok, err := a.reporter.WorstPerformer(); err != nil {
		return err
	} else if ok {
		fmt.Printf("worst performer: %s (%.2f%%)\n", worst.Ticker, worst.ROI)
	}
	return nil
}

func (a *app) printLogs() error {
	coinLogs, err := a.catalog.LogEntries()
	if err != nil {
		return err
	}
	for _, e := range coinLogs {
		fmt.Printf("[catalog]   %s  %-8s %s\n", e.LoggedAt.Format("2006-01-02 15:04:05"), e.EventKind, e.CoinName)
	}

	portfolioLogs, err := a.portfolio.LogEntries()
	if err != nil {
		return err
	}
	for _, e := range portfolioLogs {
		fmt.Printf("[portfolio] %s  %-8s %s qty %.8f net $%.2f\n",
			e.LoggedAt.Format("2006-01-02 15:04:05"), e.EventKind, e.CoinName, e.Quantity, e.NetAmount)
	}
	return nil
}
