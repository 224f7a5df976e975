package reports

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"crypto-portfolio-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reporter computes the read-only derived views. Everything is
// recomputed from current store state on every call; nothing is
// cached or materialized. Reads never raise business errors, an
// empty store simply yields empty results.
type Reporter struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReporter creates the reporting layer over the shared store.
func NewReporter(db *gorm.DB, logger *zap.Logger) *Reporter {
	return &Reporter{db: db, logger: logger}
}

// CoinView is one formatted catalog row. Monetary fields carry a "$"
// prefix, the persisted return a "%" suffix, and the categories are
// collapsed into a single comma-joined label.
type CoinView struct {
	Ticker            string
	Name              string
	Categories        string
	LaunchPrice       string
	CurrentPrice      string
	AllTimeLow        string
	AllTimeHigh       string
	ReturnSinceLaunch string
}

// HoldingView is one portfolio row with its live derived values.
// CurrentValue is holdings x current price at two decimals; ROI is
// computed live from the entry price and never persisted.
type HoldingView struct {
	Ticker       string
	Name         string
	Categories   string
	Quantity     float64
	EntryPrice   float64
	CurrentPrice float64
	CurrentValue float64
	ROI          float64
	Notes        string
}

// CatalogView returns one formatted row per catalog coin, ordered by
// ticker.
func (r *Reporter) CatalogView() ([]CoinView, error) {
	var coins []models.Coin
	if err := r.db.Order("ticker").Find(&coins).Error; err != nil {
		return nil, err
	}

	labels, err := r.categoryLabels()
	if err != nil {
		return nil, err
	}

	views := make([]CoinView, 0, len(coins))
	for _, coin := range coins {
		views = append(views, CoinView{
			Ticker:            coin.Ticker,
			Name:              coin.Name,
			Categories:        labels[coin.Ticker],
			LaunchPrice:       money(coin.LaunchPrice),
			CurrentPrice:      money(coin.CurrentPrice),
			AllTimeLow:        money(coin.AllTimeLow),
			AllTimeHigh:       money(coin.AllTimeHigh),
			ReturnSinceLaunch: percent(coin.ReturnSinceLaunch),
		})
	}
	return views, nil
}

// PortfolioView returns one row per holding ordered by ticker. A coin
// classified into several categories still yields a single row, with
// the categories collapsed into one label.
func (r *Reporter) PortfolioView() ([]HoldingView, error) {
	holdings, err := r.holdingsWithCoins()
	if err != nil {
		return nil, err
	}

	labels, err := r.categoryLabels()
	if err != nil {
		return nil, err
	}

	views := make([]HoldingView, 0, len(holdings))
	for _, h := range holdings {
		views = append(views, HoldingView{
			Ticker:       h.CoinTicker,
			Name:         h.Coin.Name,
			Categories:   labels[h.CoinTicker],
			Quantity:     h.Holdings,
			EntryPrice:   h.EntryPrice,
			CurrentPrice: h.Coin.CurrentPrice,
			CurrentValue: round2(h.Holdings * h.Coin.CurrentPrice),
			ROI:          roi(h.Coin.CurrentPrice, h.EntryPrice),
			Notes:        h.Notes,
		})
	}
	return views, nil
}

// TotalInvested is the capital put in: sum of holdings x entry price.
func (r *Reporter) TotalInvested() (float64, error) {
	holdings, err := r.holdingsWithCoins()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, h := range holdings {
		total += h.Holdings * h.EntryPrice
	}
	return round2(total), nil
}

// TotalGains is the difference between current value and invested
// capital across the whole portfolio.
func (r *Reporter) TotalGains() (float64, error) {
	holdings, err := r.holdingsWithCoins()
	if err != nil {
		return 0, err
	}
	current, invested := 0.0, 0.0
	for _, h := range holdings {
		current += h.Holdings * h.Coin.CurrentPrice
		invested += h.Holdings * h.EntryPrice
	}
	return round2(current - invested), nil
}

// TotalValue is current value plus cost basis, summed across the
// portfolio. The formula is part of the persisted reporting contract
// and kept exactly as is; callers wanting plain current value can
// combine TotalInvested and TotalGains.
func (r *Reporter) TotalValue() (float64, error) {
	holdings, err := r.holdingsWithCoins()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, h := range holdings {
		total += h.Holdings*h.Coin.CurrentPrice + h.Holdings*h.EntryPrice
	}
	return round2(total), nil
}

// BestPerformer returns the holding with the highest live ROI. Equal
// ROI resolves by ticker ascending, so repeated reads agree. The
// second return is false when the portfolio is empty.
func (r *Reporter) BestPerformer() (HoldingView, bool, error) {
	return r.rankedPerformer(true)
}

// WorstPerformer returns the holding with the lowest live ROI, same
// tie-break as BestPerformer.
func (r *Reporter) WorstPerformer() (HoldingView, bool, error) {
	return r.rankedPerformer(false)
}

func (r *Reporter) rankedPerformer(best bool) (HoldingView, bool, error) {
	views, err := r.PortfolioView()
	if err != nil {
		return HoldingView{}, false, err
	}
	if len(views) == 0 {
		return HoldingView{}, false, nil
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].ROI != views[j].ROI {
			if best {
				return views[i].ROI > views[j].ROI
			}
			return views[i].ROI < views[j].ROI
		}
		return views[i].Ticker < views[j].Ticker
	})
	return views[0], true, nil
}

func (r *Reporter) holdingsWithCoins() ([]models.Holding, error) {
	var holdings []models.Holding
	if err := r.db.Preload("Coin").Order("coin_ticker").Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// categoryLabels builds the comma-joined category label per ticker,
// with categories in seed-id order.
func (r *Reporter) categoryLabels() (map[string]string, error) {
	var links []models.CoinCategory
	if err := r.db.Preload("Category").Order("coin_ticker, category_id").Find(&links).Error; err != nil {
		return nil, err
	}

	names := make(map[string][]string)
	for _, link := range links {
		names[link.CoinTicker] = append(names[link.CoinTicker], link.Category.Name)
	}

	labels := make(map[string]string, len(names))
	for ticker, list := range names {
		labels[ticker] = strings.Join(list, ", ")
	}
	return labels, nil
}

func roi(currentPrice, entryPrice float64) float64 {
	return (currentPrice/entryPrice)*100 - 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// money keeps the full precision of the stored price; launch prices
// can sit far below one cent.
func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
