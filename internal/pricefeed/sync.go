package pricefeed

import (
	"fmt"
	"strconv"

	"crypto-portfolio-go/internal/store"

	"go.uber.org/zap"
)

// Syncer applies fetched spot prices to the catalog through the
// audited price-update procedure, so the persisted return recomputes
// and an UPDATED audit row is written per refreshed coin. It runs
// once per invocation; it is not a polling feed.
type Syncer struct {
	catalog    *store.Catalog
	client     ClientInterface
	quoteAsset string
	logger     *zap.Logger
}

// NewSyncer creates a one-shot price syncer. quoteAsset is appended
// to each ticker to form the exchange symbol, e.g. BTC + USDT.
func NewSyncer(catalog *store.Catalog, client ClientInterface, quoteAsset string, logger *zap.Logger) *Syncer {
	return &Syncer{
		catalog:    catalog,
		client:     client,
		quoteAsset: quoteAsset,
		logger:     logger,
	}
}

// Sync refreshes the current price of every catalog coin that has a
// quote on the feed. Coins without a quote are skipped with a
// warning; the refresh continues for the rest. Returns the number of
// coins updated.
func (s *Syncer) Sync() (int, error) {
	coins, err := s.catalog.ListCoins()
	if err != nil {
		return 0, fmt.Errorf("could not list catalog coins: %w", err)
	}
	if len(coins) == 0 {
		s.logger.Info("Catalog is empty, nothing to sync")
		return 0, nil
	}

	prices, err := s.client.GetTickerPrices()
	if err != nil {
		return 0, fmt.Errorf("could not get ticker prices: %w", err)
	}

	updated := 0
	for _, coin := range coins {
		symbol := coin.Ticker + s.quoteAsset
		priceStr, ok := prices[symbol]
		if !ok {
			s.logger.Warn("No quote for coin on the feed, skipping",
				zap.String("ticker", coin.Ticker),
				zap.String("symbol", symbol))
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			s.logger.Error("Failed to parse quoted price",
				zap.String("symbol", symbol),
				zap.String("price", priceStr),
				zap.Error(err))
			continue
		}

		if err := s.catalog.UpdatePrice(coin.Ticker, price); err != nil {
			s.logger.Error("Failed to apply price",
				zap.String("ticker", coin.Ticker),
				zap.Error(err))
			continue
		}
		updated++
	}

	s.logger.Info("Price sync complete",
		zap.Int("updated", updated),
		zap.Int("catalog_size", len(coins)))
	return updated, nil
}
