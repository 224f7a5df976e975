package pricefeed

import (
	"context"
	"fmt"

	"crypto-portfolio-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientInterface defines the surface of the spot price client.
type ClientInterface interface {
	GetTickerPrices() (map[string]string, error)
}

// Client fetches spot prices from a public exchange ticker endpoint.
// It implements the ClientInterface.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new spot price client.
func NewClient(cfg *config.PriceFeed, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// tickerPrice is one entry of the /ticker/price response.
type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetTickerPrices fetches the spot price of every listed symbol and
// returns them keyed by symbol, prices as decimal strings.
func (c *Client) GetTickerPrices() (map[string]string, error) {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var tickers []tickerPrice
	resp, err := c.client.R().
		SetResult(&tickers).
		Get("/ticker/price")
	if err != nil {
		c.logger.Error("Failed to get ticker prices", zap.Error(err))
		return nil, fmt.Errorf("failed to get ticker prices: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Ticker price request failed",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, fmt.Errorf("failed to get ticker prices: request failed with status %d", resp.StatusCode())
	}

	prices := make(map[string]string, len(tickers))
	for _, t := range tickers {
		prices[t.Symbol] = t.Price
	}
	return prices, nil
}
