package pricefeed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	client := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return client, server
}

func TestGetTickerPrices(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockResponse := `[{"symbol":"BTCUSDT","price":"85937.63"},{"symbol":"ETHUSDT","price":"2400.10"}]`
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ticker/price", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(mockResponse))
		})

		client, server := setupTestServer(handler)
		defer server.Close()

		// Act
		prices, err := client.GetTickerPrices()

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "85937.63", prices["BTCUSDT"])
		assert.Equal(t, "2400.10", prices["ETHUSDT"])
	})

	t.Run("APIError", func(t *testing.T) {
		// Arrange
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code": -1001, "msg": "Internal error"}`))
		})

		client, server := setupTestServer(handler)
		defer server.Close()

		// Act
		prices, err := client.GetTickerPrices()

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get ticker prices")
		assert.Nil(t, prices)
	})
}
