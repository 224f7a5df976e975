package pricefeed

import (
	"errors"
	"testing"

	"crypto-portfolio-go/internal/database"
	"crypto-portfolio-go/internal/models"
	"crypto-portfolio-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockClient is a mock implementation of the ClientInterface.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetTickerPrices() (map[string]string, error) {
	args := m.Called()
	return args.Get(0).(map[string]string), args.Error(1)
}

func setupSyncTest(t *testing.T) (*gorm.DB, *store.Catalog, *MockClient) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	catalog := store.NewCatalog(db, zap.NewNop(), store.NewRecorder())
	return db, catalog, new(MockClient)
}

func TestSync(t *testing.T) {
	t.Run("AppliesPricesThroughAuditedUpdate", func(t *testing.T) {
		db, catalog, mockClient := setupSyncTest(t)
		require.NoError(t, catalog.AddCoin(store.CoinParams{
			Ticker: "BTC", Name: "Bitcoin", LaunchPrice: 0.002, CurrentPrice: 80000,
			AllTimeLow: 0.002, AllTimeHigh: 108000, CategoryIDs: []uint{5},
		}))

		mockClient.On("GetTickerPrices").Return(map[string]string{
			"BTCUSDT": "85937.63",
		}, nil)

		syncer := NewSyncer(catalog, mockClient, "USDT", zap.NewNop())
		updated, err := syncer.Sync()

		require.NoError(t, err)
		assert.Equal(t, 1, updated)
		mockClient.AssertExpectations(t)

		coin, err := catalog.GetCoin("BTC")
		require.NoError(t, err)
		assert.Equal(t, 85937.63, coin.CurrentPrice)
		assert.InDelta(t, 4296881400.0, coin.ReturnSinceLaunch, 1.0)

		// One ADDED from the seed, one UPDATED from the sync.
		var logs []models.CoinLog
		require.NoError(t, db.Order("id").Find(&logs).Error)
		require.Len(t, logs, 2)
		assert.Equal(t, models.EventUpdated, logs[1].EventKind)
	})

	t.Run("SkipsCoinsWithoutQuote", func(t *testing.T) {
		_, catalog, mockClient := setupSyncTest(t)
		require.NoError(t, catalog.AddCoin(store.CoinParams{
			Ticker: "OBSCURE", Name: "Obscure", LaunchPrice: 1, CurrentPrice: 2,
		}))

		mockClient.On("GetTickerPrices").Return(map[string]string{}, nil)

		syncer := NewSyncer(catalog, mockClient, "USDT", zap.NewNop())
		updated, err := syncer.Sync()

		require.NoError(t, err)
		assert.Equal(t, 0, updated)

		coin, err := catalog.GetCoin("OBSCURE")
		require.NoError(t, err)
		assert.Equal(t, 2.0, coin.CurrentPrice)
	})

	t.Run("EmptyCatalogSkipsFeedCall", func(t *testing.T) {
		_, catalog, mockClient := setupSyncTest(t)

		syncer := NewSyncer(catalog, mockClient, "USDT", zap.NewNop())
		updated, err := syncer.Sync()

		require.NoError(t, err)
		assert.Equal(t, 0, updated)
		mockClient.AssertNotCalled(t, "GetTickerPrices")
	})

	t.Run("FeedError", func(t *testing.T) {
		_, catalog, mockClient := setupSyncTest(t)
		require.NoError(t, catalog.AddCoin(store.CoinParams{
			Ticker: "BTC", Name: "Bitcoin", LaunchPrice: 0.002, CurrentPrice: 80000,
		}))

		mockClient.On("GetTickerPrices").Return(map[string]string{}, errors.New("feed down"))

		syncer := NewSyncer(catalog, mockClient, "USDT", zap.NewNop())
		_, err := syncer.Sync()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "feed down")
	})
}
