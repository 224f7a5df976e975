package store

import (
	"testing"

	"crypto-portfolio-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPortfolioWithCatalog(t *testing.T) (*gorm.DB, *Catalog, *Portfolio) {
	db := setupTest(t)
	recorder := NewRecorder()
	catalog := NewCatalog(db, zap.NewNop(), recorder)
	portfolio := NewPortfolio(db, zap.NewNop(), recorder)
	return db, catalog, portfolio
}

func ethParams() CoinParams {
	return CoinParams{
		Ticker:       "ETH",
		Name:         "Ethereum",
		LaunchPrice:  0.31,
		CurrentPrice: 2400,
		AllTimeLow:   0.31,
		AllTimeHigh:  4800,
		CategoryIDs:  []uint{2, 6},
	}
}

func TestAddHolding(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, catalog, portfolio := newPortfolioWithCatalog(t)
		require.NoError(t, catalog.AddCoin(ethParams()))

		require.NoError(t, portfolio.AddHolding(HoldingParams{
			Ticker: "ETH", Quantity: 0.33, EntryPrice: 1859, Notes: "dca entry",
		}))

		holding, err := portfolio.GetHolding("ETH")
		require.NoError(t, err)
		assert.Equal(t, 0.33, holding.Holdings)
		assert.Equal(t, 1859.0, holding.EntryPrice)

		var logs []models.PortfolioLog
		require.NoError(t, db.Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Equal(t, "Ethereum", logs[0].CoinName)
		assert.Equal(t, models.EventAdded, logs[0].EventKind)
		assert.Equal(t, 0.33, logs[0].Quantity)
		assert.InDelta(t, 613.47, logs[0].NetAmount, 0.001)
	})

	t.Run("CoinNotInCatalog", func(t *testing.T) {
		db, _, portfolio := newPortfolioWithCatalog(t)

		err := portfolio.AddHolding(HoldingParams{
			Ticker: "SOL", Quantity: 1, EntryPrice: 150,
		})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "not in the catalog")

		// Aborted with no partial effect anywhere.
		var holdings, logs int64
		db.Model(&models.Holding{}).Count(&holdings)
		db.Model(&models.PortfolioLog{}).Count(&logs)
		assert.Equal(t, int64(0), holdings)
		assert.Equal(t, int64(0), logs)
	})

	t.Run("AlreadyHeld", func(t *testing.T) {
		db, catalog, portfolio := newPortfolioWithCatalog(t)
		require.NoError(t, catalog.AddCoin(ethParams()))
		require.NoError(t, portfolio.AddHolding(HoldingParams{
			Ticker: "ETH", Quantity: 0.33, EntryPrice: 1859,
		}))

		err := portfolio.AddHolding(HoldingParams{
			Ticker: "ETH", Quantity: 1, EntryPrice: 2000,
		})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "already held")

		// Still exactly one position, untouched.
		var count int64
		db.Model(&models.Holding{}).Count(&count)
		assert.Equal(t, int64(1), count)
		holding, err := portfolio.GetHolding("ETH")
		require.NoError(t, err)
		assert.Equal(t, 0.33, holding.Holdings)
	})

	t.Run("InvalidParams", func(t *testing.T) {
		_, catalog, portfolio := newPortfolioWithCatalog(t)
		require.NoError(t, catalog.AddCoin(ethParams()))

		err := portfolio.AddHolding(HoldingParams{Ticker: "ETH", Quantity: -1, EntryPrice: 1859})
		assert.ErrorIs(t, err, ErrConstraintViolation)

		err = portfolio.AddHolding(HoldingParams{Ticker: "ETH", Quantity: 1, EntryPrice: 0})
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})
}

func TestUpdateHolding(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, catalog, portfolio := newPortfolioWithCatalog(t)
		require.NoError(t, catalog.AddCoin(ethParams()))
		require.NoError(t, portfolio.AddHolding(HoldingParams{
			Ticker: "ETH", Quantity: 0.33, EntryPrice: 1859,
		}))

		require.NoError(t, portfolio.UpdateHolding(HoldingParams{
			Ticker: "ETH", Quantity: 0.5, EntryPrice: 2000, Notes: "topped up",
		}))

		holding, err := portfolio.GetHolding("ETH")
		require.NoError(t, err)
		assert.Equal(t, 0.5, holding.Holdings)
		assert.Equal(t, "topped up", holding.Notes)

		var logs []models.PortfolioLog
		require.NoError(t, db.Order("id").Find(&logs).Error)
		require.Len(t, logs, 2)
		assert.Equal(t, models.EventUpdated, logs[1].EventKind)
		assert.InDelta(t, 1000.0, logs[1].NetAmount, 0.001)
	})

	t.Run("UnknownTickerIsSilentNoOp", func(t *testing.T) {
		db, _, portfolio := newPortfolioWithCatalog(t)

		// Contract asymmetry with AddHolding: no error, no row, no log.
		require.NoError(t, portfolio.UpdateHolding(HoldingParams{
			Ticker: "SOL", Quantity: 1, EntryPrice: 150,
		}))

		var holdings, logs int64
		db.Model(&models.Holding{}).Count(&holdings)
		db.Model(&models.PortfolioLog{}).Count(&logs)
		assert.Equal(t, int64(0), holdings)
		assert.Equal(t, int64(0), logs)
	})
}

func TestRemoveHolding(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, catalog, portfolio := newPortfolioWithCatalog(t)
		require.NoError(t, catalog.AddCoin(ethParams()))
		require.NoError(t, portfolio.AddHolding(HoldingParams{
			Ticker: "ETH", Quantity: 0.33, EntryPrice: 1859,
		}))

		require.NoError(t, portfolio.RemoveHolding("ETH"))

		_, err := portfolio.GetHolding("ETH")
		assert.ErrorIs(t, err, ErrNotFound)

		var logs []models.PortfolioLog
		require.NoError(t, db.Order("id").Find(&logs).Error)
		require.Len(t, logs, 2)
		assert.Equal(t, models.EventRemoved, logs[1].EventKind)
		assert.Equal(t, 0.33, logs[1].Quantity)
		assert.InDelta(t, 613.47, logs[1].NetAmount, 0.001)
	})

	t.Run("NoOpOnMissingTicker", func(t *testing.T) {
		db, _, portfolio := newPortfolioWithCatalog(t)

		require.NoError(t, portfolio.RemoveHolding("SOL"))

		var logs int64
		db.Model(&models.PortfolioLog{}).Count(&logs)
		assert.Equal(t, int64(0), logs)
	})
}

func TestOnePositionPerCoinInvariant(t *testing.T) {
	// The unique index is the backstop below the explicit check:
	// inserting a second row directly must fail at the store level.
	db, catalog, portfolio := newPortfolioWithCatalog(t)
	require.NoError(t, catalog.AddCoin(ethParams()))
	require.NoError(t, portfolio.AddHolding(HoldingParams{
		Ticker: "ETH", Quantity: 0.33, EntryPrice: 1859,
	}))

	err := db.Create(&models.Holding{CoinTicker: "ETH", Holdings: 1, EntryPrice: 2000}).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}
