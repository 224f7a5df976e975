package store

import (
	"errors"
	"fmt"

	"crypto-portfolio-go/internal/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog owns the coin master data and the classification links.
// Every mutation runs in one transaction and appends its audit row
// through the recorder before committing.
type Catalog struct {
	db       *gorm.DB
	logger   *zap.Logger
	recorder Recorder
	validate *validator.Validate
}

// NewCatalog creates the catalog store.
func NewCatalog(db *gorm.DB, logger *zap.Logger, recorder Recorder) *Catalog {
	return &Catalog{
		db:       db,
		logger:   logger,
		recorder: recorder,
		validate: validator.New(),
	}
}

// CoinParams carries the full field set of a coin for add and update.
// CategoryIDs must not contain duplicates; that is the caller's
// contract, a duplicate pair fails the whole operation.
type CoinParams struct {
	Ticker       string  `validate:"required,max=10"`
	Name         string  `validate:"required"`
	LaunchPrice  float64 `validate:"gt=0"`
	CurrentPrice float64 `validate:"gte=0"`
	AllTimeLow   float64 `validate:"gte=0"`
	AllTimeHigh  float64 `validate:"gte=0"`
	CategoryIDs  []uint
}

// AddCoin inserts a new catalog coin with its classification links.
// Fails with ErrConstraintViolation when the ticker already exists or
// the launch price is not positive.
func (c *Catalog) AddCoin(params CoinParams) error {
	if err := c.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	coin := models.Coin{
		Ticker:       params.Ticker,
		Name:         params.Name,
		LaunchPrice:  params.LaunchPrice,
		CurrentPrice: params.CurrentPrice,
		AllTimeLow:   params.AllTimeLow,
		AllTimeHigh:  params.AllTimeHigh,
	}
	coin.ComputeReturnSinceLaunch()

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&coin).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: coin '%s' already exists", ErrConstraintViolation, params.Ticker)
			}
			return err
		}
		if err := c.createLinks(tx, params.Ticker, params.CategoryIDs); err != nil {
			return err
		}
		return c.recorder.CoinEvent(tx, coin.Name, models.EventAdded)
	})
	if err != nil {
		return err
	}

	c.logger.Info("Coin added to catalog",
		zap.String("ticker", coin.Ticker),
		zap.Float64("return_since_launch", coin.ReturnSinceLaunch))
	return nil
}

// UpdateCoin replaces every scalar field of an existing coin,
// recomputes the persisted return, and fully replaces the
// classification set (delete-all-then-reinsert, no merge).
// Fails with ErrNotFound when the ticker is absent.
func (c *Catalog) UpdateCoin(params CoinParams) error {
	if err := c.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var coin models.Coin
		if err := tx.First(&coin, "ticker = ?", params.Ticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: coin '%s'", ErrNotFound, params.Ticker)
			}
			return err
		}

		coin.Name = params.Name
		coin.LaunchPrice = params.LaunchPrice
		coin.CurrentPrice = params.CurrentPrice
		coin.AllTimeLow = params.AllTimeLow
		coin.AllTimeHigh = params.AllTimeHigh
		coin.ComputeReturnSinceLaunch()

		if err := tx.Save(&coin).Error; err != nil {
			return err
		}
		if err := tx.Where("coin_ticker = ?", params.Ticker).Delete(&models.CoinCategory{}).Error; err != nil {
			return err
		}
		if err := c.createLinks(tx, params.Ticker, params.CategoryIDs); err != nil {
			return err
		}
		return c.recorder.CoinEvent(tx, coin.Name, models.EventUpdated)
	})
	if err != nil {
		return err
	}

	c.logger.Info("Coin updated", zap.String("ticker", params.Ticker))
	return nil
}

// UpdatePrice applies a new spot price to a coin: refreshes the
// current price, widens the all-time low/high when exceeded, and
// recomputes the persisted return. Used by the price sync path.
func (c *Catalog) UpdatePrice(ticker string, price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrConstraintViolation)
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var coin models.Coin
		if err := tx.First(&coin, "ticker = ?", ticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: coin '%s'", ErrNotFound, ticker)
			}
			return err
		}

		coin.CurrentPrice = price
		if price < coin.AllTimeLow {
			coin.AllTimeLow = price
		}
		if price > coin.AllTimeHigh {
			coin.AllTimeHigh = price
		}
		coin.ComputeReturnSinceLaunch()

		if err := tx.Save(&coin).Error; err != nil {
			return err
		}
		return c.recorder.CoinEvent(tx, coin.Name, models.EventUpdated)
	})
	if err != nil {
		return err
	}

	c.logger.Info("Coin price updated",
		zap.String("ticker", ticker),
		zap.Float64("price", price))
	return nil
}

// RemoveCoinEverywhere deletes a coin and everything referencing it,
// in dependency order: classification links, then any holding, then
// the coin itself. Classification and holdings both reference the
// coin, so the coin row must go last. Idempotent: an absent ticker
// deletes nothing, writes no log row, and returns nil.
func (c *Catalog) RemoveCoinEverywhere(ticker string) error {
	removed := false

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var coin models.Coin
		if err := tx.First(&coin, "ticker = ?", ticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("coin_ticker = ?", ticker).Delete(&models.CoinCategory{}).Error; err != nil {
			return err
		}

		var holding models.Holding
		err := tx.First(&holding, "coin_ticker = ?", ticker).Error
		switch {
		case err == nil:
			if err := tx.Delete(&holding).Error; err != nil {
				return err
			}
			if err := c.recorder.PortfolioEvent(tx, coin.Name, holding.Holdings, holding.NetAmount(), models.EventRemoved); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Delete(&coin).Error; err != nil {
			return err
		}
		removed = true
		return c.recorder.CoinEvent(tx, coin.Name, models.EventRemoved)
	})
	if err != nil {
		return err
	}

	if removed {
		c.logger.Info("Coin removed everywhere", zap.String("ticker", ticker))
	} else {
		c.logger.Debug("Coin removal was a no-op", zap.String("ticker", ticker))
	}
	return nil
}

// GetCoin returns one catalog coin. Fails with ErrNotFound when absent.
func (c *Catalog) GetCoin(ticker string) (models.Coin, error) {
	var coin models.Coin
	if err := c.db.First(&coin, "ticker = ?", ticker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Coin{}, fmt.Errorf("%w: coin '%s'", ErrNotFound, ticker)
		}
		return models.Coin{}, err
	}
	return coin, nil
}

// ListCoins returns every catalog coin ordered by ticker.
func (c *Catalog) ListCoins() ([]models.Coin, error) {
	var coins []models.Coin
	if err := c.db.Order("ticker").Find(&coins).Error; err != nil {
		return nil, err
	}
	return coins, nil
}

// LogEntries returns the catalog audit trail, oldest first.
func (c *Catalog) LogEntries() ([]models.CoinLog, error) {
	var entries []models.CoinLog
	if err := c.db.Order("logged_at, id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Catalog) createLinks(tx *gorm.DB, ticker string, categoryIDs []uint) error {
	for _, categoryID := range categoryIDs {
		link := models.CoinCategory{CoinTicker: ticker, CategoryID: categoryID}
		if err := tx.Create(&link).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: coin '%s' is already in category %d", ErrConstraintViolation, ticker, categoryID)
			}
			return err
		}
	}
	return nil
}
