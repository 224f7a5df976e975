package store

import (
	"errors"
	"fmt"

	"crypto-portfolio-go/internal/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Portfolio owns the holdings of the single tracked portfolio. Each
// holding references a catalog coin by ticker without owning it:
// existence is checked at write time, removal is handled by the
// catalog's cascading procedure.
type Portfolio struct {
	db       *gorm.DB
	logger   *zap.Logger
	recorder Recorder
	validate *validator.Validate
}

// NewPortfolio creates the holdings store.
func NewPortfolio(db *gorm.DB, logger *zap.Logger, recorder Recorder) *Portfolio {
	return &Portfolio{
		db:       db,
		logger:   logger,
		recorder: recorder,
		validate: validator.New(),
	}
}

// HoldingParams carries the field set of a position for add and update.
type HoldingParams struct {
	Ticker     string  `validate:"required,max=10"`
	Quantity   float64 `validate:"gte=0"`
	EntryPrice float64 `validate:"gt=0"`
	Notes      string
}

// AddHolding opens a position. Two preconditions are checked inside
// the same transaction as the insert: the coin must exist in the
// catalog, and no position for it may exist yet. sqlite serializes
// writing transactions, and the unique index on the ticker is the
// backstop for any racing add: a duplicate-key failure on commit is
// reported as the same ErrValidation as the explicit check.
func (p *Portfolio) AddHolding(params HoldingParams) error {
	if err := p.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var coin models.Coin
		if err := tx.First(&coin, "ticker = ?", params.Ticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: coin '%s' is not in the catalog, add it first", ErrValidation, params.Ticker)
			}
			return err
		}

		var existing models.Holding
		err := tx.First(&existing, "coin_ticker = ?", params.Ticker).Error
		if err == nil {
			return fmt.Errorf("%w: coin '%s' is already held, use update instead", ErrValidation, params.Ticker)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		holding := models.Holding{
			CoinTicker: params.Ticker,
			Holdings:   params.Quantity,
			EntryPrice: params.EntryPrice,
			Notes:      params.Notes,
		}
		if err := tx.Create(&holding).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: coin '%s' is already held, use update instead", ErrValidation, params.Ticker)
			}
			return err
		}
		return p.recorder.PortfolioEvent(tx, coin.Name, holding.Holdings, holding.NetAmount(), models.EventAdded)
	})
	if err != nil {
		return err
	}

	p.logger.Info("Holding added",
		zap.String("ticker", params.Ticker),
		zap.Float64("quantity", params.Quantity),
		zap.Float64("entry_price", params.EntryPrice))
	return nil
}

// UpdateHolding replaces the quantity, entry price and notes of the
// position for the given ticker. A ticker that is not held is a
// silent no-op, unlike AddHolding's strict checks; callers wanting
// confirmation must check first. No log row is written for a no-op.
func (p *Portfolio) UpdateHolding(params HoldingParams) error {
	if err := p.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	updated := false

	err := p.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Holding{}).
			Where("coin_ticker = ?", params.Ticker).
			Updates(map[string]interface{}{
				"holdings":    params.Quantity,
				"entry_price": params.EntryPrice,
				"notes":       params.Notes,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		updated = true

		var coin models.Coin
		if err := tx.First(&coin, "ticker = ?", params.Ticker).Error; err != nil {
			return err
		}
		return p.recorder.PortfolioEvent(tx, coin.Name, params.Quantity, params.Quantity*params.EntryPrice, models.EventUpdated)
	})
	if err != nil {
		return err
	}

	if updated {
		p.logger.Info("Holding updated",
			zap.String("ticker", params.Ticker),
			zap.Float64("quantity", params.Quantity))
	} else {
		p.logger.Debug("Holding update was a no-op", zap.String("ticker", params.Ticker))
	}
	return nil
}

// RemoveHolding closes the position for the given ticker. A ticker
// that is not held is a no-op. The audit row captures the quantity
// and net amount the position had at removal.
func (p *Portfolio) RemoveHolding(ticker string) error {
	removed := false

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var holding models.Holding
		if err := tx.First(&holding, "coin_ticker = ?", ticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var coin models.Coin
		if err := tx.First(&coin, "ticker = ?", ticker).Error; err != nil {
			return err
		}

		if err := tx.Delete(&holding).Error; err != nil {
			return err
		}
		removed = true
		return p.recorder.PortfolioEvent(tx, coin.Name, holding.Holdings, holding.NetAmount(), models.EventRemoved)
	})
	if err != nil {
		return err
	}

	if removed {
		p.logger.Info("Holding removed", zap.String("ticker", ticker))
	} else {
		p.logger.Debug("Holding removal was a no-op", zap.String("ticker", ticker))
	}
	return nil
}

// GetHolding returns the position for one ticker. Fails with
// ErrNotFound when the coin is not held.
func (p *Portfolio) GetHolding(ticker string) (models.Holding, error) {
	var holding models.Holding
	if err := p.db.First(&holding, "coin_ticker = ?", ticker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Holding{}, fmt.Errorf("%w: holding '%s'", ErrNotFound, ticker)
		}
		return models.Holding{}, err
	}
	return holding, nil
}

// ListHoldings returns every position ordered by ticker.
func (p *Portfolio) ListHoldings() ([]models.Holding, error) {
	var holdings []models.Holding
	if err := p.db.Order("coin_ticker").Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// LogEntries returns the holdings audit trail, oldest first.
func (p *Portfolio) LogEntries() ([]models.PortfolioLog, error) {
	var entries []models.PortfolioLog
	if err := p.db.Order("logged_at, id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
