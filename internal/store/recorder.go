package store

import (
	"time"

	"crypto-portfolio-go/internal/models"

	"gorm.io/gorm"
)

// Recorder appends audit rows for catalog and portfolio mutations.
// It is always invoked with the transaction of the mutation it
// records, so the log row and the change commit or roll back together.
type Recorder interface {
	// CoinEvent appends one catalog audit row.
	CoinEvent(tx *gorm.DB, coinName string, eventKind string) error

	// PortfolioEvent appends one holdings audit row, capturing the
	// quantity and net amount at the moment of the change.
	PortfolioEvent(tx *gorm.DB, coinName string, quantity, netAmount float64, eventKind string) error
}

// auditRecorder is the default Recorder. The clock is injectable so
// tests can pin timestamps.
type auditRecorder struct {
	now func() time.Time
}

// ensure auditRecorder implements the interface
var _ Recorder = (*auditRecorder)(nil)

// NewRecorder creates a Recorder stamping entries with wall-clock time.
func NewRecorder() Recorder {
	return &auditRecorder{now: time.Now}
}

func (r *auditRecorder) CoinEvent(tx *gorm.DB, coinName string, eventKind string) error {
	entry := models.CoinLog{
		LoggedAt:  r.now(),
		CoinName:  coinName,
		EventKind: eventKind,
	}
	return tx.Create(&entry).Error
}

func (r *auditRecorder) PortfolioEvent(tx *gorm.DB, coinName string, quantity, netAmount float64, eventKind string) error {
	entry := models.PortfolioLog{
		LoggedAt:  r.now(),
		CoinName:  coinName,
		Quantity:  quantity,
		NetAmount: netAmount,
		EventKind: eventKind,
	}
	return tx.Create(&entry).Error
}
