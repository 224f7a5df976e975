package models

import "time"

// Audit event kinds shared by both logs.
const (
	EventAdded   = "ADDED"
	EventUpdated = "UPDATED"
	EventRemoved = "REMOVED"
)

// CoinLog is one append-only catalog audit entry. The coin name is
// denormalized on purpose: the entry must stay meaningful after the
// coin itself is renamed or removed. Rows are written only by the
// change-capture recorder, never updated or deleted.
type CoinLog struct {
	ID        uint      `gorm:"primaryKey"`
	LoggedAt  time.Time `gorm:"not null"`
	CoinName  string    `gorm:"not null"`
	EventKind string    `gorm:"type:varchar(10);not null"`
}

func (CoinLog) TableName() string {
	return "coin_logs"
}
