package models

import "time"

// PortfolioLog is one append-only holdings audit entry. Quantity and
// net amount are captured at the moment of the change, so the trail
// survives later edits or removal of the position.
type PortfolioLog struct {
	ID        uint      `gorm:"primaryKey"`
	LoggedAt  time.Time `gorm:"not null"`
	CoinName  string    `gorm:"not null"`
	Quantity  float64   `gorm:"not null"`
	NetAmount float64   `gorm:"not null"`
	EventKind string    `gorm:"type:varchar(10);not null"`
}

func (PortfolioLog) TableName() string {
	return "portfolio_logs"
}
