package models

// Holding is one portfolio position. The unique index on the ticker
// enforces at most one position per coin; it is also the backstop for
// racing AddHolding calls (see store.Portfolio.AddHolding).
type Holding struct {
	ID         uint    `gorm:"primaryKey"`
	CoinTicker string  `gorm:"type:varchar(10);uniqueIndex;not null"`
	Holdings   float64 `gorm:"not null;default:0;check:holdings >= 0"`
	EntryPrice float64 `gorm:"not null;check:entry_price > 0"`
	Notes      string

	Coin Coin `gorm:"foreignKey:CoinTicker;references:Ticker"`
}

func (Holding) TableName() string {
	return "portfolio"
}

// NetAmount is the position's cost basis, quantity times entry price.
func (h Holding) NetAmount() float64 {
	return h.Holdings * h.EntryPrice
}
