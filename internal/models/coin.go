package models

// Coin is one catalog entry. The ticker is the natural key: crypto
// tickers are globally unique and human-meaningful, so no surrogate
// id is needed.
type Coin struct {
	Ticker            string  `gorm:"primaryKey;type:varchar(10)"`
	Name              string  `gorm:"not null"`
	LaunchPrice       float64 `gorm:"not null"`
	CurrentPrice      float64 `gorm:"not null"`
	AllTimeLow        float64
	AllTimeHigh       float64
	ReturnSinceLaunch float64
}

func (Coin) TableName() string {
	return "coins"
}

// ComputeReturnSinceLaunch refreshes the persisted derived return.
// Callers must guarantee LaunchPrice > 0 before invoking.
func (c *Coin) ComputeReturnSinceLaunch() {
	c.ReturnSinceLaunch = (c.CurrentPrice/c.LaunchPrice)*100 - 100
}
