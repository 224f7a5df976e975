package models

// CoinCategory links a coin to one category. The composite unique
// index stops a coin from being classified into the same category
// twice.
type CoinCategory struct {
	ID         uint   `gorm:"primaryKey"`
	CoinTicker string `gorm:"type:varchar(10);uniqueIndex:idx_coin_category;not null"`
	CategoryID uint   `gorm:"uniqueIndex:idx_coin_category;not null"`

	Coin     Coin     `gorm:"foreignKey:CoinTicker;references:Ticker"`
	Category Category `gorm:"foreignKey:CategoryID"`
}

func (CoinCategory) TableName() string {
	return "coin_categories"
}
