package models

// Category is one entry of the fixed coin taxonomy.
// Rows are seeded at migration time with stable ids and are never
// mutated by any procedure; removal is a manual admin action.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "categories"
}

// SeedCategories is the canonical taxonomy. Ids are part of the
// persisted contract and must stay stable across re-migrations.
var SeedCategories = []Category{
	{ID: 1, Name: "AI"},
	{ID: 2, Name: "Layer 1"},
	{ID: 3, Name: "Memecoin"},
	{ID: 4, Name: "Stablecoin"},
	{ID: 5, Name: "Proof Of Work"},
	{ID: 6, Name: "Proof of Stake"},
	{ID: 7, Name: "Real World Assets"},
	{ID: 8, Name: "Decentralized Finance"},
}
