package entity

import "time"

// WatchedSymbol is a ticker on the persisted watchlist.
// Symbols with Preload set are loaded into memory when the cache is built.
type WatchedSymbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255"`
	Preload   bool      `gorm:"not null"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the gorm table name.
func (WatchedSymbol) TableName() string {
	return "watched_symbols"
}
