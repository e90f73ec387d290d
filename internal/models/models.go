package models

import (
	"time"
)

// PriceSnapshot persists one source's raw price table under its feed key
// ("prices", "prices_steam", ...) together with the refresh timestamp, so a
// restart can serve prices before the first remote refresh completes.
type PriceSnapshot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FeedKey   string    `json:"feed_key" gorm:"uniqueIndex;size:64;not null"`
	Source    string    `json:"source" gorm:"index;size:32;not null"`
	Payload   string    `json:"payload" gorm:"type:longtext"`
	FetchedAt time.Time `json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RateSnapshot is the last-known currency rate table, the fallback used
// when a remote rate refresh fails.
type RateSnapshot struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Payload    string    `json:"payload" gorm:"type:text"`
	LastUpdate time.Time `json:"last_update"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
