// Package storage persists price-feed and currency snapshots so the engine
// can come back up with last-known data before any remote refresh.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skincompass/internal/currency"
	"skincompass/internal/models"
	"skincompass/internal/pricing"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FeedKey is the storage key for one source's price table: "prices" for the
// primary Buff table, "prices_<source>" for everything else.
func FeedKey(source pricing.MarketSource) string {
	if source == pricing.SourceBuff {
		return "prices"
	}
	return "prices_" + string(source)
}

// SavePriceTable upserts one source's full price table.
func (s *Store) SavePriceTable(source pricing.MarketSource, prices map[string]pricing.FeedPrice, fetchedAt time.Time) error {
	payload, err := json.Marshal(prices)
	if err != nil {
		return fmt.Errorf("failed to marshal price table: %w", err)
	}
	snap := models.PriceSnapshot{
		FeedKey:   FeedKey(source),
		Source:    string(source),
		Payload:   string(payload),
		FetchedAt: fetchedAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feed_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at", "updated_at"}),
	}).Create(&snap).Error
}

// LoadPriceTable returns the persisted table for one source and when it was
// fetched. A missing snapshot is reported via gorm.ErrRecordNotFound.
func (s *Store) LoadPriceTable(source pricing.MarketSource) (map[string]pricing.FeedPrice, time.Time, error) {
	var snap models.PriceSnapshot
	if err := s.db.Where("feed_key = ?", FeedKey(source)).First(&snap).Error; err != nil {
		return nil, time.Time{}, err
	}
	var prices map[string]pricing.FeedPrice
	if err := json.Unmarshal([]byte(snap.Payload), &prices); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode price snapshot %s: %w", snap.FeedKey, err)
	}
	return prices, snap.FetchedAt, nil
}

// SaveRates keeps a single latest rate-table row.
func (s *Store) SaveRates(table currency.RateTable) error {
	payload, err := json.Marshal(table.Rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rate table: %w", err)
	}
	snap := models.RateSnapshot{
		ID:         1,
		Payload:    string(payload),
		LastUpdate: table.LastUpdate,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "last_update", "updated_at"}),
	}).Create(&snap).Error
}

// LoadRates restores the persisted rate table.
func (s *Store) LoadRates() (currency.RateTable, error) {
	var snap models.RateSnapshot
	if err := s.db.First(&snap, 1).Error; err != nil {
		return currency.RateTable{}, err
	}
	var rates map[string]float64
	if err := json.Unmarshal([]byte(snap.Payload), &rates); err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to decode rate snapshot: %w", err)
	}
	return currency.RateTable{LastUpdate: snap.LastUpdate, Rates: rates}, nil
}
