// Package currency resolves a user's display currency to a multiplicative
// rate against USD from a periodically refreshed rate table.
package currency

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RateTable maps currency codes to their rate relative to USD = 1.
type RateTable struct {
	LastUpdate time.Time          `json:"lastUpdate"`
	Rates      map[string]float64 `json:"rates"`
}

// RateFetcher pulls a fresh table from the remote currency feed.
type RateFetcher interface {
	FetchRates(ctx context.Context) (RateTable, error)
}

// RateStore persists the last-known table so a failed remote refresh can
// fall back to a snapshot instead of the bundled defaults.
type RateStore interface {
	SaveRates(table RateTable) error
	LoadRates() (RateTable, error)
}

// Converter answers rate lookups from the current table. Direction is fixed
// repo-wide: multiplying a USD amount by RateFor(code) converts to code;
// dividing a code amount by RateFor(code) converts to USD. Call sites must
// not mix directions.
type Converter struct {
	mu      sync.RWMutex
	table   RateTable
	fetcher RateFetcher
	store   RateStore
	log     *logrus.Entry
}

// NewConverter starts from the bundled default table; Refresh replaces it.
// fetcher and store may be nil, in which case the defaults simply stick.
func NewConverter(fetcher RateFetcher, store RateStore, log *logrus.Entry) *Converter {
	return &Converter{
		table:   defaultRateTable(),
		fetcher: fetcher,
		store:   store,
		log:     log,
	}
}

// RateFor returns the multiplicative rate for a currency code. USD, unknown
// codes and non-positive table values all yield 1, so the caller can always
// multiply or divide without guarding.
func (c *Converter) RateFor(code string) float64 {
	if code == "" || code == "USD" {
		return 1
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.table.Rates[code]
	if !ok || rate <= 0 {
		return 1
	}
	return rate
}

// ToCurrency converts a USD amount into the given display currency.
func (c *Converter) ToCurrency(usd decimal.Decimal, code string) decimal.Decimal {
	return usd.Mul(decimal.NewFromFloat(c.RateFor(code)))
}

// ToUSD converts an amount denominated in code back to USD.
func (c *Converter) ToUSD(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Div(decimal.NewFromFloat(c.RateFor(code)))
}

// LastUpdate reports the timestamp of the active table.
func (c *Converter) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table.LastUpdate
}

// Table returns a copy of the active rate table.
func (c *Converter) Table() RateTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rates := make(map[string]float64, len(c.table.Rates))
	for code, rate := range c.table.Rates {
		rates[code] = rate
	}
	return RateTable{LastUpdate: c.table.LastUpdate, Rates: rates}
}

// Refresh replaces the table from the remote feed, persisting the result.
// On failure it falls back to the stored snapshot and, failing that, keeps
// whatever table is already active. Refresh never hard-fails the caller.
func (c *Converter) Refresh(ctx context.Context) {
	if c.fetcher == nil {
		return
	}
	table, err := c.fetcher.FetchRates(ctx)
	if err == nil && len(table.Rates) > 0 {
		c.swap(table)
		if c.store != nil {
			if err := c.store.SaveRates(table); err != nil && c.log != nil {
				c.log.WithError(err).Warn("failed to persist currency rates")
			}
		}
		return
	}
	if c.log != nil {
		c.log.WithError(err).Warn("currency refresh failed, falling back to snapshot")
	}
	if c.store == nil {
		return
	}
	snapshot, err := c.store.LoadRates()
	if err != nil || len(snapshot.Rates) == 0 {
		return
	}
	c.swap(snapshot)
}

func (c *Converter) swap(table RateTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table
}

// RunRefresher refreshes on the given cadence until ctx is done.
func (c *Converter) RunRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}
