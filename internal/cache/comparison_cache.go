package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"skincompass/internal/pricing"
)

// ComparisonTTL is how long a multi-market comparison entry stays fresh.
const ComparisonTTL = 15 * time.Minute

// DefaultFreeSources is the subset of market sources kept for callers
// without an authenticated steam id.
var DefaultFreeSources = map[pricing.MarketSource]bool{
	pricing.SourceBuff:     true,
	pricing.SourceSteam:    true,
	pricing.SourceYouPin:   true,
	pricing.SourceSkinport: true,
}

// ComparisonFetcher fetches the multi-market quote map for one canonical
// name from the remote pricing API. steamID may be empty.
type ComparisonFetcher interface {
	FetchComparison(ctx context.Context, buffName, steamID string) (map[pricing.MarketSource]pricing.PriceQuote, error)
}

// ComparisonResult is what GetOrFetch hands back: the quote map plus
// whether it was served from cache.
type ComparisonResult struct {
	Data      map[pricing.MarketSource]pricing.PriceQuote
	FromCache bool
}

type comparisonEntry struct {
	data      map[pricing.MarketSource]pricing.PriceQuote
	timestamp time.Time
}

// ComparisonCache is the process-lifetime TTL cache of multi-market price
// comparisons, keyed by canonical buff name only. Style is deliberately not
// part of the key; see DESIGN.md. Entries are immutable once written and
// replaced wholesale on refresh. Entry count is unbounded: distinct item
// names are a bounded domain.
type ComparisonCache struct {
	mu          sync.RWMutex
	entries     map[string]comparisonEntry
	fetcher     ComparisonFetcher
	group       singleflight.Group
	ttl         time.Duration
	freeSources map[pricing.MarketSource]bool
	now         func() time.Time
}

func NewComparisonCache(fetcher ComparisonFetcher) *ComparisonCache {
	return &ComparisonCache{
		entries:     make(map[string]comparisonEntry),
		fetcher:     fetcher,
		ttl:         ComparisonTTL,
		freeSources: DefaultFreeSources,
		now:         time.Now,
	}
}

type fetchOutcome struct {
	data      map[pricing.MarketSource]pricing.PriceQuote
	fromCache bool
}

// GetOrFetch returns the comparison map for buffName, fetching from the
// remote API on a miss or an expired entry. Concurrent misses for the same
// name are coalesced into one fetch. A failed fetch returns an empty map
// and the error, and is never cached, so the next call retries instead of
// sticking with a poisoned empty entry. The cache always holds the full
// response; unauthenticated callers (empty steamID) get the entry narrowed
// to the free market sources on every read, so a shared entry never leaks
// paid sources across tiers.
func (c *ComparisonCache) GetOrFetch(ctx context.Context, buffName, steamID string) (ComparisonResult, error) {
	c.mu.RLock()
	entry, ok := c.entries[buffName]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.timestamp) < c.ttl {
		return c.resultFor(entry.data, steamID, true), nil
	}

	v, err, _ := c.group.Do(buffName, func() (interface{}, error) {
		// Another caller may have filled the entry while we queued.
		c.mu.RLock()
		entry, ok := c.entries[buffName]
		c.mu.RUnlock()
		if ok && c.now().Sub(entry.timestamp) < c.ttl {
			return fetchOutcome{data: entry.data, fromCache: true}, nil
		}

		data, err := c.fetcher.FetchComparison(ctx, buffName, steamID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[buffName] = comparisonEntry{data: data, timestamp: c.now()}
		c.mu.Unlock()
		return fetchOutcome{data: data}, nil
	})
	if err != nil {
		return ComparisonResult{Data: map[pricing.MarketSource]pricing.PriceQuote{}}, err
	}
	outcome := v.(fetchOutcome)
	return c.resultFor(outcome.data, steamID, outcome.fromCache), nil
}

func (c *ComparisonCache) resultFor(data map[pricing.MarketSource]pricing.PriceQuote, steamID string, fromCache bool) ComparisonResult {
	if steamID == "" {
		data = c.filterFree(data)
	}
	return ComparisonResult{Data: data, FromCache: fromCache}
}

func (c *ComparisonCache) filterFree(data map[pricing.MarketSource]pricing.PriceQuote) map[pricing.MarketSource]pricing.PriceQuote {
	filtered := make(map[pricing.MarketSource]pricing.PriceQuote, len(c.freeSources))
	for source, quote := range data {
		if c.freeSources[source] {
			filtered[source] = quote
		}
	}
	return filtered
}
