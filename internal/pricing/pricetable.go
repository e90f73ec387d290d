package pricing

import (
	"sync"
	"time"
)

// FeedPrice is one entry of the raw price feed: dual-sided base prices plus
// optional per-phase Doppler prices. Bid may be missing for sources that
// only publish asks.
type FeedPrice struct {
	Ask     *float64           `json:"ask,omitempty"`
	Bid     *float64           `json:"bid,omitempty"`
	Doppler map[string]float64 `json:"doppler,omitempty"`
}

// Provider is the price-lookup capability the resolver consumes. Lookup
// reports false when the source or the name is unknown; it never fails.
type Provider interface {
	Lookup(source MarketSource, name string, style StyleTag) (PriceQuote, bool)
}

// PriceTable is the in-memory multi-source price table, loaded from the raw
// price feed and replaced per source on every refresh. Writers are the feed
// refreshers, readers the resolution pipelines.
type PriceTable struct {
	mu       sync.RWMutex
	bySource map[MarketSource]map[string]FeedPrice
	updated  map[MarketSource]time.Time
}

func NewPriceTable() *PriceTable {
	return &PriceTable{
		bySource: make(map[MarketSource]map[string]FeedPrice),
		updated:  make(map[MarketSource]time.Time),
	}
}

// Replace swaps in a freshly fetched table for one source.
func (t *PriceTable) Replace(source MarketSource, prices map[string]FeedPrice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bySource[source] = prices
	t.updated[source] = time.Now()
}

// LastUpdate returns when the source table was last replaced, zero if never.
func (t *PriceTable) LastUpdate(source MarketSource) time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updated[source]
}

// Lookup resolves (name, style) against one source. A style with a matching
// per-phase price overrides the base ask; the bid side keeps the base value
// because the feed does not publish per-phase bids. Unknown source or name
// yields no data.
func (t *PriceTable) Lookup(source MarketSource, name string, style StyleTag) (PriceQuote, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	prices, ok := t.bySource[source]
	if !ok {
		return PriceQuote{}, false
	}
	entry, ok := prices[name]
	if !ok {
		return PriceQuote{}, false
	}

	var q PriceQuote
	if style != StyleNone {
		if phasePrice, ok := entry.Doppler[string(style)]; ok {
			q = QuoteFromFloats(phasePrice, floatOrNeg(entry.Bid), true, entry.Bid != nil)
			return q, true
		}
	}
	q = QuoteFromFloats(floatOrNeg(entry.Ask), floatOrNeg(entry.Bid), entry.Ask != nil, entry.Bid != nil)
	return q, true
}

func floatOrNeg(f *float64) float64 {
	if f == nil {
		return -1
	}
	return *f
}
