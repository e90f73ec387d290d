package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

// stubProvider serves canned quotes per (source, name).
type stubProvider struct {
	quotes map[MarketSource]map[string]PriceQuote
}

func (p *stubProvider) Lookup(source MarketSource, name string, style StyleTag) (PriceQuote, bool) {
	bySource, ok := p.quotes[source]
	if !ok {
		return PriceQuote{}, false
	}
	q, ok := bySource[name]
	return q, ok
}

func quote(listing, order float64) PriceQuote {
	return QuoteFromFloats(listing, order, true, true)
}

func TestResolvePrimaryHit(t *testing.T) {
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{
		SourceBuff: {"AK-47 | Redline (Field-Tested)": quote(10.5, 9.8)},
	}})

	got := r.Resolve(CanonicalItem{BuffName: "AK-47 | Redline (Field-Tested)"}, SourceBuff, SourceNone)
	if got.Listing == nil || !got.Listing.Equal(decimal.NewFromFloat(10.5)) {
		t.Fatalf("Listing=%v, want 10.5", got.Listing)
	}
	if got.Order == nil || !got.Order.Equal(decimal.NewFromFloat(9.8)) {
		t.Fatalf("Order=%v, want 9.8", got.Order)
	}
}

func TestResolveFallbackOnAbsent(t *testing.T) {
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{
		SourceSteam: {"Glock-18 | Fade (Factory New)": quote(400, 380)},
	}})

	got := r.Resolve(CanonicalItem{BuffName: "Glock-18 | Fade (Factory New)"}, SourceBuff, SourceSteam)
	if got.Listing == nil || !got.Listing.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("fallback not taken, got %+v", got)
	}
}

func TestResolveFallbackOnAllZero(t *testing.T) {
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{
		SourceYouPin: {"P250 | Sand Dune (Field-Tested)": quote(0, 0)},
		SourceSteam:  {"P250 | Sand Dune (Field-Tested)": quote(0.03, 0.01)},
	}})

	got := r.Resolve(CanonicalItem{BuffName: "P250 | Sand Dune (Field-Tested)"}, SourceYouPin, SourceSteam)
	if got.Listing == nil || !got.Listing.Equal(decimal.NewFromFloat(0.03)) {
		t.Fatalf("fallback not taken on all-zero quote, got %+v", got)
	}
}

func TestResolveSingleFallbackHop(t *testing.T) {
	// Alt source has no data either: result stays absent, no chaining.
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{}})

	got := r.Resolve(CanonicalItem{BuffName: "AWP | Asiimov (Field-Tested)"}, SourceBuff, SourceSkinport)
	if !got.Absent() {
		t.Fatalf("got %+v, want absent", got)
	}
}

func TestResolveNoFallbackWhenAltNone(t *testing.T) {
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{
		SourceSteam: {"AWP | Asiimov (Field-Tested)": quote(90, 85)},
	}})

	got := r.Resolve(CanonicalItem{BuffName: "AWP | Asiimov (Field-Tested)"}, SourceBuff, SourceNone)
	if !got.Absent() {
		t.Fatalf("fallback taken despite alt=none, got %+v", got)
	}
}

func TestResolveBannedShortCircuitsFallback(t *testing.T) {
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{
		SourceBuff:  {"M4A4 | Howl (Field-Tested)": quote(2400, 2200)},
		SourceSteam: {"M4A4 | Howl (Field-Tested)": quote(2600, 2500)},
	}})

	got := r.Resolve(CanonicalItem{BuffName: "M4A4 | Howl (Field-Tested)"}, SourceBuff, SourceSteam)
	if got.Listing == nil || got.Order == nil {
		t.Fatalf("banned quote must be a known zero, got %+v", got)
	}
	if !got.Listing.IsZero() || !got.Order.IsZero() {
		t.Fatalf("banned quote not zeroed: %v/%v", got.Listing, got.Order)
	}
}

func TestResolveBanOnlyAppliesToBuff(t *testing.T) {
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{
		SourceSteam: {"M4A4 | Howl (Field-Tested)": quote(2600, 2500)},
	}})

	got := r.Resolve(CanonicalItem{BuffName: "M4A4 | Howl (Field-Tested)"}, SourceSteam, SourceNone)
	if got.Listing == nil || !got.Listing.Equal(decimal.NewFromInt(2600)) {
		t.Fatalf("Steam lookup affected by Buff ban list: %+v", got)
	}
}

func TestResolveUnknownSourceYieldsAbsent(t *testing.T) {
	r := NewResolver(&stubProvider{quotes: map[MarketSource]map[string]PriceQuote{}})
	got := r.Resolve(CanonicalItem{BuffName: "whatever"}, MarketSource("bogus"), SourceNone)
	if !got.Absent() {
		t.Fatalf("got %+v, want absent", got)
	}
}

func TestPriceTableStyleLookup(t *testing.T) {
	table := NewPriceTable()
	ask := 1200.0
	bid := 1100.0
	table.Replace(SourceBuff, map[string]FeedPrice{
		"★ Karambit | Doppler (Factory New)": {
			Ask: &ask,
			Bid: &bid,
			Doppler: map[string]float64{
				"Phase 2":  1500,
				"Sapphire": 9000,
			},
		},
	})

	q, ok := table.Lookup(SourceBuff, "★ Karambit | Doppler (Factory New)", StyleSapphire)
	if !ok || q.Listing == nil || !q.Listing.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("sapphire lookup got %+v ok=%v", q, ok)
	}

	q, ok = table.Lookup(SourceBuff, "★ Karambit | Doppler (Factory New)", StyleNone)
	if !ok || q.Listing == nil || !q.Listing.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("base lookup got %+v ok=%v", q, ok)
	}

	if _, ok := table.Lookup(SourceSkinport, "★ Karambit | Doppler (Factory New)", StyleNone); ok {
		t.Fatal("unknown source must miss")
	}
}
