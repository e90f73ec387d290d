package adapter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"skincompass/internal/currency"
	"skincompass/internal/pricing"
	"skincompass/internal/settings"
)

func testSettings(t *testing.T, content string) *settings.Settings {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(content), 0o644))
	}
	s, err := settings.Load(dir)
	require.NoError(t, err)
	return s
}

func testPipeline(t *testing.T, table *pricing.PriceTable, cfg string) *Pipeline {
	t.Helper()
	log := logrus.NewEntry(logrus.New())
	p := NewPipeline(
		pricing.NewResolver(table),
		currency.NewConverter(nil, nil, nil),
		testSettings(t, cfg),
		log,
	)
	p.retryAttempts = 2
	p.retryDelay = time.Millisecond
	return p
}

func feedAsk(ask float64) pricing.FeedPrice {
	return pricing.FeedPrice{Ask: &ask}
}

func feedBoth(ask, bid float64) pricing.FeedPrice {
	return pricing.FeedPrice{Ask: &ask, Bid: &bid}
}

func TestAnnotateSkinportEndToEnd(t *testing.T) {
	table := pricing.NewPriceTable()
	table.Replace(pricing.SourceBuff, map[string]pricing.FeedPrice{
		"AK-47 | Redline (Field-Tested)": feedBoth(10, 9),
	})

	p := testPipeline(t, table, "")
	sp := NewSkinportAdapter()
	p.Register(sp)

	raw, _ := json.Marshal(map[string]interface{}{
		"saleId":         123,
		"marketHashName": "AK-47 | Redline (Field-Tested)",
		"salePrice":      1100, // 11.00
		"currency":       "USD",
	})
	p.IngestRaw("skinport", []json.RawMessage{raw})

	ann, ok := p.Annotate(context.Background(), "skinport", "123")
	require.True(t, ok)
	require.Equal(t, "AK-47 | Redline (Field-Tested)", ann.BuffName)
	require.Equal(t, pricing.StyleNone, ann.Style)
	require.Equal(t, pricing.SourceBuff, ann.Source)
	require.NotNil(t, ann.Reference)
	require.True(t, ann.Reference.Equal(decimal.NewFromInt(10)), "reference=%s", ann.Reference)
	require.True(t, ann.Difference.Equal(decimal.NewFromInt(1)), "difference=%s", ann.Difference)
	require.True(t, ann.Percentage.Equal(decimal.NewFromInt(110)), "percentage=%s", ann.Percentage)
	require.True(t, ann.Loss)
	require.Equal(t, "USD", ann.Currency)
}

func TestAnnotateBidReferenceWhenConfigured(t *testing.T) {
	table := pricing.NewPriceTable()
	table.Replace(pricing.SourceBuff, map[string]pricing.FeedPrice{
		"AK-47 | Redline (Field-Tested)": feedBoth(10, 9),
	})

	p := testPipeline(t, table, "spt-pricereference: 0\n")
	p.Register(NewSkinportAdapter())

	raw, _ := json.Marshal(map[string]interface{}{
		"saleId":         7,
		"marketHashName": "AK-47 | Redline (Field-Tested)",
		"salePrice":      900,
	})
	p.IngestRaw("skinport", []json.RawMessage{raw})

	ann, ok := p.Annotate(context.Background(), "skinport", "7")
	require.True(t, ok)
	require.True(t, ann.Reference.Equal(decimal.NewFromInt(9)), "reference=%s, want the bid side", ann.Reference)
	require.False(t, ann.Loss, "9.00 against bid 9 is exactly 100%%")
}

func TestAnnotateCSFloatQueueWithPhase(t *testing.T) {
	table := pricing.NewPriceTable()
	table.Replace(pricing.SourceBuff, map[string]pricing.FeedPrice{
		"★ Karambit | Doppler (Factory New)": {
			Doppler: map[string]float64{"Phase 2": 1500},
		},
	})

	p := testPipeline(t, table, "")
	p.Register(NewCSFloatAdapter())

	raw, _ := json.Marshal(map[string]interface{}{
		"id":    "listing-1",
		"price": 160000, // 1600.00
		"item": map[string]interface{}{
			"market_hash_name": "★ Karambit | Doppler (Factory New)",
			"phase":            "Phase 2",
		},
	})
	p.IngestRaw("csfloat", []json.RawMessage{raw})

	ann, ok := p.Annotate(context.Background(), "csfloat", "")
	require.True(t, ok)
	require.Equal(t, pricing.StylePhase2, ann.Style)
	require.NotNil(t, ann.Reference)
	require.True(t, ann.Reference.Equal(decimal.NewFromInt(1500)), "reference=%s", ann.Reference)
	require.True(t, ann.Loss)
}

func TestAnnotateDisabledMarket(t *testing.T) {
	p := testPipeline(t, pricing.NewPriceTable(), "spt-enable: false\n")
	p.Register(NewSkinportAdapter())

	_, ok := p.Annotate(context.Background(), "skinport", "1")
	require.False(t, ok)
}

func TestAnnotateUnknownMarket(t *testing.T) {
	p := testPipeline(t, pricing.NewPriceTable(), "")
	_, ok := p.Annotate(context.Background(), "nosuchmarket", "1")
	require.False(t, ok)
}

func TestAnnotateItemNeverArrives(t *testing.T) {
	p := testPipeline(t, pricing.NewPriceTable(), "")
	p.Register(NewSkinportAdapter())

	_, ok := p.Annotate(context.Background(), "skinport", "does-not-exist")
	require.False(t, ok, "missing raw item must leave the element unannotated, not fail")
}

func TestAnnotateAbsentReferenceStillComputes(t *testing.T) {
	// No price data at all: annotation still comes back with a defined
	// (if meaningless) percentage, matching the degrade-don't-fail policy.
	p := testPipeline(t, pricing.NewPriceTable(), "")
	p.Register(NewLisskinsAdapter())

	raw, _ := json.Marshal(map[string]interface{}{
		"name":  "P250 | Sand Dune (Field-Tested)",
		"price": 0.05,
		"image": "https://cdn.example/p250.png",
	})
	p.IngestRaw("lisskins", []json.RawMessage{raw})

	ann, ok := p.Annotate(context.Background(), "lisskins", "https://cdn.example/p250.png")
	require.True(t, ok)
	require.Nil(t, ann.Reference)
	require.True(t, ann.Difference.Equal(decimal.NewFromFloat(0.05)))
}

func TestIngestRawMalformedRecordsDropped(t *testing.T) {
	p := testPipeline(t, pricing.NewPriceTable(), "")
	sp := NewSkinportAdapter()
	p.Register(sp)

	p.IngestRaw("skinport", []json.RawMessage{
		json.RawMessage(`{not valid json`),
		json.RawMessage(`{"saleId": 5, "marketHashName": "Glock-18 | Fade (Factory New)", "salePrice": 40000}`),
	})

	_, ok := sp.Lookup("5")
	require.True(t, ok, "valid record after a malformed one must still be cached")
}

func TestDataAttributeRoundTrips(t *testing.T) {
	ref := decimal.NewFromInt(10)
	ann := &Annotation{
		Market:     "skinport",
		BuffName:   "AK-47 | Redline (Field-Tested)",
		Source:     pricing.SourceBuff,
		ItemPrice:  decimal.NewFromInt(11),
		Reference:  &ref,
		Difference: decimal.NewFromInt(1),
		Percentage: decimal.NewFromInt(110),
		Loss:       true,
		Currency:   "USD",
		DisplayPct: "110.00%",
	}

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(ann.DataAttribute()), &decoded))
	require.Equal(t, "AK-47 | Redline (Field-Tested)", decoded["buff_name"])
	require.Equal(t, "10", decoded["priceFromReference"])
}
