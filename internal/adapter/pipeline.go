// Package adapter runs the per-marketplace resolution pipeline: raw item
// out of the cache, name normalized, reference price resolved, currency
// applied, difference computed. One generic pipeline serves every
// marketplace; the marketplaces differ only in the small capability set
// they plug in.
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"skincompass/internal/currency"
	"skincompass/internal/pricing"
	"skincompass/internal/settings"
)

// Item is the adapter-normalized view of one raw marketplace record: just
// the fields the pipeline needs. The raw record itself stays inside the
// owning adapter.
type Item struct {
	RawName    string
	StyleField string // set by marketplaces that deliver the phase separately
	Price      decimal.Decimal
	Currency   string
}

// Adapter is the per-marketplace capability set. Lookup must be
// non-blocking; the pipeline owns the bounded polling.
type Adapter interface {
	Market() string
	SettingsPrefix() string
	// IngestRaw decodes intercepted API records into the adapter's cache.
	// Records that fail to decode are dropped.
	IngestRaw(items []json.RawMessage)
	// Lookup fetches a cached record by key. Queue-backed adapters ignore
	// the key and consume the head of their list.
	Lookup(key string) (Item, bool)
	// SelectReference picks bid or ask out of the resolved quote per this
	// marketplace's policy.
	SelectReference(q pricing.PriceQuote, cfg settings.MarketSettings) *decimal.Decimal
}

// Annotation is the computed comparison handed back to the UI layer.
type Annotation struct {
	Market     string               `json:"market"`
	BuffName   string               `json:"buff_name"`
	Style      pricing.StyleTag     `json:"style"`
	Source     pricing.MarketSource `json:"source"`
	ItemPrice  decimal.Decimal      `json:"itemPrice"`
	Reference  *decimal.Decimal     `json:"priceFromReference,omitempty"`
	Difference decimal.Decimal      `json:"difference"`
	Percentage decimal.Decimal      `json:"percentage"`
	Loss       bool                 `json:"loss"`
	Currency   string               `json:"userCurrency"`
	DisplayPct string               `json:"displayPercentage"`
}

// DataAttribute serializes the annotation for the data-betterfloat DOM
// channel, letting unrelated widgets reuse the last-computed reference
// price without re-resolving it.
func (a *Annotation) DataAttribute() string {
	b, err := json.Marshal(a)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Pipeline wires the shared collaborators. Adapters register themselves
// under their market name.
type Pipeline struct {
	resolver  *pricing.Resolver
	converter *currency.Converter
	settings  *settings.Settings
	registry  map[string]Adapter
	log       *logrus.Entry

	retryAttempts int
	retryDelay    time.Duration
}

func NewPipeline(resolver *pricing.Resolver, converter *currency.Converter, s *settings.Settings, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		resolver:      resolver,
		converter:     converter,
		settings:      s,
		registry:      make(map[string]Adapter),
		log:           log,
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
}

// Register adds a marketplace adapter; later registrations under the same
// market name win.
func (p *Pipeline) Register(a Adapter) {
	p.registry[a.Market()] = a
}

// IngestRaw routes an intercepted payload batch to the owning adapter.
// Unknown markets are dropped; the feed may carry marketplaces this
// deployment does not annotate.
func (p *Pipeline) IngestRaw(market string, items []json.RawMessage) {
	a, ok := p.registry[market]
	if !ok {
		return
	}
	a.IngestRaw(items)
}

// Annotate runs the full pipeline for one render event. ok=false means the
// element stays unannotated: adapter unknown, market disabled, or the raw
// item never arrived within the retry budget. A missing price is not an
// error.
func (p *Pipeline) Annotate(ctx context.Context, market, key string) (*Annotation, bool) {
	a, ok := p.registry[market]
	if !ok {
		return nil, false
	}
	cfg := p.settings.Market(a.SettingsPrefix())
	if !cfg.Enabled {
		return nil, false
	}

	item, ok := RetryUntil(ctx, func() (Item, bool) {
		return a.Lookup(key)
	}, p.retryAttempts, p.retryDelay)
	if !ok {
		p.log.WithFields(logrus.Fields{"market": market, "key": key}).
			Debug("raw item never arrived, leaving unannotated")
		return nil, false
	}

	canonical := pricing.Normalize(item.RawName)
	if canonical.Style == pricing.StyleNone && item.StyleField != "" {
		canonical.Style = pricing.ParseStyle(item.StyleField)
	}

	quote := p.resolver.Resolve(canonical, cfg.PricingSource, cfg.AltMarket)
	reference := a.SelectReference(quote, cfg)

	// Feed prices are USD; the item's own price is in the marketplace
	// currency. Convert the reference into that currency so the delta is
	// in the numbers the user actually sees.
	var converted *decimal.Decimal
	if reference != nil {
		v := p.converter.ToCurrency(*reference, item.Currency)
		converted = &v
	}

	diff := pricing.ComputeDifference(item.Price, converted)
	return &Annotation{
		Market:     market,
		BuffName:   canonical.BuffName,
		Style:      canonical.Style,
		Source:     cfg.PricingSource,
		ItemPrice:  item.Price,
		Reference:  converted,
		Difference: diff.Difference,
		Percentage: diff.Percentage,
		Loss:       diff.Loss,
		Currency:   item.Currency,
		DisplayPct: pricing.FormatPercentage(diff.Percentage),
	}, true
}

// Markets lists the registered marketplace names.
func (p *Pipeline) Markets() []string {
	names := make([]string, 0, len(p.registry))
	for name := range p.registry {
		names = append(names, name)
	}
	return names
}
