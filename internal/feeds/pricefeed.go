package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"skincompass/internal/pricing"
)

const (
	// RefreshInterval is the fixed cadence of the raw price feed.
	RefreshInterval = 8 * time.Hour
	// RefreshDebounce is the minimum gap between on-demand refreshes of
	// the same source.
	RefreshDebounce = 10 * time.Minute
)

// PriceFeedClient fetches one source's full price table: a JSON object
// mapping canonical item name to dual-sided prices.
type PriceFeedClient struct {
	baseURL string
	client  *resty.Client
}

func NewPriceFeedClient(baseURL string) *PriceFeedClient {
	client := resty.New()
	client.SetTimeout(60 * time.Second)
	return &PriceFeedClient{baseURL: baseURL, client: client}
}

func (c *PriceFeedClient) FetchTable(ctx context.Context, source pricing.MarketSource) (map[string]pricing.FeedPrice, error) {
	resp, err := c.client.R().SetContext(ctx).Get(fmt.Sprintf("%s/latest/%s.json", c.baseURL, source))
	if err != nil {
		return nil, fmt.Errorf("price feed request for %s failed: %w", source, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("price feed for %s returned HTTP %d", source, resp.StatusCode())
	}
	var prices map[string]pricing.FeedPrice
	if err := json.Unmarshal(resp.Body(), &prices); err != nil {
		return nil, fmt.Errorf("failed to decode price feed for %s: %w", source, err)
	}
	return prices, nil
}

// FeedStore is the persistence slice the refresher needs.
type FeedStore interface {
	SavePriceTable(source pricing.MarketSource, prices map[string]pricing.FeedPrice, fetchedAt time.Time) error
	LoadPriceTable(source pricing.MarketSource) (map[string]pricing.FeedPrice, time.Time, error)
}

// Refresher keeps the in-memory price table loaded: persisted snapshots at
// startup, then remote refreshes on the fixed cadence, with a per-source
// debounce on on-demand refreshes.
type Refresher struct {
	table   *pricing.PriceTable
	client  *PriceFeedClient
	store   FeedStore
	sources []pricing.MarketSource
	log     *logrus.Entry

	mu          sync.Mutex
	lastRefresh map[pricing.MarketSource]time.Time
	now         func() time.Time
}

func NewRefresher(table *pricing.PriceTable, client *PriceFeedClient, store FeedStore, sources []pricing.MarketSource, log *logrus.Entry) *Refresher {
	return &Refresher{
		table:       table,
		client:      client,
		store:       store,
		sources:     sources,
		log:         log,
		lastRefresh: make(map[pricing.MarketSource]time.Time),
		now:         time.Now,
	}
}

// Bootstrap loads persisted snapshots into the table so resolution works
// before the first remote refresh. Missing snapshots are not an error.
func (r *Refresher) Bootstrap() {
	if r.store == nil {
		return
	}
	for _, source := range r.sources {
		prices, fetchedAt, err := r.store.LoadPriceTable(source)
		if err != nil {
			continue
		}
		r.table.Replace(source, prices)
		r.log.WithFields(logrus.Fields{
			"source":     source,
			"items":      len(prices),
			"fetched_at": fetchedAt,
		}).Info("loaded price snapshot")
	}
}

// RefreshSource fetches one source unless it was refreshed within the
// debounce window. The debounced case is not an error; the current table
// simply stays.
func (r *Refresher) RefreshSource(ctx context.Context, source pricing.MarketSource) error {
	r.mu.Lock()
	if last, ok := r.lastRefresh[source]; ok && r.now().Sub(last) < RefreshDebounce {
		r.mu.Unlock()
		return nil
	}
	r.lastRefresh[source] = r.now()
	r.mu.Unlock()

	prices, err := r.client.FetchTable(ctx, source)
	if err != nil {
		return err
	}
	r.table.Replace(source, prices)
	if r.store != nil {
		if err := r.store.SavePriceTable(source, prices, r.now()); err != nil {
			r.log.WithError(err).WithField("source", source).Warn("failed to persist price table")
		}
	}
	r.log.WithFields(logrus.Fields{"source": source, "items": len(prices)}).Info("refreshed price table")
	return nil
}

// RefreshAll refreshes every configured source; failures are logged and do
// not stop the sweep.
func (r *Refresher) RefreshAll(ctx context.Context) {
	for _, source := range r.sources {
		if err := r.RefreshSource(ctx, source); err != nil {
			r.log.WithError(err).WithField("source", source).Warn("price refresh failed")
		}
	}
}

// Run refreshes everything immediately and then on the fixed cadence until
// ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	r.RefreshAll(ctx)
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RefreshAll(ctx)
		}
	}
}
