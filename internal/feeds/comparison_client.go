package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"skincompass/internal/pricing"
)

// steamIDHeader carries the optional authenticated identity; the server
// filters paid market sources by it.
const steamIDHeader = "X-Steam-Id"

// ComparisonClient talks to the market-comparison API:
// GET /v1/price/{buff_name} returns a MarketSource -> PriceQuote map.
type ComparisonClient struct {
	baseURL string
	client  *resty.Client
}

func NewComparisonClient(baseURL string) *ComparisonClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	return &ComparisonClient{baseURL: baseURL, client: client}
}

// comparisonQuote mirrors the wire shape; either side may be missing.
type comparisonQuote struct {
	PriceListing *float64 `json:"priceListing"`
	PriceOrder   *float64 `json:"priceOrder"`
}

// FetchComparison fetches all known market quotes for one canonical name.
// Non-2xx responses and malformed bodies surface as errors; the caller
// (the comparison cache) treats both as data-absent and does not cache.
func (c *ComparisonClient) FetchComparison(ctx context.Context, buffName, steamID string) (map[pricing.MarketSource]pricing.PriceQuote, error) {
	req := c.client.R().SetContext(ctx)
	if steamID != "" {
		req.SetHeader(steamIDHeader, steamID)
	}

	resp, err := req.Get(c.baseURL + "/v1/price/" + url.PathEscape(buffName))
	if err != nil {
		return nil, fmt.Errorf("comparison request failed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("comparison API returned HTTP %d", resp.StatusCode())
	}

	var body map[string]comparisonQuote
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode comparison response: %w", err)
	}

	data := make(map[pricing.MarketSource]pricing.PriceQuote, len(body))
	for raw, q := range body {
		source := pricing.MarketSource(raw)
		if !source.Valid() || source == pricing.SourceNone {
			continue
		}
		data[source] = pricing.QuoteFromFloats(
			floatOr(q.PriceListing), floatOr(q.PriceOrder),
			q.PriceListing != nil, q.PriceOrder != nil,
		)
	}
	return data, nil
}

func floatOr(f *float64) float64 {
	if f == nil {
		return -1
	}
	return *f
}
