// Package feeds holds the outbound clients: the raw price feed, the
// market-comparison API, the currency-rate feed and the websocket item
// stream. Everything network-facing lives here; the core packages only see
// the values these clients produce.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"skincompass/internal/currency"
)

// RatesClient fetches the currency-rate feed: a JSON document of the form
// {"lastUpdate": ..., "rates": {"EUR": 0.92, ...}} relative to USD = 1.
type RatesClient struct {
	url    string
	client *resty.Client
}

func NewRatesClient(url string) *RatesClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	return &RatesClient{url: url, client: client}
}

type ratesResponse struct {
	LastUpdate int64              `json:"lastUpdate"`
	Rates      map[string]float64 `json:"rates"`
}

func (c *RatesClient) FetchRates(ctx context.Context) (currency.RateTable, error) {
	resp, err := c.client.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return currency.RateTable{}, fmt.Errorf("currency feed request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return currency.RateTable{}, fmt.Errorf("currency feed returned HTTP %d", resp.StatusCode())
	}

	var body ratesResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to decode currency feed: %w", err)
	}
	if len(body.Rates) == 0 {
		return currency.RateTable{}, fmt.Errorf("currency feed returned no rates")
	}
	return currency.RateTable{
		LastUpdate: time.UnixMilli(body.LastUpdate),
		Rates:      body.Rates,
	}, nil
}
