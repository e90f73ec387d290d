package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeFetcher struct {
	table RateTable
	err   error
}

func (f *fakeFetcher) FetchRates(ctx context.Context) (RateTable, error) {
	return f.table, f.err
}

type fakeStore struct {
	saved   *RateTable
	loaded  RateTable
	loadErr error
}

func (s *fakeStore) SaveRates(table RateTable) error {
	s.saved = &table
	return nil
}

func (s *fakeStore) LoadRates() (RateTable, error) {
	return s.loaded, s.loadErr
}

func TestRateForUSDAndUnknown(t *testing.T) {
	c := NewConverter(nil, nil, nil)
	if got := c.RateFor("USD"); got != 1 {
		t.Fatalf("USD rate=%v, want 1", got)
	}
	if got := c.RateFor("XXX"); got != 1 {
		t.Fatalf("unknown code rate=%v, want 1", got)
	}
	if got := c.RateFor(""); got != 1 {
		t.Fatalf("empty code rate=%v, want 1", got)
	}
}

func TestRateForZeroRateGuarded(t *testing.T) {
	c := NewConverter(nil, nil, nil)
	c.swap(RateTable{Rates: map[string]float64{"BAD": 0, "NEG": -2}})
	if got := c.RateFor("BAD"); got != 1 {
		t.Fatalf("zero table rate must resolve to 1, got %v", got)
	}
	if got := c.RateFor("NEG"); got != 1 {
		t.Fatalf("negative table rate must resolve to 1, got %v", got)
	}
}

func TestConversionDirections(t *testing.T) {
	c := NewConverter(nil, nil, nil)
	c.swap(RateTable{Rates: map[string]float64{"CNY": 7.0}})

	usd := decimal.NewFromInt(10)
	cny := c.ToCurrency(usd, "CNY")
	if !cny.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("ToCurrency=%s, want 70", cny)
	}
	back := c.ToUSD(cny, "CNY")
	if !back.Equal(usd) {
		t.Fatalf("round trip=%s, want 10", back)
	}
}

func TestRefreshSuccessPersists(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{table: RateTable{
		LastUpdate: time.Now(),
		Rates:      map[string]float64{"EUR": 0.9},
	}}
	c := NewConverter(fetcher, store, nil)

	c.Refresh(context.Background())
	if got := c.RateFor("EUR"); got != 0.9 {
		t.Fatalf("EUR rate=%v, want 0.9", got)
	}
	if store.saved == nil {
		t.Fatal("refreshed table was not persisted")
	}
}

func TestRefreshFailureFallsBackToSnapshot(t *testing.T) {
	store := &fakeStore{loaded: RateTable{
		LastUpdate: time.Now().Add(-12 * time.Hour),
		Rates:      map[string]float64{"GBP": 0.8},
	}}
	c := NewConverter(&fakeFetcher{err: errors.New("feed down")}, store, nil)

	c.Refresh(context.Background())
	if got := c.RateFor("GBP"); got != 0.8 {
		t.Fatalf("GBP rate=%v, want snapshot 0.8", got)
	}
}

func TestRefreshFailureWithoutSnapshotKeepsDefaults(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("no row")}
	c := NewConverter(&fakeFetcher{err: errors.New("feed down")}, store, nil)

	c.Refresh(context.Background())
	// Bundled defaults survive; EUR is present there.
	if got := c.RateFor("EUR"); got == 1 {
		t.Fatalf("EUR rate=%v, want bundled default", got)
	}
}
