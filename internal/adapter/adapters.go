package adapter

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"skincompass/internal/cache"
	"skincompass/internal/pricing"
	"skincompass/internal/settings"
)

// bidPreferred reports whether the configured price reference selects the
// order (bid) side for the given source. Each adapter applies this with its
// own set of bid-capable sources; the conditions deliberately stay inside
// the adapters because they differ per marketplace.
func bidPreferred(cfg settings.MarketSettings, bidSources ...pricing.MarketSource) bool {
	if cfg.PriceReference != 0 {
		return false
	}
	for _, s := range bidSources {
		if cfg.PricingSource == s {
			return true
		}
	}
	return false
}

func minorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

// --- Skinport ---

// skinportItem is the slice of Skinport's sale payload the adapter keeps.
// Keyed by sale id; Skinport's render events carry the same id.
type skinportItem struct {
	SaleID         int64  `json:"saleId"`
	MarketHashName string `json:"marketHashName"`
	SalePrice      int64  `json:"salePrice"` // minor units
	Currency       string `json:"currency"`
}

type SkinportAdapter struct {
	cache *cache.ItemCache[skinportItem]
}

func NewSkinportAdapter() *SkinportAdapter {
	return &SkinportAdapter{cache: cache.NewItemCache[skinportItem]()}
}

func (a *SkinportAdapter) Market() string         { return "skinport" }
func (a *SkinportAdapter) SettingsPrefix() string { return "spt" }

func (a *SkinportAdapter) IngestRaw(items []json.RawMessage) {
	for _, raw := range items {
		var it skinportItem
		if err := json.Unmarshal(raw, &it); err != nil || it.MarketHashName == "" {
			continue
		}
		a.cache.Put(keyFromInt(it.SaleID), it)
	}
}

func (a *SkinportAdapter) Lookup(key string) (Item, bool) {
	it, ok := a.cache.Get(key)
	if !ok {
		return Item{}, false
	}
	return Item{
		RawName:  it.MarketHashName,
		Price:    minorUnits(it.SalePrice),
		Currency: orUSD(it.Currency),
	}, true
}

func (a *SkinportAdapter) SelectReference(q pricing.PriceQuote, cfg settings.MarketSettings) *decimal.Decimal {
	if bidPreferred(cfg, pricing.SourceBuff, pricing.SourceSteam) && q.Order != nil {
		return q.Order
	}
	return q.Listing
}

// --- CSFloat ---

// csfloatItem comes from CSFloat's bulk listing feed, which has no stable
// per-render key: list order pairs with render order, so the adapter runs
// the queue variant of the cache.
type csfloatItem struct {
	ID    string `json:"id"`
	Price int64  `json:"price"` // cents, USD
	Item  struct {
		MarketHashName string `json:"market_hash_name"`
		Phase          string `json:"phase"`
	} `json:"item"`
}

type CSFloatAdapter struct {
	cache *cache.ItemCache[csfloatItem]
}

func NewCSFloatAdapter() *CSFloatAdapter {
	return &CSFloatAdapter{cache: cache.NewItemCache[csfloatItem]()}
}

func (a *CSFloatAdapter) Market() string         { return "csfloat" }
func (a *CSFloatAdapter) SettingsPrefix() string { return "csf" }

func (a *CSFloatAdapter) IngestRaw(items []json.RawMessage) {
	for _, raw := range items {
		var it csfloatItem
		if err := json.Unmarshal(raw, &it); err != nil || it.Item.MarketHashName == "" {
			continue
		}
		a.cache.Enqueue(it)
	}
}

func (a *CSFloatAdapter) Lookup(string) (Item, bool) {
	it, ok := a.cache.PopFirst()
	if !ok {
		return Item{}, false
	}
	return Item{
		RawName:    it.Item.MarketHashName,
		StyleField: it.Item.Phase,
		Price:      minorUnits(it.Price),
		Currency:   "USD",
	}, true
}

func (a *CSFloatAdapter) SelectReference(q pricing.PriceQuote, cfg settings.MarketSettings) *decimal.Decimal {
	if bidPreferred(cfg, pricing.SourceBuff, pricing.SourceSteam) && q.Order != nil {
		return q.Order
	}
	return q.Listing
}

// --- Lisskins ---

// lisskinsItem records arrive without ids; the image URL doubles as the
// key, the same trick the site's own markup uses.
type lisskinsItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type LisskinsAdapter struct {
	cache *cache.ItemCache[lisskinsItem]
}

func NewLisskinsAdapter() *LisskinsAdapter {
	return &LisskinsAdapter{cache: cache.NewItemCache[lisskinsItem]()}
}

func (a *LisskinsAdapter) Market() string         { return "lisskins" }
func (a *LisskinsAdapter) SettingsPrefix() string { return "lis" }

func (a *LisskinsAdapter) IngestRaw(items []json.RawMessage) {
	for _, raw := range items {
		var it lisskinsItem
		if err := json.Unmarshal(raw, &it); err != nil || it.Name == "" || it.Image == "" {
			continue
		}
		a.cache.Put(it.Image, it)
	}
}

func (a *LisskinsAdapter) Lookup(key string) (Item, bool) {
	it, ok := a.cache.Get(key)
	if !ok {
		return Item{}, false
	}
	return Item{
		RawName:  it.Name,
		Price:    decimal.NewFromFloat(it.Price),
		Currency: "USD",
	}, true
}

// Lisskins never uses the bid side; its own listings are asks and the site
// compares ask against ask.
func (a *LisskinsAdapter) SelectReference(q pricing.PriceQuote, _ settings.MarketSettings) *decimal.Decimal {
	return q.Listing
}

// --- Skinbid ---

type skinbidItem struct {
	AssetID string `json:"assetId"`
	Auction struct {
		ItemName   string `json:"itemName"`
		CurrentBid int64  `json:"currentBid"` // minor units
		Currency   string `json:"currency"`
	} `json:"auction"`
}

type SkinbidAdapter struct {
	cache *cache.ItemCache[skinbidItem]
}

func NewSkinbidAdapter() *SkinbidAdapter {
	return &SkinbidAdapter{cache: cache.NewItemCache[skinbidItem]()}
}

func (a *SkinbidAdapter) Market() string         { return "skinbid" }
func (a *SkinbidAdapter) SettingsPrefix() string { return "skb" }

func (a *SkinbidAdapter) IngestRaw(items []json.RawMessage) {
	for _, raw := range items {
		var it skinbidItem
		if err := json.Unmarshal(raw, &it); err != nil || it.AssetID == "" || it.Auction.ItemName == "" {
			continue
		}
		a.cache.Put(it.AssetID, it)
	}
}

func (a *SkinbidAdapter) Lookup(key string) (Item, bool) {
	it, ok := a.cache.Get(key)
	if !ok {
		return Item{}, false
	}
	return Item{
		RawName:  it.Auction.ItemName,
		Price:    minorUnits(it.Auction.CurrentBid),
		Currency: orUSD(it.Auction.Currency),
	}, true
}

// Skinbid additionally honors the bid preference for YouPin, which its user
// base treats as a first-class source.
func (a *SkinbidAdapter) SelectReference(q pricing.PriceQuote, cfg settings.MarketSettings) *decimal.Decimal {
	if bidPreferred(cfg, pricing.SourceBuff, pricing.SourceSteam, pricing.SourceYouPin) && q.Order != nil {
		return q.Order
	}
	return q.Listing
}

func orUSD(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}

func keyFromInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
