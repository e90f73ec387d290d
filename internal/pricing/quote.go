package pricing

import (
	"github.com/shopspring/decimal"
)

// StyleTag is a Doppler phase or gem finish that has to be priced separately
// from the base skin. Empty means the item has no style variant.
type StyleTag string

const (
	StyleNone       StyleTag = ""
	StylePhase1     StyleTag = "Phase 1"
	StylePhase2     StyleTag = "Phase 2"
	StylePhase3     StyleTag = "Phase 3"
	StylePhase4     StyleTag = "Phase 4"
	StyleSapphire   StyleTag = "Sapphire"
	StyleRuby       StyleTag = "Ruby"
	StyleEmerald    StyleTag = "Emerald"
	StyleBlackPearl StyleTag = "Black Pearl"
)

// CanonicalItem is the marketplace-agnostic identity of an item: the buff
// name used as lookup key across all pricing sources, plus the style tag.
// The buff name never carries a trailing phase suffix; phase information is
// always hoisted into Style.
type CanonicalItem struct {
	BuffName string   `json:"buff_name"`
	Style    StyleTag `json:"style"`
}

// PriceQuote is a dual-sided price for one canonical item from one market
// source. Listing is the lowest current ask, Order the highest current bid.
// A nil field means the source has no data for that side. A present zero is
// a real value (banned or delisted item) and must not be confused with nil.
type PriceQuote struct {
	Listing *decimal.Decimal `json:"priceListing,omitempty"`
	Order   *decimal.Decimal `json:"priceOrder,omitempty"`
}

// KnownZeroQuote marks an item whose price is reliably zero, e.g. Buff
// ban-listed items. Distinct from the zero-value PriceQuote, which means
// "no data".
func KnownZeroQuote() PriceQuote {
	zero := decimal.Zero
	z2 := decimal.Zero
	return PriceQuote{Listing: &zero, Order: &z2}
}

// Absent reports whether the quote carries no data at all.
func (q PriceQuote) Absent() bool {
	return q.Listing == nil && q.Order == nil
}

// AllZero reports whether every present side is exactly zero. An absent
// quote is not AllZero.
func (q PriceQuote) AllZero() bool {
	if q.Absent() {
		return false
	}
	if q.Listing != nil && !q.Listing.IsZero() {
		return false
	}
	if q.Order != nil && !q.Order.IsZero() {
		return false
	}
	return true
}

// Usable reports whether the quote carries at least one non-zero side.
func (q PriceQuote) Usable() bool {
	return !q.Absent() && !q.AllZero()
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// QuoteFromFloats builds a quote from raw feed values. Negative values are
// treated as no data.
func QuoteFromFloats(listing, order float64, hasListing, hasOrder bool) PriceQuote {
	var q PriceQuote
	if hasListing && listing >= 0 {
		q.Listing = decPtr(decimal.NewFromFloat(listing))
	}
	if hasOrder && order >= 0 {
		q.Order = decPtr(decimal.NewFromFloat(order))
	}
	return q
}
