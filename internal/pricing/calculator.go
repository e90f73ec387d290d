package pricing

import (
	"github.com/shopspring/decimal"
)

// PriceDifference is the outcome of comparing an item's listed price against
// its resolved reference price. Loss means the item is overpriced relative
// to the reference (percentage strictly above 100).
type PriceDifference struct {
	Difference decimal.Decimal `json:"difference"`
	Percentage decimal.Decimal `json:"percentage"`
	Loss       bool            `json:"loss"`
}

var hundred = decimal.NewFromInt(100)

// ComputeDifference combines an item's listed price with the resolved
// reference price. A nil reference counts as 0 for the absolute difference
// and as 1 for the percentage, so an unknown reference degrades to a
// meaningless-but-defined result instead of a division by zero. Both inputs
// are expected in the same currency; rate application happens upstream.
func ComputeDifference(itemPrice decimal.Decimal, referencePrice *decimal.Decimal) PriceDifference {
	ref := decimal.Zero
	pctBase := decimal.NewFromInt(1)
	if referencePrice != nil {
		ref = *referencePrice
		if !referencePrice.IsZero() {
			pctBase = *referencePrice
		}
	}

	pct := itemPrice.Div(pctBase).Mul(hundred)
	return PriceDifference{
		Difference: itemPrice.Sub(ref),
		Percentage: pct,
		Loss:       pct.GreaterThan(hundred),
	}
}

var oneFifty = decimal.NewFromInt(150)

// FormatPercentage renders the percentage for display: two decimals
// normally, integer precision once the value passes 150%. The threshold is
// a presentation rule carried over from the annotation widgets.
func FormatPercentage(pct decimal.Decimal) string {
	if pct.GreaterThan(oneFifty) {
		return pct.Round(0).String() + "%"
	}
	return pct.StringFixed(2) + "%"
}
