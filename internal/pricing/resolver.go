package pricing

// Resolver turns a canonical item plus a configured market source into the
// best-known dual-sided reference quote. Prices come back unconverted;
// callers apply the currency rate afterwards.
type Resolver struct {
	provider Provider
}

func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve queries the primary source and, when it yields nothing usable,
// takes exactly one fallback hop to altSource. Buff ban-listed items
// short-circuit to a known-zero quote before any fallback is considered.
// Unknown sources yield an absent quote, never an error.
func (r *Resolver) Resolve(item CanonicalItem, source, altSource MarketSource) PriceQuote {
	if source == SourceBuff && IsBuffBanned(item.BuffName) {
		return KnownZeroQuote()
	}

	quote, _ := r.provider.Lookup(source, item.BuffName, item.Style)

	if (quote.Absent() || quote.AllZero()) && altSource != "" && altSource != SourceNone {
		fallback, ok := r.provider.Lookup(altSource, item.BuffName, item.Style)
		if ok {
			return fallback
		}
	}
	return quote
}
