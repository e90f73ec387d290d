package pricing

import "strings"

// MarketSource identifies one of the supported pricing providers.
type MarketSource string

const (
	SourceBuff       MarketSource = "buff"
	SourceSteam      MarketSource = "steam"
	SourceYouPin     MarketSource = "youpin"
	SourceC5Game     MarketSource = "c5game"
	SourceCSFloat    MarketSource = "csfloat"
	SourceCSMoney    MarketSource = "csmoney"
	SourceDMarket    MarketSource = "dmarket"
	SourceBitskins   MarketSource = "bitskins"
	SourceBuffMarket MarketSource = "buffmarket"
	SourceLisskins   MarketSource = "lisskins"
	SourceSkinbid    MarketSource = "skinbid"
	SourceSkinport   MarketSource = "skinport"
	SourcePricempire MarketSource = "pricempire"
	SourceMarketCSGO MarketSource = "marketcsgo"
	SourceNone       MarketSource = "none"
)

var knownSources = map[MarketSource]bool{
	SourceBuff:       true,
	SourceSteam:      true,
	SourceYouPin:     true,
	SourceC5Game:     true,
	SourceCSFloat:    true,
	SourceCSMoney:    true,
	SourceDMarket:    true,
	SourceBitskins:   true,
	SourceBuffMarket: true,
	SourceLisskins:   true,
	SourceSkinbid:    true,
	SourceSkinport:   true,
	SourcePricempire: true,
	SourceMarketCSGO: true,
	SourceNone:       true,
}

// ParseMarketSource maps a settings value to a MarketSource. Unknown ids
// default to Buff rather than failing, matching the rest of the settings
// layer where a bad value never breaks resolution.
func ParseMarketSource(s string) MarketSource {
	src := MarketSource(strings.ToLower(strings.TrimSpace(s)))
	if knownSources[src] {
		return src
	}
	return SourceBuff
}

// Valid reports whether the source is part of the closed enumeration.
func (m MarketSource) Valid() bool {
	return knownSources[m]
}
