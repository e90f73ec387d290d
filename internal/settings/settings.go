// Package settings loads the flat key-value option set controlling each
// marketplace adapter. Keys are short and marketplace-prefixed, e.g.
// "sp-pricingsource" or "csf-buffdifference", matching how the annotation
// widgets have always been configured.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"skincompass/internal/pricing"
)

// MarketSettings is the typed view of one marketplace's options. It is
// threaded explicitly into every resolver and calculator call; there is no
// module-level settings global.
type MarketSettings struct {
	Enabled        bool
	PricingSource  pricing.MarketSource
	AltMarket      pricing.MarketSource
	PriceReference int // 0 = order (bid), 1 = listing (ask)
	ShowDifference bool
	ShowPercentage bool
}

// Settings wraps the loaded option file plus the handful of global keys.
type Settings struct {
	v *viper.Viper
}

// Load reads settings.yaml from path (and the working directory), with
// environment variables overriding file values. A missing file is fine:
// every key has a default, an absent option never fails resolution.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}
	return &Settings{v: v}, nil
}

// Market extracts the typed settings for one marketplace prefix,
// substituting defaults for anything missing or unparseable per the
// configuration-invalid policy. It runs on the request path and only ever
// reads from the underlying viper, so concurrent calls are safe.
func (s *Settings) Market(prefix string) MarketSettings {
	key := func(name string) string { return prefix + "-" + name }

	ref := s.intOr(key("pricereference"), 1)
	if ref != 0 && ref != 1 {
		ref = 1
	}

	return MarketSettings{
		Enabled:        s.boolOr(key("enable"), true),
		PricingSource:  pricing.ParseMarketSource(s.stringOr(key("pricingsource"), string(pricing.SourceBuff))),
		AltMarket:      parseAltMarket(s.v.GetString(key("altmarket"))),
		PriceReference: ref,
		ShowDifference: s.boolOr(key("buffdifference"), true),
		ShowPercentage: s.boolOr(key("buffdifferencepercent"), true),
	}
}

// DisplayCurrency is the user's chosen display currency, default USD.
func (s *Settings) DisplayCurrency() string {
	return strings.ToUpper(s.stringOr("display-currency", "USD"))
}

func (s *Settings) boolOr(key string, def bool) bool {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetBool(key)
}

func (s *Settings) intOr(key string, def int) int {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetInt(key)
}

func (s *Settings) stringOr(key, def string) string {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetString(key)
}

// SteamID is the optional authenticated identity used by the comparison
// API. Empty means unauthenticated (free tier).
func (s *Settings) SteamID() string {
	return s.v.GetString("steam-id")
}

// parseAltMarket differs from ParseMarketSource in its default: an unset or
// unknown alt market means "no fallback", not Buff.
func parseAltMarket(raw string) pricing.MarketSource {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pricing.SourceNone
	}
	src := pricing.MarketSource(strings.ToLower(raw))
	if src.Valid() {
		return src
	}
	return pricing.SourceNone
}
