package pricing

import "strings"

// styleTokens are every phase/gem spelling we accept. Black Pearl sits first
// so the two-word token is matched before any single-word gem.
var styleTokens = []StyleTag{
	StyleBlackPearl,
	StylePhase1,
	StylePhase2,
	StylePhase3,
	StylePhase4,
	StyleSapphire,
	StyleRuby,
	StyleEmerald,
}

// specialStickerNames corrects stickers whose canonical market name differs
// from what some marketplaces display. Applied as a plain string
// substitution before any other processing.
var specialStickerNames = map[string]string{
	"Sticker | iBUYPOWER  | Katowice 2014":         "Sticker | iBUYPOWER | Katowice 2014",
	"Sticker | Vox Eminor  | Katowice 2014":        "Sticker | Vox Eminor | Katowice 2014",
	"Sticker | Natus Vincere  | Katowice 2014":     "Sticker | Natus Vincere | Katowice 2014",
	"Sticker | Ninjas in Pyjamas  | Katowice 2014": "Sticker | Ninjas in Pyjamas | Katowice 2014",
	"Sticker | Team LDLC.com  | Katowice 2015":     "Sticker | Team LDLC.com | Katowice 2015",
}

// handleSpecialStickerNames fixes sticker display quirks: the static
// correction table above plus "(Holo)"/"(Foil)" variants that some
// marketplaces move behind the event year while the canonical name keeps
// them behind the team name ("Sticker | Titan | Katowice 2014 (Holo)" ->
// "Sticker | Titan (Holo) | Katowice 2014").
func handleSpecialStickerNames(name string) string {
	if fixed, ok := specialStickerNames[name]; ok {
		return fixed
	}
	if !strings.HasPrefix(name, "Sticker |") {
		return name
	}
	for _, variant := range []string{"(Holo)", "(Foil)", "(Gold)", "(Glitter)"} {
		suffix := " " + variant
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		parts := strings.Split(strings.TrimSuffix(name, suffix), " | ")
		if len(parts) < 3 {
			return name
		}
		parts[1] = parts[1] + " " + variant
		return strings.Join(parts, " | ")
	}
	return name
}

// Normalize strips marketplace-specific decorations from a raw item name
// into its canonical form. Phase and gem tokens are hoisted into the style
// tag and removed, together with exactly one preceding space, from the
// returned name. Normalizing an already-normalized name is a no-op, and a
// name whose delimiter cannot be located comes back unchanged with no style
// rather than failing.
func Normalize(rawName string) CanonicalItem {
	name := handleSpecialStickerNames(rawName)

	for _, tok := range styleTokens {
		// Parenthesized form: "Karambit | Doppler (Phase 2) (Factory New)".
		if stripped, ok := cutToken(name, " ("+string(tok)+")"); ok {
			return CanonicalItem{BuffName: stripped, Style: tok}
		}
		// Dash-suffixed form: "Karambit | Doppler (Factory New) - Phase 2".
		if strings.HasSuffix(name, " - "+string(tok)) {
			return CanonicalItem{
				BuffName: strings.TrimSuffix(name, " - "+string(tok)),
				Style:    tok,
			}
		}
	}

	// Space-suffixed form directly after the Doppler finish:
	// "Karambit | Doppler Phase 2 (Factory New)". Only attempted for
	// Doppler names so tokens inside unrelated skin names stay put.
	if strings.Contains(name, "Doppler") {
		for _, tok := range styleTokens {
			if stripped, ok := cutToken(name, " "+string(tok)); ok {
				return CanonicalItem{BuffName: stripped, Style: tok}
			}
		}
	}

	return CanonicalItem{BuffName: name, Style: StyleNone}
}

// ParseStyle maps a marketplace-provided phase field to a StyleTag. Used by
// adapters whose API delivers the phase separately from the item name.
// Unknown values map to no style.
func ParseStyle(s string) StyleTag {
	s = strings.TrimSpace(s)
	for _, tok := range styleTokens {
		if strings.EqualFold(s, string(tok)) {
			return tok
		}
	}
	return StyleNone
}

// cutToken removes the first occurrence of token (which carries its own
// leading space) from name, reporting whether it was found.
func cutToken(name, token string) (string, bool) {
	idx := strings.Index(name, token)
	if idx < 0 {
		return name, false
	}
	return name[:idx] + name[idx+len(token):], true
}
