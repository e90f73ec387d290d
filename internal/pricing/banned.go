package pricing

import "strings"

// buffBannedItems are items delisted from Buff. Their Buff price has to be
// reported as a known zero instead of whatever stale number the feed still
// carries, and that zero must survive fallback-market configuration.
var buffBannedItems = map[string]bool{
	"Sticker | Howling Dawn":                         true,
	"Sticker | King on the Field":                    true,
	"Sticker | Winged Defuser":                       true,
	"Sticker | Harp of War (Holo)":                   true,
	"Sticker | iBUYPOWER (Holo) | Katowice 2014":     true,
	"Sticker | Titan (Holo) | Katowice 2014":         true,
	"Sticker | Reason Gaming (Holo) | Katowice 2014": true,
}

// IsBuffBanned reports whether the canonical name is on the Buff ban list.
// All wear and StatTrak variants of the Howl share the banned artwork, so
// they are matched by skin rather than listed per exterior.
func IsBuffBanned(buffName string) bool {
	if buffBannedItems[buffName] {
		return true
	}
	return strings.Contains(buffName, "M4A4 | Howl")
}
