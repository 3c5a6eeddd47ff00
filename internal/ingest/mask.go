package ingest

import "strings"

// MaskedPlaceholder replaces driver names that are missing entirely.
const MaskedPlaceholder = "운전자"

// MaskName hides the middle of a driver name: 김종환 becomes 김o환 and 이산 becomes 이o.
// Single-rune names are kept; missing names become MaskedPlaceholder.
func MaskName(name string) string {
	switch name {
	case "", UnknownDriver, "undefined", "null":
		return MaskedPlaceholder
	}

	runes := []rune(strings.TrimSpace(name))
	switch n := len(runes); {
	case n <= 1:
		return string(runes)
	case n == 2:
		return string(runes[0]) + "o"
	default:
		return string(runes[0]) + strings.Repeat("o", n-2) + string(runes[n-1])
	}
}
