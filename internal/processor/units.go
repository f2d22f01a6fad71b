// units.go - Unit token normalization to the canonical Hebrew vocabulary.

package processor

import (
	"log"
	"strings"
)

// Canonical unit tokens. Every normalized line item carries one of these.
const (
	UnitCount      = "יחידה"
	UnitKilogram   = "ק\"ג"
	UnitGram       = "גרם"
	UnitLiter      = "ליטר"
	UnitMilliliter = "מ\"ל"
	UnitCrate      = "ארגז"
	UnitPackage    = "מארז"
)

// unitAliases maps lowercased raw tokens to canonical units. Canonical tokens
// map to themselves so NormalizeUnit is idempotent.
var unitAliases = map[string]string{
	// counts
	"unit": UnitCount, "units": UnitCount, "pcs": UnitCount, "piece": UnitCount,
	"יח": UnitCount, "יח'": UnitCount, "יחי": UnitCount, UnitCount: UnitCount,
	// weight
	"kg": UnitKilogram, "kilo": UnitKilogram, "kilogram": UnitKilogram,
	"קילו": UnitKilogram, "קג": UnitKilogram, UnitKilogram: UnitKilogram,
	"g": UnitGram, "gr": UnitGram, "gram": UnitGram, "grams": UnitGram,
	"ג": UnitGram, "גר": UnitGram, UnitGram: UnitGram,
	// volume
	"l": UnitLiter, "liter": UnitLiter, "litre": UnitLiter, UnitLiter: UnitLiter,
	"ml": UnitMilliliter, "milliliter": UnitMilliliter, UnitMilliliter: UnitMilliliter,
	// bulk packaging
	"case": UnitCrate, "crate": UnitCrate, "box": UnitCrate,
	"קרטון": UnitCrate, UnitCrate: UnitCrate,
	"pack": UnitPackage, "package": UnitPackage, UnitPackage: UnitPackage,
}

// NormalizeUnit maps a raw unit token (English, Hebrew, abbreviated) to the
// canonical vocabulary. Unknown tokens fall back to UnitCount rather than
// failing; extraction models invent unit spellings constantly and a scan must
// not be rejected over one. The fallback is logged so mis-tagged units remain
// visible in request logs.
func NormalizeUnit(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.Trim(token, ".'\"״׳")
	if token == "" {
		return UnitCount
	}
	if canonical, ok := unitAliases[token]; ok {
		return canonical
	}
	// OCR flips between gershayim and a straight quote; retry normalized.
	if canonical, ok := unitAliases[strings.ReplaceAll(token, "״", "\"")]; ok {
		return canonical
	}
	log.Printf("⚠️  unknown unit token %q, defaulting to %s", raw, UnitCount)
	return UnitCount
}
