package schema

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

// Normalizer rewrites a converted text value before it is stored.
type Normalizer func(string) string

var normalizers = map[string]Normalizer{
	"trim":     strings.TrimSpace,
	"upper":    strings.ToUpper,
	"lower":    strings.ToLower,
	"us_state": NormalizeUsState,
}

// Normalizers returns the names of the available normalizers.
func Normalizers() []string {
	return []string{"lower", "trim", "upper", "us_state"}
}

// chain composes the named normalizers left to right. Returns nil for an
// empty list.
func chain(names []string) (Normalizer, error) {
	if len(names) == 0 {
		return nil, nil
	}
	fns := make([]Normalizer, len(names))
	for i, n := range names {
		fn, ok := normalizers[n]
		if !ok {
			return nil, fmt.Errorf("%w: unknown normalizer %q", core.ErrInvalidBinding, n)
		}
		fns[i] = fn
	}
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}, nil
}

// UsStates maps US state full names to their abbreviations.
var UsStates = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"district of columbia": "DC",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",
}

var usStateCodes = func() map[string]bool {
	codes := make(map[string]bool, len(UsStates))
	for _, c := range UsStates {
		codes[c] = true
	}
	return codes
}()

// NormalizeUsState converts a US state name to its two-letter code.
// Codes are upper-cased; anything unrecognized is returned trimmed.
func NormalizeUsState(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := UsStates[strings.ToLower(s)]; ok {
		return code
	}
	if upper := strings.ToUpper(s); usStateCodes[upper] {
		return upper
	}
	return s
}
