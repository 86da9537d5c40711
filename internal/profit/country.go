package profit

import (
	"fmt"
	"sort"
	"strings"
)

// Region is a grouping of destinations that is costed as a base country plus
// a fixed per-order surcharge.
type Region struct {
	Base      string  `json:"base" yaml:"base" validate:"required"`
	Surcharge float64 `json:"surcharge" yaml:"surcharge" validate:"gte=0"`
}

// CountryTable maps raw shipping country values to canonical cost-table keys.
type CountryTable struct {
	Aliases map[string]string `json:"aliases" yaml:"aliases"`
	Regions map[string]Region `json:"regions,omitempty" yaml:"regions,omitempty"`
}

// Resolution is the outcome of resolving one raw country value.
type Resolution struct {
	Raw       string
	Country   string
	Resolved  bool
	Surcharge float64
}

// Resolve maps a raw value (code or name) to its canonical country. Matching
// is case-insensitive on the trimmed value. Unknown values pass through
// unchanged with Resolved=false so later lookups fail visibly.
func (t CountryTable) Resolve(raw string) Resolution {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Resolution{}
	}

	key := foldKey(raw)
	for _, code := range sortedKeys(t.Regions) {
		if foldKey(code) == key {
			region := t.Regions[code]
			return Resolution{Raw: raw, Country: region.Base, Resolved: true, Surcharge: region.Surcharge}
		}
	}
	if canonical, ok := t.Aliases[raw]; ok {
		return Resolution{Raw: raw, Country: canonical, Resolved: true}
	}
	for _, alias := range sortedKeys(t.Aliases) {
		if foldKey(alias) == key {
			return Resolution{Raw: raw, Country: t.Aliases[alias], Resolved: true}
		}
	}
	return Resolution{Raw: raw, Country: raw}
}

// Check rejects alias or region keys that collide once case and surrounding
// spaces are ignored.
func (t CountryTable) Check() error {
	if err := checkFolded("region", sortedKeys(t.Regions)); err != nil {
		return err
	}
	return checkFolded("alias", sortedKeys(t.Aliases))
}

func checkFolded(kind string, keys []string) error {
	seen := make(map[string]string, len(keys))
	for _, k := range keys {
		f := foldKey(k)
		if prev, ok := seen[f]; ok {
			return fmt.Errorf("%s keys %q and %q collide", kind, prev, k)
		}
		seen[f] = k
	}
	return nil
}

func foldKey(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
