package profit

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// round2 rounds half away from zero to cents.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ParseAmount reads a possibly dirty money value such as "£1,299.00" or
// " 12.5 ". It returns false when nothing numeric is left.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '$' || unicode.IsSpace(r) || r > unicode.MaxASCII:
			return -1
		default:
			return r
		}
	}, raw)
	if cleaned == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// MaxQuantity bounds a single line-item quantity. Larger values are treated
// as unparseable.
const MaxQuantity = 1_000_000

// ParseQuantity coerces a dirty quantity to an integer; invalid input is 0.
func ParseQuantity(raw string) int {
	q, _ := parseQuantity(raw)
	return q
}

// parseQuantity reports ok=false for non-blank input that is not a number or
// whose magnitude exceeds MaxQuantity.
func parseQuantity(raw string) (int, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, true
	}
	v, ok := ParseAmount(raw)
	if !ok {
		return 0, false
	}
	d := decimal.NewFromFloat(v).Truncate(0)
	if d.Abs().GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return 0, false
	}
	return int(d.IntPart()), true
}
