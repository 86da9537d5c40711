package profit

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ratio is a quotient that may be not applicable (zero denominator).
type Ratio struct {
	Value float64
	Valid bool
}

// NewRatio divides num by den; a zero denominator yields an invalid ratio.
func NewRatio(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Valid: true}
}

// String renders the ratio with two decimals, or "n/a".
func (r Ratio) String() string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", r.Value)
}

// Format renders the ratio with the given number of decimals, or "" when not
// applicable (spreadsheet-friendly).
func (r Ratio) Format(places int32) string {
	if !r.Valid {
		return ""
	}
	return decimal.NewFromFloat(r.Value).StringFixed(places)
}

// SegmentTotals are the inputs of one segment's summary.
type SegmentTotals struct {
	Orders  int
	Revenue Revenue
	COGS    float64
}

// Summary is the profitability of one segment.
type Summary struct {
	Orders        int
	Revenue       Revenue
	COGS          float64
	AdSpend       float64
	GrossProfit   float64
	OverallProfit float64
	Margin        Ratio
	ROAS          Ratio
}

// Summarize combines revenue, fees and COGS with ad spend.
func Summarize(t SegmentTotals, adSpend float64) Summary {
	gross := t.Revenue.Converted - t.Revenue.Fees - t.COGS
	overall := gross - adSpend

	return Summary{
		Orders:        t.Orders,
		Revenue:       t.Revenue,
		COGS:          round2(t.COGS),
		AdSpend:       round2(adSpend),
		GrossProfit:   round2(gross),
		OverallProfit: round2(overall),
		Margin:        NewRatio(overall, t.Revenue.Converted),
		ROAS:          NewRatio(t.Revenue.Converted, adSpend),
	}
}
