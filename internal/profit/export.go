package profit

import (
	"fmt"
	"strconv"
	"strings"
)

// ExportField is one column of a tab-delimited export. "{currency}" in the
// header is replaced with the report's cost currency.
type ExportField struct {
	Header string
	Value  func(r *Report) string
}

// ExportLayout is a fixed, ordered set of export columns.
type ExportLayout struct {
	Name   string
	Fields []ExportField
}

const (
	LayoutSummary = "summary"
	LayoutPnL     = "pnl"
)

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// SummaryLayout is the one-line sheet row: date range, net revenue, ad spend,
// COGS, total profit and front-end profit.
func SummaryLayout() ExportLayout {
	return ExportLayout{
		Name: LayoutSummary,
		Fields: []ExportField{
			{"Date (or range)", func(r *Report) string { return r.DateRange.Label() }},
			{"Total Revenue ({currency})", func(r *Report) string { return money(r.Blended.Revenue.NetAfterFees) }},
			{"Ad Spend ({currency})", func(r *Report) string { return money(r.Blended.AdSpend) }},
			{"Total COGs ({currency})", func(r *Report) string { return money(r.Blended.COGS) }},
			{"Total Profit ({currency})", func(r *Report) string { return money(r.Blended.OverallProfit) }},
			{"NC Profit ({currency})", func(r *Report) string { return money(r.FrontEnd.OverallProfit) }},
		},
	}
}

// PnLLayout is the profit-and-loss row with both segments side by side.
func PnLLayout() ExportLayout {
	return ExportLayout{
		Name: LayoutPnL,
		Fields: []ExportField{
			{"Revenue_Total", func(r *Report) string { return money(r.Blended.Revenue.Converted) }},
			{"Ad_Spend", func(r *Report) string { return money(r.Blended.AdSpend) }},
			{"COGS_Total", func(r *Report) string { return money(r.Blended.COGS) }},
			{"Fees_Total", func(r *Report) string { return money(r.Blended.Revenue.Fees) }},
			{"Blended_Profit", func(r *Report) string { return money(r.Blended.OverallProfit) }},
			{"Blended_ROAS", func(r *Report) string { return r.Blended.ROAS.Format(3) }},
			{"NC_Revenue", func(r *Report) string { return money(r.FrontEnd.Revenue.Converted) }},
			{"NC_COGS", func(r *Report) string { return money(r.FrontEnd.COGS) }},
			{"NC_Fees", func(r *Report) string { return money(r.FrontEnd.Revenue.Fees) }},
			{"NC_Profit", func(r *Report) string { return money(r.FrontEnd.OverallProfit) }},
			{"NC_ROAS", func(r *Report) string { return r.FrontEnd.ROAS.Format(3) }},
			{"Orders", func(r *Report) string { return strconv.Itoa(r.Blended.Orders) }},
			{"NC_Orders", func(r *Report) string { return strconv.Itoa(r.FrontEnd.Orders) }},
		},
	}
}

// Layout looks up a built-in layout by name; "" selects the summary layout.
func Layout(name string) (ExportLayout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LayoutSummary:
		return SummaryLayout(), nil
	case LayoutPnL:
		return PnLLayout(), nil
	default:
		return ExportLayout{}, fmt.Errorf("unknown export layout %q", name)
	}
}

// Headers renders the layout's column names for r.
func (l ExportLayout) Headers(r *Report) []string {
	out := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		out[i] = strings.ReplaceAll(f.Header, "{currency}", r.CostCurrency)
	}
	return out
}

// Values renders the layout's values for r.
func (l ExportLayout) Values(r *Report) []string {
	out := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		out[i] = f.Value(r)
	}
	return out
}

// TSV renders r as one tab-delimited line, optionally preceded by a header
// line.
func (r *Report) TSV(l ExportLayout, withHeader bool) string {
	var b strings.Builder
	if withHeader {
		b.WriteString(strings.Join(l.Headers(r), "\t"))
		b.WriteByte('\n')
	}
	b.WriteString(strings.Join(l.Values(r), "\t"))
	return b.String()
}
