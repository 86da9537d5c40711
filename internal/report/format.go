// Package report renders computed profitability for people: console text,
// an XLSX workbook and tab-delimited files.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"profitdash/internal/profit"
)

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
	"AUD": "A$",
	"CAD": "C$",
	"NZD": "NZ$",
}

// Money formats v with thousands separators and the currency symbol, e.g.
// "-$1,234.50".
func Money(v float64, currency string) string {
	sym, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		sym = strings.ToUpper(currency) + " "
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + sym + printer.Sprintf("%.2f", v)
}

// Percent renders a ratio as a percentage or "n/a".
func Percent(r profit.Ratio) string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", r.Value*100)
}

const rule = "──────────────────"

// FormatSummary renders the blended and front-end results.
func FormatSummary(r *profit.Report) string {
	cur := r.CostCurrency
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = r.Line
	}
	fmt.Fprintf(&b, "📊 %s profitability · %s\n", title, r.DateRange.Label())
	if r.Converts() {
		fmt.Fprintf(&b, "FX: 1 %s = %.4f %s\n", r.StoreCurrency, r.FXRate, r.CostCurrency)
	}
	b.WriteString(rule + "\n")

	writeSegment(&b, "Blended", r.Blended, r.StoreCurrency, cur, r.Converts())
	b.WriteString(rule + "\n")
	writeSegment(&b, "Front-end (NC)", r.FrontEnd, r.StoreCurrency, cur, r.Converts())
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "Orders: %d · COGS priced: %d · recurring: %d", len(r.Orders), r.OrdersComputed(), r.RecurringOrders)
	if n := r.FirstOrders(); n > 0 {
		fmt.Fprintf(&b, " · first orders: %d", n)
	}
	b.WriteString("\n")
	if n := len(r.Diagnostics); n > 0 {
		fmt.Fprintf(&b, "⚠️ %d diagnostic(s)\n", n)
	}
	return b.String()
}

func writeSegment(b *strings.Builder, name string, s profit.Summary, store, cur string, converts bool) {
	fmt.Fprintf(b, "%s (%d orders)\n", name, s.Orders)
	if converts {
		fmt.Fprintf(b, "- Revenue: %s (%s)\n", Money(s.Revenue.Converted, cur), Money(s.Revenue.Source, store))
	} else {
		fmt.Fprintf(b, "- Revenue: %s\n", Money(s.Revenue.Converted, cur))
	}
	fmt.Fprintf(b, "- Fees: %s\n", Money(s.Revenue.Fees, cur))
	fmt.Fprintf(b, "- Net after fees: %s\n", Money(s.Revenue.NetAfterFees, cur))
	fmt.Fprintf(b, "- COGS: %s\n", Money(s.COGS, cur))
	fmt.Fprintf(b, "- Gross profit: %s\n", Money(s.GrossProfit, cur))
	fmt.Fprintf(b, "- Ad spend: %s\n", Money(s.AdSpend, cur))
	fmt.Fprintf(b, "Profit: %s · margin %s · ROAS %s\n", Money(s.OverallProfit, cur), Percent(s.Margin), s.ROAS)
}

// WriteDiagnostics prints one diagnostic per line.
func WriteDiagnostics(w io.Writer, r *profit.Report) error {
	for _, d := range r.Diagnostics {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteReconciliation prints the per-order table followed by order counts
// per country.
func WriteReconciliation(w io.Writer, r *profit.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Order\tCountry\tUnits\tMain\tExtras\tCOGS\tRevenue\tComputed\tStatus\tUnmapped")
	for _, o := range r.Orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\n",
			o.ID,
			countryLabel(o),
			o.PrimaryUnits,
			o.PrimaryCost+o.Surcharge,
			o.ExtrasCost,
			o.COGS,
			o.Revenue.Converted,
			yesNo(o.Computed),
			o.Status,
			strings.Join(o.Unmapped, ", "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Country\tOrders")
	for _, c := range r.CountryCounts() {
		name := c.Country
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(tw, "%s\t%d\n", name, c.Orders)
	}
	return tw.Flush()
}

func countryLabel(o profit.Order) string {
	switch {
	case o.RawCountry == "":
		return "(none)"
	case o.Resolution.Surcharge > 0:
		return fmt.Sprintf("%s (%s)", o.Country(), o.Resolution.Raw)
	default:
		return o.Country()
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
