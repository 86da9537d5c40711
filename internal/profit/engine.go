package profit

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Settings are the per-run inputs supplied by the caller.
type Settings struct {
	AdSpend float64
	// FXRate converts store currency into cost currency; 0 uses the product
	// line default.
	FXRate  float64
	Fees    FeeSchedule
	Verbose bool
}

func (s Settings) Validate() error {
	if s.AdSpend < 0 {
		return fmt.Errorf("invalid ad spend: %.2f", s.AdSpend)
	}
	if s.FXRate < 0 {
		return fmt.Errorf("invalid fx rate: %.4f", s.FXRate)
	}
	return s.Fees.Validate()
}

// Engine computes profitability reports for one product line.
type Engine struct {
	line       ProductLine
	normalizer *Normalizer
	classifier *Classifier
	costs      CostModel
	extras     map[string]map[string]float64
	logger     *zap.Logger
}

// NewEngine prepares the rule list and lookup tables of a product line.
func NewEngine(line ProductLine, logger *zap.Logger) (*Engine, error) {
	if err := line.Check(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	line.Schema = line.Schema.WithDefaults()

	normalizer := NewNormalizer(mergeMisspellings(line.Misspellings))
	extras := make(map[string]map[string]float64, len(line.Extras))
	for _, e := range line.Extras {
		extras[e.Key] = e.Prices
	}

	return &Engine{
		line:       line,
		normalizer: normalizer,
		classifier: NewClassifier(normalizer, line.ZeroCostKeywords, line.Primary, line.Extras),
		costs:      NewCostModel(line.Costs),
		extras:     extras,
		logger:     logger.With(zap.String("product_line", line.Name)),
	}, nil
}

// Line returns the engine's product line.
func (e *Engine) Line() ProductLine { return e.line }

// Compute runs one full pass over t. It fails only on structural errors.
func (e *Engine) Compute(t Table, s Settings) (*Report, error) {
	const operation = "profit.Compute"

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	cols, err := e.line.Schema.Bind(t.Headers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	fx := e.line.FXRate(s.FXRate)
	segmenter := Segmenter{
		Marker:           e.line.RecurringMarker,
		FirstOrderMarker: e.line.FirstOrderMarker,
		HasTags:          cols.Tags != "",
	}
	agg := &aggregator{
		normalizer:   e.normalizer,
		classifier:   e.classifier,
		countries:    e.line.Countries,
		costs:        e.costs,
		pass:         e.costs.pass(),
		extras:       e.extras,
		segmenter:    segmenter,
		dropBlank:    e.line.DropBlankCountryRows,
		flagUnpriced: e.line.FlagUnpricedExtras,
		verbose:      s.Verbose,
	}

	orders, diags := agg.aggregate(cols.Rows(t))

	report := &Report{
		Line:          e.line.Name,
		Title:         e.line.Title,
		StoreCurrency: e.line.StoreCurrency,
		CostCurrency:  e.line.CostCurrency,
		FXRate:        fx,
		Orders:        orders,
		Diagnostics:   diags,
	}
	for i := range report.Orders {
		o := &report.Orders[i]
		o.Revenue = CalculateRevenue(o.revenueSource, fx, s.Fees)
		if o.HasDate {
			report.DateRange.include(o.Date)
		}
	}

	frontEnd, recurring := segmenter.Split(report.Orders)
	report.Blended = Summarize(segmentTotals(report.Orders, fx, s.Fees), s.AdSpend)
	// Ad spend funds acquisition only, so the front-end segment carries all of it.
	report.FrontEnd = Summarize(segmentTotals(frontEnd, fx, s.Fees), s.AdSpend)
	report.RecurringOrders = len(recurring)

	e.logger.Info("Computed profitability",
		zap.Int("rows", len(t.Rows)),
		zap.Int("orders", len(report.Orders)),
		zap.Int("front_end_orders", report.FrontEnd.Orders),
		zap.Int("diagnostics", len(report.Diagnostics)),
		zap.Float64("cogs", report.Blended.COGS),
		zap.Float64("overall_profit", report.Blended.OverallProfit))
	for _, d := range report.Diagnostics {
		fields := []zap.Field{
			zap.String("order", d.OrderID),
			zap.String("kind", string(d.Kind)),
			zap.String("message", d.Message),
		}
		if d.Kind == WarnBreakdown {
			e.logger.Debug("Order breakdown", fields...)
			continue
		}
		e.logger.Warn("Diagnostic", fields...)
	}

	return report, nil
}

func segmentTotals(orders []Order, fx float64, fees FeeSchedule) SegmentTotals {
	var source, cogs, perOrderFees float64
	for _, o := range orders {
		source += o.revenueSource
		cogs += o.COGS
		perOrderFees += fees.Fees(o.revenueSource * fx)
	}

	rev := CalculateRevenue(source, fx, fees)
	if fees.Basis == FeeBasisOrder {
		converted := source * fx
		rev.Fees = round2(perOrderFees)
		rev.NetAfterFees = round2(converted - perOrderFees)
	}
	return SegmentTotals{Orders: len(orders), Revenue: rev, COGS: round2(cogs)}
}

func mergeMisspellings(extra map[string]string) map[string]string {
	out := make(map[string]string, len(DefaultMisspellings)+len(extra))
	for k, v := range DefaultMisspellings {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Report is everything a presentation layer needs from one computation.
type Report struct {
	Line          string
	Title         string
	StoreCurrency string
	CostCurrency  string
	FXRate        float64

	Blended         Summary
	FrontEnd        Summary
	RecurringOrders int

	Orders      []Order
	Diagnostics []Diagnostic
	DateRange   DateRange
}

// Converts reports whether store and cost currencies differ.
func (r *Report) Converts() bool {
	return r.StoreCurrency != r.CostCurrency || r.FXRate != 1
}

// OrdersComputed counts orders with a priced COGS.
func (r *Report) OrdersComputed() int {
	n := 0
	for _, o := range r.Orders {
		if o.Computed {
			n++
		}
	}
	return n
}

// FirstOrders counts orders tagged as a subscription's first order.
func (r *Report) FirstOrders() int {
	n := 0
	for _, o := range r.Orders {
		if o.FirstOrder {
			n++
		}
	}
	return n
}

// Uncomputed lists orders without a priced COGS.
func (r *Report) Uncomputed() []Order {
	var out []Order
	for _, o := range r.Orders {
		if !o.Computed {
			out = append(out, o)
		}
	}
	return out
}

// WithWarnings lists orders that carry at least one warning.
func (r *Report) WithWarnings() []Order {
	var out []Order
	for _, o := range r.Orders {
		if len(o.Warnings) > 0 {
			out = append(out, o)
		}
	}
	return out
}

// CountryCount is the number of orders shipped to one country.
type CountryCount struct {
	Country string
	Orders  int
}

// CountryCounts returns order counts per canonical country, largest first.
func (r *Report) CountryCounts() []CountryCount {
	counts := make(map[string]int)
	for _, o := range r.Orders {
		counts[o.Country()]++
	}
	out := make([]CountryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CountryCount{Country: c, Orders: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].Country < out[j].Country
	})
	return out
}
