package profit

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Order status strings shown in reconciliation.
const (
	StatusOK                = "OK"
	StatusUnresolvedCountry = "Unresolved country"
	StatusUnknownCountry    = "Unknown country"
	StatusNothingPriced     = "Only zero-COGS/unmapped"
)

// Order is the per-order result of a computation.
type Order struct {
	ID           string
	RawCountry   string
	Resolution   Resolution
	PrimaryUnits int
	PrimaryCost  float64
	ExtrasCost   float64
	Surcharge    float64
	COGS         float64
	Revenue      Revenue
	Tags         string
	Segment      Segment
	FirstOrder   bool
	Date         time.Time
	HasDate      bool
	Warnings     []Warning
	Unmapped     []string
	Computed     bool
	Status       string

	revenueSource float64
}

// Country is the canonical country, or "" when no row had shipping data.
func (o Order) Country() string { return o.Resolution.Country }

// WarningText joins the order's warnings for display.
func (o Order) WarningText() string {
	msgs := make([]string, 0, len(o.Warnings))
	for _, w := range o.Warnings {
		msgs = append(msgs, w.Message)
	}
	return strings.Join(msgs, " | ")
}

// Diagnostic is one anomaly or debug line, tagged with its order.
type Diagnostic struct {
	OrderID string
	Kind    WarningKind
	Message string
}

func (d Diagnostic) String() string {
	if d.OrderID == "" {
		return d.Message
	}
	return d.OrderID + ": " + d.Message
}

type aggregator struct {
	normalizer   *Normalizer
	classifier   *Classifier
	countries    CountryTable
	costs        CostModel
	pass         *costPass
	extras       map[string]map[string]float64
	segmenter    Segmenter
	dropBlank    bool
	flagUnpriced bool
	verbose      bool
}

// aggregate groups rows by order id and prices each order. Orders come back
// sorted by id and diagnostics follow that order.
func (a *aggregator) aggregate(rows []Row) ([]Order, []Diagnostic) {
	var diags []Diagnostic
	groups := make(map[string][]Row)
	for _, r := range rows {
		if strings.TrimSpace(r.OrderID) == "" {
			diags = append(diags, Diagnostic{
				Kind:    WarnMissingOrderID,
				Message: fmt.Sprintf("row %d: missing order identifier, skipped", r.Index+1),
			})
			continue
		}
		groups[r.OrderID] = append(groups[r.OrderID], r)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	orders := make([]Order, 0, len(ids))
	for _, id := range ids {
		o, d := a.order(id, groups[id])
		orders = append(orders, o)
		diags = append(diags, d...)
	}
	return orders, diags
}

func (a *aggregator) order(id string, rows []Row) (Order, []Diagnostic) {
	o := Order{ID: id}
	var diags []Diagnostic
	warn := func(w Warning) {
		o.Warnings = append(o.Warnings, w)
		diags = append(diags, Diagnostic{OrderID: id, Kind: w.Kind, Message: w.Message})
	}

	for _, r := range rows {
		if o.RawCountry == "" && r.Country != "" {
			o.RawCountry = r.Country
		}
		if o.Tags == "" && strings.TrimSpace(r.Tags) != "" {
			o.Tags = r.Tags
		}
		if !o.HasDate {
			o.Date, o.HasDate = ParseDate(r.Date)
		}
	}
	o.Resolution = a.countries.Resolve(o.RawCountry)
	o.Segment = a.segmenter.Segment(o.Tags)
	o.FirstOrder = a.segmenter.IsFirstOrder(o.Tags)
	o.revenueSource = orderRevenue(rows)

	items := rows
	if a.dropBlank && o.RawCountry != "" {
		items = make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.Country != "" {
				items = append(items, r)
			}
		}
	}

	country := o.Resolution.Country
	for _, r := range items {
		if r.BadQuantity != "" {
			diags = append(diags, Diagnostic{
				OrderID: id,
				Kind:    WarnInvalidQuantity,
				Message: fmt.Sprintf("Invalid quantity %q for %s, counted as 0", r.BadQuantity, r.Name),
			})
		}
		if r.Quantity <= 0 {
			continue
		}
		c := a.classifier.Classify(a.normalizer.Normalize(r.Name))
		switch c.Category {
		case CategoryZeroCost:
		case CategoryPrimary:
			o.PrimaryUnits += r.Quantity
		case CategoryExtra:
			price, ok := a.extras[c.ExtraKey][country]
			if !ok {
				if a.flagUnpriced && country != "" {
					warn(Warning{
						Kind:    WarnUnpricedExtra,
						Message: fmt.Sprintf("no price for %q in %s", r.Name, country),
					})
				}
				continue
			}
			o.ExtrasCost += price * float64(r.Quantity)
		default:
			o.Unmapped = append(o.Unmapped, r.Name)
			diags = append(diags, Diagnostic{OrderID: id, Kind: WarnUnmappedItem, Message: "Unmapped " + r.Name})
		}
	}

	var primaryWarn Warning
	switch {
	case o.RawCountry == "":
		warn(Warning{Kind: WarnUnresolvedCountry, Message: "unresolved country: no shipping country on any row"})
	default:
		if !o.Resolution.Resolved {
			warn(Warning{Kind: WarnUnresolvedCountry, Message: fmt.Sprintf("unresolved country %q", o.RawCountry)})
		}
		o.PrimaryCost, primaryWarn = a.pass.cost(country, o.PrimaryUnits)
		if !primaryWarn.IsZero() {
			warn(primaryWarn)
		}
		if o.PrimaryUnits > 0 && o.Resolution.Surcharge > 0 {
			o.Surcharge = o.Resolution.Surcharge
			warn(Warning{
				Kind:    WarnSurcharge,
				Message: fmt.Sprintf("%s surcharge +%.2f applied", o.Resolution.Raw, o.Surcharge),
			})
		}
	}

	o.ExtrasCost = round2(o.ExtrasCost)
	o.COGS = round2(o.PrimaryCost + o.Surcharge + o.ExtrasCost)
	priced := o.COGS > 0

	switch {
	case o.RawCountry == "":
		o.Status, o.Computed = StatusUnresolvedCountry, false
	case !a.costs.HasCountry(country):
		o.Status, o.Computed = StatusUnknownCountry, priced
	case !primaryWarn.IsZero():
		o.Status, o.Computed = primaryWarn.Message, priced
	case priced:
		o.Status, o.Computed = StatusOK, true
	default:
		o.Status, o.Computed = StatusNothingPriced, false
	}

	if a.verbose {
		diags = append(diags, Diagnostic{
			OrderID: id,
			Kind:    WarnBreakdown,
			Message: fmt.Sprintf("%s · main %du = %.2f · extras %.2f", displayCountry(country), o.PrimaryUnits, o.PrimaryCost+o.Surcharge, o.ExtrasCost),
		})
	}
	return o, diags
}

func displayCountry(c string) string {
	if c == "" {
		return "(none)"
	}
	return c
}
