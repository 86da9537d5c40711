package profit

import (
	"fmt"
	"sort"
)

// ModelKind selects how a tier table prices quantities it does not list.
type ModelKind string

const (
	// ModelExtrapolate uses exact tiers and extends beyond the top tier with
	// the last observed step.
	ModelExtrapolate ModelKind = "extrapolate"
	// ModelLinearFit fits overhead + rate*n through the defined points.
	ModelLinearFit ModelKind = "linear_fit"
)

// TierTable maps a primary-product quantity to a total product cost for one
// country.
type TierTable struct {
	Model ModelKind       `json:"model" yaml:"model" validate:"omitempty,oneof=extrapolate linear_fit"`
	Tiers map[int]float64 `json:"tiers" yaml:"tiers" validate:"required,min=1"`
}

// WarningKind classifies a recoverable anomaly.
type WarningKind string

const (
	WarnUnknownCountry    WarningKind = "unknown_country"
	WarnExtrapolated      WarningKind = "extrapolated"
	WarnMissingTier       WarningKind = "missing_tier"
	WarnUnresolvedCountry WarningKind = "unresolved_country"
	WarnUnmappedItem      WarningKind = "unmapped_item"
	WarnUnpricedExtra     WarningKind = "unpriced_extra"
	WarnSurcharge         WarningKind = "surcharge"
	WarnMissingOrderID    WarningKind = "missing_order_id"
	WarnInvalidQuantity   WarningKind = "invalid_quantity"
	WarnBreakdown         WarningKind = "breakdown"
)

// Warning is a human-readable anomaly attached to a computed value. The zero
// value means no warning.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) IsZero() bool { return w.Kind == "" }

func (w Warning) String() string { return w.Message }

// CostModel prices primary-product quantities per canonical country.
type CostModel struct {
	Tables map[string]TierTable
}

// NewCostModel wraps per-country tier tables.
func NewCostModel(tables map[string]TierTable) CostModel {
	return CostModel{Tables: tables}
}

// Cost returns the product cost of qty units shipped to country.
func (m CostModel) Cost(country string, qty int) (float64, Warning) {
	return m.pass().cost(country, qty)
}

// HasCountry reports whether country has a tier table.
func (m CostModel) HasCountry(country string) bool {
	t, ok := m.Tables[country]
	return ok && len(t.Tiers) > 0
}

// costPass memoizes linear fits for the duration of one computation.
type costPass struct {
	model CostModel
	fits  map[string]linearFit
}

func (m CostModel) pass() *costPass {
	return &costPass{model: m, fits: make(map[string]linearFit)}
}

func (p *costPass) cost(country string, qty int) (float64, Warning) {
	if qty <= 0 {
		return 0, Warning{}
	}

	table, ok := p.model.Tables[country]
	if !ok || len(table.Tiers) == 0 {
		return 0, Warning{
			Kind:    WarnUnknownCountry,
			Message: fmt.Sprintf("unknown country %q for cost tiers", country),
		}
	}

	if table.Model == ModelLinearFit {
		fit, ok := p.fits[country]
		if !ok {
			fit = fitLine(table.Tiers)
			p.fits[country] = fit
		}
		return round2(fit.at(qty)), Warning{}
	}

	return extrapolate(table.Tiers, qty)
}

func extrapolate(tiers map[int]float64, qty int) (float64, Warning) {
	if v, ok := tiers[qty]; ok {
		return v, Warning{}
	}

	maxTier := 0
	for q := range tiers {
		if q > maxTier {
			maxTier = q
		}
	}

	if qty > maxTier {
		step := 0.0
		if prev, ok := tiers[maxTier-1]; ok {
			step = tiers[maxTier] - prev
		}
		est := tiers[maxTier] + step*float64(qty-maxTier)
		return round2(est), Warning{
			Kind:    WarnExtrapolated,
			Message: fmt.Sprintf("extrapolated cost for %d units", qty),
		}
	}

	return 0, Warning{
		Kind:    WarnMissingTier,
		Message: fmt.Sprintf("missing tier for %d units", qty),
	}
}

type linearFit struct {
	Overhead float64
	PerUnit  float64
}

func (f linearFit) at(qty int) float64 {
	if qty <= 0 {
		return 0
	}
	return f.Overhead + f.PerUnit*float64(qty)
}

// fitLine solves ordinary least squares for y = a + b*x through the tiers.
// A single point yields a flat line through it.
func fitLine(tiers map[int]float64) linearFit {
	xs := make([]int, 0, len(tiers))
	for q := range tiers {
		xs = append(xs, q)
	}
	sort.Ints(xs)

	n := float64(len(xs))
	if n == 0 {
		return linearFit{}
	}

	var sx, sy, sxx, sxy float64
	for _, q := range xs {
		x, y := float64(q), tiers[q]
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}

	den := n*sxx - sx*sx
	if den == 0 {
		return linearFit{Overhead: sy / n}
	}
	b := (n*sxy - sx*sy) / den
	a := (sy - b*sx) / n
	return linearFit{Overhead: a, PerUnit: b}
}
