package profit

import (
	"errors"
	"fmt"
)

// ProductLine is the full costing configuration of one store. It is read-only
// during a computation and several lines can be used side by side.
type ProductLine struct {
	Name          string `json:"name" yaml:"name" validate:"required"`
	Title         string `json:"title" yaml:"title"`
	StoreCurrency string `json:"store_currency" yaml:"store_currency" validate:"required,len=3"`
	CostCurrency  string `json:"cost_currency" yaml:"cost_currency" validate:"required,len=3"`
	// DefaultFXRate converts store currency into cost currency when the
	// caller does not supply a rate.
	DefaultFXRate float64 `json:"default_fx_rate" yaml:"default_fx_rate" validate:"gte=0"`

	Schema           Schema               `json:"schema" yaml:"schema"`
	Misspellings     map[string]string    `json:"misspellings,omitempty" yaml:"misspellings,omitempty"`
	ZeroCostKeywords []string             `json:"zero_cost_keywords" yaml:"zero_cost_keywords"`
	Primary          PrimaryMatcher       `json:"primary" yaml:"primary"`
	Extras           []Extra              `json:"extras,omitempty" yaml:"extras,omitempty" validate:"dive"`
	Countries        CountryTable         `json:"countries" yaml:"countries"`
	Costs            map[string]TierTable `json:"costs" yaml:"costs" validate:"required,min=1,dive"`

	RecurringMarker  string `json:"recurring_marker" yaml:"recurring_marker"`
	FirstOrderMarker string `json:"first_order_marker,omitempty" yaml:"first_order_marker,omitempty"`

	// DropBlankCountryRows ignores rows without shipping data when a sibling
	// row of the same order has it (duplicate export rows).
	DropBlankCountryRows bool `json:"drop_blank_country_rows" yaml:"drop_blank_country_rows"`
	// FlagUnpricedExtras warns when an extra has no price for the order's
	// country.
	FlagUnpricedExtras bool `json:"flag_unpriced_extras" yaml:"flag_unpriced_extras"`

	ExportLayout string `json:"export_layout" yaml:"export_layout" validate:"omitempty,oneof=summary pnl"`
}

var errNoPrimaryMatcher = errors.New("primary product matcher is empty")

// Check verifies invariants the struct tags cannot express.
func (l ProductLine) Check() error {
	if l.Primary.BrandToken == "" && len(l.Primary.Phrases) == 0 {
		return fmt.Errorf("product line %q: %w", l.Name, errNoPrimaryMatcher)
	}
	for country, table := range l.Costs {
		switch table.Model {
		case "", ModelExtrapolate, ModelLinearFit:
		default:
			return fmt.Errorf("product line %q: country %q: unknown cost model %q", l.Name, country, table.Model)
		}
		for q := range table.Tiers {
			if q <= 0 {
				return fmt.Errorf("product line %q: country %q: tier quantity must be positive, got %d", l.Name, country, q)
			}
		}
	}
	if err := CheckMisspellings(mergeMisspellings(l.Misspellings)); err != nil {
		return fmt.Errorf("product line %q: %w", l.Name, err)
	}
	if err := l.Countries.Check(); err != nil {
		return fmt.Errorf("product line %q: %w", l.Name, err)
	}
	for _, r := range l.Countries.Regions {
		if _, ok := l.Costs[r.Base]; !ok {
			return fmt.Errorf("product line %q: region base %q has no cost tiers", l.Name, r.Base)
		}
	}
	return nil
}

// FXRate returns rate when positive, else the line default, else 1.
func (l ProductLine) FXRate(rate float64) float64 {
	if rate > 0 {
		return rate
	}
	if l.DefaultFXRate > 0 {
		return l.DefaultFXRate
	}
	return 1
}
