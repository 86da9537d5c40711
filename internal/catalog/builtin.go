package catalog

import "profitdash/internal/profit"

// Built-in product line names.
const (
	Rhoms    = "rhoms"
	Yevivo   = "yevivo"
	Gleamont = "gleamont"
)

var shopifyZeroCost = []string{"express shipping", "dermatologist guide", "shipping protection"}

// RhomsLine is a GBP store whose costs are billed in USD. Hair smoothing
// products are priced per exact tier; razors and foam are priced extras.
func RhomsLine() profit.ProductLine {
	schema := profit.DefaultSchema()
	schema.Total = []string{"Total", "Total Sales", "Total (GBP)", "Total Price"}

	return profit.ProductLine{
		Name:             Rhoms,
		Title:            "Rhóms",
		StoreCurrency:    "GBP",
		CostCurrency:     "USD",
		DefaultFXRate:    1.30,
		Schema:           schema,
		ZeroCostKeywords: shopifyZeroCost,
		Primary: profit.PrimaryMatcher{
			Phrases: []string{"smoothing solution", "smoothing serum"},
		},
		Extras: []profit.Extra{
			{Key: "irritation proof razor", Prices: map[string]float64{
				"United States": 5.50, "United Kingdom": 4.50, "Canada": 5.50,
			}},
			{Key: "razor close trimmer", Prices: map[string]float64{
				"United Kingdom": 10.50,
			}},
			{Key: "shaving foam", Prices: map[string]float64{
				"United States": 6.00, "United Kingdom": 5.00, "Canada": 6.00,
			}},
		},
		Countries: profit.CountryTable{Aliases: map[string]string{
			"GB": "United Kingdom", "UK": "United Kingdom", "United Kingdom": "United Kingdom",
			"CA": "Canada", "CAN": "Canada", "Canada": "Canada",
			"US": "United States", "USA": "United States", "United States": "United States",
		}},
		Costs: map[string]profit.TierTable{
			"United States": {Model: profit.ModelExtrapolate, Tiers: map[int]float64{
				1: 8.00, 2: 10.50, 3: 13.00, 4: 15.50, 5: 18.00, 6: 20.50,
			}},
			"United Kingdom": {Model: profit.ModelExtrapolate, Tiers: map[int]float64{
				1: 5.50, 2: 8.00, 3: 10.00, 4: 12.00, 5: 14.00, 6: 16.00,
			}},
			"Canada": {Model: profit.ModelExtrapolate, Tiers: map[int]float64{
				1: 6.50, 2: 9.00, 3: 11.50, 4: 14.50, 5: 17.00, 6: 21.00,
			}},
		},
		RecurringMarker: profit.DefaultRecurringMarker,
		ExportLayout:    profit.LayoutSummary,
	}
}

// YevivoLine sells bottles under one brand name in AU and UK. Duplicate
// export rows without shipping data are dropped.
func YevivoLine() profit.ProductLine {
	return profit.ProductLine{
		Name:             Yevivo,
		Title:            "Yevivo",
		StoreCurrency:    "USD",
		CostCurrency:     "USD",
		DefaultFXRate:    1,
		Schema:           profit.DefaultSchema(),
		ZeroCostKeywords: shopifyZeroCost,
		Primary:          profit.PrimaryMatcher{BrandToken: "yevivo"},
		Countries: profit.CountryTable{Aliases: map[string]string{
			"GB": "United Kingdom", "UK": "United Kingdom", "United Kingdom": "United Kingdom",
			"AU": "Australia", "AUS": "Australia", "Australia": "Australia",
		}},
		Costs: map[string]profit.TierTable{
			"Australia": {Model: profit.ModelExtrapolate, Tiers: map[int]float64{
				1: 8.0, 2: 10.3, 3: 12.9, 4: 15.3,
			}},
			"United Kingdom": {Model: profit.ModelExtrapolate, Tiers: map[int]float64{
				1: 6.2, 2: 8.8, 3: 11.3, 4: 13.8,
			}},
		},
		RecurringMarker:      profit.DefaultRecurringMarker,
		DropBlankCountryRows: true,
		ExportLayout:         profit.LayoutSummary,
	}
}

// GleamontLine has sparse 1/3/5 unit quotes per country and fits a line
// through them. NL and EU ship from the UK with a flat surcharge.
func GleamontLine() profit.ProductLine {
	schema := profit.DefaultSchema()
	schema.Country = []string{"Shipping Country", "Billing Country"}

	linear := func(one, three, five float64) profit.TierTable {
		return profit.TierTable{
			Model: profit.ModelLinearFit,
			Tiers: map[int]float64{1: one, 3: three, 5: five},
		}
	}

	return profit.ProductLine{
		Name:          Gleamont,
		Title:         "Gleamont",
		StoreCurrency: "USD",
		CostCurrency:  "USD",
		DefaultFXRate: 1,
		Schema:        schema,
		Misspellings:  map[string]string{"deodrant": "deodorant"},
		ZeroCostKeywords: []string{
			"shipping protection",
			"route package protection",
			"gift card",
		},
		Primary: profit.PrimaryMatcher{BrandToken: "gleamont clinical strength internal deodorant"},
		Countries: profit.CountryTable{
			Aliases: map[string]string{
				"GB": "United Kingdom", "UK": "United Kingdom",
				"US": "United States",
				"CA": "Canada",
				"AU": "Australia",
				"NZ": "New Zealand",
			},
			Regions: map[string]profit.Region{
				"EU": {Base: "United Kingdom", Surcharge: 1.00},
				"NL": {Base: "United Kingdom", Surcharge: 1.00},
			},
		},
		Costs: map[string]profit.TierTable{
			"United Kingdom": linear(6.7, 9.9, 12.9),
			"United States":  linear(6.2, 9.2, 11.8),
			"Canada":         linear(6.8, 10.6, 14.1),
			"Australia":      linear(6.7, 10.1, 13.3),
			"New Zealand":    linear(7.7, 11.2, 14.5),
		},
		RecurringMarker:  profit.DefaultRecurringMarker,
		FirstOrderMarker: profit.DefaultFirstOrderMarker,
		ExportLayout:     profit.LayoutPnL,
	}
}

// Builtin returns a fresh copy of every built-in product line keyed by name.
func Builtin() Static {
	return NewStatic(RhomsLine(), YevivoLine(), GleamontLine())
}
