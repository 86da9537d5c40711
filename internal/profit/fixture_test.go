package profit

var usTiers = map[int]float64{1: 8.00, 2: 10.50, 3: 13.00, 4: 15.50, 5: 18.00, 6: 20.50}

func testLine() ProductLine {
	return ProductLine{
		Name:             "test",
		Title:            "Test Store",
		StoreCurrency:    "USD",
		CostCurrency:     "USD",
		Schema:           DefaultSchema(),
		ZeroCostKeywords: []string{"shipping protection", "gift card"},
		Primary:          PrimaryMatcher{BrandToken: "glow"},
		Extras: []Extra{
			{Key: "shaving foam", Prices: map[string]float64{"United States": 1.25, "United Kingdom": 1.10}},
		},
		Countries: CountryTable{
			Aliases: map[string]string{
				"US":             "United States",
				"United States":  "United States",
				"GB":             "United Kingdom",
				"UK":             "United Kingdom",
				"United Kingdom": "United Kingdom",
				"AU":             "Australia",
			},
			Regions: map[string]Region{
				"EU": {Base: "United Kingdom", Surcharge: 1.00},
			},
		},
		Costs: map[string]TierTable{
			"United States":  {Model: ModelExtrapolate, Tiers: usTiers},
			"United Kingdom": {Model: ModelExtrapolate, Tiers: map[int]float64{1: 7.00, 2: 9.40, 3: 11.80}},
			"Australia":      {Model: ModelLinearFit, Tiers: map[int]float64{1: 6.7, 3: 9.9, 5: 12.9}},
		},
		RecurringMarker:  DefaultRecurringMarker,
		FirstOrderMarker: DefaultFirstOrderMarker,
	}
}

var testHeaders = []string{"Name", "Lineitem name", "Lineitem quantity", "Lineitem price", "Shipping Country", "Total", "Tags", "Created at"}

func row(id, item, qty, price, country, total, tags, date string) map[string]string {
	return map[string]string{
		"Name":              id,
		"Lineitem name":     item,
		"Lineitem quantity": qty,
		"Lineitem price":    price,
		"Shipping Country":  country,
		"Total":             total,
		"Tags":              tags,
		"Created at":        date,
	}
}
