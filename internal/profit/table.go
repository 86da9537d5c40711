package profit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCountryColumn is returned when no recognized shipping-country field
	// exists in the input schema.
	ErrNoCountryColumn = errors.New("no shipping country column found")
	// ErrNoOrderColumn is returned when the order identifier field is missing.
	ErrNoOrderColumn = errors.New("no order identifier column found")
)

// Table is an input dataset: one map per row keyed by header.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Schema lists accepted header names per field in priority order.
type Schema struct {
	OrderID  []string `json:"order_id" yaml:"order_id"`
	ItemName []string `json:"item_name" yaml:"item_name"`
	Quantity []string `json:"quantity" yaml:"quantity"`
	Price    []string `json:"price" yaml:"price"`
	Country  []string `json:"country" yaml:"country"`
	Total    []string `json:"total" yaml:"total"`
	Tags     []string `json:"tags" yaml:"tags"`
	Date     []string `json:"date" yaml:"date"`
}

// DefaultSchema matches Shopify order exports.
func DefaultSchema() Schema {
	return Schema{
		OrderID:  []string{"Name"},
		ItemName: []string{"Lineitem name"},
		Quantity: []string{"Lineitem quantity"},
		Price:    []string{"Lineitem price"},
		Country: []string{
			"Shipping Country",
			"Shipping Country Code",
			"Shipping Address Country Code",
			"Shipping Address Country",
		},
		Total: []string{"Total", "Total Sales", "Total Price"},
		Tags:  []string{"Tags", "Tag"},
		Date: []string{
			"Created at",
			"Created At",
			"Processed at",
			"Order Date",
			"Order Created At",
		},
	}
}

// WithDefaults fills every empty field with the Shopify header names.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	fill := func(v *[]string, def []string) {
		if len(*v) == 0 {
			*v = def
		}
	}
	fill(&s.OrderID, d.OrderID)
	fill(&s.ItemName, d.ItemName)
	fill(&s.Quantity, d.Quantity)
	fill(&s.Price, d.Price)
	fill(&s.Country, d.Country)
	fill(&s.Total, d.Total)
	fill(&s.Tags, d.Tags)
	fill(&s.Date, d.Date)
	return s
}

// Columns is a Schema bound to the headers of one table. Empty means absent.
type Columns struct {
	OrderID  string
	ItemName string
	Quantity string
	Price    string
	Country  string
	Total    string
	Tags     string
	Date     string
}

// Bind picks the first present header for every field.
func (s Schema) Bind(headers []string) (Columns, error) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	pick := func(names []string) string {
		for _, n := range names {
			if present[n] {
				return n
			}
		}
		return ""
	}

	cols := Columns{
		OrderID:  pick(s.OrderID),
		ItemName: pick(s.ItemName),
		Quantity: pick(s.Quantity),
		Price:    pick(s.Price),
		Country:  pick(s.Country),
		Total:    pick(s.Total),
		Tags:     pick(s.Tags),
		Date:     pick(s.Date),
	}
	if cols.Country == "" {
		return cols, fmt.Errorf("%w (accepted: %s)", ErrNoCountryColumn, strings.Join(s.Country, ", "))
	}
	if cols.OrderID == "" {
		return cols, fmt.Errorf("%w (accepted: %s)", ErrNoOrderColumn, strings.Join(s.OrderID, ", "))
	}
	return cols, nil
}

// Row is the typed view of one input row.
type Row struct {
	Index    int
	OrderID  string
	Name     string
	Quantity int
	Price    float64
	HasPrice bool
	Total    float64
	HasTotal bool
	Country  string
	Tags     string
	Date     string
	// BadQuantity holds the raw quantity text when it could not be parsed.
	BadQuantity string
}

// Rows converts the raw table into typed rows. Dirty numbers become 0.
func (c Columns) Rows(t Table) []Row {
	out := make([]Row, 0, len(t.Rows))
	for i, raw := range t.Rows {
		r := Row{
			Index:    i,
			OrderID:  raw[c.OrderID],
			Name:     field(raw, c.ItemName),
			Country:  strings.TrimSpace(field(raw, c.Country)),
			Tags:     field(raw, c.Tags),
			Date:     strings.TrimSpace(field(raw, c.Date)),
		}
		qty := field(raw, c.Quantity)
		if q, ok := parseQuantity(qty); ok {
			r.Quantity = q
		} else {
			r.BadQuantity = strings.TrimSpace(qty)
		}
		r.Price, r.HasPrice = ParseAmount(field(raw, c.Price))
		r.Total, r.HasTotal = ParseAmount(field(raw, c.Total))
		out = append(out, r)
	}
	return out
}

func field(raw map[string]string, col string) string {
	if col == "" {
		return ""
	}
	return raw[col]
}
