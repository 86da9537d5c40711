package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitdash/internal/profit"
)

func TestBuiltinLinesValidate(t *testing.T) {
	b := Builtin()
	assert.Equal(t, []string{Gleamont, Rhoms, Yevivo}, b.Names())

	for _, name := range b.Names() {
		line, err := b.Get(context.Background(), name)
		require.NoError(t, err)
		assert.NoError(t, Validate(line), name)
	}
}

func TestRhomsLine(t *testing.T) {
	e, err := profit.NewEngine(RhomsLine(), nil)
	require.NoError(t, err)

	headers := []string{"Name", "Lineitem name", "Lineitem quantity", "Shipping Country", "Total (GBP)"}
	table := profit.Table{Headers: headers, Rows: []map[string]string{
		{"Name": "#R1", "Lineitem name": "Rhóms Smoothing Serum", "Lineitem quantity": "3", "Shipping Country": "GB", "Total (GBP)": "60.00"},
		{"Name": "#R1", "Lineitem name": "Razor Close Trimmer", "Lineitem quantity": "1", "Shipping Country": "GB", "Total (GBP)": "60.00"},
		{"Name": "#R1", "Lineitem name": "Dermatologist Guide", "Lineitem quantity": "1", "Shipping Country": "GB", "Total (GBP)": "60.00"},
	}}

	report, err := e.Compute(table, profit.Settings{Fees: profit.DefaultFees()})
	require.NoError(t, err)

	assert.Equal(t, 1.30, report.FXRate)
	assert.Equal(t, 78.00, report.Blended.Revenue.Converted)
	assert.Equal(t, 20.50, report.Blended.COGS)
	assert.Empty(t, report.Diagnostics)
}

func TestYevivoLine(t *testing.T) {
	e, err := profit.NewEngine(YevivoLine(), nil)
	require.NoError(t, err)

	headers := []string{"Name", "Lineitem name", "Lineitem quantity", "Shipping Country", "Total"}
	table := profit.Table{Headers: headers, Rows: []map[string]string{
		{"Name": "#Y1", "Lineitem name": "Yevivo 3-Pack", "Lineitem quantity": "2", "Shipping Country": "AU", "Total": "120"},
		{"Name": "#Y1", "Lineitem name": "Yevivo 3-Pack", "Lineitem quantity": "2", "Shipping Country": "", "Total": "120"},
		{"Name": "#Y1", "Lineitem name": "Yevivo Single", "Lineitem quantity": "4", "Shipping Country": "AU", "Total": "120"},
	}}

	report, err := e.Compute(table, profit.Settings{Fees: profit.DefaultFees()})
	require.NoError(t, err)
	require.Len(t, report.Orders, 1)

	o := report.Orders[0]
	assert.Equal(t, 6, o.PrimaryUnits)
	// 15.3 + 2.4*2
	assert.Equal(t, 20.10, o.COGS)
	assert.Equal(t, profit.WarnExtrapolated, o.Warnings[0].Kind)
}

func TestGleamontLine(t *testing.T) {
	e, err := profit.NewEngine(GleamontLine(), nil)
	require.NoError(t, err)

	headers := []string{"Name", "Lineitem name", "Lineitem quantity", "Billing Country", "Total", "Tags"}
	table := profit.Table{Headers: headers, Rows: []map[string]string{
		{"Name": "#G1", "Lineitem name": "Gleamont Clinical-Strength Internal Deodrant", "Lineitem quantity": "1", "Billing Country": "NL", "Total": "40", "Tags": "Subscription First Order"},
		{"Name": "#G1", "Lineitem name": "[FREE GIFT] Gleamont Clinical Strength Internal Deodorant", "Lineitem quantity": "1", "Billing Country": "NL", "Total": "40", "Tags": ""},
		{"Name": "#G1", "Lineitem name": "Route Package Protection", "Lineitem quantity": "1", "Billing Country": "NL", "Total": "40", "Tags": ""},
	}}

	report, err := e.Compute(table, profit.Settings{Fees: profit.DefaultFees()})
	require.NoError(t, err)
	require.Len(t, report.Orders, 1)

	o := report.Orders[0]
	assert.Equal(t, 2, o.PrimaryUnits)
	assert.Equal(t, "United Kingdom", o.Country())
	// 5.1833 + 1.55*2 + 1.00 surcharge
	assert.Equal(t, 9.28, o.COGS)
	assert.True(t, o.FirstOrder)
	assert.Equal(t, profit.LayoutPnL, GleamontLine().ExportLayout)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	data, err := Marshal(YevivoLine())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yevivo.yaml"), data, 0o600))

	minimal := `{
  "store_currency": "EUR",
  "cost_currency": "EUR",
  "primary": {"brand_token": "lumen"},
  "costs": {"Germany": {"model": "extrapolate", "tiers": {"1": 4.5, "2": 7.0}}},
  "countries": {"aliases": {"DE": "Germany"}}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lumen.json"), []byte(minimal), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	s, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"lumen", Yevivo}, s.Names())

	lumen, err := s.Get(context.Background(), "Lumen")
	require.NoError(t, err)
	assert.Equal(t, 7.0, lumen.Costs["Germany"].Tiers[2])

	yevivo, err := s.Get(context.Background(), Yevivo)
	require.NoError(t, err)
	assert.Equal(t, YevivoLine().Costs, yevivo.Costs)
	assert.True(t, yevivo.DropBlankCountryRows)
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_currency: EURO\ncost_currency: EUR\n"), 0o600))
	_, err := LoadFile(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "nomatch.yaml")
	body := "store_currency: EUR\ncost_currency: EUR\ncosts:\n  Germany:\n    tiers:\n      1: 4.5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

type failingSource struct{ err error }

func (f failingSource) Get(context.Context, string) (profit.ProductLine, error) {
	return profit.ProductLine{}, f.err
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	override := YevivoLine()
	override.Title = "Yevivo (override)"

	c := Chain{NewStatic(override), nil, Builtin()}

	line, err := c.Get(ctx, Yevivo)
	require.NoError(t, err)
	assert.Equal(t, "Yevivo (override)", line.Title)

	line, err = c.Get(ctx, Gleamont)
	require.NoError(t, err)
	assert.Equal(t, Gleamont, line.Name)

	_, err = c.Get(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("db down")
	_, err = Chain{failingSource{err: boom}, Builtin()}.Get(ctx, Rhoms)
	assert.ErrorIs(t, err, boom)
}
