package profit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportReport(t *testing.T) *Report {
	t.Helper()
	e := newTestEngine(t, testLine())
	table := Table{Headers: testHeaders, Rows: []map[string]string{
		row("#1", "Glow Serum", "1", "", "US", "100.00", "", "2025-03-03"),
		row("#2", "Glow Serum", "2", "", "US", "100.00", "Subscription Recurring Order", "2025-03-09"),
	}}
	report, err := e.Compute(table, Settings{AdSpend: 40, Fees: DefaultFees()})
	require.NoError(t, err)
	return report
}

func TestSummaryTSV(t *testing.T) {
	r := exportReport(t)

	lines := strings.Split(r.TSV(SummaryLayout(), true), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date (or range)\tTotal Revenue (USD)\tAd Spend (USD)\tTotal COGs (USD)\tTotal Profit (USD)\tNC Profit (USD)", lines[0])
	// net 200-10.89, cogs 8+10.50, profit 189.11-18.50-40
	assert.Equal(t, "Mar 03 → 09, 2025\t189.11\t40.00\t18.50\t130.61\t46.39", lines[1])
}

func TestPnLTSV(t *testing.T) {
	r := exportReport(t)

	values := strings.Split(r.TSV(PnLLayout(), false), "\t")
	require.Len(t, values, 13)
	assert.Equal(t, "200.00", values[0])
	assert.Equal(t, "10.89", values[3])
	assert.Equal(t, "5.000", values[5])
	assert.Equal(t, "100.00", values[6])
	assert.Equal(t, "2.500", values[10])
	assert.Equal(t, "2", values[11])
	assert.Equal(t, "1", values[12])
}

func TestPnLTSVWithoutAdSpend(t *testing.T) {
	r := exportReport(t)
	r.Blended.ROAS = NewRatio(1, 0)

	values := strings.Split(r.TSV(PnLLayout(), false), "\t")
	assert.Equal(t, "", values[5])
}

func TestLayout(t *testing.T) {
	l, err := Layout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutSummary, l.Name)

	l, err = Layout("PNL")
	require.NoError(t, err)
	assert.Equal(t, LayoutPnL, l.Name)

	_, err = Layout("weekly")
	assert.Error(t, err)
}
