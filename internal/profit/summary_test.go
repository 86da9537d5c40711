package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize(SegmentTotals{
		Orders:  3,
		Revenue: CalculateRevenue(100, 1, DefaultFees()),
		COGS:    30,
	}, 20)

	assert.Equal(t, 64.39, s.GrossProfit)
	assert.Equal(t, 44.39, s.OverallProfit)
	assert.True(t, s.ROAS.Valid)
	assert.Equal(t, "5.00", s.ROAS.String())
	assert.Equal(t, "0.44", s.Margin.String())
}

func TestSummarizeZeroDenominators(t *testing.T) {
	s := Summarize(SegmentTotals{}, 0)

	assert.False(t, s.ROAS.Valid)
	assert.False(t, s.Margin.Valid)
	assert.Equal(t, "n/a", s.ROAS.String())
	assert.Equal(t, "", s.ROAS.Format(3))
	assert.Zero(t, s.OverallProfit)
}

func TestRatioFormat(t *testing.T) {
	assert.Equal(t, "1.333", NewRatio(4, 3).Format(3))
	assert.Equal(t, "2.50", NewRatio(5, 2).String())
}
