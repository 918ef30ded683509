package portfolio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReportLayout(t *testing.T) {
	t.Parallel()

	report := renderReport([]Summary{
		{Symbol: "AAPL", AvgCost: 30, Quantity: 20, Price: 35, ROI: 16.6667, TotalReturn: 100, PriceKnown: true},
		{Symbol: "FAIL", AvgCost: 10, Quantity: 5},
	})

	lines := strings.Split(report, "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "代號")
	assert.Contains(t, lines[0], "總報酬")
	assert.Equal(t, strings.Repeat("-", 64), lines[1])

	assert.True(t, strings.HasPrefix(lines[2], "AAPL"))
	assert.Contains(t, lines[2], "30.00")
	assert.Contains(t, lines[2], "35.00")
	assert.Contains(t, lines[2], "16.6667%")
	assert.Contains(t, lines[2], "100.00")

	// unknown price renders dashes, never zeros
	assert.True(t, strings.HasPrefix(lines[3], "FAIL"))
	assert.Contains(t, lines[3], "-")
	assert.NotContains(t, lines[3], "0.0000%")
}

func TestRenderReportQuantityWithoutTrailingZeros(t *testing.T) {
	t.Parallel()

	report := renderReport([]Summary{
		{Symbol: "AAPL", AvgCost: 30, Quantity: 20, Price: 35, ROI: 16.6667, TotalReturn: 100, PriceKnown: true},
		{Symbol: "VT", AvgCost: 100, Quantity: 2.5, Price: 110, ROI: 10, TotalReturn: 25, PriceKnown: true},
	})

	assert.Contains(t, report, "20 ")
	assert.Contains(t, report, "2.5")
	assert.NotContains(t, report, "20.000000")
}

func TestROIStringRoundTrip(t *testing.T) {
	t.Parallel()

	s := Summary{ROI: 25}
	assert.Equal(t, "25.0000%", s.ROIString())

	got, err := ParseROI("25.0000%")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 1e-9)
}
