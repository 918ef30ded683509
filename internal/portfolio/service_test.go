package portfolio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thomashsu19/stock-app/internal/logger"
)

// fakeLedger keeps everything in memory with the same column semantics as
// the real backends.
type fakeLedger struct {
	records     []Record
	summary     []Summary
	priceWrites []map[string]float64
}

func (f *fakeLedger) Records(context.Context) ([]Record, error) {
	return f.records, nil
}

func (f *fakeLedger) Append(_ context.Context, rec Record) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeLedger) Symbols(context.Context) ([]string, error) {
	symbols := make([]string, len(f.records))
	for i, rec := range f.records {
		symbols[i] = rec.Symbol
	}
	return symbols, nil
}

func (f *fakeLedger) WritePrices(_ context.Context, prices map[string]float64) error {
	f.priceWrites = append(f.priceWrites, prices)
	for i := range f.records {
		price, ok := prices[f.records[i].Symbol]
		f.records[i].Current = price
		f.records[i].HasPrice = ok
	}
	return nil
}

func (f *fakeLedger) WriteSummary(_ context.Context, rows []Summary) error {
	f.summary = rows
	return nil
}

func (f *fakeLedger) ReadSummary(context.Context) ([]Summary, error) {
	return f.summary, nil
}

type fakeQuotes struct {
	prices map[string]float64
}

func (f fakeQuotes) Quote(_ context.Context, symbol string) (float64, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return 0, errors.New("no price for symbol")
	}
	return price, nil
}

func newTestService(ledger *fakeLedger, quotes QuoteSource) *Service {
	return NewService(ledger, quotes, nil, logger.New("error"))
}

func TestReportWeightedAverage(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{records: []Record{
		{Date: "2025/06/01", Symbol: "AAPL", Price: 10, Quantity: 2},
		{Date: "2025/06/02", Symbol: "AAPL", Price: 20, Quantity: 3},
	}}
	svc := newTestService(ledger, fakeQuotes{prices: map[string]float64{"AAPL": 20}})

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	require.Len(t, ledger.summary, 1)
	row := ledger.summary[0]
	assert.Equal(t, "AAPL", row.Symbol)
	assert.InDelta(t, 16.0, row.AvgCost, 1e-9)
	assert.InDelta(t, 5.0, row.Quantity, 1e-9)
	assert.InDelta(t, 20.0, row.Price, 1e-9)
	assert.InDelta(t, 25.0, row.ROI, 1e-9)
	assert.InDelta(t, 20.0, row.TotalReturn, 1e-9) // (20-16)*5

	assert.Contains(t, report, "AAPL")
	assert.Contains(t, report, "16.00")
	assert.Contains(t, report, "25.0000%")
}

func TestReportFirstEncounterOrder(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{records: []Record{
		{Date: "2025/06/01", Symbol: "TSLA", Price: 100, Quantity: 1},
		{Date: "2025/06/02", Symbol: "AAPL", Price: 30, Quantity: 20},
		{Date: "2025/06/03", Symbol: "TSLA", Price: 120, Quantity: 1},
	}}
	svc := newTestService(ledger, fakeQuotes{prices: map[string]float64{
		"TSLA": 110, "AAPL": 35,
	}})

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	// one row per distinct symbol, ledger scan order
	require.Len(t, ledger.summary, 2)
	assert.Equal(t, "TSLA", ledger.summary[0].Symbol)
	assert.Equal(t, "AAPL", ledger.summary[1].Symbol)
	assert.Less(t, strings.Index(report, "TSLA"), strings.Index(report, "AAPL"))

	// one quote per unique symbol, not per row
	require.Len(t, ledger.priceWrites, 1)
	assert.Len(t, ledger.priceWrites[0], 2)
}

func TestRefreshPricesPartialFailure(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{records: []Record{
		{Date: "2025/06/01", Symbol: "AAPL", Price: 30, Quantity: 20},
		{Date: "2025/06/02", Symbol: "FAIL", Price: 10, Quantity: 5},
	}}
	svc := newTestService(ledger, fakeQuotes{prices: map[string]float64{"AAPL": 35}})

	err := svc.RefreshPrices(context.Background())
	require.NoError(t, err, "one failed quote must not abort the batch")

	require.Len(t, ledger.priceWrites, 1)
	assert.Contains(t, ledger.priceWrites[0], "AAPL")
	assert.NotContains(t, ledger.priceWrites[0], "FAIL")
}

func TestReportUnknownPriceDegradesPerSymbol(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{records: []Record{
		{Date: "2025/06/01", Symbol: "AAPL", Price: 30, Quantity: 20},
		{Date: "2025/06/02", Symbol: "FAIL", Price: 10, Quantity: 5},
	}}
	svc := newTestService(ledger, fakeQuotes{prices: map[string]float64{"AAPL": 35}})

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	require.Len(t, ledger.summary, 2)
	assert.True(t, ledger.summary[0].PriceKnown)
	assert.False(t, ledger.summary[1].PriceKnown)
	assert.Contains(t, report, "FAIL")
}

func TestAddRecordAccumulatesQuantity(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	svc := newTestService(ledger, fakeQuotes{prices: map[string]float64{"AAPL": 35}})
	ctx := context.Background()

	err := svc.AddRecord(ctx, Record{Date: "2025/06/25", Symbol: "AAPL", Price: 30, Quantity: 20})
	require.NoError(t, err)

	_, err = svc.Report(ctx)
	require.NoError(t, err)
	require.Len(t, ledger.summary, 1)
	assert.InDelta(t, 20.0, ledger.summary[0].Quantity, 1e-9)

	err = svc.AddRecord(ctx, Record{Date: "2025/06/26", Symbol: "AAPL", Price: 40, Quantity: 10})
	require.NoError(t, err)

	_, err = svc.Report(ctx)
	require.NoError(t, err)
	require.Len(t, ledger.summary, 1)
	assert.InDelta(t, 30.0, ledger.summary[0].Quantity, 1e-9)
}

func TestAggregateSkipsZeroQuantity(t *testing.T) {
	t.Parallel()

	rows := aggregate([]Record{
		{Symbol: "AAPL", Price: 30, Quantity: 0},
	})
	assert.Empty(t, rows)
}

func TestUniqueInOrder(t *testing.T) {
	t.Parallel()

	got := uniqueInOrder([]string{"TSLA", "AAPL", "", "TSLA", "AAPL", "NVDA"})
	assert.Equal(t, []string{"TSLA", "AAPL", "NVDA"}, got)
}
