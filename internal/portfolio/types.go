package portfolio

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Record is one purchase lot in the ledger. The ledger is append-only: rows
// are never mutated except for the market-price column, which RefreshPrices
// rewrites on every report.
type Record struct {
	Date     string // YYYY/MM/DD
	Symbol   string
	Price    float64 // purchase price per share
	Quantity float64
	Current  float64 // last fetched market price
	HasPrice bool    // false when the quote was unresolved
}

// Summary is one derived per-symbol row of the summary sheet.
type Summary struct {
	Symbol      string
	AvgCost     float64
	Quantity    float64
	Price       float64
	ROI         float64 // percent
	TotalReturn float64
	PriceKnown  bool
}

// ROIString formats the return on investment the way the summary sheet
// stores it, e.g. "25.0000%".
func (s Summary) ROIString() string {
	return fmt.Sprintf("%.4f%%", s.ROI)
}

// ParseROI parses a summary-sheet roi cell back into a percentage.
func ParseROI(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
}

// Ledger is the row-oriented purchase store plus its derived summary sheet.
type Ledger interface {
	// Records returns all purchase rows in ledger order.
	Records(ctx context.Context) ([]Record, error)
	// Append adds one purchase row after the last non-empty row.
	Append(ctx context.Context, rec Record) error
	// Symbols returns the symbol column in row order, one entry per row.
	Symbols(ctx context.Context) ([]string, error)
	// WritePrices rewrites the market-price column. Rows whose symbol is
	// missing from prices are written blank.
	WritePrices(ctx context.Context, prices map[string]float64) error
	// WriteSummary fully overwrites the summary sheet.
	WriteSummary(ctx context.Context, rows []Summary) error
	// ReadSummary reads the summary sheet back in row order.
	ReadSummary(ctx context.Context) ([]Summary, error)
}

// QuoteSource returns the current market price for a symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// Notifier receives operational alerts. The chat user never sees these.
type Notifier interface {
	NotifyQuoteFailure(symbol string, err error)
}
