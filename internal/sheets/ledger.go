// Package sheets persists the purchase ledger and the derived summary in a
// Google Sheets document: one worksheet with columns
// date/code/purchase_price/quantity/price (header in row 1), and a second
// worksheet that is fully rewritten on every report.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Thomashsu19/stock-app/internal/config"
	"github.com/Thomashsu19/stock-app/internal/logger"
	"github.com/Thomashsu19/stock-app/internal/portfolio"
)

var summaryHeader = []interface{}{
	"stock_code", "buying_price", "quantity", "price", "roi", "total_return",
}

type Ledger struct {
	svc           *sheets.Service
	spreadsheetID string
	ledgerSheet   string
	summarySheet  string
	logger        *logger.Logger
}

func NewLedger(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Ledger, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.Sheets.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Ledger{
		svc:           svc,
		spreadsheetID: cfg.Sheets.SpreadsheetID,
		ledgerSheet:   cfg.Sheets.LedgerSheet,
		summarySheet:  cfg.Sheets.SummarySheet,
		logger:        log,
	}, nil
}

func (l *Ledger) Records(ctx context.Context) ([]portfolio.Record, error) {
	rng := fmt.Sprintf("%s!A2:E", l.ledgerSheet)
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ledger rows: %w", err)
	}

	var recs []portfolio.Record
	for i, row := range resp.Values {
		if len(row) < 4 || cellString(row, 1) == "" {
			continue
		}
		price, err := cellFloat(row, 2)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d purchase price: %w", i+2, err)
		}
		quantity, err := cellFloat(row, 3)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d quantity: %w", i+2, err)
		}
		rec := portfolio.Record{
			Date:     cellString(row, 0),
			Symbol:   cellString(row, 1),
			Price:    price,
			Quantity: quantity,
		}
		if cellString(row, 4) != "" {
			current, err := cellFloat(row, 4)
			if err != nil {
				return nil, fmt.Errorf("ledger row %d price: %w", i+2, err)
			}
			rec.Current = current
			rec.HasPrice = true
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Append uses the server-side append, so there is no read-row-count race
// even with a second writer on the same sheet.
func (l *Ledger) Append(ctx context.Context, rec portfolio.Record) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{
		{rec.Date, rec.Symbol, rec.Price, rec.Quantity},
	}}
	rng := fmt.Sprintf("%s!A:E", l.ledgerSheet)
	_, err := l.svc.Spreadsheets.Values.Append(l.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	return nil
}

func (l *Ledger) Symbols(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!B2:B", l.ledgerSheet)
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read symbol column: %w", err)
	}

	var symbols []string
	for _, row := range resp.Values {
		sym := cellString(row, 0)
		if sym == "" {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

func (l *Ledger) WritePrices(ctx context.Context, prices map[string]float64) error {
	symbols, err := l.Symbols(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		return nil
	}

	values := make([][]interface{}, len(symbols))
	for i, sym := range symbols {
		if price, ok := prices[sym]; ok {
			values[i] = []interface{}{price}
		} else {
			values[i] = []interface{}{""}
		}
	}

	rng := fmt.Sprintf("%s!E2:E%d", l.ledgerSheet, len(symbols)+1)
	vr := &sheets.ValueRange{Values: values}
	_, err = l.svc.Spreadsheets.Values.Update(l.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write price column: %w", err)
	}
	l.logger.Debug("price column updated", "rows", len(symbols))
	return nil
}

func (l *Ledger) WriteSummary(ctx context.Context, rows []portfolio.Summary) error {
	_, err := l.svc.Spreadsheets.Values.Clear(l.spreadsheetID, l.summarySheet, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear summary sheet: %w", err)
	}

	values := [][]interface{}{summaryHeader}
	for _, row := range rows {
		if row.PriceKnown {
			values = append(values, []interface{}{
				row.Symbol, row.AvgCost, row.Quantity,
				row.Price, row.ROIString(), row.TotalReturn,
			})
		} else {
			values = append(values, []interface{}{
				row.Symbol, row.AvgCost, row.Quantity, "", "", "",
			})
		}
	}

	rng := fmt.Sprintf("%s!A1", l.summarySheet)
	vr := &sheets.ValueRange{Values: values}
	_, err = l.svc.Spreadsheets.Values.Update(l.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	return nil
}

func (l *Ledger) ReadSummary(ctx context.Context) ([]portfolio.Summary, error) {
	rng := fmt.Sprintf("%s!A2:F", l.summarySheet)
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read summary sheet: %w", err)
	}

	var rows []portfolio.Summary
	for i, row := range resp.Values {
		if cellString(row, 0) == "" {
			continue
		}
		avgCost, err := cellFloat(row, 1)
		if err != nil {
			return nil, fmt.Errorf("summary row %d buying price: %w", i+2, err)
		}
		quantity, err := cellFloat(row, 2)
		if err != nil {
			return nil, fmt.Errorf("summary row %d quantity: %w", i+2, err)
		}
		s := portfolio.Summary{
			Symbol:   cellString(row, 0),
			AvgCost:  avgCost,
			Quantity: quantity,
		}
		if cellString(row, 3) != "" {
			price, err := cellFloat(row, 3)
			if err != nil {
				return nil, fmt.Errorf("summary row %d price: %w", i+2, err)
			}
			roi, err := portfolio.ParseROI(cellString(row, 4))
			if err != nil {
				return nil, fmt.Errorf("summary row %d roi: %w", i+2, err)
			}
			totalReturn, err := cellFloat(row, 5)
			if err != nil {
				return nil, fmt.Errorf("summary row %d total return: %w", i+2, err)
			}
			s.Price = price
			s.ROI = roi
			s.TotalReturn = totalReturn
			s.PriceKnown = true
		}
		rows = append(rows, s)
	}
	return rows, nil
}

func cellString(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func cellFloat(row []interface{}, i int) (float64, error) {
	if i >= len(row) {
		return 0, fmt.Errorf("missing cell %d", i)
	}
	switch v := row[i].(type) {
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unexpected cell type %T", v)
	}
}
