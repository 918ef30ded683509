package portfolio

import (
	"context"
	"fmt"

	"github.com/Thomashsu19/stock-app/internal/logger"
)

// Service owns the purchase ledger and the derived summary sheet.
type Service struct {
	ledger   Ledger
	quotes   QuoteSource
	notifier Notifier
	log      *logger.Logger
}

func NewService(ledger Ledger, quotes QuoteSource, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		ledger:   ledger,
		quotes:   quotes,
		notifier: notifier,
		log:      log,
	}
}

// AddRecord appends one validated purchase lot to the ledger.
func (s *Service) AddRecord(ctx context.Context, rec Record) error {
	if err := s.ledger.Append(ctx, rec); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	s.log.Info("record added",
		"date", rec.Date, "symbol", rec.Symbol,
		"price", rec.Price, "quantity", rec.Quantity)
	return nil
}

// RefreshPrices fetches one quote per distinct ledger symbol and rewrites the
// ledger's market-price column. A failed quote leaves that symbol's rows
// blank; it never aborts the batch.
func (s *Service) RefreshPrices(ctx context.Context) error {
	symbols, err := s.ledger.Symbols(ctx)
	if err != nil {
		return fmt.Errorf("read symbols: %w", err)
	}

	prices := make(map[string]float64)
	for _, sym := range uniqueInOrder(symbols) {
		price, err := s.quotes.Quote(ctx, sym)
		if err != nil {
			s.log.Warn("quote fetch failed", "symbol", sym, "error", err)
			if s.notifier != nil {
				s.notifier.NotifyQuoteFailure(sym, err)
			}
			continue
		}
		prices[sym] = price
	}

	if err := s.ledger.WritePrices(ctx, prices); err != nil {
		return fmt.Errorf("write prices: %w", err)
	}
	return nil
}

// Report refreshes prices, recomputes the per-symbol summary from the full
// ledger, overwrites the summary sheet, reads it back and renders the
// fixed-width table.
func (s *Service) Report(ctx context.Context) (string, error) {
	if err := s.RefreshPrices(ctx); err != nil {
		return "", err
	}

	recs, err := s.ledger.Records(ctx)
	if err != nil {
		return "", fmt.Errorf("read records: %w", err)
	}

	rows := aggregate(recs)

	if err := s.ledger.WriteSummary(ctx, rows); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	stored, err := s.ledger.ReadSummary(ctx)
	if err != nil {
		return "", fmt.Errorf("read summary: %w", err)
	}

	return renderReport(stored), nil
}

// aggregate groups ledger rows by symbol in first-encounter order and
// computes the weighted-average cost and return figures.
func aggregate(recs []Record) []Summary {
	type accum struct {
		quantity float64
		cost     float64
		price    float64
		priced   bool
	}

	var order []string
	bySymbol := make(map[string]*accum)

	for _, rec := range recs {
		a, ok := bySymbol[rec.Symbol]
		if !ok {
			a = &accum{price: rec.Current, priced: rec.HasPrice}
			bySymbol[rec.Symbol] = a
			order = append(order, rec.Symbol)
		}
		a.quantity += rec.Quantity
		a.cost += rec.Price * rec.Quantity
	}

	var rows []Summary
	for _, sym := range order {
		a := bySymbol[sym]
		if a.quantity == 0 {
			continue
		}
		row := Summary{
			Symbol:   sym,
			AvgCost:  a.cost / a.quantity,
			Quantity: a.quantity,
		}
		if a.priced {
			row.Price = a.price
			row.ROI = (a.price/row.AvgCost - 1) * 100
			row.TotalReturn = (a.price - row.AvgCost) * a.quantity
			row.PriceKnown = true
		}
		rows = append(rows, row)
	}
	return rows
}

func uniqueInOrder(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	var out []string
	for _, sym := range symbols {
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
