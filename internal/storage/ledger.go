package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Thomashsu19/stock-app/internal/portfolio"
)

// Ledger is the sqlite-backed purchase store, for running without Google
// credentials. Same contract as the sheets backend.
type Ledger struct {
	db *gorm.DB
}

func Open(dbPath string) (*Ledger, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	// WAL keeps a report's reads from blocking a concurrent append.
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := db.AutoMigrate(&Lot{}, &SummaryRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Records(ctx context.Context) ([]portfolio.Record, error) {
	var lots []Lot
	if err := l.db.WithContext(ctx).Order("id").Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("read lots: %w", err)
	}

	recs := make([]portfolio.Record, 0, len(lots))
	for _, lot := range lots {
		rec := portfolio.Record{
			Date:     lot.Date,
			Symbol:   lot.Code,
			Price:    lot.Price,
			Quantity: lot.Quantity,
		}
		if lot.Current != nil {
			rec.Current = *lot.Current
			rec.HasPrice = true
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (l *Ledger) Append(ctx context.Context, rec portfolio.Record) error {
	lot := Lot{
		Date:     rec.Date,
		Code:     rec.Symbol,
		Price:    rec.Price,
		Quantity: rec.Quantity,
	}
	if err := l.db.WithContext(ctx).Create(&lot).Error; err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (l *Ledger) Symbols(ctx context.Context) ([]string, error) {
	var codes []string
	err := l.db.WithContext(ctx).Model(&Lot{}).Order("id").Pluck("code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("read symbol column: %w", err)
	}
	return codes, nil
}

func (l *Ledger) WritePrices(ctx context.Context, prices map[string]float64) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Lot{}).Where("1 = 1").Update("current", nil).Error; err != nil {
			return fmt.Errorf("blank price column: %w", err)
		}
		for code, price := range prices {
			err := tx.Model(&Lot{}).Where("code = ?", code).Update("current", price).Error
			if err != nil {
				return fmt.Errorf("update price for %s: %w", code, err)
			}
		}
		return nil
	})
}

func (l *Ledger) WriteSummary(ctx context.Context, rows []portfolio.Summary) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&SummaryRow{}).Error; err != nil {
			return fmt.Errorf("clear summary: %w", err)
		}
		for _, row := range rows {
			sr := SummaryRow{
				Code:        row.Symbol,
				BuyingPrice: row.AvgCost,
				Quantity:    row.Quantity,
			}
			if row.PriceKnown {
				price := row.Price
				totalReturn := row.TotalReturn
				sr.Price = &price
				sr.ROI = row.ROIString()
				sr.TotalReturn = &totalReturn
			}
			if err := tx.Create(&sr).Error; err != nil {
				return fmt.Errorf("insert summary row: %w", err)
			}
		}
		return nil
	})
}

func (l *Ledger) ReadSummary(ctx context.Context) ([]portfolio.Summary, error) {
	var stored []SummaryRow
	if err := l.db.WithContext(ctx).Order("id").Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}

	rows := make([]portfolio.Summary, 0, len(stored))
	for _, sr := range stored {
		row := portfolio.Summary{
			Symbol:   sr.Code,
			AvgCost:  sr.BuyingPrice,
			Quantity: sr.Quantity,
		}
		if sr.Price != nil {
			roi, err := portfolio.ParseROI(sr.ROI)
			if err != nil {
				return nil, fmt.Errorf("summary roi for %s: %w", sr.Code, err)
			}
			row.Price = *sr.Price
			row.ROI = roi
			if sr.TotalReturn != nil {
				row.TotalReturn = *sr.TotalReturn
			}
			row.PriceKnown = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}
