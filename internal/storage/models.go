package storage

import "time"

// Lot mirrors one ledger row; the auto-increment ID preserves append order.
type Lot struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Date     string   `gorm:"not null" json:"date"` // YYYY/MM/DD
	Code     string   `gorm:"index;not null" json:"code"`
	Price    float64  `gorm:"not null" json:"price"` // purchase price
	Quantity float64  `gorm:"not null" json:"quantity"`
	Current  *float64 `json:"current"` // NULL until a quote resolves
}

// SummaryRow mirrors one row of the derived summary sheet.
type SummaryRow struct {
	ID uint `gorm:"primarykey" json:"id"`

	Code        string   `gorm:"not null" json:"code"`
	BuyingPrice float64  `json:"buying_price"`
	Quantity    float64  `json:"quantity"`
	Price       *float64 `json:"price"`
	ROI         string   `json:"roi"`
	TotalReturn *float64 `json:"total_return"`
}
