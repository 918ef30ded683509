package portfolio

import (
	"fmt"
	"strconv"
	"strings"
)

// renderReport formats summary rows as the fixed-width chat table:
// 代號(12) 買進價(15) 股數(10) 價格(10) 報酬率(10) 總報酬(15).
func renderReport(rows []Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-12s%-15s%-10s%-10s%-10s%-15s\n",
		"代號", "買進價", "股數", "價格", "報酬率", "總報酬")
	b.WriteString(strings.Repeat("-", 64))

	for _, row := range rows {
		b.WriteByte('\n')
		qty := strconv.FormatFloat(row.Quantity, 'f', -1, 64)
		if row.PriceKnown {
			fmt.Fprintf(&b, "%-12s%-15.2f%-10s%-10.2f%-10s%-15.2f",
				row.Symbol, row.AvgCost, qty, row.Price, row.ROIString(), row.TotalReturn)
		} else {
			fmt.Fprintf(&b, "%-12s%-15.2f%-10s%-10s%-10s%-15s",
				row.Symbol, row.AvgCost, qty, "-", "-", "-")
		}
	}

	return b.String()
}
