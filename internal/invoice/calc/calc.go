// Package calc computes client-side invoice total previews. The numbers it
// produces are provisional: the authoritative subtotal, tax and total are
// whatever the remote store persists on the invoice record, and displays
// must refresh from the store after a successful save.
package calc

import (
	"github.com/lumicrm/lumicrm-go/internal/config"
	"github.com/shopspring/decimal"
)

// Line is the billable part of an invoice line item.
type Line struct {
	Quantity  float64
	UnitPrice float64
	// TaxRate is the referenced product's rate, used only in per-line mode.
	TaxRate float64
}

// Totals carries the computed preview amounts, rounded to cents.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute applies one flat rate uniformly to the whole invoice.
// An empty line list yields all-zero totals.
func Compute(lines []Line, flatRate float64) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		amount := decimal.NewFromFloat(line.Quantity).Mul(decimal.NewFromFloat(line.UnitPrice))
		subtotal = subtotal.Add(amount)
	}
	tax := subtotal.Mul(decimal.NewFromFloat(flatRate))
	return round(subtotal, tax)
}

// ComputePerLine taxes every line at its own product rate.
func ComputePerLine(lines []Line) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range lines {
		amount := decimal.NewFromFloat(line.Quantity).Mul(decimal.NewFromFloat(line.UnitPrice))
		subtotal = subtotal.Add(amount)
		tax = tax.Add(amount.Mul(decimal.NewFromFloat(line.TaxRate)))
	}
	return round(subtotal, tax)
}

// Preview selects the computation mode from the tax configuration.
func Preview(lines []Line, cfg config.TaxConfig) Totals {
	if cfg.Mode == config.TaxModePerLine {
		return ComputePerLine(lines)
	}
	return Compute(lines, cfg.FlatRate)
}

func round(subtotal, tax decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
