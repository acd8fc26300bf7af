// Package invoice issues and maintains invoices for finished repairs.
package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRate is the VAT rate applied to every invoice.
var TaxRate = decimal.NewFromFloat(0.20)

// Totals rounds a base amount to the cent and returns it with its tax and
// the tax-inclusive total, also rounded to the cent.
func Totals(amount float64) (base, tax, total float64) {
	b := decimal.NewFromFloat(amount).Round(2)
	t := b.Mul(TaxRate).Round(2)
	return b.InexactFloat64(), t.InexactFloat64(), b.Add(t).InexactFloat64()
}

// Number is the display reference of the invoice for a repair.
func Number(year int, repairID int64) string {
	return fmt.Sprintf("F-%d-%06d", year, repairID)
}
