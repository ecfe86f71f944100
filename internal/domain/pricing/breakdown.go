// Package pricing reverse-derives tax-exclusive amounts from tax-inclusive
// unit prices and aggregates line items into order/invoice totals.
//
// All arithmetic goes through shopspring/decimal so results are deterministic:
// amounts round half-up to 2 decimal places (currency minor units), grand
// totals round half-up to whole currency units.
package pricing

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Breakdown splits a tax-inclusive unit price into base price and tax amount
// for the given percent rate. A zero rate passes the price through untouched.
func Breakdown(priceWithTax, taxRatePercent float64) (basePrice, taxAmount float64) {
	price := decimal.NewFromFloat(priceWithTax)
	if taxRatePercent == 0 {
		return round2(price).InexactFloat64(), 0
	}

	rate := decimal.NewFromFloat(taxRatePercent)
	base := price.Div(one.Add(rate.Div(hundred)))
	tax := price.Sub(base)
	return round2(base).InexactFloat64(), round2(tax).InexactFloat64()
}

// Line is a quantity of some product at a tax-inclusive unit price.
type Line struct {
	Qty            int
	UnitPrice      float64
	TaxRatePercent float64
}

// LineAmounts is the tax breakup of one line. Rate is the tax-exclusive unit
// price; TaxableValue = Qty * Rate.
type LineAmounts struct {
	Rate         float64
	TaxableValue float64
	TaxAmount    float64
}

// BreakdownLine applies Breakdown per unit and scales by quantity.
func BreakdownLine(l Line) LineAmounts {
	rate, unitTax := Breakdown(l.UnitPrice, l.TaxRatePercent)
	qty := decimal.NewFromInt(int64(l.Qty))
	return LineAmounts{
		Rate:         rate,
		TaxableValue: round2(decimal.NewFromFloat(rate).Mul(qty)).InexactFloat64(),
		TaxAmount:    round2(decimal.NewFromFloat(unitTax).Mul(qty)).InexactFloat64(),
	}
}

// Summary aggregates an item list plus order-level adjustments.
type Summary struct {
	Subtotal   float64
	TaxTotal   float64
	GrandTotal float64
	RoundOff   float64
}

// Totals sums line breakups and applies shipping and discount. GrandTotal is
// rounded to the nearest whole currency unit; RoundOff is the delta applied.
func Totals(lines []Line, shippingCost, discount float64) Summary {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, l := range lines {
		amounts := BreakdownLine(l)
		subtotal = subtotal.Add(decimal.NewFromFloat(amounts.TaxableValue))
		taxTotal = taxTotal.Add(decimal.NewFromFloat(amounts.TaxAmount))
	}

	exact := subtotal.
		Add(taxTotal).
		Add(decimal.NewFromFloat(shippingCost)).
		Sub(decimal.NewFromFloat(discount))
	grand := exact.Round(0)

	return Summary{
		Subtotal:   subtotal.InexactFloat64(),
		TaxTotal:   taxTotal.InexactFloat64(),
		GrandTotal: grand.InexactFloat64(),
		RoundOff:   grand.Sub(exact).Round(2).InexactFloat64(),
	}
}

// SplitGST allocates a tax total to the Indian GST components. Intrastate
// transactions split evenly into CGST/SGST (SGST absorbs any odd paisa so the
// two always sum back to the total); interstate goes entirely to IGST.
func SplitGST(taxTotal float64, interstate bool) (cgst, sgst, igst float64) {
	if interstate {
		return 0, 0, taxTotal
	}
	total := decimal.NewFromFloat(taxTotal)
	half := round2(total.Div(decimal.NewFromInt(2)))
	return half.InexactFloat64(), total.Sub(half).Round(2).InexactFloat64(), 0
}

// round2 rounds half away from zero to 2 decimal places, the standard
// round-half-up policy for positive currency amounts.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
