package order

import "github.com/shopspring/decimal"

var (
	hundred     = decimal.NewFromInt(100)
	tenThousand = decimal.NewFromInt(10000)
)

// ToMinorUnits converts a major-unit amount to integer minor units (cents),
// rounding half away from zero. 12.345 becomes 1235.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a major-unit amount.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(hundred)
}

// EncodeTaxRate encodes a fractional tax rate in Klarna's integer form:
// rate x 10000, rounded. 0.20 becomes 2000.
func EncodeTaxRate(rate decimal.Decimal) int64 {
	return rate.Mul(tenThousand).Round(0).IntPart()
}

// TaxFromGross computes the tax portion of a tax-inclusive minor-unit amount
// for an encoded tax rate: total - total*10000/(10000+rate), which is the
// relation Klarna validates order lines against.
func TaxFromGross(totalMinor, taxRate int64) int64 {
	if taxRate <= 0 || totalMinor == 0 {
		return 0
	}
	net := decimal.NewFromInt(totalMinor).
		Mul(tenThousand).
		Div(decimal.NewFromInt(10000 + taxRate)).
		Round(0)
	return totalMinor - net.IntPart()
}
