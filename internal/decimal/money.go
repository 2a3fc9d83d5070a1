package decimal

import (
	"github.com/shopspring/decimal"
)

// Precision used for per-line figures and for reported totals
const (
	ItemPrecision      int32 = 4
	AggregatePrecision int32 = 2
)

// Zero is decimal zero
var Zero = decimal.Zero

// IVARate is the 13% value added tax rate
var IVARate = decimal.RequireFromString("0.13")

var one = decimal.NewFromInt(1)

// FromFloat creates decimal from float rounded to item precision
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(ItemPrecision)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundItem rounds to item precision (4 places), half away from zero
func RoundItem(d decimal.Decimal) decimal.Decimal {
	return d.Round(ItemPrecision)
}

// RoundAggregate rounds to aggregate precision (2 places), half away from zero
func RoundAggregate(d decimal.Decimal) decimal.Decimal {
	return d.Round(AggregatePrecision)
}

// LineAmount computes round4(quantity * unitPrice) - round4(discount)
func LineAmount(quantity, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return RoundItem(quantity.Mul(unitPrice)).Sub(RoundItem(discount))
}

// ExtractIncludedTax returns the tax contained in a tax-inclusive amount:
// round4(amount - amount/(1+rate))
func ExtractIncludedTax(amount, rate decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return Zero
	}
	base := amount.DivRound(one.Add(rate), 16)
	return RoundItem(amount.Sub(base))
}

// CalculateTax computes round2(amount * rate)
func CalculateTax(amount, rate decimal.Decimal) decimal.Decimal {
	return RoundAggregate(amount.Mul(rate))
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// Float converts to the float64 used in JSON document bodies
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
