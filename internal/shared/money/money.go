// Package money holds the rounding rules shared by every payroll calculation.
// Amounts are whole currency units stored as int64; intermediate arithmetic
// happens in decimal and is rounded half away from zero exactly once.
package money

import "github.com/shopspring/decimal"

// Round converts an intermediate decimal amount to whole currency units.
func Round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

func Dec(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}

// Percent returns amount * pct / 100 without rounding.
func Percent(amount decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(decimal.NewFromInt(100))
}

// Clamp bounds d to [lo, hi]; a nil bound is open.
func Clamp(d decimal.Decimal, lo, hi *decimal.Decimal) decimal.Decimal {
	if lo != nil && d.LessThan(*lo) {
		return *lo
	}
	if hi != nil && d.GreaterThan(*hi) {
		return *hi
	}
	return d
}

func Sum(amounts ...int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total
}
