package statutory

import "github.com/shopspring/decimal"

func bound(v int64) *int64 { return &v }

// DefaultIncomeTax is the PAYE schedule used when an organisation has not
// configured its own income tax record. Amounts are annual.
func DefaultIncomeTax() StatutoryRate {
	return StatutoryRate{
		Name:              "PAYE",
		Kind:              KindIncomeTax,
		CalculationMethod: MethodProgressive,
		AppliesToBase:     BaseTaxableIncome,
		IsActive:          true,
		Tiers: []StatutoryTier{
			{Min: 0, Max: bound(500_000), Rate: decimal.Zero, SortOrder: 1},
			{Min: 500_001, Max: bound(1_000_000), Rate: decimal.RequireFromString("0.15"), SortOrder: 2},
			{Min: 1_000_001, Max: bound(1_500_000), Rate: decimal.RequireFromString("0.20"), SortOrder: 3},
			{Min: 1_500_001, Max: bound(2_000_000), Rate: decimal.RequireFromString("0.25"), SortOrder: 4},
			{Min: 2_000_001, Max: nil, Rate: decimal.RequireFromString("0.30"), SortOrder: 5},
		},
	}
}

// DefaultSocialContribution is the 5% employee / 10% employer scheme.
func DefaultSocialContribution() StatutoryRate {
	return StatutoryRate{
		Name:              "NASSIT",
		Kind:              KindSocialContribution,
		CalculationMethod: MethodPercentage,
		Rate:              decimal.RequireFromString("0.05"),
		EmployerRate:      decimal.RequireFromString("0.10"),
		AppliesToBase:     BaseGrossPay,
		IsActive:          true,
	}
}

// Defaults returns the jurisdiction defaults in evaluation order.
func Defaults() []StatutoryRate {
	return []StatutoryRate{DefaultIncomeTax(), DefaultSocialContribution()}
}
