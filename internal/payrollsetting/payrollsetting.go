package payrollsetting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

// Default is used for organisations without a settings row.
func Default() Setting {
	return Setting{
		StandardDailyHours:     decimal.NewFromInt(8),
		WorkingDaysPerMonth:    22,
		OvertimeMultiplier:     decimal.RequireFromString("1.5"),
		DefaultFrequency:       FrequencyMonthly,
		BiWeeklyPeriodsPerYear: 26,
		WeeklyPeriodsPerYear:   52,
	}
}

// MonthlyStandardHours is the contract hours of one month, 176 by default.
func (s Setting) MonthlyStandardHours() decimal.Decimal {
	return s.StandardDailyHours.Mul(decimal.NewFromInt(int64(s.WorkingDaysPerMonth)))
}

// PeriodsPerYear is how many pay periods of the given frequency fall in a
// year.
func (s Setting) PeriodsPerYear(frequency string) (int, error) {
	var n int
	switch frequency {
	case FrequencyMonthly, "":
		return monthsPerYear, nil
	case FrequencyBiWeekly:
		n = s.BiWeeklyPeriodsPerYear
	case FrequencyWeekly:
		n = s.WeeklyPeriodsPerYear
	default:
		return 0, fmt.Errorf("unknown pay frequency %q", frequency)
	}
	if n <= 0 {
		return 0, fmt.Errorf("pay frequency %q has no periods per year configured", frequency)
	}
	return n, nil
}

// CycleMultiplier is the fraction of a month one pay period covers. It is
// derived from PeriodsPerYear so a year of periods always adds up to twelve
// months of salary.
func (s Setting) CycleMultiplier(frequency string) (decimal.Decimal, error) {
	n, err := s.PeriodsPerYear(frequency)
	if err != nil {
		return decimal.Zero, err
	}
	if n == monthsPerYear {
		return decimal.NewFromInt(1), nil
	}
	return decimal.NewFromInt(monthsPerYear).DivRound(decimal.NewFromInt(int64(n)), 10), nil
}

// Settings is everything the composer needs from configuration.
type Settings struct {
	Setting
	CommissionRates     map[string]decimal.Decimal
	OvertimeMultipliers map[string]decimal.Decimal
}

func (s Settings) CommissionRate(role string) decimal.Decimal {
	if r, ok := s.CommissionRates[role]; ok {
		return r
	}
	return decimal.Zero
}

// OvertimeMultiplierFor returns the role's multiplier, or the organisation
// default when the role has none.
func (s Settings) OvertimeMultiplierFor(role string) decimal.Decimal {
	if m, ok := s.OvertimeMultipliers[role]; ok && m.IsPositive() {
		return m
	}
	return s.OvertimeMultiplier
}
