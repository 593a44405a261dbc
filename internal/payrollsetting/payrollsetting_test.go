package payrollsetting

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	setting     *Setting
	rates       []RoleCommissionRate
	multipliers []RoleOvertimeMultiplier
}

func (f *fakeRepo) Find(context.Context, string) (*Setting, error) { return f.setting, nil }

func (f *fakeRepo) ListCommissionRates(context.Context, string) ([]RoleCommissionRate, error) {
	return f.rates, nil
}

func (f *fakeRepo) ListOvertimeMultipliers(context.Context, string) ([]RoleOvertimeMultiplier, error) {
	return f.multipliers, nil
}

func TestDefaults(t *testing.T) {
	d := Default()
	assert.True(t, d.MonthlyStandardHours().Equal(decimal.NewFromInt(176)))

	for freq, periods := range map[string]int{
		FrequencyMonthly:  12,
		FrequencyBiWeekly: 26,
		FrequencyWeekly:   52,
	} {
		n, err := d.PeriodsPerYear(freq)
		require.NoError(t, err)
		assert.Equal(t, periods, n, freq)

		cycle, err := d.CycleMultiplier(freq)
		require.NoError(t, err)
		yearly := cycle.Mul(decimal.NewFromInt(int64(n)))
		assert.True(t, yearly.Sub(decimal.NewFromInt(12)).Abs().LessThan(decimal.RequireFromString("0.000001")),
			"%s: %s per period over %d periods is %s months", freq, cycle, n, yearly)
	}

	_, err := d.PeriodsPerYear("daily")
	assert.Error(t, err)
	_, err = d.CycleMultiplier("daily")
	assert.Error(t, err)
}

func TestSetting_CustomPeriods(t *testing.T) {
	s := Default()
	s.WeeklyPeriodsPerYear = 53

	n, err := s.PeriodsPerYear(FrequencyWeekly)
	require.NoError(t, err)
	assert.Equal(t, 53, n)

	cycle, err := s.CycleMultiplier(FrequencyWeekly)
	require.NoError(t, err)
	assert.True(t, cycle.Equal(decimal.NewFromInt(12).DivRound(decimal.NewFromInt(53), 10)))

	s.BiWeeklyPeriodsPerYear = 0
	_, err = s.CycleMultiplier(FrequencyBiWeekly)
	assert.Error(t, err)
}

func TestSettings_OvertimeMultiplierFor(t *testing.T) {
	s := Settings{
		Setting:             Default(),
		OvertimeMultipliers: map[string]decimal.Decimal{"driver": decimal.NewFromInt(2), "clerk": decimal.Zero},
	}

	assert.True(t, s.OvertimeMultiplierFor("driver").Equal(decimal.NewFromInt(2)))
	assert.True(t, s.OvertimeMultiplierFor("clerk").Equal(decimal.RequireFromString("1.5")))
	assert.True(t, s.OvertimeMultiplierFor("accountant").Equal(decimal.RequireFromString("1.5")))
}

func TestService_Load(t *testing.T) {
	svc := NewService(&fakeRepo{
		setting:     &Setting{StandardDailyHours: decimal.NewFromInt(7), OvertimeMultiplier: decimal.NewFromInt(2)},
		rates:       []RoleCommissionRate{{Role: "sales_rep", Rate: decimal.RequireFromString("0.05")}},
		multipliers: []RoleOvertimeMultiplier{{Role: "driver", Multiplier: decimal.RequireFromString("1.75")}},
	}, zap.NewNop())

	s, err := svc.Load(context.Background(), "org-1")

	require.NoError(t, err)
	assert.True(t, s.StandardDailyHours.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 22, s.WorkingDaysPerMonth)
	assert.Equal(t, 26, s.BiWeeklyPeriodsPerYear)
	assert.Equal(t, 52, s.WeeklyPeriodsPerYear)
	assert.True(t, s.CommissionRate("sales_rep").Equal(decimal.RequireFromString("0.05")))
	assert.True(t, s.CommissionRate("driver").IsZero())
	assert.True(t, s.OvertimeMultiplierFor("driver").Equal(decimal.RequireFromString("1.75")))
	assert.True(t, s.OvertimeMultiplierFor("sales_rep").Equal(decimal.NewFromInt(2)))
}
