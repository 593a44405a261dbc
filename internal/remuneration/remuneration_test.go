package remuneration_test

import (
	"testing"

	"go-payroll/internal/paycomponent"
	"go-payroll/internal/remuneration"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProrateBonus(t *testing.T) {
	monthly := decimal.NewFromInt(1)
	weekly := decimal.RequireFromString("0.25")

	tests := []struct {
		name      string
		amount    int64
		frequency string
		mult      decimal.Decimal
		want      int64
	}{
		{"annual monthly cycle", 1_200_000, remuneration.BonusAnnual, monthly, 100_000},
		{"quarterly monthly cycle", 300_000, remuneration.BonusQuarterly, monthly, 100_000},
		{"monthly bonus", 50_000, remuneration.BonusMonthly, monthly, 50_000},
		{"per trip weekly cycle", 50_000, remuneration.BonusPerTrip, weekly, 12_500},
		{"annual weekly cycle rounds", 1_000_000, remuneration.BonusAnnual, weekly, 20_833},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remuneration.ProrateBonus(tt.amount, tt.frequency, tt.mult))
		})
	}
}

func TestPackage_Lines(t *testing.T) {
	pkg := remuneration.Package{
		Roles: []remuneration.PackageRole{{Role: "driver"}},
		Allowances: []remuneration.PackageAllowance{
			{Name: "Transport", Amount: decimal.NewFromInt(80_000), Type: remuneration.AllowanceFixed},
			{Name: "Housing", Amount: decimal.NewFromInt(10), Type: remuneration.AllowancePercentage},
		},
		Bonuses: []remuneration.PackageBonus{
			{Name: "Year end", Amount: 600_000, Frequency: remuneration.BonusAnnual},
		},
	}

	assert.True(t, pkg.AppliesToRole("driver"))
	assert.False(t, pkg.AppliesToRole("clerk"))

	allowances := pkg.AllowanceLines(500_000, decimal.RequireFromString("0.5"))
	assert.Equal(t, []string{"Housing", "Transport"}, []string{allowances[0].Name, allowances[1].Name})
	assert.Equal(t, int64(50_000), allowances[0].Amount)
	assert.Equal(t, int64(40_000), allowances[1].Amount)
	assert.Equal(t, paycomponent.SourcePackage, allowances[0].Source)

	bonuses := pkg.BonusLines(decimal.NewFromInt(1))
	assert.Equal(t, int64(50_000), bonuses[0].Amount)
	assert.Equal(t, paycomponent.CategoryBonus, bonuses[0].Category)
}
