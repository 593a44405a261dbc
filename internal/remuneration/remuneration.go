package remuneration

import (
	"slices"
	"sort"

	"go-payroll/internal/paycomponent"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

var (
	twelve = decimal.NewFromInt(12)
	three  = decimal.NewFromInt(3)
)

func (p Package) AppliesToRole(role string) bool {
	return slices.ContainsFunc(p.Roles, func(r PackageRole) bool { return r.Role == role })
}

func (p Package) AllowanceNames() []string {
	out := make([]string, 0, len(p.Allowances))
	for _, a := range p.Allowances {
		out = append(out, a.Name)
	}
	return out
}

// AllowanceLines resolves package allowances for one period. Fixed amounts
// are monthly and scale by cycleMultiplier; percentages apply to the
// period's base salary, which is already scaled.
func (p Package) AllowanceLines(periodBase int64, cycleMultiplier decimal.Decimal) []paycomponent.Line {
	allowances := slices.Clone(p.Allowances)
	sort.SliceStable(allowances, func(i, j int) bool { return allowances[i].Name < allowances[j].Name })

	lines := make([]paycomponent.Line, 0, len(allowances))
	for _, a := range allowances {
		var raw decimal.Decimal
		if a.Type == AllowancePercentage {
			raw = money.Percent(money.Dec(periodBase), a.Amount)
		} else {
			raw = a.Amount.Mul(cycleMultiplier)
		}
		lines = append(lines, paycomponent.Line{
			Name:                      a.Name,
			Type:                      paycomponent.TypeEarning,
			Category:                  paycomponent.CategoryAllowance,
			Amount:                    money.Round(decimal.Max(raw, decimal.Zero)),
			Taxable:                   true,
			AffectsSocialContribution: true,
			Source:                    paycomponent.SourcePackage,
		})
	}
	return lines
}

// BonusLines prorates package bonuses to one period: annual bonuses pay a
// twelfth, quarterly a third, everything else its full amount, each scaled
// by cycleMultiplier.
func (p Package) BonusLines(cycleMultiplier decimal.Decimal) []paycomponent.Line {
	bonuses := slices.Clone(p.Bonuses)
	sort.SliceStable(bonuses, func(i, j int) bool { return bonuses[i].Name < bonuses[j].Name })

	lines := make([]paycomponent.Line, 0, len(bonuses))
	for _, b := range bonuses {
		lines = append(lines, paycomponent.Line{
			Name:                      b.Name,
			Type:                      paycomponent.TypeEarning,
			Category:                  paycomponent.CategoryBonus,
			Amount:                    ProrateBonus(b.Amount, b.Frequency, cycleMultiplier),
			Taxable:                   true,
			AffectsSocialContribution: true,
			Source:                    paycomponent.SourcePackage,
		})
	}
	return lines
}

func ProrateBonus(amount int64, frequency string, cycleMultiplier decimal.Decimal) int64 {
	raw := money.Dec(amount)
	switch frequency {
	case BonusAnnual:
		raw = raw.Div(twelve)
	case BonusQuarterly:
		raw = raw.Div(three)
	}
	return money.Round(raw.Mul(cycleMultiplier))
}
