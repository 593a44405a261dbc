package paycomponent

import (
	"slices"

	"go-payroll/internal/shared/period"
)

// Subject is the employee a component is being resolved for.
type Subject struct {
	EmployeeID string
	Role       string
}

// AppliesTo reports whether the component is active and in scope for s.
// An employee list wins over a role list, which wins over "all employees".
// ambiguous is set when both lists are configured.
func (c PayComponent) AppliesTo(s Subject) (applies bool, ambiguous bool) {
	if !c.IsActive {
		return false, false
	}

	var employees, roles []string
	for _, sc := range c.Scopes {
		switch sc.ScopeType {
		case ScopeEmployee:
			employees = append(employees, sc.Value)
		case ScopeRole:
			roles = append(roles, sc.Value)
		}
	}

	ambiguous = len(employees) > 0 && len(roles) > 0
	switch {
	case len(employees) > 0:
		return slices.Contains(employees, s.EmployeeID), ambiguous
	case len(roles) > 0:
		return slices.Contains(roles, s.Role), ambiguous
	default:
		return true, false
	}
}

// DueIn reports whether the component's frequency pays out in p.
func (c PayComponent) DueIn(p period.Period) bool {
	switch c.Frequency {
	case FrequencyEveryPayroll, "":
		return true
	case FrequencyMonthly:
		return p.ContainsMonthEnd()
	case FrequencyQuarterly:
		return p.ContainsQuarterEnd()
	case FrequencyAnnually:
		return p.ContainsYearEnd()
	case FrequencyOneTime:
		return c.PayableOn != nil && p.Contains(*c.PayableOn)
	default:
		return false
	}
}
