package paycomponent

import (
	"fmt"
	"slices"
	"sort"

	paycomponenterrors "go-payroll/internal/paycomponent/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/money"
	"go-payroll/internal/shared/period"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stage orders component evaluation by what each component reads:
// earnings -> gross -> statutory -> deductions -> net.
type Stage int

const (
	// StageEarnings holds earnings that only read base salary, hours or a custom base.
	StageEarnings Stage = iota
	// StageGross holds earnings that read gross pay accumulated so far.
	StageGross
	// StageDeductions holds deductions that do not read net pay.
	StageDeductions
	// StageNet holds deductions that read net pay; always last.
	StageNet

	stageCount
)

type Entry struct {
	Component   PayComponent
	Calculation Calculation
}

// Plan is the eligible components of one payroll grouped by stage, each
// stage sorted by name then id.
type Plan struct {
	stages [stageCount][]Entry
}

func (p Plan) Stage(s Stage) []Entry {
	return p.stages[s]
}

func (p Plan) Len() int {
	n := 0
	for _, s := range p.stages {
		n += len(s)
	}
	return n
}

type Variables struct {
	BaseSalary    int64
	GrossPay      int64
	NetPay        int64
	Sales         int64
	HourlyRate    decimal.Decimal
	HoursWorked   decimal.Decimal
	OvertimeHours decimal.Decimal
}

type Line struct {
	ComponentID               string `json:"component_id,omitempty"`
	Name                      string `json:"name"`
	Type                      string `json:"type"`
	Category                  string `json:"category"`
	Amount                    int64  `json:"amount"`
	Taxable                   bool   `json:"taxable"`
	AffectsSocialContribution bool   `json:"affects_social_contribution"`
	Source                    string `json:"source"`
}

const (
	SourceComponent = "pay_component"
	SourcePackage   = "package"
)

type PlanInput struct {
	Subject Subject
	Period  period.Period
	// CoveredNames are allowance names already paid by a remuneration
	// package; role_default components with these names are skipped.
	CoveredNames []string
}

type Resolver struct {
	formulas *FormulaEvaluator
	logger   *zap.Logger
}

func NewResolver(formulas *FormulaEvaluator, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("paycomponent.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("paycomponent.resolver")
	}
	return &Resolver{formulas: formulas, logger: l}
}

// Plan selects the components that apply to in.Subject and are due in
// in.Period, validates them and assigns each to its stage.
func (r *Resolver) Plan(catalog []PayComponent, in PlanInput) (Plan, error) {
	var plan Plan

	for _, c := range catalog {
		applies, ambiguous := c.AppliesTo(in.Subject)
		if ambiguous {
			r.logger.Warn("pay component has both employee and role scope, employee scope wins",
				zap.String("component_id", c.ID.String()),
				zap.String("component", c.Name),
			)
		}
		if !applies || !c.DueIn(in.Period) {
			continue
		}
		if c.Category == CategoryRoleDefault && slices.Contains(in.CoveredNames, c.Name) {
			continue
		}

		calc, err := c.Calculation()
		if err != nil {
			return Plan{}, err
		}
		if f, ok := calc.(Formula); ok {
			if r.formulas == nil {
				return Plan{}, apperror.WithCause(paycomponenterrors.ErrFormula, fmt.Errorf("%s: formula evaluation is not configured", c.Name))
			}
			if err := r.formulas.Check(f.Expr); err != nil {
				return Plan{}, err
			}
		}

		s := stageOf(c.Type, calc)
		plan.stages[s] = append(plan.stages[s], Entry{Component: c, Calculation: calc})
	}

	for i := range plan.stages {
		entries := plan.stages[i]
		sort.SliceStable(entries, func(a, b int) bool {
			if entries[a].Component.Name != entries[b].Component.Name {
				return entries[a].Component.Name < entries[b].Component.Name
			}
			return entries[a].Component.ID.String() < entries[b].Component.ID.String()
		})
	}

	return plan, nil
}

func stageOf(componentType string, calc Calculation) Stage {
	if componentType == TypeDeduction {
		if p, ok := calc.(Percentage); ok && p.Of == OfNetPay {
			return StageNet
		}
		return StageDeductions
	}

	switch c := calc.(type) {
	case Percentage:
		if c.Of == OfGrossPay {
			return StageGross
		}
	case Formula:
		return StageGross
	}
	return StageEarnings
}

// EvaluateStage resolves every entry of one stage against the same vars,
// so the order of entries inside a stage never changes a result.
func (r *Resolver) EvaluateStage(plan Plan, stage Stage, vars Variables) ([]Line, error) {
	entries := plan.Stage(stage)
	lines := make([]Line, 0, len(entries))

	for _, e := range entries {
		amount, err := r.Evaluate(e, vars)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{
			ComponentID:               e.Component.ID.String(),
			Name:                      e.Component.Name,
			Type:                      e.Component.Type,
			Category:                  e.Component.Category,
			Amount:                    amount,
			Taxable:                   e.Component.IsTaxable,
			AffectsSocialContribution: e.Component.AffectsSocialContribution,
			Source:                    SourceComponent,
		})
	}

	return lines, nil
}

// Evaluate computes one component: raw amount, floored at zero, clamped to
// the configured caps, then rounded to whole units.
func (r *Resolver) Evaluate(e Entry, vars Variables) (int64, error) {
	var raw decimal.Decimal

	switch c := e.Calculation.(type) {
	case Fixed:
		raw = c.Amount

	case Percentage:
		var base int64
		switch c.Of {
		case OfBaseSalary:
			base = vars.BaseSalary
		case OfGrossPay:
			base = vars.GrossPay
		case OfNetPay:
			base = vars.NetPay
		case OfCustom:
			base = c.CustomBase
		default:
			return 0, apperror.WithCause(paycomponenterrors.ErrUnsupportedBase, fmt.Errorf("%s: base %q", e.Component.Name, c.Of))
		}
		raw = money.Percent(money.Dec(base), c.Rate)

	case HoursBased:
		hours := vars.OvertimeHours
		if c.Hours != nil {
			hours = *c.Hours
		}
		raw = vars.HourlyRate.Mul(hours).Mul(c.Multiplier)

	case Formula:
		if r.formulas == nil {
			return 0, apperror.WithCause(paycomponenterrors.ErrFormula, fmt.Errorf("%s: formula evaluation is not configured", e.Component.Name))
		}
		v, err := r.formulas.Evaluate(c.Expr, FormulaVars{
			BaseSalary: money.Dec(vars.BaseSalary),
			GrossPay:   money.Dec(vars.GrossPay),
			Hours:      vars.HoursWorked,
			Sales:      money.Dec(vars.Sales),
		})
		if err != nil {
			return 0, err
		}
		raw = v

	default:
		return 0, apperror.WithCause(paycomponenterrors.ErrUnknownCalculation, fmt.Errorf("%s: %T", e.Component.Name, e.Calculation))
	}

	if raw.IsNegative() {
		raw = decimal.Zero
	}
	raw = money.Clamp(raw, decBound(e.Component.MinAmount), decBound(e.Component.MaxAmount))

	return money.Round(raw), nil
}

func decBound(v *int64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromInt(*v)
	return &d
}

// Resolution splits resolved lines the way a payroll reports them.
type Resolution struct {
	Allowances []Line `json:"allowances"`
	Bonuses    []Line `json:"bonuses"`
	Deductions []Line `json:"deductions"`
}

func (res *Resolution) Add(lines ...Line) {
	for _, l := range lines {
		switch {
		case l.Type == TypeDeduction:
			res.Deductions = append(res.Deductions, l)
		case l.Category == CategoryBonus:
			res.Bonuses = append(res.Bonuses, l)
		default:
			res.Allowances = append(res.Allowances, l)
		}
	}
}

func Total(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Amount
	}
	return total
}
