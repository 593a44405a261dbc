package paycomponent

import (
	"fmt"

	paycomponenterrors "go-payroll/internal/paycomponent/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

// Calculation is the closed set of strategies a component can use. Only the
// variants in this file implement it.
type Calculation interface {
	calculation()
}

type Fixed struct {
	Amount decimal.Decimal
}

// Percentage takes Rate percent of the chosen base.
type Percentage struct {
	Rate       decimal.Decimal
	Of         string
	CustomBase int64
}

// HoursBased pays hourly rate * hours * Multiplier. A nil Hours uses the
// period's overtime hours.
type HoursBased struct {
	Multiplier decimal.Decimal
	Hours      *decimal.Decimal
}

type Formula struct {
	Expr string
}

func (Fixed) calculation()      {}
func (Percentage) calculation() {}
func (HoursBased) calculation() {}
func (Formula) calculation()    {}

// Calculation decodes the stored columns into their variant and checks the
// invariants of the component.
func (c PayComponent) Calculation() (Calculation, error) {
	if c.Type != TypeEarning && c.Type != TypeDeduction {
		return nil, apperror.WithCause(paycomponenterrors.ErrUnknownType, fmt.Errorf("%s: type %q", c.Name, c.Type))
	}
	if c.MinAmount != nil && c.MaxAmount != nil && *c.MinAmount > *c.MaxAmount {
		return nil, apperror.WithCause(paycomponenterrors.ErrInvalidCaps, fmt.Errorf("%s: min %d > max %d", c.Name, *c.MinAmount, *c.MaxAmount))
	}

	switch c.CalculationType {
	case CalcFixed:
		if c.Amount.IsNegative() {
			return nil, apperror.WithCause(paycomponenterrors.ErrNegativeAmount, fmt.Errorf("%s", c.Name))
		}
		return Fixed{Amount: c.Amount}, nil

	case CalcPercentage:
		p := Percentage{Rate: c.Amount, Of: c.PercentageOf}
		switch c.PercentageOf {
		case OfBaseSalary, OfGrossPay:
		case OfNetPay:
			if c.Type == TypeEarning {
				return nil, apperror.WithCause(paycomponenterrors.ErrUnsupportedBase, fmt.Errorf("%s: earning cannot depend on net pay", c.Name))
			}
		case OfCustom:
			if c.CustomBase == nil {
				return nil, apperror.WithCause(paycomponenterrors.ErrMissingCustomBase, fmt.Errorf("%s", c.Name))
			}
			p.CustomBase = *c.CustomBase
		default:
			return nil, apperror.WithCause(paycomponenterrors.ErrUnsupportedBase, fmt.Errorf("%s: base %q", c.Name, c.PercentageOf))
		}
		return p, nil

	case CalcHoursBased:
		if c.Amount.IsNegative() {
			return nil, apperror.WithCause(paycomponenterrors.ErrNegativeAmount, fmt.Errorf("%s", c.Name))
		}
		return HoursBased{Multiplier: c.Amount, Hours: c.Hours}, nil

	case CalcFormula:
		if c.Formula == "" {
			return nil, apperror.WithCause(paycomponenterrors.ErrFormula, fmt.Errorf("%s: empty expression", c.Name))
		}
		return Formula{Expr: c.Formula}, nil

	default:
		return nil, apperror.WithCause(paycomponenterrors.ErrUnknownCalculation, fmt.Errorf("%s: %q", c.Name, c.CalculationType))
	}
}
