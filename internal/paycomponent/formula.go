package paycomponent

import (
	"fmt"
	"math"
	"strings"
	"sync"

	paycomponenterrors "go-payroll/internal/paycomponent/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// formulaCostLimit bounds the work a single expression may do.
const formulaCostLimit = 10_000

// FormulaEvaluator runs CEL expressions over the four documented payroll
// variables. All variables are doubles and the expression must yield a
// double, e.g. "base_salary * 0.1 + hours * 2.0".
type FormulaEvaluator struct {
	env      *cel.Env
	programs sync.Map
}

func NewFormulaEvaluator() (*FormulaEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("base_salary", cel.DoubleType),
		cel.Variable("gross_pay", cel.DoubleType),
		cel.Variable("hours", cel.DoubleType),
		cel.Variable("sales", cel.DoubleType),
	)
	if err != nil {
		return nil, err
	}
	return &FormulaEvaluator{env: env}, nil
}

type FormulaVars struct {
	BaseSalary decimal.Decimal
	GrossPay   decimal.Decimal
	Hours      decimal.Decimal
	Sales      decimal.Decimal
}

func (e *FormulaEvaluator) program(expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if cached, ok := e.programs.Load(expr); ok {
		return cached.(cel.Program), nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if !ast.OutputType().IsExactType(cel.DoubleType) {
		return nil, fmt.Errorf("expression must evaluate to double, got %s", ast.OutputType())
	}

	prg, err := e.env.Program(ast, cel.CostLimit(formulaCostLimit))
	if err != nil {
		return nil, err
	}
	e.programs.Store(expr, prg)
	return prg, nil
}

// Check compiles expr without evaluating it.
func (e *FormulaEvaluator) Check(expr string) error {
	if _, err := e.program(expr); err != nil {
		return apperror.WithCause(paycomponenterrors.ErrFormula, err)
	}
	return nil
}

func (e *FormulaEvaluator) Evaluate(expr string, vars FormulaVars) (decimal.Decimal, error) {
	prg, err := e.program(expr)
	if err != nil {
		return decimal.Zero, apperror.WithCause(paycomponenterrors.ErrFormula, err)
	}

	out, _, err := prg.Eval(map[string]any{
		"base_salary": vars.BaseSalary.InexactFloat64(),
		"gross_pay":   vars.GrossPay.InexactFloat64(),
		"hours":       vars.Hours.InexactFloat64(),
		"sales":       vars.Sales.InexactFloat64(),
	})
	if err != nil {
		return decimal.Zero, apperror.WithCause(paycomponenterrors.ErrFormula, err)
	}

	v, ok := out.Value().(float64)
	if !ok {
		return decimal.Zero, apperror.WithCause(paycomponenterrors.ErrFormula, fmt.Errorf("unexpected result %T", out.Value()))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, apperror.WithCause(paycomponenterrors.ErrFormula, fmt.Errorf("result is not finite"))
	}
	return decimal.NewFromFloat(v), nil
}
