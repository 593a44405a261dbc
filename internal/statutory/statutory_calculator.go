package statutory

import (
	"fmt"
	"sort"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/money"
	statutoryerrors "go-payroll/internal/statutory/errors"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ValidateTiers checks that tiers (after sorting by Min) are contiguous,
// non-overlapping and end in exactly one unbounded tier. The next tier may
// start at the previous Max or at Max+1.
func ValidateTiers(tiers []StatutoryTier) error {
	if len(tiers) == 0 {
		return apperror.WithCause(statutoryerrors.ErrInvalidTiers, fmt.Errorf("no tiers configured"))
	}

	sorted := sortedTiers(tiers)
	if sorted[0].Min < 0 {
		return apperror.WithCause(statutoryerrors.ErrInvalidTiers, fmt.Errorf("first tier starts below zero"))
	}

	for i, t := range sorted {
		if t.Rate.IsNegative() || t.Rate.GreaterThan(one) {
			return apperror.WithCause(statutoryerrors.ErrInvalidRate, fmt.Errorf("tier %d rate %s", i+1, t.Rate))
		}

		last := i == len(sorted)-1
		if last && t.Max != nil {
			return apperror.WithCause(statutoryerrors.ErrInvalidTiers, fmt.Errorf("final tier must be unbounded"))
		}
		if !last && t.Max == nil {
			return apperror.WithCause(statutoryerrors.ErrInvalidTiers, fmt.Errorf("tier %d is unbounded but not last", i+1))
		}
		if t.Max != nil && *t.Max <= t.Min {
			return apperror.WithCause(statutoryerrors.ErrInvalidTiers, fmt.Errorf("tier %d max %d not above min %d", i+1, *t.Max, t.Min))
		}

		if i > 0 {
			prevMax := *sorted[i-1].Max
			if t.Min != prevMax && t.Min != prevMax+1 {
				return apperror.WithCause(statutoryerrors.ErrInvalidTiers, fmt.Errorf("gap or overlap between tier %d and %d", i, i+1))
			}
		}
	}

	return nil
}

func sortedTiers(tiers []StatutoryTier) []StatutoryTier {
	out := make([]StatutoryTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Min < out[j].Min })
	return out
}

// annualProgressiveTax returns the unrounded tax on an annual income. Each
// tier taxes the part of income between its lower bound (the previous
// tier's Max) and its own Max.
func annualProgressiveTax(annualIncome int64, tiers []StatutoryTier) (decimal.Decimal, error) {
	if err := ValidateTiers(tiers); err != nil {
		return decimal.Zero, err
	}

	income := decimal.NewFromInt(annualIncome)
	total := decimal.Zero
	sorted := sortedTiers(tiers)

	for i, t := range sorted {
		lower := decimal.NewFromInt(t.Min)
		if i > 0 {
			lower = decimal.NewFromInt(*sorted[i-1].Max)
		}
		if !income.GreaterThan(lower) {
			break
		}

		upper := income
		if t.Max != nil {
			upper = decimal.Min(income, decimal.NewFromInt(*t.Max))
		}

		total = total.Add(upper.Sub(lower).Mul(t.Rate))
	}

	return total, nil
}

// ComputeProgressiveTax returns the monthly tax for an annual taxable
// income: the annual tax divided by 12, rounded to whole units.
func ComputeProgressiveTax(annualTaxableIncome int64, tiers []StatutoryTier) (int64, error) {
	annualTax, err := annualProgressiveTax(annualTaxableIncome, tiers)
	if err != nil {
		return 0, err
	}
	return money.Round(annualTax.Div(decimal.NewFromInt(12))), nil
}

// ComputePeriodTax annualises one period's taxable income over
// periodsPerYear, taxes it and returns a single period's share.
func ComputePeriodTax(periodTaxable int64, periodsPerYear int, tiers []StatutoryTier) (int64, error) {
	if periodsPerYear <= 0 {
		return 0, statutoryerrors.ErrInvalidPeriodsPerYear
	}
	if periodsPerYear == 12 {
		return ComputeProgressiveTax(periodTaxable*12, tiers)
	}

	ppy := decimal.NewFromInt(int64(periodsPerYear))
	annualTax, err := annualProgressiveTax(periodTaxable*int64(periodsPerYear), tiers)
	if err != nil {
		return 0, err
	}
	return money.Round(annualTax.Div(ppy)), nil
}

type Contribution struct {
	Employee int64 `json:"employee"`
	Employer int64 `json:"employer"`
}

// ComputeSocialContribution applies each side's rate to gross independently.
func ComputeSocialContribution(grossPay int64, employeeRate, employerRate decimal.Decimal) Contribution {
	if grossPay <= 0 {
		return Contribution{}
	}
	gross := decimal.NewFromInt(grossPay)
	return Contribution{
		Employee: nonNegative(money.Round(gross.Mul(employeeRate))),
		Employer: nonNegative(money.Round(gross.Mul(employerRate))),
	}
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Bases are the amounts a statutory rate can be applied to for one period.
type Bases struct {
	GrossPay      int64
	BasicSalary   int64
	TaxableIncome int64
	// ContributableGross is gross pay minus earnings that do not attract
	// social contribution. Used instead of GrossPay for contribution rates.
	ContributableGross int64
}

type Options struct {
	PeriodsPerYear          int
	ApplyIncomeTax          bool
	ApplySocialContribution bool
}

type Line struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Employee int64  `json:"employee"`
	Employer int64  `json:"employer"`
}

type Assessment struct {
	Lines          []Line `json:"lines"`
	IncomeTax      int64  `json:"income_tax"`
	SocialEmployee int64  `json:"social_employee"`
	SocialEmployer int64  `json:"social_employer"`
}

// EmployeeTotal is everything withheld from the employee.
func (a Assessment) EmployeeTotal() int64 {
	return a.IncomeTax + a.SocialEmployee
}

// Assess evaluates every active rate against the period bases. A disabled
// toggle skips rates of that kind unless the rate is mandatory.
func Assess(rates []StatutoryRate, bases Bases, opts Options) (Assessment, error) {
	if opts.PeriodsPerYear <= 0 {
		return Assessment{}, statutoryerrors.ErrInvalidPeriodsPerYear
	}

	var out Assessment
	for _, r := range rates {
		if !r.IsActive {
			continue
		}

		var enabled bool
		switch r.Kind {
		case KindIncomeTax:
			enabled = opts.ApplyIncomeTax
		case KindSocialContribution:
			enabled = opts.ApplySocialContribution
		default:
			return Assessment{}, apperror.WithCause(statutoryerrors.ErrUnknownMethod, fmt.Errorf("kind %q", r.Kind))
		}
		if !enabled && !r.IsMandatory {
			continue
		}

		line, err := evaluate(r, bases, opts.PeriodsPerYear)
		if err != nil {
			return Assessment{}, err
		}

		out.Lines = append(out.Lines, line)
		if r.Kind == KindIncomeTax {
			out.IncomeTax += line.Employee
		} else {
			out.SocialEmployee += line.Employee
			out.SocialEmployer += line.Employer
		}
	}

	return out, nil
}

func evaluate(r StatutoryRate, bases Bases, periodsPerYear int) (Line, error) {
	base, err := pickBase(r, bases)
	if err != nil {
		return Line{}, err
	}

	line := Line{Name: r.Name, Kind: r.Kind}
	if err := validateRate(r.Rate); err != nil {
		return Line{}, err
	}
	if err := validateRate(r.EmployerRate); err != nil {
		return Line{}, err
	}

	switch r.CalculationMethod {
	case MethodProgressive:
		if r.ExemptionThreshold > 0 && base*int64(periodsPerYear) <= r.ExemptionThreshold {
			return line, ValidateTiers(r.Tiers)
		}
		tax, err := ComputePeriodTax(base, periodsPerYear, r.Tiers)
		if err != nil {
			return Line{}, err
		}
		line.Employee = tax

	case MethodPercentage:
		c := ComputeSocialContribution(base-r.ExemptionThreshold, r.Rate, r.EmployerRate)
		line.Employee, line.Employer = c.Employee, c.Employer

	case MethodFlatRate:
		if base <= r.ExemptionThreshold {
			return line, nil
		}
		c := ComputeSocialContribution(base, r.Rate, r.EmployerRate)
		line.Employee, line.Employer = c.Employee, c.Employer

	default:
		return Line{}, apperror.WithCause(statutoryerrors.ErrUnknownMethod, fmt.Errorf("method %q", r.CalculationMethod))
	}

	if r.Kind == KindIncomeTax {
		line.Employer = 0
	}
	return line, nil
}

func pickBase(r StatutoryRate, bases Bases) (int64, error) {
	switch r.AppliesToBase {
	case BaseGrossPay, "":
		if r.Kind == KindSocialContribution {
			return bases.ContributableGross, nil
		}
		return bases.GrossPay, nil
	case BaseBasicSalary:
		return bases.BasicSalary, nil
	case BaseTaxableIncome:
		return bases.TaxableIncome, nil
	default:
		return 0, apperror.WithCause(statutoryerrors.ErrUnknownBase, fmt.Errorf("base %q", r.AppliesToBase))
	}
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(one) {
		return apperror.WithCause(statutoryerrors.ErrInvalidRate, fmt.Errorf("rate %s", rate))
	}
	return nil
}
