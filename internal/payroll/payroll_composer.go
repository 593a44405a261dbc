package payroll

import (
	"fmt"
	"slices"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/paycomponent"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollsetting"
	"go-payroll/internal/remuneration"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/money"
	"go-payroll/internal/shared/period"
	"go-payroll/internal/statutory"

	"github.com/shopspring/decimal"
)

// ComposeInput is everything one payroll is computed from. The composer
// does no I/O, so equal inputs always give equal payrolls.
type ComposeInput struct {
	Employee   employee.Employee
	Package    *remuneration.Package
	Period     period.Period
	Frequency  string
	Attendance *attendance.Summary
	SalesTotal int64

	Catalog  []paycomponent.PayComponent
	Rates    []statutory.StatutoryRate
	Settings payrollsetting.Settings

	UsePackage              bool
	IncludeAttendance       bool
	ApplyIncomeTax          bool
	ApplySocialContribution bool

	Status string
	Origin string
}

type Composer struct {
	resolver *paycomponent.Resolver
}

func NewComposer(resolver *paycomponent.Resolver) *Composer {
	return &Composer{resolver: resolver}
}

// Compose builds one payroll:
//
//	base (prorated) + overtime + commission + package lines + earnings = gross
//	gross - statutory - deductions = net
func (c *Composer) Compose(in ComposeInput) (*Payroll, error) {
	settings := in.Settings
	cycle, err := settings.CycleMultiplier(in.Frequency)
	if err != nil {
		return nil, apperror.WithCause(payrollerrors.ErrInvalidFrequency, err)
	}
	periodsPerYear, err := settings.PeriodsPerYear(in.Frequency)
	if err != nil {
		return nil, apperror.WithCause(payrollerrors.ErrInvalidFrequency, err)
	}

	emp := in.Employee

	var pkg *remuneration.Package
	if in.UsePackage && in.Package != nil {
		pkg = in.Package
	}

	contract, salaryType := int64(0), emp.SalaryType
	if emp.BaseSalary != nil {
		contract = *emp.BaseSalary
	}
	if pkg != nil && pkg.BaseSalary > 0 {
		contract, salaryType = pkg.BaseSalary, pkg.SalaryType
	}
	if salaryType == "" {
		salaryType = remuneration.SalaryTypeMonthly
	}
	if contract <= 0 {
		return nil, apperror.WithCause(payrollerrors.ErrMissingBaseSalary, fmt.Errorf("employee %s", emp.ID))
	}

	summary := attendance.FullAttendance(in.Period, settings.StandardDailyHours)
	if in.Attendance != nil {
		summary = *in.Attendance
	}

	hourlyRate, periodBase, err := basePay(contract, salaryType, cycle, summary, settings.Setting)
	if err != nil {
		return nil, err
	}

	multiplier := settings.OvertimeMultiplierFor(emp.Role)
	if pkg != nil && pkg.OvertimeMultiplier != nil {
		multiplier = *pkg.OvertimeMultiplier
	}
	overtimePay := money.Round(hourlyRate.Mul(summary.OvertimeHours).Mul(multiplier))
	commission := money.Round(money.Dec(in.SalesTotal).Mul(settings.CommissionRate(emp.Role)))

	var res paycomponent.Resolution
	var covered []string
	if pkg != nil {
		res.Add(pkg.AllowanceLines(periodBase, cycle)...)
		res.Add(pkg.BonusLines(cycle)...)
		covered = pkg.AllowanceNames()
	}

	plan, err := c.resolver.Plan(in.Catalog, paycomponent.PlanInput{
		Subject:      paycomponent.Subject{EmployeeID: emp.ID.String(), Role: emp.Role},
		Period:       in.Period,
		CoveredNames: covered,
	})
	if err != nil {
		return nil, err
	}

	vars := paycomponent.Variables{
		BaseSalary:    periodBase,
		Sales:         in.SalesTotal,
		HourlyRate:    hourlyRate,
		HoursWorked:   summary.RegularHours.Add(summary.OvertimeHours),
		OvertimeHours: summary.OvertimeHours,
	}

	earnings, err := c.resolver.EvaluateStage(plan, paycomponent.StageEarnings, vars)
	if err != nil {
		return nil, err
	}
	res.Add(earnings...)

	vars.GrossPay = periodBase + overtimePay + commission +
		paycomponent.Total(res.Allowances) + paycomponent.Total(res.Bonuses)
	onGross, err := c.resolver.EvaluateStage(plan, paycomponent.StageGross, vars)
	if err != nil {
		return nil, err
	}
	res.Add(onGross...)

	totalAllowances := paycomponent.Total(res.Allowances)
	totalBonuses := paycomponent.Total(res.Bonuses)
	gross := periodBase + overtimePay + commission + totalAllowances + totalBonuses

	taxable, contributable := gross, gross
	for _, l := range slices.Concat(res.Allowances, res.Bonuses) {
		if !l.Taxable {
			taxable -= l.Amount
		}
		if !l.AffectsSocialContribution {
			contributable -= l.Amount
		}
	}

	assessment, err := statutory.Assess(in.Rates, statutory.Bases{
		GrossPay:           gross,
		BasicSalary:        periodBase,
		TaxableIncome:      taxable,
		ContributableGross: contributable,
	}, statutory.Options{
		PeriodsPerYear:          periodsPerYear,
		ApplyIncomeTax:          in.ApplyIncomeTax,
		ApplySocialContribution: in.ApplySocialContribution,
	})
	if err != nil {
		return nil, err
	}

	vars.GrossPay = gross
	deductions, err := c.resolver.EvaluateStage(plan, paycomponent.StageDeductions, vars)
	if err != nil {
		return nil, err
	}
	res.Add(deductions...)

	vars.NetPay = gross - assessment.EmployeeTotal() - paycomponent.Total(res.Deductions)
	onNet, err := c.resolver.EvaluateStage(plan, paycomponent.StageNet, vars)
	if err != nil {
		return nil, err
	}
	res.Add(onNet...)

	totalDeductions := assessment.EmployeeTotal() + paycomponent.Total(res.Deductions)

	status := in.Status
	if status == "" {
		status = StatusPendingApproval
	}
	origin := in.Origin
	if origin == "" {
		origin = OriginSingle
	}

	p := &Payroll{
		OrganisationID: emp.OrganisationID,
		EmployeeID:     emp.ID,
		PeriodStart:    in.Period.Start,
		PeriodEnd:      in.Period.End,
		Frequency:      frequencyOrDefault(in.Frequency),
		SalaryType:     salaryType,
		Origin:         origin,

		UsePackage:              in.UsePackage,
		IncludeAttendance:       in.IncludeAttendance,
		ApplyIncomeTax:          in.ApplyIncomeTax,
		ApplySocialContribution: in.ApplySocialContribution,

		ContractSalary: contract,
		BaseSalary:     periodBase,
		HourlyRate:     hourlyRate.Round(4),

		DaysWorked:         summary.DaysWorked,
		ExpectedDays:       summary.ExpectedDays,
		HoursWorked:        vars.HoursWorked,
		OvertimeHours:      summary.OvertimeHours,
		OvertimeMultiplier: multiplier,
		OvertimePay:        overtimePay,

		SalesTotal: in.SalesTotal,
		Commission: commission,

		TotalAllowances: totalAllowances,
		TotalBonuses:    totalBonuses,
		TotalDeductions: totalDeductions,

		IncomeTax:                  assessment.IncomeTax,
		SocialContributionEmployee: assessment.SocialEmployee,
		SocialContributionEmployer: assessment.SocialEmployer,

		GrossPay:      gross,
		TaxableIncome: taxable,
		NetPay:        gross - totalDeductions,
		EmployerCost:  gross + assessment.SocialEmployer,

		Status: status,
	}
	p.Items = buildItems(res, assessment)

	return p, nil
}

// basePay returns the hourly rate and the base salary paid this period.
// Monthly salaries scale by the cycle and by days worked over expected
// days; daily and hourly salaries pay for the days or hours recorded.
func basePay(
	contract int64,
	salaryType string,
	cycle decimal.Decimal,
	summary attendance.Summary,
	setting payrollsetting.Setting,
) (decimal.Decimal, int64, error) {
	rate := money.Dec(contract)

	switch salaryType {
	case remuneration.SalaryTypeMonthly:
		hourly := decimal.Zero
		if hours := setting.MonthlyStandardHours(); hours.IsPositive() {
			hourly = rate.Div(hours)
		}
		base := rate.Mul(cycle)
		if summary.ExpectedDays > 0 && summary.DaysWorked < summary.ExpectedDays {
			base = base.Mul(decimal.NewFromInt(int64(summary.DaysWorked))).
				Div(decimal.NewFromInt(int64(summary.ExpectedDays)))
		}
		return hourly, money.Round(base), nil

	case remuneration.SalaryTypeDaily:
		hourly := decimal.Zero
		if setting.StandardDailyHours.IsPositive() {
			hourly = rate.Div(setting.StandardDailyHours)
		}
		return hourly, money.Round(rate.Mul(decimal.NewFromInt(int64(summary.DaysWorked)))), nil

	case remuneration.SalaryTypeHourly:
		return rate, money.Round(rate.Mul(summary.RegularHours)), nil

	default:
		return decimal.Zero, 0, apperror.WithCause(payrollerrors.ErrInvalidSalaryType, fmt.Errorf("salary type %q", salaryType))
	}
}

func frequencyOrDefault(f string) string {
	if f == "" {
		return payrollsetting.FrequencyMonthly
	}
	return f
}

func buildItems(res paycomponent.Resolution, assessment statutory.Assessment) []PayrollItem {
	items := make([]PayrollItem, 0, len(res.Allowances)+len(res.Bonuses)+len(res.Deductions)+len(assessment.Lines))

	add := func(kind string, lines []paycomponent.Line) {
		for _, l := range lines {
			items = append(items, PayrollItem{
				Kind:    kind,
				Name:    l.Name,
				Amount:  l.Amount,
				Taxable: l.Taxable,
				Source:  l.Source,
			})
		}
	}
	add(ItemAllowance, res.Allowances)
	add(ItemBonus, res.Bonuses)

	for _, l := range assessment.Lines {
		items = append(items, PayrollItem{
			Kind:      ItemDeduction,
			Name:      l.Name,
			Amount:    l.Employee,
			Statutory: true,
			Source:    SourceStatutory,
		})
	}
	add(ItemDeduction, res.Deductions)

	for i := range items {
		items[i].SortOrder = i + 1
	}
	return items
}
