package payroll_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/paycomponent"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollsetting"
	"go-payroll/internal/remuneration"
	"go-payroll/internal/shared/period"
	"go-payroll/internal/statutory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func i64(v int64) *int64 { return &v }

func newComposer(t *testing.T) *payroll.Composer {
	t.Helper()
	f, err := paycomponent.NewFormulaEvaluator()
	require.NoError(t, err)
	return payroll.NewComposer(paycomponent.NewResolver(f, zap.NewNop()))
}

func march2026(t *testing.T) period.Period {
	t.Helper()
	p, err := period.Parse("2026-03-01", "2026-03-31")
	require.NoError(t, err)
	return p
}

func defaultSettings() payrollsetting.Settings {
	return payrollsetting.Settings{Setting: payrollsetting.Default(), CommissionRates: map[string]decimal.Decimal{}}
}

func monthlyEmployee(base *int64) employee.Employee {
	return employee.Employee{
		ID:             uuid.New(),
		OrganisationID: uuid.New(),
		FullName:       "Fatmata Kamara",
		Role:           "accountant",
		BaseSalary:     base,
		SalaryType:     remuneration.SalaryTypeMonthly,
		Status:         employee.StatusActive,
	}
}

func baseInput(t *testing.T, emp employee.Employee) payroll.ComposeInput {
	return payroll.ComposeInput{
		Employee:                emp,
		Period:                  march2026(t),
		Frequency:               payrollsetting.FrequencyMonthly,
		Rates:                   statutory.Defaults(),
		Settings:                defaultSettings(),
		ApplyIncomeTax:          true,
		ApplySocialContribution: true,
	}
}

func assertIdentity(t *testing.T, p *payroll.Payroll) {
	t.Helper()
	assert.Equal(t, p.BaseSalary+p.OvertimePay+p.TotalAllowances+p.TotalBonuses+p.Commission, p.GrossPay)
	assert.Equal(t, p.GrossPay-p.TotalDeductions, p.NetPay)

	var items int64
	for _, it := range p.ItemsOf(payroll.ItemDeduction) {
		items += it.Amount
	}
	assert.Equal(t, p.TotalDeductions, items)
}

func TestCompose_WorkedExample(t *testing.T) {
	c := newComposer(t)

	p, err := c.Compose(baseInput(t, monthlyEmployee(i64(1_000_000))))

	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), p.GrossPay)
	assert.Equal(t, int64(275_000), p.IncomeTax)
	assert.Equal(t, int64(50_000), p.SocialContributionEmployee)
	assert.Equal(t, int64(100_000), p.SocialContributionEmployer)
	assert.Equal(t, int64(325_000), p.TotalDeductions)
	assert.Equal(t, int64(675_000), p.NetPay)
	assert.Equal(t, int64(1_100_000), p.EmployerCost)
	assert.Equal(t, payroll.StatusPendingApproval, p.Status)
	assert.Equal(t, payroll.OriginSingle, p.Origin)

	deductions := p.ItemsOf(payroll.ItemDeduction)
	require.Len(t, deductions, 2)
	assert.Equal(t, "PAYE", deductions[0].Name)
	assert.True(t, deductions[0].Statutory)
	assert.Equal(t, "NASSIT", deductions[1].Name)
	assertIdentity(t, p)
}

func TestCompose_ZeroBracket(t *testing.T) {
	c := newComposer(t)

	p, err := c.Compose(baseInput(t, monthlyEmployee(i64(40_000))))

	require.NoError(t, err)
	assert.Equal(t, int64(0), p.IncomeTax)
	assert.Equal(t, int64(2_000), p.SocialContributionEmployee)
	assert.Equal(t, int64(38_000), p.NetPay)
}

func TestCompose_ZeroBracketEveryFrequency(t *testing.T) {
	c := newComposer(t)

	for freq, base := range map[string]int64{
		payrollsetting.FrequencyMonthly:  40_000,
		payrollsetting.FrequencyBiWeekly: 18_462,
		payrollsetting.FrequencyWeekly:   9_231,
	} {
		t.Run(freq, func(t *testing.T) {
			in := baseInput(t, monthlyEmployee(i64(40_000)))
			in.Frequency = freq

			p, err := c.Compose(in)

			require.NoError(t, err)
			assert.Equal(t, base, p.BaseSalary)
			assert.Equal(t, int64(0), p.IncomeTax)
			assertIdentity(t, p)
		})
	}
}

func TestCompose_MissingBaseSalary(t *testing.T) {
	c := newComposer(t)

	for name, base := range map[string]*int64{"nil": nil, "zero": i64(0), "negative": i64(-5)} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Compose(baseInput(t, monthlyEmployee(base)))
			assert.ErrorIs(t, err, payrollerrors.ErrMissingBaseSalary)
		})
	}
}

func TestCompose_InvalidFrequency(t *testing.T) {
	c := newComposer(t)
	in := baseInput(t, monthlyEmployee(i64(100_000)))
	in.Frequency = "fortnightly-ish"

	_, err := c.Compose(in)

	assert.ErrorIs(t, err, payrollerrors.ErrInvalidFrequency)
}

func TestCompose_MissingAttendanceIsFullAttendance(t *testing.T) {
	c := newComposer(t)
	in := baseInput(t, monthlyEmployee(i64(880_000)))
	in.Attendance = nil

	p, err := c.Compose(in)

	require.NoError(t, err)
	assert.Equal(t, 22, p.ExpectedDays)
	assert.Equal(t, 22, p.DaysWorked)
	assert.Equal(t, int64(880_000), p.BaseSalary)
	assert.Equal(t, int64(0), p.OvertimePay)
}

func TestCompose_AttendanceProrationAndOvertime(t *testing.T) {
	c := newComposer(t)
	in := baseInput(t, monthlyEmployee(i64(880_000)))
	in.ApplyIncomeTax, in.ApplySocialContribution = false, false
	in.Attendance = &attendance.Summary{
		DaysWorked:    11,
		ExpectedDays:  22,
		RegularHours:  decimal.NewFromInt(88),
		OvertimeHours: decimal.NewFromInt(10),
		FromRecords:   true,
	}

	p, err := c.Compose(in)

	require.NoError(t, err)
	// 880,000 / 176h = 5,000/h
	assert.Equal(t, "5000.0000", p.HourlyRate.StringFixed(4))
	assert.Equal(t, int64(440_000), p.BaseSalary)
	assert.Equal(t, int64(75_000), p.OvertimePay)
	assert.Equal(t, int64(515_000), p.GrossPay)
	assertIdentity(t, p)
}

func TestCompose_OvertimeMultiplierPrecedence(t *testing.T) {
	c := newComposer(t)
	emp := monthlyEmployee(i64(880_000))
	emp.Role = "driver"

	build := func() payroll.ComposeInput {
		in := baseInput(t, emp)
		in.ApplyIncomeTax, in.ApplySocialContribution = false, false
		in.Attendance = &attendance.Summary{
			DaysWorked:    22,
			ExpectedDays:  22,
			RegularHours:  decimal.NewFromInt(176),
			OvertimeHours: decimal.NewFromInt(10),
			FromRecords:   true,
		}
		return in
	}

	// 5,000/h * 10h * multiplier
	in := build()
	p, err := c.Compose(in)
	require.NoError(t, err)
	assert.Equal(t, int64(75_000), p.OvertimePay)

	in = build()
	in.Settings.OvertimeMultipliers = map[string]decimal.Decimal{"driver": decimal.NewFromInt(2)}
	p, err = c.Compose(in)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), p.OvertimePay)

	three := decimal.NewFromInt(3)
	in = build()
	in.Settings.OvertimeMultipliers = map[string]decimal.Decimal{"driver": decimal.NewFromInt(2)}
	in.Package = &remuneration.Package{
		ID:                 uuid.New(),
		Name:               "Drivers",
		BaseSalary:         880_000,
		SalaryType:         remuneration.SalaryTypeMonthly,
		OvertimeMultiplier: &three,
		IsActive:           true,
	}
	in.UsePackage = true
	p, err = c.Compose(in)
	require.NoError(t, err)
	assert.Equal(t, int64(150_000), p.OvertimePay)
	assertIdentity(t, p)
}

func TestCompose_DailyAndHourlySalary(t *testing.T) {
	c := newComposer(t)
	summary := &attendance.Summary{
		DaysWorked:    20,
		ExpectedDays:  22,
		RegularHours:  decimal.NewFromInt(150),
		OvertimeHours: decimal.NewFromInt(4),
		FromRecords:   true,
	}

	daily := monthlyEmployee(i64(20_000))
	daily.SalaryType = remuneration.SalaryTypeDaily
	in := baseInput(t, daily)
	in.Attendance = summary
	in.ApplyIncomeTax, in.ApplySocialContribution = false, false

	p, err := c.Compose(in)
	require.NoError(t, err)
	assert.Equal(t, int64(400_000), p.BaseSalary)
	// 20,000 / 8h = 2,500/h * 4h * 1.5
	assert.Equal(t, int64(15_000), p.OvertimePay)

	hourly := monthlyEmployee(i64(3_000))
	hourly.SalaryType = remuneration.SalaryTypeHourly
	in = baseInput(t, hourly)
	in.Attendance = summary
	in.ApplyIncomeTax, in.ApplySocialContribution = false, false

	p, err = c.Compose(in)
	require.NoError(t, err)
	assert.Equal(t, int64(450_000), p.BaseSalary)
	assert.Equal(t, int64(18_000), p.OvertimePay)
}

func TestCompose_PackageAndCommission(t *testing.T) {
	c := newComposer(t)

	emp := monthlyEmployee(nil)
	emp.Role = "sales_rep"

	pkg := &remuneration.Package{
		ID:         uuid.New(),
		Name:       "Field sales",
		BaseSalary: 600_000,
		SalaryType: remuneration.SalaryTypeMonthly,
		IsActive:   true,
		Allowances: []remuneration.PackageAllowance{
			{Name: "Transport", Amount: decimal.NewFromInt(50_000), Type: remuneration.AllowanceFixed},
			{Name: "Housing", Amount: decimal.NewFromInt(10), Type: remuneration.AllowancePercentage},
		},
		Bonuses: []remuneration.PackageBonus{
			{Name: "Annual", Amount: 120_000, Frequency: remuneration.BonusAnnual},
			{Name: "Quarterly", Amount: 30_000, Frequency: remuneration.BonusQuarterly},
		},
	}

	roleTransport := paycomponent.PayComponent{
		ID:              uuid.New(),
		Name:            "Transport",
		Type:            paycomponent.TypeEarning,
		Category:        paycomponent.CategoryRoleDefault,
		CalculationType: paycomponent.CalcFixed,
		Amount:          decimal.NewFromInt(40_000),
		Frequency:       paycomponent.FrequencyEveryPayroll,
		IsActive:        true,
		IsTaxable:       true,
		Scopes:          []paycomponent.PayComponentScope{{ScopeType: paycomponent.ScopeRole, Value: "sales_rep"}},
	}
	meal := paycomponent.PayComponent{
		ID:              uuid.New(),
		Name:            "Meal",
		Type:            paycomponent.TypeEarning,
		Category:        paycomponent.CategoryAllowance,
		CalculationType: paycomponent.CalcFixed,
		Amount:          decimal.NewFromInt(20_000),
		Frequency:       paycomponent.FrequencyEveryPayroll,
		IsActive:        true,
		IsTaxable:       false,
	}

	in := baseInput(t, emp)
	in.Package = pkg
	in.UsePackage = true
	in.SalesTotal = 200_000
	in.Settings.CommissionRates["sales_rep"] = decimal.RequireFromString("0.05")
	in.Catalog = []paycomponent.PayComponent{roleTransport, meal}
	in.Rates = nil

	p, err := c.Compose(in)

	require.NoError(t, err)
	assert.Equal(t, int64(600_000), p.ContractSalary)
	assert.Equal(t, int64(600_000), p.BaseSalary)
	assert.Equal(t, int64(10_000), p.Commission)
	// package Transport 50,000 + Housing 60,000 + Meal 20,000; role Transport is covered
	assert.Equal(t, int64(130_000), p.TotalAllowances)
	assert.Equal(t, int64(20_000), p.TotalBonuses)
	assert.Equal(t, int64(760_000), p.GrossPay)
	assert.Equal(t, int64(740_000), p.TaxableIncome)
	assertIdentity(t, p)

	without := in
	without.UsePackage = false
	_, err = c.Compose(without)
	assert.ErrorIs(t, err, payrollerrors.ErrMissingBaseSalary)
}

func TestCompose_StagedDeductions(t *testing.T) {
	c := newComposer(t)

	pension := paycomponent.PayComponent{
		ID:              uuid.New(),
		Name:            "Pension",
		Type:            paycomponent.TypeDeduction,
		Category:        paycomponent.CategoryDeduction,
		CalculationType: paycomponent.CalcPercentage,
		Amount:          decimal.NewFromInt(10),
		PercentageOf:    paycomponent.OfGrossPay,
		Frequency:       paycomponent.FrequencyEveryPayroll,
		IsActive:        true,
	}
	union := pension
	union.ID = uuid.New()
	union.Name = "Union dues"
	union.Amount = decimal.NewFromInt(1)
	union.PercentageOf = paycomponent.OfNetPay

	in := baseInput(t, monthlyEmployee(i64(1_000_000)))
	// listed net-first to show order in the catalog does not matter
	in.Catalog = []paycomponent.PayComponent{union, pension}

	p, err := c.Compose(in)

	require.NoError(t, err)
	// 1,000,000 - 275,000 - 50,000 - 100,000 = 575,000; 1% = 5,750
	assert.Equal(t, int64(430_750), p.TotalDeductions)
	assert.Equal(t, int64(569_250), p.NetPay)

	names := []string{}
	for _, it := range p.ItemsOf(payroll.ItemDeduction) {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"PAYE", "NASSIT", "Pension", "Union dues"}, names)
	assertIdentity(t, p)
}

func TestCompose_CapClampsToMax(t *testing.T) {
	c := newComposer(t)
	bonus := paycomponent.PayComponent{
		ID:              uuid.New(),
		Name:            "Performance",
		Type:            paycomponent.TypeEarning,
		Category:        paycomponent.CategoryBonus,
		CalculationType: paycomponent.CalcPercentage,
		Amount:          decimal.NewFromInt(50),
		PercentageOf:    paycomponent.OfBaseSalary,
		MaxAmount:       i64(100_000),
		Frequency:       paycomponent.FrequencyEveryPayroll,
		IsActive:        true,
		IsTaxable:       true,
	}
	in := baseInput(t, monthlyEmployee(i64(1_000_000)))
	in.Catalog = []paycomponent.PayComponent{bonus}

	p, err := c.Compose(in)

	require.NoError(t, err)
	assert.Equal(t, int64(100_000), p.TotalBonuses)
	assert.Equal(t, int64(1_100_000), p.GrossPay)
}

func TestCompose_Deterministic(t *testing.T) {
	c := newComposer(t)
	in := baseInput(t, monthlyEmployee(i64(1_234_567)))
	in.Attendance = &attendance.Summary{
		DaysWorked:    19,
		ExpectedDays:  22,
		RegularHours:  decimal.NewFromInt(152),
		OvertimeHours: decimal.RequireFromString("7.5"),
		FromRecords:   true,
	}
	in.SalesTotal = 321_000
	in.Settings.CommissionRates["accountant"] = decimal.RequireFromString("0.015")

	first, err := c.Compose(in)
	require.NoError(t, err)
	second, err := c.Compose(in)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompose_AccountingIdentityRandomized(t *testing.T) {
	c := newComposer(t)
	rng := rand.New(rand.NewSource(20260316))

	for i := 0; i < 200; i++ {
		emp := monthlyEmployee(i64(100_000 + rng.Int63n(5_000_000)))
		in := baseInput(t, emp)
		in.ApplyIncomeTax = rng.Intn(2) == 0
		in.ApplySocialContribution = rng.Intn(2) == 0
		in.SalesTotal = rng.Int63n(1_000_000)
		in.Settings.CommissionRates[emp.Role] = decimal.New(rng.Int63n(100), -3)

		expected := 15 + rng.Intn(8)
		in.Attendance = &attendance.Summary{
			DaysWorked:    rng.Intn(expected + 1),
			ExpectedDays:  expected,
			RegularHours:  decimal.NewFromInt(int64(rng.Intn(180))),
			OvertimeHours: decimal.New(rng.Int63n(4000), -2),
			FromRecords:   true,
		}

		n := rng.Intn(6)
		for j := 0; j < n; j++ {
			in.Catalog = append(in.Catalog, randomComponent(rng))
		}

		p, err := c.Compose(in)
		require.NoError(t, err)
		assertIdentity(t, p)
		assert.Equal(t, p.GrossPay+p.SocialContributionEmployer, p.EmployerCost)
	}
}

func randomComponent(rng *rand.Rand) paycomponent.PayComponent {
	c := paycomponent.PayComponent{
		ID:        uuid.New(),
		Name:      uuid.NewString()[:8],
		Type:      paycomponent.TypeEarning,
		Category:  paycomponent.CategoryAllowance,
		Frequency: paycomponent.FrequencyEveryPayroll,
		IsActive:  true,
		IsTaxable: rng.Intn(2) == 0,
	}
	if rng.Intn(3) == 0 {
		c.Type = paycomponent.TypeDeduction
		c.Category = paycomponent.CategoryDeduction
	} else if rng.Intn(2) == 0 {
		c.Category = paycomponent.CategoryBonus
	}

	switch rng.Intn(3) {
	case 0:
		c.CalculationType = paycomponent.CalcFixed
		c.Amount = decimal.NewFromInt(rng.Int63n(200_000))
	case 1:
		c.CalculationType = paycomponent.CalcPercentage
		c.Amount = decimal.New(rng.Int63n(2_000), -2)
		c.PercentageOf = []string{paycomponent.OfBaseSalary, paycomponent.OfGrossPay}[rng.Intn(2)]
		if c.Type == paycomponent.TypeDeduction && rng.Intn(2) == 0 {
			c.PercentageOf = paycomponent.OfNetPay
		}
	default:
		c.CalculationType = paycomponent.CalcHoursBased
		c.Amount = decimal.RequireFromString("1.5")
	}

	if rng.Intn(4) == 0 {
		c.MaxAmount = i64(50_000)
	}
	return c
}
