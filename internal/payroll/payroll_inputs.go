package payroll

import (
	"context"
	"fmt"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/paycomponent"
	"go-payroll/internal/payrollsetting"
	"go-payroll/internal/remuneration"
	"go-payroll/internal/sales"
	"go-payroll/internal/shared/period"
	"go-payroll/internal/statutory"

	"github.com/shopspring/decimal"
)

// Catalog is the organisation-wide configuration one pay period is
// computed against. It is loaded once per run and shared by every employee.
type Catalog struct {
	Components []paycomponent.PayComponent
	Rates      []statutory.StatutoryRate
	Settings   payrollsetting.Settings
}

// Subject is the per-employee data of one pay period.
type Subject struct {
	Employee   employee.Employee
	Package    *remuneration.Package
	Attendance *attendance.Summary
	SalesTotal int64
}

type LoadOptions struct {
	UsePackage        bool
	IncludeAttendance bool
	DailyHours        decimal.Decimal
}

type InputLoader interface {
	LoadCatalog(ctx context.Context, organisationID string) (Catalog, error)
	LoadSubject(ctx context.Context, organisationID, employeeID string, p period.Period, opts LoadOptions) (Subject, error)
}

type inputLoader struct {
	employees  employee.Repository
	packages   remuneration.Repository
	attendance attendance.Repository
	sales      sales.Repository
	components paycomponent.Repository
	statutory  statutory.Service
	settings   payrollsetting.Service
}

func NewInputLoader(
	employees employee.Repository,
	packages remuneration.Repository,
	attendanceRepo attendance.Repository,
	salesRepo sales.Repository,
	components paycomponent.Repository,
	statutoryService statutory.Service,
	settings payrollsetting.Service,
) InputLoader {
	return &inputLoader{
		employees:  employees,
		packages:   packages,
		attendance: attendanceRepo,
		sales:      salesRepo,
		components: components,
		statutory:  statutoryService,
		settings:   settings,
	}
}

func (l *inputLoader) LoadCatalog(ctx context.Context, organisationID string) (Catalog, error) {
	components, err := l.components.ListActive(ctx, organisationID)
	if err != nil {
		return Catalog{}, fmt.Errorf("load pay components: %w", err)
	}
	rates, err := l.statutory.RatesFor(ctx, organisationID)
	if err != nil {
		return Catalog{}, err
	}
	settings, err := l.settings.Load(ctx, organisationID)
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{Components: components, Rates: rates, Settings: settings}, nil
}

// LoadSubject reads one employee's inputs. Attendance is left nil when it
// is not requested, which the composer treats as full attendance.
func (l *inputLoader) LoadSubject(
	ctx context.Context,
	organisationID, employeeID string,
	p period.Period,
	opts LoadOptions,
) (Subject, error) {
	emp, err := l.employees.FindByIDAndOrganisation(ctx, organisationID, employeeID)
	if err != nil {
		return Subject{}, err
	}
	if !emp.IsActive() {
		return Subject{}, employeeerrors.ErrEmployeeInactive
	}

	out := Subject{Employee: *emp}

	if opts.UsePackage {
		pkg, err := l.packages.FindForEmployee(ctx, organisationID, emp.PackageID(), emp.Role)
		if err != nil {
			return Subject{}, fmt.Errorf("load remuneration package: %w", err)
		}
		out.Package = pkg
	}

	if opts.IncludeAttendance {
		rows, err := l.attendance.ListForPeriod(ctx, organisationID, employeeID, p)
		if err != nil {
			return Subject{}, fmt.Errorf("load attendance: %w", err)
		}
		summary := attendance.Summarize(rows, p, opts.DailyHours)
		out.Attendance = &summary
	}

	total, err := l.sales.TotalForPeriod(ctx, organisationID, employeeID, p)
	if err != nil {
		return Subject{}, fmt.Errorf("load sales: %w", err)
	}
	out.SalesTotal = total

	return out, nil
}

// Input assembles the composer input for one subject.
func (c Catalog) Input(s Subject, p period.Period, frequency string, opts ComposeOptions) ComposeInput {
	return ComposeInput{
		Employee:                s.Employee,
		Package:                 s.Package,
		Period:                  p,
		Frequency:               frequency,
		Attendance:              s.Attendance,
		SalesTotal:              s.SalesTotal,
		Catalog:                 c.Components,
		Rates:                   c.Rates,
		Settings:                c.Settings,
		UsePackage:              opts.UsePackage,
		IncludeAttendance:       opts.IncludeAttendance,
		ApplyIncomeTax:          opts.ApplyIncomeTax,
		ApplySocialContribution: opts.ApplySocialContribution,
		Status:                  opts.Status,
		Origin:                  opts.Origin,
	}
}

// ComposeOptions are the caller-selected switches of one computation.
type ComposeOptions struct {
	UsePackage              bool
	IncludeAttendance       bool
	ApplyIncomeTax          bool
	ApplySocialContribution bool
	Status                  string
	Origin                  string
}

func (o ComposeOptions) LoadOptions(c Catalog) LoadOptions {
	return LoadOptions{
		UsePackage:        o.UsePackage,
		IncludeAttendance: o.IncludeAttendance,
		DailyHours:        c.Settings.StandardDailyHours,
	}
}
