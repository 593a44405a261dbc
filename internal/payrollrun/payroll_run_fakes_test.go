package payrollrun_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/domain"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/paycomponent"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollrun"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/payrollsetting"
	"go-payroll/internal/remuneration"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shared/period"
	"go-payroll/internal/statutory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePayrollRepository is safe for the orchestrator's parallel workers.
type fakePayrollRepository struct {
	mu      sync.Mutex
	created []*payroll.Payroll

	findOverlappingFn   func(ctx context.Context, organisationID, employeeID string, start, end time.Time) ([]payroll.Payroll, error)
	findOrphansFn       func(ctx context.Context, organisationID string, start, end time.Time) ([]payroll.Payroll, error)
	findByRunFn         func(ctx context.Context, organisationID, runID string) ([]payroll.Payroll, error)
	attachToRunFn       func(ctx context.Context, organisationID string, runID uuid.UUID, ids []uuid.UUID, status string) error
	updateStatusByRunFn func(ctx context.Context, organisationID string, runID uuid.UUID, patch payroll.StatusPatch) (int64, error)
	deleteFn            func(ctx context.Context, organisationID, id string) error
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return nil
}

func (f *fakePayrollRepository) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakePayrollRepository) FindAllByOrganisation(ctx context.Context, organisationID string, filter payroll.QueryFilter) ([]payroll.Payroll, error) {
	return nil, nil
}

func (f *fakePayrollRepository) FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*payroll.Payroll, error) {
	return nil, payrollerrors.ErrPayrollNotFound
}

func (f *fakePayrollRepository) FindByRun(ctx context.Context, organisationID, runID string) ([]payroll.Payroll, error) {
	if f.findByRunFn != nil {
		return f.findByRunFn(ctx, organisationID, runID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindOverlapping(ctx context.Context, organisationID, employeeID string, start, end time.Time) ([]payroll.Payroll, error) {
	if f.findOverlappingFn != nil {
		return f.findOverlappingFn(ctx, organisationID, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindOrphans(ctx context.Context, organisationID string, start, end time.Time) ([]payroll.Payroll, error) {
	if f.findOrphansFn != nil {
		return f.findOrphansFn(ctx, organisationID, start, end)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error { return nil }

func (f *fakePayrollRepository) ReplaceItems(ctx context.Context, organisationID string, payrollID uuid.UUID, items []payroll.PayrollItem) error {
	return nil
}

func (f *fakePayrollRepository) UpdateStatusIfCurrent(ctx context.Context, organisationID, id, from string, patch payroll.StatusPatch) (bool, error) {
	return true, nil
}

func (f *fakePayrollRepository) AttachToRun(ctx context.Context, organisationID string, runID uuid.UUID, ids []uuid.UUID, status string) error {
	if f.attachToRunFn != nil {
		return f.attachToRunFn(ctx, organisationID, runID, ids, status)
	}
	return nil
}

func (f *fakePayrollRepository) UpdateStatusByRun(ctx context.Context, organisationID string, runID uuid.UUID, patch payroll.StatusPatch) (int64, error) {
	if f.updateStatusByRunFn != nil {
		return f.updateStatusByRunFn(ctx, organisationID, runID, patch)
	}
	return 0, nil
}

func (f *fakePayrollRepository) Delete(ctx context.Context, organisationID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, organisationID, id)
	}
	return nil
}

type fakeRunRepository struct {
	createFn                  func(ctx context.Context, run *payrollrun.PayrollRun) error
	findByIDAndOrganisationFn func(ctx context.Context, organisationID, id string) (*payrollrun.PayrollRun, error)
	updateStatusIfCurrentFn   func(ctx context.Context, organisationID, id, from string, patch payrollrun.RunPatch) (bool, error)
	deleteFn                  func(ctx context.Context, organisationID, id string) error
}

func (f *fakeRunRepository) WithTx(tx *sql.Tx) payrollrun.Repository { return f }

func (f *fakeRunRepository) Create(ctx context.Context, run *payrollrun.PayrollRun) error {
	if f.createFn != nil {
		return f.createFn(ctx, run)
	}
	return nil
}

func (f *fakeRunRepository) FindAllByOrganisation(ctx context.Context, organisationID string, filter payrollrun.QueryFilter) ([]payrollrun.PayrollRun, error) {
	return nil, nil
}

func (f *fakeRunRepository) FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*payrollrun.PayrollRun, error) {
	if f.findByIDAndOrganisationFn != nil {
		return f.findByIDAndOrganisationFn(ctx, organisationID, id)
	}
	return nil, payrollrunerrors.ErrRunNotFound
}

func (f *fakeRunRepository) UpdateStatusIfCurrent(ctx context.Context, organisationID, id, from string, patch payrollrun.RunPatch) (bool, error) {
	if f.updateStatusIfCurrentFn != nil {
		return f.updateStatusIfCurrentFn(ctx, organisationID, id, from, patch)
	}
	return true, nil
}

func (f *fakeRunRepository) Delete(ctx context.Context, organisationID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, organisationID, id)
	}
	return nil
}

type fakeAuditRepository struct {
	mu   sync.Mutex
	rows []*audit.PayrollAudit
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Create(ctx context.Context, row *audit.PayrollAudit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeAuditRepository) ListByPayroll(ctx context.Context, organisationID, payrollID string) ([]audit.PayrollAudit, error) {
	return nil, nil
}

func (f *fakeAuditRepository) ListByRun(ctx context.Context, organisationID, runID string) ([]audit.PayrollAudit, error) {
	return nil, nil
}

// runRows returns the audit rows written against a run.
func (f *fakeAuditRepository) runRows() []*audit.PayrollAudit {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*audit.PayrollAudit
	for _, r := range f.rows {
		if r.PayrollRunID != nil {
			out = append(out, r)
		}
	}
	return out
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) WithTx(tx *sql.Tx) counter.Repository { return f }

func (f *fakeCounter) GetNextValue(ctx context.Context, organisationID string, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeEmployeeRepository struct {
	findByIDAndOrganisationFn func(ctx context.Context, organisationID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*employee.Employee, error) {
	if f.findByIDAndOrganisationFn != nil {
		return f.findByIDAndOrganisationFn(ctx, organisationID, id)
	}
	return nil, employeeerrors.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepository) FindByIDs(ctx context.Context, organisationID string, ids []string) ([]employee.Employee, error) {
	return nil, nil
}

type fakeInputLoader struct {
	loadCatalogFn func(ctx context.Context, organisationID string) (payroll.Catalog, error)
	loadSubjectFn func(ctx context.Context, organisationID, employeeID string, p period.Period, opts payroll.LoadOptions) (payroll.Subject, error)
}

func (f *fakeInputLoader) LoadCatalog(ctx context.Context, organisationID string) (payroll.Catalog, error) {
	if f.loadCatalogFn != nil {
		return f.loadCatalogFn(ctx, organisationID)
	}
	return payroll.Catalog{
		Rates:    statutory.Defaults(),
		Settings: payrollsetting.Settings{Setting: payrollsetting.Default(), CommissionRates: map[string]decimal.Decimal{}},
	}, nil
}

func (f *fakeInputLoader) LoadSubject(ctx context.Context, organisationID, employeeID string, p period.Period, opts payroll.LoadOptions) (payroll.Subject, error) {
	return f.loadSubjectFn(ctx, organisationID, employeeID, p, opts)
}

type fakeEnforcer struct {
	enforceFn func(ctx context.Context, req domain.EnforceRequest) (bool, error)
}

func (f *fakeEnforcer) Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error) {
	if f.enforceFn != nil {
		return f.enforceFn(ctx, req)
	}
	return true, nil
}

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

func testEmployee(orgID, employeeID string, base *int64) employee.Employee {
	return employee.Employee{
		ID:             uuid.MustParse(employeeID),
		OrganisationID: uuid.MustParse(orgID),
		FullName:       "Employee " + employeeID[:8],
		Email:          employeeID[:8] + "@example.com",
		Role:           "accountant",
		BaseSalary:     base,
		SalaryType:     remuneration.SalaryTypeMonthly,
		Status:         employee.StatusActive,
	}
}

// subjectsByBase serves every employee at 1,000,000 except the ones listed
// in bases.
func subjectsByBase(orgID string, bases map[string]*int64) func(ctx context.Context, organisationID, employeeID string, p period.Period, opts payroll.LoadOptions) (payroll.Subject, error) {
	return func(ctx context.Context, organisationID, employeeID string, p period.Period, opts payroll.LoadOptions) (payroll.Subject, error) {
		base, ok := bases[employeeID]
		if !ok {
			base = i64(1_000_000)
		}
		return payroll.Subject{Employee: testEmployee(orgID, employeeID, base)}, nil
	}
}

func newIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}
