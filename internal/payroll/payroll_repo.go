package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueryFilter struct {
	Status      string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	EmployeeID  string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payroll) error
	FindAllByOrganisation(ctx context.Context, organisationID string, filter QueryFilter) ([]Payroll, error)
	FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*Payroll, error)
	FindByRun(ctx context.Context, organisationID, runID string) ([]Payroll, error)
	// FindOverlapping returns the employee's non-cancelled payrolls whose
	// period overlaps [start, end].
	FindOverlapping(ctx context.Context, organisationID, employeeID string, start, end time.Time) ([]Payroll, error)
	// FindOrphans returns bulk-run payrolls of the period that never got
	// attached to a run.
	FindOrphans(ctx context.Context, organisationID string, start, end time.Time) ([]Payroll, error)
	Update(ctx context.Context, p *Payroll) error
	ReplaceItems(ctx context.Context, organisationID string, payrollID uuid.UUID, items []PayrollItem) error
	// UpdateStatusIfCurrent applies patch only while the payroll is still
	// in status from. It reports whether a row changed.
	UpdateStatusIfCurrent(ctx context.Context, organisationID, id, from string, patch StatusPatch) (bool, error)
	// AttachToRun claims payrolls that belong to no run yet. It fails with
	// ErrAlreadyInRun unless every id was claimed.
	AttachToRun(ctx context.Context, organisationID string, runID uuid.UUID, ids []uuid.UUID, status string) error
	UpdateStatusByRun(ctx context.Context, organisationID string, runID uuid.UUID, patch StatusPatch) (int64, error)
	Delete(ctx context.Context, organisationID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	s := r.db.Session(&gorm.Session{NewDB: true, SkipDefaultTransaction: true})
	s.Statement.ConnPool = tx
	return &repository{db: s}
}

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *repository) FindAllByOrganisation(ctx context.Context, organisationID string, filter QueryFilter) ([]Payroll, error) {
	var payrolls []Payroll
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID))

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.PeriodStart != nil {
		db = db.Where("period_end >= ?", *filter.PeriodStart)
	}
	if filter.PeriodEnd != nil {
		db = db.Where("period_start <= ?", *filter.PeriodEnd)
	}

	err := db.Order("period_start DESC").Order("created_at DESC").Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollerrors.ErrPayrollNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByRun(ctx context.Context, organisationID, runID string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("payroll_run_id = ?", runID).
		Order("employee_id ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindOverlapping(ctx context.Context, organisationID, employeeID string, start, end time.Time) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusCancelled).
		Where("NOT (period_end < ? OR period_start > ?)", start, end).
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindOrphans(ctx context.Context, organisationID string, start, end time.Time) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("origin = ?", OriginBulk).
		Where("payroll_run_id IS NULL").
		Where("status <> ?", StatusCancelled).
		Where("NOT (period_end < ? OR period_start > ?)", start, end).
		Order("created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return mapRepositoryError(r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error)
}

func (r *repository) ReplaceItems(ctx context.Context, organisationID string, payrollID uuid.UUID, items []PayrollItem) error {
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("payroll_id = ?", payrollID).
		Delete(&PayrollItem{}).Error
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) UpdateStatusIfCurrent(ctx context.Context, organisationID, id, from string, patch StatusPatch) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(organisationID)).
		Where("id = ? AND status = ?", id, from).
		Updates(patch.Columns())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) AttachToRun(ctx context.Context, organisationID string, runID uuid.UUID, ids []uuid.UUID, status string) error {
	if len(ids) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(organisationID)).
		Where("id IN ?", ids).
		Where("payroll_run_id IS NULL").
		Updates(map[string]any{
			"payroll_run_id": runID,
			"status":         status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return payrollerrors.ErrAlreadyInRun
	}
	return nil
}

// UpdateStatusByRun moves every non-cancelled payroll of a run. Payrolls
// are never moved out of cancelled by a run transition.
func (r *repository) UpdateStatusByRun(ctx context.Context, organisationID string, runID uuid.UUID, patch StatusPatch) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(organisationID)).
		Where("payroll_run_id = ?", runID).
		Where("status <> ?", StatusCancelled).
		Updates(patch.Columns())
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, organisationID, id string) error {
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("payroll_id = ?", id).
		Delete(&PayrollItem{}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Delete(&Payroll{}, "id = ?", id).Error
}
