package payrollrun

import (
	"context"
	"database/sql"
	"errors"

	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type QueryFilter struct {
	Status string
	Period string
}

//go:generate mockgen -source=payroll_run_repo.go -destination=mock/payroll_run_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, run *PayrollRun) error
	FindAllByOrganisation(ctx context.Context, organisationID string, filter QueryFilter) ([]PayrollRun, error)
	FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*PayrollRun, error)
	// UpdateStatusIfCurrent applies patch only while the run is still in
	// status from. It reports whether a row changed.
	UpdateStatusIfCurrent(ctx context.Context, organisationID, id, from string, patch RunPatch) (bool, error)
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

func (r *repository) Create(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindAllByOrganisation(ctx context.Context, organisationID string, filter QueryFilter) ([]PayrollRun, error) {
	var runs []PayrollRun
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(organisationID))

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Period != "" {
		db = db.Where("to_char(period_start, 'YYYY-MM') = ?", filter.Period)
	}

	err := db.Order("period_start DESC").Order("created_at DESC").Find(&runs).Error
	return runs, err
}

func (r *repository) FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollrunerrors.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) UpdateStatusIfCurrent(ctx context.Context, organisationID, id, from string, patch RunPatch) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Scopes(tenant.Scope(organisationID)).
		Where("id = ? AND status = ?", id, from).
		Updates(patch.Columns())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Delete(ctx context.Context, organisationID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Delete(&PayrollRun{}, "id = ?", id).Error
}
