package audit

import (
	"context"
	"database/sql"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

// Repository has no update or delete: audit rows are never mutated.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, row *PayrollAudit) error
	ListByPayroll(ctx context.Context, organisationID, payrollID string) ([]PayrollAudit, error)
	ListByRun(ctx context.Context, organisationID, runID string) ([]PayrollAudit, error)
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

func (r *repository) Create(ctx context.Context, row *PayrollAudit) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) ListByPayroll(ctx context.Context, organisationID, payrollID string) ([]PayrollAudit, error) {
	var rows []PayrollAudit
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("payroll_id = ?", payrollID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByRun(ctx context.Context, organisationID, runID string) ([]PayrollAudit, error) {
	var rows []PayrollAudit
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("payroll_run_id = ?", runID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
