package counter

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

const TypePayrollRun = "payroll_run"

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, organisationID string, counterType string) (int64, error)
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

func (r *repository) GetNextValue(ctx context.Context, organisationID string, counterType string) (int64, error) {
	var nextValue int64

	// Atomic UPSERT so concurrent runs in one organisation never share a number.
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO organisation_counters (organisation_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (organisation_id, counter_type) DO UPDATE
		SET last_value = organisation_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, organisationID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
