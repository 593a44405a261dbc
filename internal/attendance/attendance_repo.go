package attendance

import (
	"context"

	"go-payroll/internal/shared/period"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	ListForPeriod(ctx context.Context, organisationID, employeeID string, p period.Period) ([]Attendance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListForPeriod(ctx context.Context, organisationID, employeeID string, p period.Period) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", p.Start, p.End).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}
