package sales

import (
	"context"

	"go-payroll/internal/shared/period"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	// TotalForPeriod sums completed sales of one employee inside p.
	TotalForPeriod(ctx context.Context, organisationID, employeeID string, p period.Period) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TotalForPeriod(ctx context.Context, organisationID, employeeID string, p period.Period) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Sale{}).
		Scopes(tenant.Scope(organisationID)).
		Select("COALESCE(SUM(amount), 0)").
		Where("employee_id = ? AND status = ?", employeeID, StatusCompleted).
		Where("sale_date BETWEEN ? AND ?", p.Start, p.End).
		Scan(&total).Error
	return total, err
}
