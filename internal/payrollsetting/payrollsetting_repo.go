package payrollsetting

import (
	"context"
	"errors"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, organisationID string) (*Setting, error)
	ListCommissionRates(ctx context.Context, organisationID string) ([]RoleCommissionRate, error)
	ListOvertimeMultipliers(ctx context.Context, organisationID string) ([]RoleOvertimeMultiplier, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Find returns nil without error when the organisation has no settings row.
func (r *repository) Find(ctx context.Context, organisationID string) (*Setting, error) {
	var s Setting
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(organisationID)).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListCommissionRates(ctx context.Context, organisationID string) ([]RoleCommissionRate, error) {
	var rates []RoleCommissionRate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Order("role ASC").
		Find(&rates).Error
	return rates, err
}

func (r *repository) ListOvertimeMultipliers(ctx context.Context, organisationID string) ([]RoleOvertimeMultiplier, error) {
	var multipliers []RoleOvertimeMultiplier
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Order("role ASC").
		Find(&multipliers).Error
	return multipliers, err
}
