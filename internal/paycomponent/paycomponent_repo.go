package paycomponent

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	ListActive(ctx context.Context, organisationID string) ([]PayComponent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context, organisationID string) ([]PayComponent, error) {
	var components []PayComponent

	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Preload("Scopes").
		Where("is_active = ?", true).
		Order("name ASC, id ASC").
		Find(&components).Error

	return components, err
}
