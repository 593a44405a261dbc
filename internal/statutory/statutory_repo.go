package statutory

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	ListActive(ctx context.Context, organisationID string) ([]StatutoryRate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context, organisationID string) ([]StatutoryRate, error) {
	var rates []StatutoryRate

	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, min ASC")
		}).
		Where("is_active = ?", true).
		Order("kind ASC, name ASC").
		Find(&rates).Error

	return rates, err
}
