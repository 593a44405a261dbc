package remuneration

import (
	"context"
	"errors"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	// FindForEmployee returns the explicitly assigned package, or else the
	// first active package (by name) that lists role. Nil when none match.
	FindForEmployee(ctx context.Context, organisationID string, packageID *string, role string) (*Package, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) withChildren(ctx context.Context, organisationID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Preload("Roles").
		Preload("Allowances").
		Preload("Bonuses").
		Where("is_active = ?", true)
}

func (r *repository) FindForEmployee(ctx context.Context, organisationID string, packageID *string, role string) (*Package, error) {
	var pkg Package

	if packageID != nil && *packageID != "" {
		err := r.withChildren(ctx, organisationID).First(&pkg, "id = ?", *packageID).Error
		if err == nil {
			return &pkg, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if role == "" {
		return nil, nil
	}

	err := r.withChildren(ctx, organisationID).
		Where("id IN (?)", r.db.Table("remuneration_package_roles").Select("package_id").Where("role = ?", role)).
		Order("name ASC").
		First(&pkg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}
