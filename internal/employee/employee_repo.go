package employee

import (
	"context"
	"errors"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*Employee, error)
	FindByIDs(ctx context.Context, organisationID string, ids []string) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndOrganisation(ctx context.Context, organisationID, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		First(&emp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindByIDs(ctx context.Context, organisationID string, ids []string) ([]Employee, error) {
	var emps []Employee
	if len(ids) == 0 {
		return emps, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organisationID)).
		Where("id IN ?", ids).
		Order("full_name ASC").
		Find(&emps).Error
	return emps, err
}
