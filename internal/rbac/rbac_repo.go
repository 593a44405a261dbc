package rbac

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	GetUserRoles(ctx context.Context, organisationID string) ([]UserRoleRow, error)
	GetRolePermissions(ctx context.Context, organisationID string) ([]RolePermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type UserRoleRow struct {
	UserID string
	RoleID string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetUserRoles(ctx context.Context, organisationID string) ([]UserRoleRow, error) {
	var result []UserRoleRow

	err := r.db.WithContext(ctx).
		Table("user_roles").
		Select("user_roles.user_id, user_roles.role_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.organisation_id = ?", organisationID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(ctx context.Context, organisationID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.WithContext(ctx).
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.organisation_id = ?", organisationID).
		Scan(&result).Error

	return result, err
}
