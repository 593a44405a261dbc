package tenant

import "gorm.io/gorm"

// Scope restricts a query to a single organisation.
func Scope(organisationID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organisation_id = ?", organisationID)
	}
}
