package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Employee is owned by the HR system; payroll only reads it.
type Employee struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganisationID        uuid.UUID `gorm:"type:uuid;index"`
	FullName              string
	Email                 string
	Role                  string     `gorm:"type:varchar(80)"`
	Department            string     `gorm:"type:varchar(120)"`
	BaseSalary            *int64     `gorm:"type:bigint"`
	SalaryType            string     `gorm:"type:varchar(20);default:'monthly'"`
	Status                string     `gorm:"type:varchar(20);default:'active'"`
	RemunerationPackageID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e Employee) PackageID() *string {
	if e.RemunerationPackageID == nil {
		return nil
	}
	id := e.RemunerationPackageID.String()
	return &id
}
