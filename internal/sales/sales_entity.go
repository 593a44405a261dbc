package sales

import (
	"time"

	"github.com/google/uuid"
)

const StatusCompleted = "completed"

// Sale is a closed sale credited to an employee for commission.
type Sale struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganisationID uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleDate       time.Time `gorm:"type:date;not null;index"`
	Amount         int64     `gorm:"type:bigint;not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'completed'"`
	CreatedAt      time.Time
}
