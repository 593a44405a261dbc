package audit

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionApproved     = "approved"
	ActionRejected     = "rejected"
	ActionPaid         = "paid"
	ActionCancelled    = "cancelled"
	ActionRecalculated = "recalculated"
)

// PayrollAudit is append-only. Rows reference either a payroll or a run.
type PayrollAudit struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganisationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organisation_id"`
	PayrollID      *uuid.UUID `gorm:"type:uuid;index" json:"payroll_id,omitempty"`
	PayrollRunID   *uuid.UUID `gorm:"type:uuid;index" json:"payroll_run_id,omitempty"`
	Action         string     `gorm:"type:varchar(20);not null" json:"action"`
	FromStatus     string     `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus       string     `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	ChangedBy      *uuid.UUID `gorm:"type:uuid" json:"changed_by,omitempty"`
	ChangedByName  string     `gorm:"type:varchar(150)" json:"changed_by_name,omitempty"`
	NewValues      string     `gorm:"type:jsonb;not null;default:'{}'" json:"new_values"`
	Reason         *string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}

func (PayrollAudit) TableName() string {
	return "payroll_audits"
}
