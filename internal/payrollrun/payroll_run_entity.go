package payrollrun

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PayrollRun aggregates the payrolls of one bulk run. Its status is
// authoritative; member payrolls follow it.
type PayrollRun struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrganisationID uuid.UUID `gorm:"type:uuid;not null;index:idx_run_org_status;uniqueIndex:uq_payroll_run_number" json:"organisation_id"`
	RunNumber      string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_payroll_run_number" json:"run_number"`

	PeriodStart time.Time `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"type:date;not null" json:"period_end"`
	Frequency   string    `gorm:"type:varchar(20);not null" json:"frequency"`

	UsePackage        bool `gorm:"not null" json:"use_package"`
	IncludeAttendance bool `gorm:"not null" json:"include_attendance"`
	AutoApprove       bool `gorm:"not null" json:"auto_approve"`

	EmployeeCount     int   `gorm:"not null" json:"employee_count"`
	ErrorCount        int   `gorm:"not null;default:0" json:"error_count"`
	TotalGross        int64 `gorm:"type:bigint;not null" json:"total_gross"`
	TotalNet          int64 `gorm:"type:bigint;not null" json:"total_net"`
	TotalDeductions   int64 `gorm:"type:bigint;not null" json:"total_deductions"`
	TotalEmployerCost int64 `gorm:"type:bigint;not null" json:"total_employer_cost"`

	Status        string     `gorm:"type:varchar(20);not null;index:idx_run_org_status" json:"status"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedByName string     `gorm:"type:varchar(120)" json:"created_by_name,omitempty"`

	SubmittedBy     *uuid.UUID `gorm:"type:uuid" json:"submitted_by,omitempty"`
	SubmittedByName string     `gorm:"type:varchar(120)" json:"submitted_by_name,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`

	ReviewedBy     *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedByName string     `gorm:"type:varchar(120)" json:"reviewed_by_name,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes    string     `gorm:"type:text" json:"review_notes,omitempty"`

	ApprovedBy     *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedByName string     `gorm:"type:varchar(120)" json:"approved_by_name,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	ApprovalNotes  string     `gorm:"type:text" json:"approval_notes,omitempty"`

	RejectedBy      *uuid.UUID `gorm:"type:uuid" json:"rejected_by,omitempty"`
	RejectedByName  string     `gorm:"type:varchar(120)" json:"rejected_by_name,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	PaidBy     *uuid.UUID `gorm:"type:uuid" json:"paid_by,omitempty"`
	PaidByName string     `gorm:"type:varchar(120)" json:"paid_by_name,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PayrollIDs is derived from payrolls.payroll_run_id.
	PayrollIDs []uuid.UUID `gorm:"-" json:"payroll_ids"`
}

// RunNumber formats PR-<YYYYMM>-<seq>.
func RunNumber(periodStart time.Time, seq int64) string {
	return fmt.Sprintf("PR-%s-%04d", periodStart.Format("200601"), seq)
}
