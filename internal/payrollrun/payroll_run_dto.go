package payrollrun

type CreateRunRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	PeriodStart string   `json:"period_start" binding:"required"`
	PeriodEnd   string   `json:"period_end" binding:"required"`
	Frequency   string   `json:"frequency" binding:"omitempty,oneof=monthly bi_weekly weekly"`

	UsePackage              *bool `json:"use_package"`
	IncludeAttendance       *bool `json:"include_attendance"`
	ApplyIncomeTax          *bool `json:"apply_income_tax"`
	ApplySocialContribution *bool `json:"apply_social_contribution"`
	AutoApprove             bool  `json:"auto_approve"`
	AdoptOrphans            bool  `json:"adopt_orphans"`
	Notify                  bool  `json:"notify"`

	// Queue hands the run to the consumer instead of running it inline.
	Queue bool `json:"queue"`
}

type GetRunsFilterRequest struct {
	Status string `form:"status"`
	Period string `form:"period"`
}

type OrphansFilterRequest struct {
	PeriodStart string `form:"period_start" binding:"required"`
	PeriodEnd   string `form:"period_end" binding:"required"`
}

type TransitionRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

type RunResponse struct {
	ID          string `json:"id"`
	RunNumber   string `json:"run_number"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Frequency   string `json:"frequency"`
	AutoApprove bool   `json:"auto_approve"`

	EmployeeCount     int      `json:"employee_count"`
	ErrorCount        int      `json:"error_count"`
	PayrollIDs        []string `json:"payroll_ids"`
	TotalGross        int64    `json:"total_gross"`
	TotalNet          int64    `json:"total_net"`
	TotalDeductions   int64    `json:"total_deductions"`
	TotalEmployerCost int64    `json:"total_employer_cost"`

	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by,omitempty"`
	SubmittedBy     string  `json:"submitted_by,omitempty"`
	SubmittedAt     *string `json:"submitted_at,omitempty"`
	ReviewedBy      string  `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	ReviewNotes     string  `json:"review_notes,omitempty"`
	ApprovedBy      string  `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	ApprovalNotes   string  `json:"approval_notes,omitempty"`
	RejectedBy      string  `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	PaidBy          string  `json:"paid_by,omitempty"`
	PaidAt          *string `json:"paid_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// RunResultResponse is either the summary of an inline run or a queue receipt.
type RunResultResponse struct {
	Queued  bool     `json:"queued"`
	EventID string   `json:"event_id,omitempty"`
	Summary *Summary `json:"summary,omitempty"`
}
