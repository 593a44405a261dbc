package payroll

type ComposePayrollRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	Frequency   string `json:"frequency" binding:"omitempty,oneof=monthly bi_weekly weekly"`

	// Nil switches default to true.
	UsePackage              *bool `json:"use_package"`
	IncludeAttendance       *bool `json:"include_attendance"`
	ApplyIncomeTax          *bool `json:"apply_income_tax"`
	ApplySocialContribution *bool `json:"apply_social_contribution"`

	SaveAsDraft bool `json:"save_as_draft"`
}

type GetPayrollsFilterRequest struct {
	Status      string `form:"status"`
	PeriodStart string `form:"period_start"`
	PeriodEnd   string `form:"period_end"`
	EmployeeID  string `form:"employee_id" binding:"omitempty,uuid"`
}

type TransitionRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

type PayrollItemResponse struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	Statutory bool   `json:"statutory"`
	Taxable   bool   `json:"taxable"`
	Source    string `json:"source"`
}

type PayrollResponse struct {
	ID             string  `json:"id"`
	OrganisationID string  `json:"organisation_id"`
	EmployeeID     string  `json:"employee_id"`
	PayrollRunID   *string `json:"payroll_run_id,omitempty"`
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
	Frequency      string  `json:"frequency"`
	SalaryType     string  `json:"salary_type"`
	Origin         string  `json:"origin"`

	ContractSalary     int64  `json:"contract_salary"`
	BaseSalary         int64  `json:"base_salary"`
	HourlyRate         string `json:"hourly_rate"`
	DaysWorked         int    `json:"days_worked"`
	ExpectedDays       int    `json:"expected_days"`
	HoursWorked        string `json:"hours_worked"`
	OvertimeHours      string `json:"overtime_hours"`
	OvertimeMultiplier string `json:"overtime_multiplier"`
	OvertimePay        int64  `json:"overtime_pay"`
	SalesTotal         int64  `json:"sales_total"`
	Commission         int64  `json:"commission"`

	TotalAllowances            int64 `json:"total_allowances"`
	TotalBonuses               int64 `json:"total_bonuses"`
	TotalDeductions            int64 `json:"total_deductions"`
	IncomeTax                  int64 `json:"income_tax"`
	SocialContributionEmployee int64 `json:"social_contribution_employee"`
	SocialContributionEmployer int64 `json:"social_contribution_employer"`
	GrossPay                   int64 `json:"gross_pay"`
	TaxableIncome              int64 `json:"taxable_income"`
	NetPay                     int64 `json:"net_pay"`
	EmployerCost               int64 `json:"employer_cost"`

	Status          string  `json:"status"`
	CreatedBy       *string `json:"created_by,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	PaidAt          *string `json:"paid_at,omitempty"`

	Items []PayrollItemResponse `json:"items,omitempty"`
}

type PayrollBreakdownResponse struct {
	PayrollID       string                `json:"payroll_id"`
	Allowances      []PayrollItemResponse `json:"allowances"`
	Bonuses         []PayrollItemResponse `json:"bonuses"`
	Deductions      []PayrollItemResponse `json:"deductions"`
	TotalAllowances int64                 `json:"total_allowances"`
	TotalBonuses    int64                 `json:"total_bonuses"`
	TotalDeductions int64                 `json:"total_deductions"`
	GrossPay        int64                 `json:"gross_pay"`
	NetPay          int64                 `json:"net_pay"`
}
