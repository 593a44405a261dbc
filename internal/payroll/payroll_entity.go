package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OriginSingle = "single"
	OriginBulk   = "bulk"
)

const (
	ItemAllowance = "allowance"
	ItemBonus     = "bonus"
	ItemDeduction = "deduction"

	SourceStatutory = "statutory"
)

// Payroll is one employee's pay for one period. Money is whole currency units.
//
// Invariants kept by the composer:
//
//	GrossPay == BaseSalary + OvertimePay + TotalAllowances + TotalBonuses + Commission
//	NetPay   == GrossPay - TotalDeductions
type Payroll struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrganisationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_org_status;uniqueIndex:uq_payroll_employee_period,where:status <> 'cancelled'" json:"organisation_id"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period" json:"employee_id"`
	PayrollRunID   *uuid.UUID `gorm:"type:uuid;index" json:"payroll_run_id,omitempty"`

	PeriodStart time.Time `gorm:"type:date;not null;uniqueIndex:uq_payroll_employee_period" json:"period_start"`
	PeriodEnd   time.Time `gorm:"type:date;not null;uniqueIndex:uq_payroll_employee_period" json:"period_end"`
	Frequency   string    `gorm:"type:varchar(20);not null" json:"frequency"`
	SalaryType  string    `gorm:"type:varchar(20);not null" json:"salary_type"`
	Origin      string    `gorm:"type:varchar(10);not null;default:'single'" json:"origin"`

	UsePackage              bool `gorm:"not null;default:false" json:"use_package"`
	IncludeAttendance       bool `gorm:"not null;default:true" json:"include_attendance"`
	ApplyIncomeTax          bool `gorm:"not null;default:true" json:"apply_income_tax"`
	ApplySocialContribution bool `gorm:"not null;default:true" json:"apply_social_contribution"`

	// ContractSalary is the configured rate; BaseSalary is what this period pays.
	ContractSalary int64           `gorm:"type:bigint;not null" json:"contract_salary"`
	BaseSalary     int64           `gorm:"type:bigint;not null" json:"base_salary"`
	HourlyRate     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"hourly_rate"`

	DaysWorked         int             `gorm:"not null" json:"days_worked"`
	ExpectedDays       int             `gorm:"not null" json:"expected_days"`
	HoursWorked        decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"hours_worked"`
	OvertimeHours      decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"overtime_hours"`
	OvertimeMultiplier decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"overtime_multiplier"`
	OvertimePay        int64           `gorm:"type:bigint;not null" json:"overtime_pay"`

	SalesTotal int64 `gorm:"type:bigint;not null;default:0" json:"sales_total"`
	Commission int64 `gorm:"type:bigint;not null;default:0" json:"commission"`

	TotalAllowances int64 `gorm:"type:bigint;not null" json:"total_allowances"`
	TotalBonuses    int64 `gorm:"type:bigint;not null" json:"total_bonuses"`
	TotalDeductions int64 `gorm:"type:bigint;not null" json:"total_deductions"`

	IncomeTax                  int64 `gorm:"type:bigint;not null" json:"income_tax"`
	SocialContributionEmployee int64 `gorm:"type:bigint;not null" json:"social_contribution_employee"`
	SocialContributionEmployer int64 `gorm:"type:bigint;not null" json:"social_contribution_employer"`

	GrossPay      int64 `gorm:"type:bigint;not null" json:"gross_pay"`
	TaxableIncome int64 `gorm:"type:bigint;not null" json:"taxable_income"`
	NetPay        int64 `gorm:"type:bigint;not null" json:"net_pay"`
	EmployerCost  int64 `gorm:"type:bigint;not null" json:"employer_cost"`

	Status          string     `gorm:"type:varchar(20);not null;index:idx_org_status" json:"status"`
	CreatedBy       *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID `gorm:"type:uuid" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	PaidAt          *time.Time `gorm:"index" json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Items []PayrollItem `gorm:"foreignKey:PayrollID" json:"items"`
}

// PayrollItem is one allowance, bonus or deduction line of a payroll.
type PayrollItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	PayrollID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	OrganisationID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Kind           string    `gorm:"type:varchar(20);not null" json:"kind"`
	Name           string    `gorm:"type:varchar(120);not null" json:"name"`
	Amount         int64     `gorm:"type:bigint;not null" json:"amount"`
	Statutory      bool      `gorm:"not null;default:false" json:"statutory"`
	Taxable        bool      `gorm:"not null;default:true" json:"taxable"`
	Source         string    `gorm:"type:varchar(20);not null" json:"source"`
	SortOrder      int       `gorm:"not null" json:"sort_order"`
}

func (p *Payroll) ItemsOf(kind string) []PayrollItem {
	var out []PayrollItem
	for _, it := range p.Items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// PrepareForCreate assigns ids and stamps before the first insert.
func (p *Payroll) PrepareForCreate(createdBy *uuid.UUID, now time.Time) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedBy = createdBy
	p.CreatedAt = now
	p.UpdatedAt = now
	p.prepareItems()
}

func (p *Payroll) prepareItems() {
	for i := range p.Items {
		p.Items[i].ID = uuid.New()
		p.Items[i].PayrollID = p.ID
		p.Items[i].OrganisationID = p.OrganisationID
	}
}
