package paycomponent

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeEarning   = "earning"
	TypeDeduction = "deduction"
)

const (
	CategoryAllowance   = "allowance"
	CategoryBonus       = "bonus"
	CategoryDeduction   = "deduction"
	CategoryRoleDefault = "role_default"
)

const (
	CalcFixed      = "fixed"
	CalcPercentage = "percentage"
	CalcHoursBased = "hours_based"
	CalcFormula    = "formula"
)

const (
	OfBaseSalary = "base_salary"
	OfGrossPay   = "gross_pay"
	OfNetPay     = "net_pay"
	OfCustom     = "custom"
)

const (
	FrequencyEveryPayroll = "every_payroll"
	FrequencyMonthly      = "monthly"
	FrequencyQuarterly    = "quarterly"
	FrequencyAnnually     = "annually"
	FrequencyOneTime      = "one_time"
)

const (
	ScopeRole     = "role"
	ScopeEmployee = "employee"
)

type PayComponent struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganisationID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"type:varchar(120);not null"`
	Type            string          `gorm:"type:varchar(20);not null"`
	Category        string          `gorm:"type:varchar(30);not null;default:'allowance'"`
	CalculationType string          `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	PercentageOf    string          `gorm:"type:varchar(20)"`
	CustomBase      *int64          `gorm:"type:bigint"`
	// Hours is used by hours_based components; nil means the period's overtime hours.
	Hours   *decimal.Decimal `gorm:"type:numeric(9,2)"`
	Formula string           `gorm:"type:text"`

	MinAmount *int64 `gorm:"type:bigint"`
	MaxAmount *int64 `gorm:"type:bigint"`

	IsTaxable                 bool       `gorm:"not null;default:true"`
	AffectsSocialContribution bool       `gorm:"not null;default:true"`
	Frequency                 string     `gorm:"type:varchar(20);not null;default:'every_payroll'"`
	PayableOn                 *time.Time `gorm:"type:date"`
	IsActive                  bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Scopes []PayComponentScope `gorm:"foreignKey:PayComponentID"`
}

// PayComponentScope limits a component to one role or one employee. A
// component without scope rows applies to every employee.
type PayComponentScope struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayComponentID uuid.UUID `gorm:"type:uuid;not null;index"`
	ScopeType      string    `gorm:"type:varchar(20);not null"`
	Value          string    `gorm:"type:varchar(120);not null"`
}
