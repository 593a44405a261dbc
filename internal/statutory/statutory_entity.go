package statutory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindIncomeTax          = "income_tax"
	KindSocialContribution = "social_contribution"
)

const (
	MethodFlatRate    = "flat_rate"
	MethodPercentage  = "percentage"
	MethodProgressive = "progressive"
)

const (
	BaseGrossPay      = "gross_pay"
	BaseBasicSalary   = "basic_salary"
	BaseTaxableIncome = "taxable_income"
)

// StatutoryRate is one configured statutory deduction for an organisation.
// Rates are fractions (0.15 is 15%).
type StatutoryRate struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganisationID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name               string          `gorm:"type:varchar(120);not null"`
	Kind               string          `gorm:"type:varchar(30);not null"`
	CalculationMethod  string          `gorm:"type:varchar(20);not null"`
	Rate               decimal.Decimal `gorm:"type:numeric(9,6);not null;default:0"`
	EmployerRate       decimal.Decimal `gorm:"type:numeric(9,6);not null;default:0"`
	ExemptionThreshold int64           `gorm:"type:bigint;not null;default:0"`
	AppliesToBase      string          `gorm:"type:varchar(20);not null;default:'gross_pay'"`
	IsMandatory        bool            `gorm:"not null;default:false"`
	IsActive           bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Tiers []StatutoryTier `gorm:"foreignKey:StatutoryRateID"`
}

// StatutoryTier is one progressive bracket. Max is nil on the final, unbounded tier.
type StatutoryTier struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StatutoryRateID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Min             int64           `gorm:"type:bigint;not null"`
	Max             *int64          `gorm:"type:bigint"`
	Rate            decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	SortOrder       int             `gorm:"not null;default:0"`
}
