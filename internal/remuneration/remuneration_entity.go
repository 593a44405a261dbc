package remuneration

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SalaryTypeMonthly = "monthly"
	SalaryTypeHourly  = "hourly"
	SalaryTypeDaily   = "daily"
)

const (
	AllowanceFixed      = "fixed"
	AllowancePercentage = "percentage"
)

const (
	BonusMonthly   = "monthly"
	BonusQuarterly = "quarterly"
	BonusAnnual    = "annual"
	BonusPerTrip   = "per_trip"
)

// Package is a named bundle of base salary, allowances and bonuses. All
// amounts are monthly unless the bonus frequency says otherwise.
type Package struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganisationID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name               string           `gorm:"type:varchar(120);not null"`
	BaseSalary         int64            `gorm:"type:bigint;not null;default:0"`
	SalaryType         string           `gorm:"type:varchar(20);not null;default:'monthly'"`
	OvertimeMultiplier *decimal.Decimal `gorm:"type:numeric(5,2)"`
	AnnualLeaveDays    int              `gorm:"not null;default:0"`
	SickLeaveDays      int              `gorm:"not null;default:0"`
	IsActive           bool             `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Roles      []PackageRole      `gorm:"foreignKey:PackageID"`
	Allowances []PackageAllowance `gorm:"foreignKey:PackageID"`
	Bonuses    []PackageBonus     `gorm:"foreignKey:PackageID"`
}

func (Package) TableName() string {
	return "remuneration_packages"
}

type PackageRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PackageID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"type:varchar(80);not null"`
}

func (PackageRole) TableName() string {
	return "remuneration_package_roles"
}

type PackageAllowance struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PackageID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(120);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Type      string          `gorm:"type:varchar(20);not null;default:'fixed'"`
}

func (PackageAllowance) TableName() string {
	return "remuneration_package_allowances"
}

type PackageBonus struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PackageID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Amount    int64     `gorm:"type:bigint;not null"`
	Frequency string    `gorm:"type:varchar(20);not null;default:'monthly'"`
}

func (PackageBonus) TableName() string {
	return "remuneration_package_bonuses"
}
