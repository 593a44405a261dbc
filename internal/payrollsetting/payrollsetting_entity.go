package payrollsetting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FrequencyMonthly  = "monthly"
	FrequencyBiWeekly = "bi_weekly"
	FrequencyWeekly   = "weekly"
)

// Setting holds an organisation's pay rules. One row per organisation.
type Setting struct {
	OrganisationID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StandardDailyHours     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:8"`
	WorkingDaysPerMonth    int             `gorm:"not null;default:22"`
	OvertimeMultiplier     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:1.5"`
	DefaultFrequency       string          `gorm:"type:varchar(20);not null;default:'monthly'"`
	BiWeeklyPeriodsPerYear int             `gorm:"not null;default:26"`
	WeeklyPeriodsPerYear   int             `gorm:"not null;default:52"`
	UpdatedAt              time.Time
}

func (Setting) TableName() string {
	return "payroll_settings"
}

// RoleCommissionRate is the share of sales paid as commission to a role.
// Roles without a row earn no commission.
type RoleCommissionRate struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganisationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_role_commission"`
	Role           string          `gorm:"type:varchar(80);not null;uniqueIndex:uq_role_commission"`
	Rate           decimal.Decimal `gorm:"type:numeric(7,4);not null"`
}

// RoleOvertimeMultiplier overrides the organisation overtime multiplier for
// one role.
type RoleOvertimeMultiplier struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganisationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_role_overtime"`
	Role           string          `gorm:"type:varchar(80);not null;uniqueIndex:uq_role_overtime"`
	Multiplier     decimal.Decimal `gorm:"type:numeric(5,2);not null"`
}
