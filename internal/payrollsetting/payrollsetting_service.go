package payrollsetting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Load(ctx context.Context, organisationID string) (Settings, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollsetting.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollsetting.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Load(ctx context.Context, organisationID string) (Settings, error) {
	setting, err := s.repo.Find(ctx, organisationID)
	if err != nil {
		return Settings{}, fmt.Errorf("load payroll settings: %w", err)
	}

	out := Settings{
		Setting:             Default(),
		CommissionRates:     map[string]decimal.Decimal{},
		OvertimeMultipliers: map[string]decimal.Decimal{},
	}
	if setting != nil {
		out.Setting = *setting
		// zero columns fall back to the defaults rather than dividing by zero later
		def := Default()
		if !out.StandardDailyHours.IsPositive() {
			out.StandardDailyHours = def.StandardDailyHours
		}
		if out.WorkingDaysPerMonth <= 0 {
			out.WorkingDaysPerMonth = def.WorkingDaysPerMonth
		}
		if !out.OvertimeMultiplier.IsPositive() {
			out.OvertimeMultiplier = def.OvertimeMultiplier
		}
		if out.BiWeeklyPeriodsPerYear <= 0 {
			out.BiWeeklyPeriodsPerYear = def.BiWeeklyPeriodsPerYear
		}
		if out.WeeklyPeriodsPerYear <= 0 {
			out.WeeklyPeriodsPerYear = def.WeeklyPeriodsPerYear
		}
	} else {
		s.logger.Debug("no payroll settings, using defaults", zap.String("organisation_id", organisationID))
	}

	rates, err := s.repo.ListCommissionRates(ctx, organisationID)
	if err != nil {
		return Settings{}, fmt.Errorf("load commission rates: %w", err)
	}
	for _, r := range rates {
		out.CommissionRates[r.Role] = r.Rate
	}

	multipliers, err := s.repo.ListOvertimeMultipliers(ctx, organisationID)
	if err != nil {
		return Settings{}, fmt.Errorf("load overtime multipliers: %w", err)
	}
	for _, m := range multipliers {
		out.OvertimeMultipliers[m.Role] = m.Multiplier
	}

	return out, nil
}
