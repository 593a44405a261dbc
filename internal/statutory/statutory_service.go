package statutory

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	// RatesFor returns the organisation's active statutory rates with any
	// kind that is not configured filled from the jurisdiction defaults.
	RatesFor(ctx context.Context, organisationID string) ([]StatutoryRate, error)
}

type service struct {
	repo   Repository
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("statutory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("statutory.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) RatesFor(ctx context.Context, organisationID string) ([]StatutoryRate, error) {
	v, err, shared := s.sf.Do("rates:"+organisationID, func() (any, error) {
		return s.load(ctx, organisationID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("statutory rates load coalesced", zap.String("organisation_id", organisationID))
	}

	// callers share the slice; hand each one its own copy
	rates := v.([]StatutoryRate)
	out := make([]StatutoryRate, len(rates))
	copy(out, rates)
	return out, nil
}

func (s *service) load(ctx context.Context, organisationID string) ([]StatutoryRate, error) {
	configured, err := s.repo.ListActive(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("list statutory rates: %w", err)
	}

	hasKind := map[string]bool{}
	for _, r := range configured {
		if r.CalculationMethod == MethodProgressive {
			if err := ValidateTiers(r.Tiers); err != nil {
				s.logger.Warn("invalid statutory tiers",
					zap.String("organisation_id", organisationID),
					zap.String("rate", r.Name),
					zap.Error(err),
				)
				return nil, err
			}
		}
		hasKind[r.Kind] = true
	}

	rates := configured
	for _, d := range Defaults() {
		if !hasKind[d.Kind] {
			s.logger.Debug("using default statutory rate",
				zap.String("organisation_id", organisationID),
				zap.String("kind", d.Kind),
			)
			rates = append(rates, d)
		}
	}

	return rates, nil
}
