package statutory_test

import (
	"context"
	"errors"
	"testing"

	"go-payroll/internal/statutory"
	statutoryerrors "go-payroll/internal/statutory/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	listActiveFn func(ctx context.Context, organisationID string) ([]statutory.StatutoryRate, error)
}

func (f *fakeRepo) ListActive(ctx context.Context, organisationID string) ([]statutory.StatutoryRate, error) {
	return f.listActiveFn(ctx, organisationID)
}

func TestService_RatesFor_FallsBackToDefaults(t *testing.T) {
	svc := statutory.NewService(&fakeRepo{
		listActiveFn: func(context.Context, string) ([]statutory.StatutoryRate, error) { return nil, nil },
	}, zap.NewNop())

	rates, err := svc.RatesFor(context.Background(), "org-1")

	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, statutory.KindIncomeTax, rates[0].Kind)
	assert.Equal(t, statutory.KindSocialContribution, rates[1].Kind)
}

func TestService_RatesFor_ConfiguredKindReplacesDefault(t *testing.T) {
	custom := statutory.StatutoryRate{
		Name: "Pension", Kind: statutory.KindSocialContribution, CalculationMethod: statutory.MethodPercentage,
		Rate: decimal.RequireFromString("0.08"), IsActive: true,
	}
	svc := statutory.NewService(&fakeRepo{
		listActiveFn: func(context.Context, string) ([]statutory.StatutoryRate, error) {
			return []statutory.StatutoryRate{custom}, nil
		},
	}, zap.NewNop())

	rates, err := svc.RatesFor(context.Background(), "org-1")

	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "Pension", rates[0].Name)
	assert.Equal(t, "PAYE", rates[1].Name)
}

func TestService_RatesFor_InvalidTiersIsConfigurationError(t *testing.T) {
	broken := statutory.DefaultIncomeTax()
	broken.Tiers = broken.Tiers[:2]

	svc := statutory.NewService(&fakeRepo{
		listActiveFn: func(context.Context, string) ([]statutory.StatutoryRate, error) {
			return []statutory.StatutoryRate{broken}, nil
		},
	}, zap.NewNop())

	_, err := svc.RatesFor(context.Background(), "org-1")

	assert.ErrorIs(t, err, statutoryerrors.ErrInvalidTiers)
}

func TestService_RatesFor_RepoError(t *testing.T) {
	svc := statutory.NewService(&fakeRepo{
		listActiveFn: func(context.Context, string) ([]statutory.StatutoryRate, error) {
			return nil, errors.New("db down")
		},
	}, zap.NewNop())

	_, err := svc.RatesFor(context.Background(), "org-1")

	assert.ErrorContains(t, err, "db down")
}
