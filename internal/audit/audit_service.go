package audit

import (
	"context"

	auditerrors "go-payroll/internal/audit/errors"

	"github.com/google/uuid"
)

type Service interface {
	ListForPayroll(ctx context.Context, organisationID, payrollID string) ([]PayrollAudit, error)
	ListForRun(ctx context.Context, organisationID, runID string) ([]PayrollAudit, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForPayroll(ctx context.Context, organisationID, payrollID string) ([]PayrollAudit, error) {
	if _, err := uuid.Parse(payrollID); err != nil {
		return nil, auditerrors.ErrInvalidSubjectID
	}
	return s.repo.ListByPayroll(ctx, organisationID, payrollID)
}

func (s *service) ListForRun(ctx context.Context, organisationID, runID string) ([]PayrollAudit, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, auditerrors.ErrInvalidSubjectID
	}
	return s.repo.ListByRun(ctx, organisationID, runID)
}
