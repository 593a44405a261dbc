package audit_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-payroll/internal/audit"
	auditerrors "go-payroll/internal/audit/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuditRepository struct {
	createFn        func(ctx context.Context, row *audit.PayrollAudit) error
	listByPayrollFn func(ctx context.Context, organisationID, payrollID string) ([]audit.PayrollAudit, error)
	listByRunFn     func(ctx context.Context, organisationID, runID string) ([]audit.PayrollAudit, error)
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Create(ctx context.Context, row *audit.PayrollAudit) error {
	if f.createFn != nil {
		return f.createFn(ctx, row)
	}
	return nil
}

func (f *fakeAuditRepository) ListByPayroll(ctx context.Context, organisationID, payrollID string) ([]audit.PayrollAudit, error) {
	if f.listByPayrollFn != nil {
		return f.listByPayrollFn(ctx, organisationID, payrollID)
	}
	return nil, nil
}

func (f *fakeAuditRepository) ListByRun(ctx context.Context, organisationID, runID string) ([]audit.PayrollAudit, error) {
	if f.listByRunFn != nil {
		return f.listByRunFn(ctx, organisationID, runID)
	}
	return nil, nil
}

func TestBuild(t *testing.T) {
	orgID := uuid.New()
	runID := uuid.New()
	actorID := uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("stamps actor, snapshot and reason", func(t *testing.T) {
		row, err := audit.Build(audit.Entry{
			OrganisationID: orgID,
			PayrollRunID:   &runID,
			Action:         audit.ActionRejected,
			FromStatus:     "pending_approval",
			ToStatus:       "cancelled",
			ActorID:        actorID.String(),
			ActorName:      "Aminata",
			NewValues:      map[string]any{"status": "cancelled"},
			Reason:         "wrong period",
		}, now)

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, row.ID)
		assert.Equal(t, &actorID, row.ChangedBy)
		assert.Equal(t, "wrong period", *row.Reason)
		assert.Equal(t, now, row.CreatedAt)

		var snapshot map[string]string
		assert.NoError(t, json.Unmarshal([]byte(row.NewValues), &snapshot))
		assert.Equal(t, "cancelled", snapshot["status"])
	})

	t.Run("system actor is recorded by name", func(t *testing.T) {
		row, err := audit.Build(audit.Entry{
			OrganisationID: orgID,
			PayrollRunID:   &runID,
			Action:         audit.ActionCreated,
			ActorID:        "system",
			ActorName:      "system",
		}, now)

		assert.NoError(t, err)
		assert.Nil(t, row.ChangedBy)
		assert.Nil(t, row.Reason)
		assert.Equal(t, "{}", row.NewValues)
	})

	t.Run("requires a subject", func(t *testing.T) {
		_, err := audit.Build(audit.Entry{OrganisationID: orgID, Action: audit.ActionCreated}, now)
		assert.ErrorIs(t, err, auditerrors.ErrSubjectRequired)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	payrollID := uuid.New().String()

	repo := &fakeAuditRepository{
		listByPayrollFn: func(ctx context.Context, organisationID, id string) ([]audit.PayrollAudit, error) {
			assert.Equal(t, orgID, organisationID)
			assert.Equal(t, payrollID, id)
			return []audit.PayrollAudit{{Action: audit.ActionCreated}, {Action: audit.ActionApproved}}, nil
		},
	}
	svc := audit.NewService(repo)

	rows, err := svc.ListForPayroll(ctx, orgID, payrollID)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = svc.ListForRun(ctx, orgID, "not-a-uuid")
	assert.ErrorIs(t, err, auditerrors.ErrInvalidSubjectID)
}
