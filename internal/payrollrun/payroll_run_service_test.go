package payrollrun_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollrun"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/period"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func TestRunService_CreateQueued(t *testing.T) {
	d := setupOrchestrator(t)
	d.loader.loadSubjectFn = func(ctx context.Context, organisationID, employeeID string, p period.Period, opts payroll.LoadOptions) (payroll.Subject, error) {
		t.Fatal("queued runs are not composed inline")
		return payroll.Subject{}, nil
	}
	outbox := &fakeOutbox{}
	svc := payrollrun.NewService(d.deps, payrollrun.NewOrchestrator(d.deps, 1, zap.NewNop()), outbox, nil, zap.NewNop())

	orgID := uuid.NewString()
	actor := payroll.Actor{ID: uuid.NewString(), Name: "Payroll Officer"}
	ids := newIDs(3)
	ctx := contextutil.WithRequestID(context.Background(), "req-42")
	noPackage := false

	resp, err := svc.Create(ctx, orgID, actor, payrollrun.CreateRunRequest{
		EmployeeIDs: ids,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
		UsePackage:  &noPackage,
		AutoApprove: true,
		Queue:       true,
	})

	require.NoError(t, err)
	assert.True(t, resp.Queued)
	assert.Nil(t, resp.Summary)
	require.Len(t, outbox.events, 1)

	ev := outbox.events[0]
	assert.Equal(t, resp.EventID, ev.ID)
	assert.Equal(t, events.PayrollRunRequestedTopic, ev.Topic)
	assert.Equal(t, kafka.AggregatePayrollRun, ev.AggregateType)
	assert.Equal(t, orgID, ev.AggregateID)
	assert.Equal(t, "req-42", ev.RequestID)

	var payload events.PayrollRunRequestedEvent
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, events.PayrollRunRequestedEventType, payload.EventType)
	assert.Equal(t, ids, payload.EmployeeIDs)
	assert.Equal(t, actor.ID, payload.RequestedBy)
	assert.False(t, payload.UsePackage)
	assert.True(t, payload.IncludeAttendance)
	assert.True(t, payload.ApplyIncomeTax)
	assert.True(t, payload.AutoApprove)
	assert.Equal(t, "2026-03-01", payload.PeriodStart)
}

func TestRunService_CreateQueued_Errors(t *testing.T) {
	d := setupOrchestrator(t)
	req := payrollrun.CreateRunRequest{
		EmployeeIDs: newIDs(1),
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
		Queue:       true,
	}

	t.Run("no outbox", func(t *testing.T) {
		svc := payrollrun.NewService(d.deps, payrollrun.NewOrchestrator(d.deps, 1, zap.NewNop()), nil, nil, zap.NewNop())
		_, err := svc.Create(context.Background(), uuid.NewString(), payroll.Actor{ID: uuid.NewString()}, req)
		assert.ErrorIs(t, err, payrollrunerrors.ErrQueueUnavailable)
	})

	t.Run("bad period", func(t *testing.T) {
		outbox := &fakeOutbox{}
		svc := payrollrun.NewService(d.deps, payrollrun.NewOrchestrator(d.deps, 1, zap.NewNop()), outbox, nil, zap.NewNop())
		bad := req
		bad.PeriodEnd = "2026-02-01"
		_, err := svc.Create(context.Background(), uuid.NewString(), payroll.Actor{ID: uuid.NewString()}, bad)
		assert.Error(t, err)
		assert.Empty(t, outbox.events)
	})
}

func TestRunService_CreateInline(t *testing.T) {
	d := setupOrchestrator(t)
	orgID := uuid.NewString()
	var seen payroll.LoadOptions
	load := subjectsByBase(orgID, nil)
	d.loader.loadSubjectFn = func(ctx context.Context, organisationID, employeeID string, p period.Period, opts payroll.LoadOptions) (payroll.Subject, error) {
		seen = opts
		return load(ctx, organisationID, employeeID, p, opts)
	}
	expectTxs(d.sqlMock, 2)

	svc := payrollrun.NewService(d.deps, payrollrun.NewOrchestrator(d.deps, 1, zap.NewNop()), nil, nil, zap.NewNop())
	resp, err := svc.Create(context.Background(), orgID, payroll.Actor{ID: uuid.NewString()}, payrollrun.CreateRunRequest{
		EmployeeIDs: newIDs(1),
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	})

	require.NoError(t, err)
	assert.False(t, resp.Queued)
	require.NotNil(t, resp.Summary)
	assert.NotEmpty(t, resp.Summary.RunID)
	assert.Equal(t, int64(675_000), resp.Summary.TotalNet)
	assert.True(t, seen.UsePackage)
	assert.True(t, seen.IncludeAttendance)
	assert.NoError(t, d.sqlMock.ExpectationsWereMet())
}

func TestRunService_Delete(t *testing.T) {
	t.Run("draft run with its payrolls", func(t *testing.T) {
		w := setupWorkflow(t, payroll.StatusDraft, nil)
		members := []payroll.Payroll{{ID: uuid.New()}, {ID: uuid.New()}}
		w.payrolls.findByRunFn = func(ctx context.Context, organisationID, runID string) ([]payroll.Payroll, error) {
			return members, nil
		}
		var deleted []string
		w.payrolls.deleteFn = func(ctx context.Context, organisationID, id string) error {
			deleted = append(deleted, id)
			return nil
		}
		runDeleted := false
		w.runs.deleteFn = func(ctx context.Context, organisationID, id string) error {
			runDeleted = true
			return nil
		}
		w.sqlMock.ExpectBegin()
		w.sqlMock.ExpectCommit()

		err := w.service.Delete(context.Background(), w.orgID(), w.runID())

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{members[0].ID.String(), members[1].ID.String()}, deleted)
		assert.True(t, runDeleted)
		assert.NoError(t, w.sqlMock.ExpectationsWereMet())
	})

	t.Run("only drafts", func(t *testing.T) {
		w := setupWorkflow(t, payroll.StatusApproved, nil)
		w.runs.deleteFn = func(ctx context.Context, organisationID, id string) error {
			t.Fatal("approved run must not be deleted")
			return nil
		}
		w.sqlMock.ExpectBegin()
		w.sqlMock.ExpectRollback()

		err := w.service.Delete(context.Background(), w.orgID(), w.runID())

		assert.ErrorIs(t, err, payrollrunerrors.ErrDeleteOnlyDraft)
		assert.NoError(t, w.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		w := setupWorkflow(t, payroll.StatusDraft, nil)
		err := w.service.Delete(context.Background(), w.orgID(), "nope")
		assert.ErrorIs(t, err, payrollrunerrors.ErrInvalidRunID)
	})
}

func TestRunService_GetByID(t *testing.T) {
	w := setupWorkflow(t, payroll.StatusDraft, nil)
	pid := uuid.New()
	w.payrolls.findByRunFn = func(ctx context.Context, organisationID, runID string) ([]payroll.Payroll, error) {
		assert.Equal(t, w.runID(), runID)
		return []payroll.Payroll{{ID: pid}}, nil
	}

	resp, err := w.service.GetByID(context.Background(), w.orgID(), w.runID())

	require.NoError(t, err)
	assert.Equal(t, "PR-202603-0001", resp.RunNumber)
	assert.Equal(t, []string{pid.String()}, resp.PayrollIDs)

	_, err = w.service.GetByID(context.Background(), w.orgID(), uuid.NewString())
	assert.ErrorIs(t, err, payrollrunerrors.ErrRunNotFound)
}

func TestRunService_GetAllFilters(t *testing.T) {
	w := setupWorkflow(t, payroll.StatusDraft, nil)

	_, err := w.service.GetAll(context.Background(), w.orgID(), payrollrun.GetRunsFilterRequest{Status: "unknown"})
	assert.Error(t, err)

	_, err = w.service.GetAll(context.Background(), w.orgID(), payrollrun.GetRunsFilterRequest{Period: "March 2026"})
	assert.Error(t, err)

	resp, err := w.service.GetAll(context.Background(), w.orgID(), payrollrun.GetRunsFilterRequest{Status: payroll.StatusDraft, Period: "2026-03"})
	assert.NoError(t, err)
	assert.Empty(t, resp)
}
