package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/shared/contextutil"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves its messages once, then cancels the consumer.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		f.cancel()
		return kafkago.Message{}, context.Canceled
	}
	msg := f.messages[0]
	f.messages = f.messages[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

type fakeExecutor struct {
	calls     []payrollrun.RunRequest
	requestID []string
	executeFn func(call int) (payrollrun.Summary, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, organisationID string, actor payroll.Actor, req payrollrun.RunRequest) (payrollrun.Summary, error) {
	f.calls = append(f.calls, req)
	f.requestID = append(f.requestID, contextutil.GetRequestID(ctx))
	return f.executeFn(len(f.calls))
}

func runEvent(t *testing.T, mutate func(*events.PayrollRunRequestedEvent)) []byte {
	t.Helper()
	event := events.PayrollRunRequestedEvent{
		EventType:               events.PayrollRunRequestedEventType,
		OrganisationID:          "8f0e2c1a-5d4b-4c3a-9e8f-7a6b5c4d3e2f",
		RequestedBy:             "1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e",
		EmployeeIDs:             []string{"0c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f"},
		PeriodStart:             "2026-03-01",
		PeriodEnd:               "2026-03-31",
		UsePackage:              true,
		ApplyIncomeTax:          true,
		ApplySocialContribution: true,
	}
	if mutate != nil {
		mutate(&event)
	}
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return b
}

func consume(t *testing.T, executor *fakeExecutor, messages ...kafkago.Message) *fakeReader {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &fakeReader{messages: messages, cancel: cancel}

	done := make(chan struct{})
	go func() {
		ConsumePayrollRunRequested(ctx, reader, executor, zap.NewNop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
	return reader
}

func TestRunRequestFromEvent(t *testing.T) {
	var event events.PayrollRunRequestedEvent
	require.NoError(t, json.Unmarshal(runEvent(t, func(e *events.PayrollRunRequestedEvent) {
		e.AutoApprove = true
	}), &event))

	req, err := RunRequestFromEvent(event)

	require.NoError(t, err)
	assert.True(t, req.Notify)
	assert.True(t, req.AutoApprove)
	assert.True(t, req.UsePackage)
	assert.False(t, req.IncludeAttendance)
	assert.Equal(t, "2026-03-01..2026-03-31", req.Period.String())

	event.PeriodEnd = "2026-02-01"
	_, err = RunRequestFromEvent(event)
	assert.Error(t, err)
}

func TestConsumePayrollRunRequested(t *testing.T) {
	executor := &fakeExecutor{
		executeFn: func(call int) (payrollrun.Summary, error) {
			return payrollrun.Summary{RunID: "run-1", SuccessCount: 1}, nil
		},
	}

	reader := consume(t, executor,
		kafkago.Message{Offset: 1, Value: []byte("not json")},
		kafkago.Message{Offset: 2, Value: runEvent(t, func(e *events.PayrollRunRequestedEvent) { e.PeriodStart = "01/03/2026" })},
		kafkago.Message{
			Offset:  3,
			Value:   runEvent(t, nil),
			Headers: []kafkago.Header{{Key: "request_id", Value: []byte("req-7")}},
		},
	)

	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
	require.Len(t, executor.calls, 1)
	assert.True(t, executor.calls[0].Notify)
	assert.False(t, executor.calls[0].AdoptOrphans)
	assert.Equal(t, []string{"req-7"}, executor.requestID)
}

func TestConsumePayrollRunRequested_Retry(t *testing.T) {
	retryBackoff = time.Millisecond

	t.Run("transient failure adopts orphans on retry", func(t *testing.T) {
		executor := &fakeExecutor{
			executeFn: func(call int) (payrollrun.Summary, error) {
				if call == 1 {
					return payrollrun.Summary{}, &pgconn.PgError{Code: "40001"}
				}
				return payrollrun.Summary{RunID: "run-2"}, nil
			},
		}

		reader := consume(t, executor, kafkago.Message{Offset: 10, Value: runEvent(t, nil)})

		require.Len(t, executor.calls, 2)
		assert.False(t, executor.calls[0].AdoptOrphans)
		assert.True(t, executor.calls[1].AdoptOrphans)
		assert.Equal(t, []int64{10}, reader.committed)
	})

	t.Run("permanent failure is dropped", func(t *testing.T) {
		executor := &fakeExecutor{
			executeFn: func(call int) (payrollrun.Summary, error) {
				return payrollrun.Summary{}, payrollerrors.ErrInvalidOrganisationID
			},
		}

		reader := consume(t, executor, kafkago.Message{Offset: 11, Value: runEvent(t, nil)})

		assert.Len(t, executor.calls, 1)
		assert.Equal(t, []int64{11}, reader.committed)
	})

	t.Run("exhausted retries stay uncommitted", func(t *testing.T) {
		executor := &fakeExecutor{
			executeFn: func(call int) (payrollrun.Summary, error) {
				return payrollrun.Summary{}, errors.New("connection reset by peer")
			},
		}

		reader := consume(t, executor, kafkago.Message{Offset: 12, Value: runEvent(t, nil)})

		assert.Len(t, executor.calls, maxRunAttempts)
		assert.Empty(t, reader.committed)
	})
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, isPermanent(payrollerrors.ErrInvalidOrganisationID))
	assert.True(t, isPermanent(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isPermanent(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isPermanent(&pgconn.PgError{Code: "08006"}))
	assert.False(t, isPermanent(errors.New("dial tcp: i/o timeout")))
}
