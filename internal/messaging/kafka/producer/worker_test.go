package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	writeFn func(msg kafkago.Message) error
	written []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err := w.writeFn(m); err != nil {
			return err
		}
		w.written = append(w.written, m)
	}
	return nil
}

func event(id, aggregateID string) kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            id,
		RequestID:     "req-" + id,
		AggregateType: kafka.AggregatePayroll,
		AggregateID:   aggregateID,
		EventType:     "payslip_notification_requested",
		Topic:         "payroll.payslip.notification.v1",
		Payload:       []byte(`{}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{
		event("e1", "p1"),
		event("e2", "p2"),
		event("e3", "p3"),
	}}
	writer := &fakeWriter{writeFn: func(msg kafkago.Message) error {
		if string(msg.Key) == "p2" {
			return errors.New("broker unavailable")
		}
		return nil
	}}

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop(), 10)
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"e1", "e3"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["e2"])

	require.Len(t, writer.written, 2)
	msg := writer.written[0]
	assert.Equal(t, "payroll.payslip.notification.v1", msg.Topic)
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "req-e1", headers["request_id"])
	assert.Equal(t, kafka.AggregatePayroll, headers["aggregate_type"])
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	writer := &fakeWriter{writeFn: func(kafkago.Message) error {
		t.Fatal("nothing to publish")
		return nil
	}}
	sent, err := producer.ProcessPendingEvents(context.Background(), &fakeOutboxRepository{}, writer, zap.NewNop(), 10)
	assert.NoError(t, err)
	assert.Zero(t, sent)
}
