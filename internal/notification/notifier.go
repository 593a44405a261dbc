package notification

import (
	"context"
	"errors"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/period"

	"go.uber.org/zap"
)

var ErrNoRecipient = errors.New("payslip recipient is empty")

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock

// Notifier hands a payslip off for delivery. Delivery itself happens outside this service.
type Notifier interface {
	SendPayslipNotification(ctx context.Context, p *payroll.Payroll, emp *employee.Employee, recipient string) error
}

type outboxNotifier struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	return &outboxNotifier{outbox: outbox, logger: l}
}

func (n *outboxNotifier) SendPayslipNotification(
	ctx context.Context,
	p *payroll.Payroll,
	emp *employee.Employee,
	recipient string,
) error {
	if recipient == "" {
		return ErrNoRecipient
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.PayslipNotificationRequestedEvent{
		EventType:      events.PayslipNotificationEventType,
		PayrollID:      p.ID.String(),
		OrganisationID: p.OrganisationID.String(),
		EmployeeID:     p.EmployeeID.String(),
		Recipient:      recipient,
		PeriodStart:    p.PeriodStart.Format(period.DateLayout),
		PeriodEnd:      p.PeriodEnd.Format(period.DateLayout),
		GrossPay:       p.GrossPay,
		NetPay:         p.NetPay,
		RequestID:      rid,
		OccurredAt:     time.Now().UTC(),
	}
	if p.PayrollRunID != nil {
		event.PayrollRunID = p.PayrollRunID.String()
	}
	if emp != nil {
		event.EmployeeName = emp.FullName
	}

	outboxEvent, err := kafka.NewOutboxEvent(
		rid,
		kafka.AggregatePayroll,
		event.PayrollID,
		event.EventType,
		events.PayslipNotificationTopic,
		event,
	)
	if err != nil {
		return err
	}

	if err := n.outbox.Create(ctx, outboxEvent); err != nil {
		n.logger.Error("queue payslip notification failed",
			zap.String("payroll_id", event.PayrollID),
			zap.Error(err),
		)
		return err
	}

	n.logger.Debug("payslip notification queued",
		zap.String("payroll_id", event.PayrollID),
		zap.String("request_id", rid),
	)
	return nil
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) SendPayslipNotification(context.Context, *payroll.Payroll, *employee.Employee, string) error {
	return nil
}
