package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const maxRunAttempts = 3

var retryBackoff = 2 * time.Second

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type RunExecutor interface {
	Execute(ctx context.Context, organisationID string, actor payroll.Actor, req payrollrun.RunRequest) (payrollrun.Summary, error)
}

// ConsumePayrollRunRequested executes queued bulk runs with payslip
// notifications on. Undecodable or invalid requests are committed and
// dropped; transient failures are retried, adopting the drafts an earlier
// attempt left behind.
func ConsumePayrollRunRequested(
	ctx context.Context,
	reader MessageReader,
	executor RunExecutor,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll run event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		req, err := RunRequestFromEvent(event)
		if err != nil {
			log.Error("invalid payroll run event",
				zap.String("organisation_id", event.OrganisationID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := contextutil.WithRequestID(ctx, headerValue(msg, "request_id"))
		msgLog := log.With(
			zap.String("organisation_id", event.OrganisationID),
			zap.String("request_id", contextutil.GetRequestID(msgCtx)),
		)
		msgCtx = contextutil.WithLogger(msgCtx, msgLog)

		summary, err := executeWithRetry(msgCtx, executor, event, req, msgLog)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			if isPermanent(err) {
				msgLog.Error("payroll run rejected", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			msgLog.Error("payroll run failed, leaving message uncommitted", zap.Error(err))
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			msgLog.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		msgLog.Info("queued payroll run executed",
			zap.String("run_id", summary.RunID),
			zap.String("run_number", summary.RunNumber),
			zap.Int("success_count", summary.SuccessCount),
			zap.Int("error_count", summary.ErrorCount),
		)
	}
}

func executeWithRetry(
	ctx context.Context,
	executor RunExecutor,
	event events.PayrollRunRequestedEvent,
	req payrollrun.RunRequest,
	log *zap.Logger,
) (payrollrun.Summary, error) {
	actor := payroll.Actor{ID: event.RequestedBy, Name: event.RequestedName}

	var lastErr error
	for attempt := 1; attempt <= maxRunAttempts; attempt++ {
		summary, err := executor.Execute(ctx, event.OrganisationID, actor, req)
		if err == nil {
			return summary, nil
		}
		lastErr = err
		if isPermanent(err) || attempt == maxRunAttempts {
			break
		}

		log.Warn("payroll run attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		// payrolls persisted before the failure are orphans now
		req.AdoptOrphans = true

		select {
		case <-ctx.Done():
			return payrollrun.Summary{}, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
	return payrollrun.Summary{}, lastErr
}

// RunRequestFromEvent turns a queued request into an executable run.
// Notifications are always on for queued runs.
func RunRequestFromEvent(event events.PayrollRunRequestedEvent) (payrollrun.RunRequest, error) {
	p, err := payroll.ParsePeriod(event.PeriodStart, event.PeriodEnd)
	if err != nil {
		return payrollrun.RunRequest{}, err
	}
	return payrollrun.RunRequest{
		EmployeeIDs:             event.EmployeeIDs,
		Period:                  p,
		Frequency:               event.Frequency,
		UsePackage:              event.UsePackage,
		IncludeAttendance:       event.IncludeAttendance,
		ApplyIncomeTax:          event.ApplyIncomeTax,
		ApplySocialContribution: event.ApplySocialContribution,
		AutoApprove:             event.AutoApprove,
		AdoptOrphans:            event.AdoptOrphans,
		Notify:                  true,
	}, nil
}

// isPermanent reports errors a retry cannot fix: request-level app errors
// and postgres errors outside the connection and transaction-rollback
// classes.
func isPermanent(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus < http.StatusInternalServerError
	}

	if pgconn.Timeout(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 {
		switch pgErr.Code[:2] {
		case "08", "40", "53", "57":
			return false
		}
		return true
	}
	return false
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
