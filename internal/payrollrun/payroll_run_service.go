package payrollrun

import (
	"context"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/lock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payroll_run_service.go -destination=mock/payroll_run_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, organisationID string, actor payroll.Actor, req CreateRunRequest) (RunResultResponse, error)
	Execute(ctx context.Context, organisationID string, actor payroll.Actor, req RunRequest) (Summary, error)
	GetAll(ctx context.Context, organisationID string, filter GetRunsFilterRequest) ([]RunResponse, error)
	GetByID(ctx context.Context, organisationID, id string) (RunResponse, error)
	ListOrphans(ctx context.Context, organisationID string, filter OrphansFilterRequest) ([]payroll.PayrollResponse, error)
	Transition(ctx context.Context, organisationID string, actor payroll.Actor, id, action string, req TransitionRequest) (RunResponse, error)
	Delete(ctx context.Context, organisationID, id string) error
}

type service struct {
	deps         Dependencies
	orchestrator *Orchestrator
	outbox       kafka.OutboxRepository
	locker       lock.Locker
	logger       *zap.Logger
}

// NewService wires the run service. outbox may be nil, which disables
// queued runs; a nil locker falls back to status compare-and-set only.
func NewService(
	deps Dependencies,
	orchestrator *Orchestrator,
	outbox kafka.OutboxRepository,
	locker lock.Locker,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrollrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollrun.service")
	}
	if locker == nil {
		locker = lock.NopLocker{}
	}
	return &service{
		deps:         deps,
		orchestrator: orchestrator,
		outbox:       outbox,
		locker:       locker,
		logger:       l,
	}
}

func (s *service) Create(
	ctx context.Context,
	organisationID string,
	actor payroll.Actor,
	req CreateRunRequest,
) (RunResultResponse, error) {
	p, err := payroll.ParsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return RunResultResponse{}, err
	}

	if req.Queue {
		id, err := s.enqueue(ctx, organisationID, actor, req)
		if err != nil {
			return RunResultResponse{}, err
		}
		return RunResultResponse{Queued: true, EventID: id}, nil
	}

	summary, err := s.Execute(ctx, organisationID, actor, RunRequest{
		EmployeeIDs:             req.EmployeeIDs,
		Period:                  p,
		Frequency:               req.Frequency,
		UsePackage:              boolOr(req.UsePackage, true),
		IncludeAttendance:       boolOr(req.IncludeAttendance, true),
		ApplyIncomeTax:          boolOr(req.ApplyIncomeTax, true),
		ApplySocialContribution: boolOr(req.ApplySocialContribution, true),
		AutoApprove:             req.AutoApprove,
		AdoptOrphans:            req.AdoptOrphans,
		Notify:                  req.Notify,
	})
	if err != nil {
		return RunResultResponse{}, err
	}
	return RunResultResponse{Summary: &summary}, nil
}

func (s *service) Execute(ctx context.Context, organisationID string, actor payroll.Actor, req RunRequest) (Summary, error) {
	return s.orchestrator.Execute(ctx, organisationID, actor, req)
}

// enqueue writes a run request to the outbox; the consumer executes it
// with notifications on.
func (s *service) enqueue(ctx context.Context, organisationID string, actor payroll.Actor, req CreateRunRequest) (string, error) {
	if s.outbox == nil {
		return "", payrollrunerrors.ErrQueueUnavailable
	}
	if _, err := uuid.Parse(organisationID); err != nil {
		return "", payrollerrors.ErrInvalidOrganisationID
	}
	if len(dedupe(req.EmployeeIDs)) == 0 {
		return "", payrollrunerrors.ErrNoEmployees
	}

	event := events.PayrollRunRequestedEvent{
		EventType:               events.PayrollRunRequestedEventType,
		OrganisationID:          organisationID,
		RequestedBy:             actor.ID,
		RequestedName:           actor.Name,
		EmployeeIDs:             req.EmployeeIDs,
		PeriodStart:             req.PeriodStart,
		PeriodEnd:               req.PeriodEnd,
		Frequency:               req.Frequency,
		UsePackage:              boolOr(req.UsePackage, true),
		IncludeAttendance:       boolOr(req.IncludeAttendance, true),
		ApplyIncomeTax:          boolOr(req.ApplyIncomeTax, true),
		ApplySocialContribution: boolOr(req.ApplySocialContribution, true),
		AutoApprove:             req.AutoApprove,
		AdoptOrphans:            req.AdoptOrphans,
		OccurredAt:              time.Now().UTC(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		kafka.AggregatePayrollRun,
		organisationID,
		event.EventType,
		events.PayrollRunRequestedTopic,
		event,
	)
	if err != nil {
		return "", err
	}
	if err := s.outbox.Create(ctx, outboxEvent); err != nil {
		return "", err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payroll run queued",
		zap.String("event_id", outboxEvent.ID),
		zap.Int("employees", len(req.EmployeeIDs)),
	)
	return outboxEvent.ID, nil
}

func (s *service) GetAll(ctx context.Context, organisationID string, filterReq GetRunsFilterRequest) ([]RunResponse, error) {
	filter := QueryFilter{}
	if filterReq.Status != "" {
		if !payroll.IsValidStatus(filterReq.Status) {
			return nil, payrollerrors.ErrInvalidStatusFilter
		}
		filter.Status = filterReq.Status
	}
	if filterReq.Period != "" {
		if _, err := time.Parse("2006-01", filterReq.Period); err != nil {
			return nil, payrollerrors.ErrInvalidPeriodFormat
		}
		filter.Period = filterReq.Period
	}

	runs, err := s.deps.Runs.FindAllByOrganisation(ctx, organisationID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(runs), nil
}

func (s *service) GetByID(ctx context.Context, organisationID, id string) (RunResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RunResponse{}, payrollrunerrors.ErrInvalidRunID
	}

	run, err := s.deps.Runs.FindByIDAndOrganisation(ctx, organisationID, id)
	if err != nil {
		return RunResponse{}, err
	}
	if err := s.loadPayrollIDs(ctx, organisationID, run); err != nil {
		return RunResponse{}, err
	}
	return mapToResponse(*run), nil
}

// ListOrphans returns bulk payrolls of the period that no run owns, which
// is what an interrupted run leaves behind.
func (s *service) ListOrphans(ctx context.Context, organisationID string, filter OrphansFilterRequest) ([]payroll.PayrollResponse, error) {
	p, err := payroll.ParsePeriod(filter.PeriodStart, filter.PeriodEnd)
	if err != nil {
		return nil, err
	}

	orphans, err := s.deps.Payrolls.FindOrphans(ctx, organisationID, p.Start, p.End)
	if err != nil {
		return nil, err
	}

	out := make([]payroll.PayrollResponse, 0, len(orphans))
	for _, o := range orphans {
		out = append(out, payroll.MapToResponse(o))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, organisationID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payrollrunerrors.ErrInvalidRunID
	}

	tx, err := s.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	run, err := s.deps.Runs.WithTx(tx).FindByIDAndOrganisation(ctx, organisationID, id)
	if err != nil {
		return err
	}
	if run.Status != payroll.StatusDraft {
		return payrollrunerrors.ErrDeleteOnlyDraft
	}

	ptx := s.deps.Payrolls.WithTx(tx)
	members, err := ptx.FindByRun(ctx, organisationID, id)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := ptx.Delete(ctx, organisationID, m.ID.String()); err != nil {
			return err
		}
	}
	if err := s.deps.Runs.WithTx(tx).Delete(ctx, organisationID, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payroll run deleted",
		zap.String("run_id", id),
		zap.Int("payrolls", len(members)),
	)
	return nil
}

func (s *service) loadPayrollIDs(ctx context.Context, organisationID string, run *PayrollRun) error {
	members, err := s.deps.Payrolls.FindByRun(ctx, organisationID, run.ID.String())
	if err != nil {
		return err
	}
	run.PayrollIDs = make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		run.PayrollIDs = append(run.PayrollIDs, m.ID)
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
