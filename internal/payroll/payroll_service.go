package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/audit"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/lock"
	"go-payroll/internal/shared/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Compose(ctx context.Context, organisationID, actorID string, req ComposePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, organisationID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, organisationID, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, organisationID, id string) (PayrollBreakdownResponse, error)
	Recalculate(ctx context.Context, organisationID string, actor Actor, id string) (PayrollResponse, error)
	Transition(ctx context.Context, organisationID string, actor Actor, id, action string, req TransitionRequest) (PayrollResponse, error)
	Delete(ctx context.Context, organisationID, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	audits   audit.Repository
	loader   InputLoader
	composer *Composer
	enforcer Enforcer
	locker   lock.Locker
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	audits audit.Repository,
	loader InputLoader,
	composer *Composer,
	enforcer Enforcer,
	locker lock.Locker,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if locker == nil {
		locker = lock.NopLocker{}
	}
	return &service{
		db:       db,
		repo:     repo,
		audits:   audits,
		loader:   loader,
		composer: composer,
		enforcer: enforcer,
		locker:   locker,
		logger:   l,
	}
}

func (s *service) Compose(
	ctx context.Context,
	organisationID, actorID string,
	req ComposePayrollRequest,
) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(organisationID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidOrganisationID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	p, err := ParsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}

	catalog, err := s.loader.LoadCatalog(ctx, organisationID)
	if err != nil {
		return PayrollResponse{}, err
	}

	frequency := req.Frequency
	if frequency == "" {
		frequency = catalog.Settings.DefaultFrequency
	}
	opts := ComposeOptions{
		UsePackage:              boolOr(req.UsePackage, true),
		IncludeAttendance:       boolOr(req.IncludeAttendance, true),
		ApplyIncomeTax:          boolOr(req.ApplyIncomeTax, true),
		ApplySocialContribution: boolOr(req.ApplySocialContribution, true),
		Status:                  StatusPendingApproval,
		Origin:                  OriginSingle,
	}
	if req.SaveAsDraft {
		opts.Status = StatusDraft
	}

	subject, err := s.loader.LoadSubject(ctx, organisationID, req.EmployeeID, p, opts.LoadOptions(catalog))
	if err != nil {
		return PayrollResponse{}, err
	}

	payroll, err := s.composer.Compose(catalog.Input(subject, p, frequency, opts))
	if err != nil {
		log.Warn("payroll composition failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, err
	}
	payroll.PrepareForCreate(&actorUUID, time.Now().UTC())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindOverlapping(ctx, organisationID, req.EmployeeID, p.Start, p.End)
	if err != nil {
		return PayrollResponse{}, err
	}
	if len(existing) > 0 {
		return PayrollResponse{}, payrollerrors.ErrDuplicatePeriod
	}

	if err := qtx.Create(ctx, payroll); err != nil {
		return PayrollResponse{}, err
	}

	resp := MapToResponse(*payroll)
	if err := s.writeAudit(ctx, tx, audit.Entry{
		OrganisationID: payroll.OrganisationID,
		PayrollID:      &payroll.ID,
		Action:         audit.ActionCreated,
		ToStatus:       payroll.Status,
		ActorID:        actorID,
		NewValues:      resp,
	}); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	log.Info("payroll composed",
		zap.String("payroll_id", payroll.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("net_pay", payroll.NetPay),
	)
	return resp, nil
}

func (s *service) GetAll(
	ctx context.Context,
	organisationID string,
	filterReq GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	filter := QueryFilter{EmployeeID: filterReq.EmployeeID}

	if filterReq.Status != "" {
		if !IsValidStatus(filterReq.Status) {
			return nil, payrollerrors.ErrInvalidStatusFilter
		}
		filter.Status = filterReq.Status
	}
	if filterReq.PeriodStart != "" {
		t, err := parseDate(filterReq.PeriodStart)
		if err != nil {
			return nil, err
		}
		filter.PeriodStart = &t
	}
	if filterReq.PeriodEnd != "" {
		t, err := parseDate(filterReq.PeriodEnd)
		if err != nil {
			return nil, err
		}
		filter.PeriodEnd = &t
	}
	if filter.PeriodStart != nil && filter.PeriodEnd != nil && filter.PeriodStart.After(*filter.PeriodEnd) {
		return nil, payrollerrors.ErrInvalidDateRange
	}

	payrolls, err := s.repo.FindAllByOrganisation(ctx, organisationID, filter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(ctx context.Context, organisationID, id string) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndOrganisation(ctx, organisationID, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return MapToResponse(*payroll), nil
}

func (s *service) GetBreakdown(ctx context.Context, organisationID, id string) (PayrollBreakdownResponse, error) {
	payroll, err := s.repo.FindByIDAndOrganisation(ctx, organisationID, id)
	if err != nil {
		return PayrollBreakdownResponse{}, err
	}
	return mapToBreakdown(*payroll), nil
}

// Recalculate recomputes a standalone payroll from current inputs with the
// switches it was first composed with. Status and identity are kept.
func (s *service) Recalculate(
	ctx context.Context,
	organisationID string,
	actor Actor,
	id string,
) (PayrollResponse, error) {
	var resp PayrollResponse

	err := s.withLock(ctx, id, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindByIDAndOrganisation(ctx, organisationID, id)
		if err != nil {
			return err
		}
		if current.PayrollRunID != nil {
			return payrollerrors.ErrManagedByRun
		}
		if !IsRecalculable(current.Status) {
			return payrollerrors.ErrRecalculateNotAllowed
		}

		p, err := period.New(current.PeriodStart, current.PeriodEnd)
		if err != nil {
			return payrollerrors.ErrInvalidDateRange
		}
		catalog, err := s.loader.LoadCatalog(ctx, organisationID)
		if err != nil {
			return err
		}
		opts := ComposeOptions{
			UsePackage:              current.UsePackage,
			IncludeAttendance:       current.IncludeAttendance,
			ApplyIncomeTax:          current.ApplyIncomeTax,
			ApplySocialContribution: current.ApplySocialContribution,
			Status:                  current.Status,
			Origin:                  current.Origin,
		}
		subject, err := s.loader.LoadSubject(ctx, organisationID, current.EmployeeID.String(), p, opts.LoadOptions(catalog))
		if err != nil {
			return err
		}

		fresh, err := s.composer.Compose(catalog.Input(subject, p, current.Frequency, opts))
		if err != nil {
			return err
		}
		fresh.ID = current.ID
		fresh.CreatedBy = current.CreatedBy
		fresh.CreatedAt = current.CreatedAt
		fresh.UpdatedAt = time.Now().UTC()
		fresh.prepareItems()

		if err := qtx.Update(ctx, fresh); err != nil {
			return err
		}
		if err := qtx.ReplaceItems(ctx, organisationID, fresh.ID, fresh.Items); err != nil {
			return err
		}

		resp = MapToResponse(*fresh)
		if err := s.writeAudit(ctx, tx, audit.Entry{
			OrganisationID: fresh.OrganisationID,
			PayrollID:      &fresh.ID,
			Action:         audit.ActionRecalculated,
			FromStatus:     current.Status,
			ToStatus:       fresh.Status,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			NewValues:      resp,
		}); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payroll recalculated", zap.String("payroll_id", id))
	return resp, nil
}

// Transition applies a workflow action to a payroll that is not part of a
// run. Runs own the status of their payrolls.
func (s *service) Transition(
	ctx context.Context,
	organisationID string,
	actor Actor,
	id, action string,
	req TransitionRequest,
) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if RequiresReason(action) && req.Reason == "" {
		return PayrollResponse{}, payrollerrors.ErrReasonRequired
	}
	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	var resp PayrollResponse
	err = s.withLock(ctx, id, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindByIDAndOrganisation(ctx, organisationID, id)
		if err != nil {
			return err
		}
		if current.PayrollRunID != nil {
			return payrollerrors.ErrManagedByRun
		}
		if err := Authorize(ctx, s.enforcer, organisationID, actor, rbac.ResourcePayroll, action, current.CreatedBy); err != nil {
			return err
		}

		next, err := NextStatus(current.Status, action)
		if err != nil {
			log.Warn("payroll transition refused",
				zap.String("payroll_id", id),
				zap.String("status", current.Status),
				zap.String("action", action),
			)
			return err
		}

		patch := StatusPatch{Action: action, To: next, ActorID: &actorUUID, At: time.Now().UTC(), Reason: req.Reason}
		ok, err := qtx.UpdateStatusIfCurrent(ctx, organisationID, id, current.Status, patch)
		if err != nil {
			return err
		}
		if !ok {
			return payrollerrors.ErrStaleStatus
		}

		from := current.Status
		current.ApplyStatus(patch)
		resp = MapToResponse(*current)

		if err := s.writeAudit(ctx, tx, audit.Entry{
			OrganisationID: current.OrganisationID,
			PayrollID:      &current.ID,
			Action:         AuditAction(action),
			FromStatus:     from,
			ToStatus:       next,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			NewValues:      TransitionSnapshot(next, req),
			Reason:         req.Reason,
		}); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	log.Info("payroll transitioned", zap.String("payroll_id", id), zap.String("action", action), zap.String("status", resp.Status))
	return resp, nil
}

func (s *service) Delete(ctx context.Context, organisationID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindByIDAndOrganisation(ctx, organisationID, id)
	if err != nil {
		return err
	}
	if current.PayrollRunID != nil {
		return payrollerrors.ErrManagedByRun
	}
	if current.Status != StatusDraft {
		return payrollerrors.ErrDeleteOnlyDraft
	}

	if err := qtx.Delete(ctx, organisationID, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) withLock(ctx context.Context, id string, fn func() error) error {
	release, err := s.locker.Acquire(ctx, "payroll:"+id+":lock")
	if errors.Is(err, lock.ErrNotAcquired) {
		return payrollerrors.ErrConcurrentUpdate
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("release payroll lock", zap.String("payroll_id", id), zap.Error(err))
		}
	}()
	return fn()
}

func (s *service) writeAudit(ctx context.Context, tx *sql.Tx, e audit.Entry) error {
	row, err := audit.Build(e, time.Now())
	if err != nil {
		return err
	}
	return s.audits.WithTx(tx).Create(ctx, row)
}

// TransitionSnapshot is the new-values payload of a workflow audit row.
func TransitionSnapshot(status string, req TransitionRequest) map[string]any {
	values := map[string]any{"status": status}
	if req.Notes != "" {
		values["notes"] = req.Notes
	}
	return values
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(period.DateLayout, v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// ParsePeriod parses YYYY-MM-DD bounds into a pay period.
func ParsePeriod(start, end string) (period.Period, error) {
	s, err := parseDate(start)
	if err != nil {
		return period.Period{}, err
	}
	e, err := parseDate(end)
	if err != nil {
		return period.Period{}, err
	}
	p, err := period.New(s, e)
	if err != nil {
		return period.Period{}, payrollerrors.ErrInvalidDateRange
	}
	return p, nil
}
