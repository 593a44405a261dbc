package payrollrun

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/employee"
	"go-payroll/internal/notification"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shared/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	defaultConcurrency = 4
)

// RunRequest is one bulk run over a set of employees for one period.
type RunRequest struct {
	EmployeeIDs             []string
	Period                  period.Period
	Frequency               string
	UsePackage              bool
	IncludeAttendance       bool
	ApplyIncomeTax          bool
	ApplySocialContribution bool
	AutoApprove             bool
	// AdoptOrphans attaches a draft payroll left behind by an interrupted
	// run instead of reporting the employee as a duplicate.
	AdoptOrphans bool
	// Notify queues a payslip notification for every success.
	Notify bool
}

// Outcome is the result of one employee in a run.
type Outcome struct {
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	PayrollID  string `json:"payroll_id,omitempty"`
	NetPay     int64  `json:"net_pay,omitempty"`
	Adopted    bool   `json:"adopted,omitempty"`
	Error      string `json:"error,omitempty"`

	payroll  *payroll.Payroll
	employee *employee.Employee
}

// Summary is what a caller observes of a run. RunID is empty when every
// employee failed and no run was created.
type Summary struct {
	RunID             string    `json:"run_id,omitempty"`
	RunNumber         string    `json:"run_number,omitempty"`
	Status            string    `json:"status,omitempty"`
	SuccessCount      int       `json:"success_count"`
	ErrorCount        int       `json:"error_count"`
	TotalGross        int64     `json:"total_gross"`
	TotalNet          int64     `json:"total_net"`
	TotalDeductions   int64     `json:"total_deductions"`
	TotalEmployerCost int64     `json:"total_employer_cost"`
	Results           []Outcome `json:"results"`
}

type Dependencies struct {
	DB        *sql.DB
	Runs      Repository
	Payrolls  payroll.Repository
	Audits    audit.Repository
	Counter   counter.Repository
	Employees employee.Repository
	Loader    payroll.InputLoader
	Composer  *payroll.Composer
	Enforcer  payroll.Enforcer
	Notifier  notification.Notifier
}

type Orchestrator struct {
	deps        Dependencies
	concurrency int
	logger      *zap.Logger
}

func NewOrchestrator(deps Dependencies, concurrency int, logger ...*zap.Logger) *Orchestrator {
	l := zap.L().Named("payrollrun.orchestrator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollrun.orchestrator")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if deps.Notifier == nil {
		deps.Notifier = notification.NopNotifier{}
	}
	return &Orchestrator{deps: deps, concurrency: concurrency, logger: l}
}

// Execute composes every employee independently, then creates the run from
// the successes in one transaction once all attempts have finished.
func (o *Orchestrator) Execute(
	ctx context.Context,
	organisationID string,
	actor payroll.Actor,
	req RunRequest,
) (Summary, error) {
	log := contextutil.GetLogger(ctx, o.logger)

	orgUUID, err := uuid.Parse(organisationID)
	if err != nil {
		return Summary{}, payrollerrors.ErrInvalidOrganisationID
	}
	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return Summary{}, payrollerrors.ErrInvalidActorID
	}
	employeeIDs := dedupe(req.EmployeeIDs)
	if len(employeeIDs) == 0 {
		return Summary{}, payrollrunerrors.ErrNoEmployees
	}
	if req.AutoApprove {
		if err := payroll.Authorize(ctx, o.deps.Enforcer, organisationID, actor, rbac.ResourcePayrollRun, payroll.ActionApprove, nil); err != nil {
			return Summary{}, err
		}
	}

	catalog, err := o.deps.Loader.LoadCatalog(ctx, organisationID)
	if err != nil {
		return Summary{}, err
	}
	if req.Frequency == "" {
		req.Frequency = catalog.Settings.DefaultFrequency
	}

	log.Info("payroll run started",
		zap.String("period", req.Period.String()),
		zap.Int("employees", len(employeeIDs)),
		zap.Int("concurrency", o.concurrency),
	)

	results := make([]Outcome, len(employeeIDs))
	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, employeeID := range employeeIDs {
		g.Go(func() error {
			results[i] = o.processEmployee(ctx, organisationID, actorUUID, catalog, req, employeeID)
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Results: results}
	var succeeded []Outcome
	for _, r := range results {
		if r.Status == OutcomeSuccess {
			succeeded = append(succeeded, r)
			summary.TotalGross += r.payroll.GrossPay
			summary.TotalNet += r.payroll.NetPay
			summary.TotalDeductions += r.payroll.TotalDeductions
			summary.TotalEmployerCost += r.payroll.EmployerCost
		}
	}
	summary.SuccessCount = len(succeeded)
	summary.ErrorCount = len(results) - len(succeeded)

	if len(succeeded) == 0 {
		log.Warn("payroll run produced no payrolls", zap.Int("errors", summary.ErrorCount))
		return summary, nil
	}

	run, err := o.finalize(ctx, orgUUID, actor, actorUUID, req, summary, succeeded)
	if err != nil {
		log.Error("payroll run finalize failed, payrolls left without a run",
			zap.String("period", req.Period.String()),
			zap.Int("payrolls", len(succeeded)),
			zap.Error(err),
		)
		return Summary{}, err
	}
	summary.RunID = run.ID.String()
	summary.RunNumber = run.RunNumber
	summary.Status = run.Status

	if req.Notify {
		o.notify(ctx, succeeded, run.ID)
	}

	log.Info("payroll run completed",
		zap.String("run_id", summary.RunID),
		zap.String("run_number", summary.RunNumber),
		zap.Int("success", summary.SuccessCount),
		zap.Int("error", summary.ErrorCount),
	)
	return summary, nil
}

func (o *Orchestrator) processEmployee(
	ctx context.Context,
	organisationID string,
	actorUUID uuid.UUID,
	catalog payroll.Catalog,
	req RunRequest,
	employeeID string,
) Outcome {
	log := contextutil.GetLogger(ctx, o.logger).With(zap.String("employee_id", employeeID))
	fail := func(err error) Outcome {
		log.Warn("payroll run employee failed", zap.Error(err))
		return Outcome{EmployeeID: employeeID, Status: OutcomeError, Error: err.Error()}
	}

	if _, err := uuid.Parse(employeeID); err != nil {
		return fail(payrollerrors.ErrInvalidEmployeeID)
	}

	existing, err := o.deps.Payrolls.FindOverlapping(ctx, organisationID, employeeID, req.Period.Start, req.Period.End)
	if err != nil {
		return fail(err)
	}
	if len(existing) > 0 {
		if req.AdoptOrphans && len(existing) == 1 && isAdoptable(existing[0]) {
			return o.adopt(ctx, organisationID, existing[0], log)
		}
		return fail(payrollerrors.ErrDuplicatePeriod)
	}

	opts := payroll.ComposeOptions{
		UsePackage:              req.UsePackage,
		IncludeAttendance:       req.IncludeAttendance,
		ApplyIncomeTax:          req.ApplyIncomeTax,
		ApplySocialContribution: req.ApplySocialContribution,
		Status:                  payroll.StatusDraft,
		Origin:                  payroll.OriginBulk,
	}
	subject, err := o.deps.Loader.LoadSubject(ctx, organisationID, employeeID, req.Period, opts.LoadOptions(catalog))
	if err != nil {
		return fail(err)
	}

	p, err := o.deps.Composer.Compose(catalog.Input(subject, req.Period, req.Frequency, opts))
	if err != nil {
		return fail(err)
	}
	p.PrepareForCreate(&actorUUID, time.Now().UTC())

	if err := o.persist(ctx, organisationID, actorUUID, p); err != nil {
		return fail(err)
	}

	emp := subject.Employee
	return Outcome{
		EmployeeID: employeeID,
		Status:     OutcomeSuccess,
		PayrollID:  p.ID.String(),
		NetPay:     p.NetPay,
		payroll:    p,
		employee:   &emp,
	}
}

// persist stores one payroll in its own transaction so a later failure in
// the run cannot roll it back.
func (o *Orchestrator) persist(ctx context.Context, organisationID string, actorUUID uuid.UUID, p *payroll.Payroll) error {
	tx, err := o.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := o.deps.Payrolls.WithTx(tx)

	existing, err := qtx.FindOverlapping(ctx, organisationID, p.EmployeeID.String(), p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return payrollerrors.ErrDuplicatePeriod
	}

	if err := qtx.Create(ctx, p); err != nil {
		return err
	}

	row, err := audit.Build(audit.Entry{
		OrganisationID: p.OrganisationID,
		PayrollID:      &p.ID,
		Action:         audit.ActionCreated,
		ToStatus:       p.Status,
		ActorID:        actorUUID.String(),
		NewValues:      payroll.MapToResponse(*p),
	}, time.Now())
	if err != nil {
		return err
	}
	if err := o.deps.Audits.WithTx(tx).Create(ctx, row); err != nil {
		return err
	}

	return tx.Commit()
}

func (o *Orchestrator) adopt(ctx context.Context, organisationID string, orphan payroll.Payroll, log *zap.Logger) Outcome {
	employeeID := orphan.EmployeeID.String()
	emp, err := o.deps.Employees.FindByIDAndOrganisation(ctx, organisationID, employeeID)
	if err != nil {
		log.Warn("adopt orphan payroll failed", zap.Error(err))
		return Outcome{EmployeeID: employeeID, Status: OutcomeError, Error: err.Error()}
	}

	log.Info("adopting orphan payroll", zap.String("payroll_id", orphan.ID.String()))
	return Outcome{
		EmployeeID: employeeID,
		Status:     OutcomeSuccess,
		PayrollID:  orphan.ID.String(),
		NetPay:     orphan.NetPay,
		Adopted:    true,
		payroll:    &orphan,
		employee:   emp,
	}
}

func (o *Orchestrator) finalize(
	ctx context.Context,
	orgUUID uuid.UUID,
	actor payroll.Actor,
	actorUUID uuid.UUID,
	req RunRequest,
	summary Summary,
	succeeded []Outcome,
) (*PayrollRun, error) {
	organisationID := orgUUID.String()
	now := time.Now().UTC()

	tx, err := o.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seq, err := o.deps.Counter.WithTx(tx).GetNextValue(ctx, organisationID, counter.TypePayrollRun)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(succeeded))
	for _, s := range succeeded {
		ids = append(ids, s.payroll.ID)
	}

	run := &PayrollRun{
		ID:                uuid.New(),
		OrganisationID:    orgUUID,
		RunNumber:         RunNumber(req.Period.Start, seq),
		PeriodStart:       req.Period.Start,
		PeriodEnd:         req.Period.End,
		Frequency:         req.Frequency,
		UsePackage:        req.UsePackage,
		IncludeAttendance: req.IncludeAttendance,
		AutoApprove:       req.AutoApprove,
		EmployeeCount:     len(succeeded),
		ErrorCount:        summary.ErrorCount,
		TotalGross:        summary.TotalGross,
		TotalNet:          summary.TotalNet,
		TotalDeductions:   summary.TotalDeductions,
		TotalEmployerCost: summary.TotalEmployerCost,
		Status:            payroll.StatusDraft,
		CreatedBy:         &actorUUID,
		CreatedByName:     actor.Name,
		CreatedAt:         now,
		UpdatedAt:         now,
		PayrollIDs:        ids,
	}

	var approval *RunPatch
	if req.AutoApprove {
		approval = &RunPatch{
			Action:    payroll.ActionApprove,
			To:        payroll.StatusApproved,
			ActorID:   &actorUUID,
			ActorName: actor.Name,
			At:        now,
			Notes:     "auto-approved",
		}
		run.ApplyStatus(*approval)
	}

	if err := o.deps.Runs.WithTx(tx).Create(ctx, run); err != nil {
		return nil, err
	}

	ptx := o.deps.Payrolls.WithTx(tx)
	if err := ptx.AttachToRun(ctx, organisationID, run.ID, ids, payroll.StatusDraft); err != nil {
		return nil, err
	}

	entries := []audit.Entry{{
		OrganisationID: orgUUID,
		PayrollRunID:   &run.ID,
		Action:         audit.ActionCreated,
		ToStatus:       payroll.StatusDraft,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		NewValues: map[string]any{
			"run_number":     run.RunNumber,
			"employee_count": run.EmployeeCount,
			"error_count":    run.ErrorCount,
			"total_gross":    run.TotalGross,
			"total_net":      run.TotalNet,
			"payroll_ids":    ids,
		},
	}}
	if approval != nil {
		cascaded, err := ptx.UpdateStatusByRun(ctx, organisationID, run.ID, approval.PayrollPatch())
		if err != nil {
			return nil, err
		}
		snapshot := payroll.TransitionSnapshot(approval.To, payroll.TransitionRequest{Notes: approval.Notes})
		snapshot["payrolls_updated"] = cascaded
		entries = append(entries, audit.Entry{
			OrganisationID: orgUUID,
			PayrollRunID:   &run.ID,
			Action:         audit.ActionApproved,
			FromStatus:     payroll.StatusDraft,
			ToStatus:       approval.To,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			NewValues:      snapshot,
		})
	}

	atx := o.deps.Audits.WithTx(tx)
	for _, e := range entries {
		row, err := audit.Build(e, now)
		if err != nil {
			return nil, err
		}
		if err := atx.Create(ctx, row); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// notify never fails the run; delivery problems are logged only.
func (o *Orchestrator) notify(ctx context.Context, succeeded []Outcome, runID uuid.UUID) {
	log := contextutil.GetLogger(ctx, o.logger)
	for _, s := range succeeded {
		p := *s.payroll
		p.PayrollRunID = &runID

		recipient := ""
		if s.employee != nil {
			recipient = s.employee.Email
		}
		if err := o.deps.Notifier.SendPayslipNotification(ctx, &p, s.employee, recipient); err != nil {
			log.Warn("payslip notification failed",
				zap.String("payroll_id", s.PayrollID),
				zap.String("employee_id", s.EmployeeID),
				zap.Error(err),
			)
		}
	}
}

func isAdoptable(p payroll.Payroll) bool {
	return p.PayrollRunID == nil && p.Origin == payroll.OriginBulk && p.Status == payroll.StatusDraft
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
