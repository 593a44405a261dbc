package payrollrun

import (
	"context"
	"errors"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/lock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transition applies one workflow action to a run and every payroll in it.
// Transitions of one run are serialised by a lock and guarded by a
// compare-and-set on the current status; each writes one audit row.
func (s *service) Transition(
	ctx context.Context,
	organisationID string,
	actor payroll.Actor,
	id, action string,
	req TransitionRequest,
) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if payroll.RequiresReason(action) && req.Reason == "" {
		return RunResponse{}, payrollerrors.ErrReasonRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return RunResponse{}, payrollrunerrors.ErrInvalidRunID
	}
	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	release, err := s.locker.Acquire(ctx, lockKey(id))
	if errors.Is(err, lock.ErrNotAcquired) {
		return RunResponse{}, payrollrunerrors.ErrConcurrentUpdate
	}
	if err != nil {
		return RunResponse{}, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("release payroll run lock", zap.String("run_id", id), zap.Error(err))
		}
	}()

	tx, err := s.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	rtx := s.deps.Runs.WithTx(tx)

	run, err := rtx.FindByIDAndOrganisation(ctx, organisationID, id)
	if err != nil {
		return RunResponse{}, err
	}
	if err := payroll.Authorize(ctx, s.deps.Enforcer, organisationID, actor, rbac.ResourcePayrollRun, action, run.CreatedBy); err != nil {
		log.Warn("payroll run transition forbidden",
			zap.String("run_id", id),
			zap.String("action", action),
			zap.String("actor_id", actor.ID),
		)
		return RunResponse{}, err
	}

	next, err := payroll.NextStatus(run.Status, action)
	if err != nil {
		log.Warn("payroll run transition refused",
			zap.String("run_id", id),
			zap.String("status", run.Status),
			zap.String("action", action),
		)
		return RunResponse{}, err
	}

	patch := RunPatch{
		Action:    action,
		To:        next,
		ActorID:   &actorUUID,
		ActorName: actor.Name,
		At:        time.Now().UTC(),
		Reason:    req.Reason,
		Notes:     req.Notes,
	}
	ok, err := rtx.UpdateStatusIfCurrent(ctx, organisationID, id, run.Status, patch)
	if err != nil {
		return RunResponse{}, err
	}
	if !ok {
		return RunResponse{}, payrollrunerrors.ErrStaleStatus
	}

	cascaded, err := s.deps.Payrolls.WithTx(tx).UpdateStatusByRun(ctx, organisationID, run.ID, patch.PayrollPatch())
	if err != nil {
		return RunResponse{}, err
	}

	from := run.Status
	run.ApplyStatus(patch)

	snapshot := payroll.TransitionSnapshot(next, payroll.TransitionRequest{Reason: req.Reason, Notes: req.Notes})
	snapshot["payrolls_updated"] = cascaded
	row, err := audit.Build(audit.Entry{
		OrganisationID: run.OrganisationID,
		PayrollRunID:   &run.ID,
		Action:         payroll.AuditAction(action),
		FromStatus:     from,
		ToStatus:       next,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		NewValues:      snapshot,
		Reason:         req.Reason,
	}, patch.At)
	if err != nil {
		return RunResponse{}, err
	}
	if err := s.deps.Audits.WithTx(tx).Create(ctx, row); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	if err := s.loadPayrollIDs(ctx, organisationID, run); err != nil {
		log.Warn("load payroll ids after transition", zap.String("run_id", id), zap.Error(err))
	}

	log.Info("payroll run transitioned",
		zap.String("run_id", id),
		zap.String("action", action),
		zap.String("from", from),
		zap.String("to", next),
		zap.Int64("payrolls_updated", cascaded),
	)
	return mapToResponse(*run), nil
}

func lockKey(runID string) string {
	return "payroll_run:" + runID + ":lock"
}
