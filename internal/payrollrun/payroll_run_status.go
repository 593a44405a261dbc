package payrollrun

import (
	"time"

	"go-payroll/internal/payroll"

	"github.com/google/uuid"
)

// RunPatch is one workflow transition of a run and the stamps it writes.
type RunPatch struct {
	Action    string
	To        string
	ActorID   *uuid.UUID
	ActorName string
	At        time.Time
	Reason    string
	Notes     string
}

func (rp RunPatch) Columns() map[string]any {
	cols := map[string]any{
		"status":     rp.To,
		"updated_at": rp.At,
	}
	switch rp.Action {
	case payroll.ActionSubmit:
		cols["submitted_by"] = rp.ActorID
		cols["submitted_by_name"] = rp.ActorName
		cols["submitted_at"] = rp.At
	case payroll.ActionReview:
		cols["reviewed_by"] = rp.ActorID
		cols["reviewed_by_name"] = rp.ActorName
		cols["reviewed_at"] = rp.At
		cols["review_notes"] = rp.Notes
	case payroll.ActionApprove:
		cols["approved_by"] = rp.ActorID
		cols["approved_by_name"] = rp.ActorName
		cols["approved_at"] = rp.At
		cols["approval_notes"] = rp.Notes
	case payroll.ActionReject, payroll.ActionCancel:
		cols["rejected_by"] = rp.ActorID
		cols["rejected_by_name"] = rp.ActorName
		cols["rejected_at"] = rp.At
		cols["rejection_reason"] = rp.Reason
	case payroll.ActionPay:
		cols["paid_by"] = rp.ActorID
		cols["paid_by_name"] = rp.ActorName
		cols["paid_at"] = rp.At
	}
	return cols
}

// PayrollPatch is the cascade applied to the run's payrolls.
func (rp RunPatch) PayrollPatch() payroll.StatusPatch {
	return payroll.StatusPatch{
		Action:  rp.Action,
		To:      rp.To,
		ActorID: rp.ActorID,
		At:      rp.At,
		Reason:  rp.Reason,
	}
}

func (r *PayrollRun) ApplyStatus(rp RunPatch) {
	r.Status = rp.To
	r.UpdatedAt = rp.At
	at := rp.At
	switch rp.Action {
	case payroll.ActionSubmit:
		r.SubmittedBy, r.SubmittedByName, r.SubmittedAt = rp.ActorID, rp.ActorName, &at
	case payroll.ActionReview:
		r.ReviewedBy, r.ReviewedByName, r.ReviewedAt = rp.ActorID, rp.ActorName, &at
		r.ReviewNotes = rp.Notes
	case payroll.ActionApprove:
		r.ApprovedBy, r.ApprovedByName, r.ApprovedAt = rp.ActorID, rp.ActorName, &at
		r.ApprovalNotes = rp.Notes
	case payroll.ActionReject, payroll.ActionCancel:
		reason := rp.Reason
		r.RejectedBy, r.RejectedByName, r.RejectedAt = rp.ActorID, rp.ActorName, &at
		r.RejectionReason = &reason
	case payroll.ActionPay:
		r.PaidBy, r.PaidByName, r.PaidAt = rp.ActorID, rp.ActorName, &at
	}
}
