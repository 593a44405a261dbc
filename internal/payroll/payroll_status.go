package payroll

import (
	"time"

	"go-payroll/internal/audit"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/google/uuid"
)

const (
	StatusDraft           = "draft"
	StatusPendingReview   = "pending_review"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusPaid            = "paid"
	StatusCancelled       = "cancelled"
)

const (
	ActionSubmit  = "submit"
	ActionReview  = "review"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionPay     = "pay"
	ActionCancel  = "cancel"
)

// transitions maps action -> from -> to. It is the single source of truth
// for payrolls and payroll runs.
var transitions = map[string]map[string]string{
	ActionSubmit:  {StatusDraft: StatusPendingReview},
	ActionReview:  {StatusPendingReview: StatusPendingApproval},
	ActionApprove: {StatusPendingApproval: StatusApproved},
	ActionReject: {
		StatusPendingReview:   StatusCancelled,
		StatusPendingApproval: StatusCancelled,
	},
	ActionPay: {StatusApproved: StatusPaid},
	ActionCancel: {
		StatusDraft:    StatusCancelled,
		StatusApproved: StatusCancelled,
	},
}

// NextStatus returns the status reached by applying action from status from.
func NextStatus(from, action string) (string, error) {
	byFrom, ok := transitions[action]
	if !ok {
		return "", payrollerrors.ErrUnknownAction
	}
	to, ok := byFrom[from]
	if !ok {
		return "", payrollerrors.ErrInvalidStatusTransition
	}
	return to, nil
}

// RequiresReason reports whether action must carry a non-empty reason.
func RequiresReason(action string) bool {
	return action == ActionReject || action == ActionCancel
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPendingReview, StatusPendingApproval, StatusApproved, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsRecalculable reports whether a payroll may still be recomputed.
func IsRecalculable(status string) bool {
	switch status {
	case StatusDraft, StatusPendingReview, StatusPendingApproval:
		return true
	}
	return false
}

// AuditAction is the audit action recorded for a workflow action.
func AuditAction(action string) string {
	switch action {
	case ActionApprove:
		return audit.ActionApproved
	case ActionReject:
		return audit.ActionRejected
	case ActionPay:
		return audit.ActionPaid
	case ActionCancel:
		return audit.ActionCancelled
	default:
		return audit.ActionUpdated
	}
}

// StatusPatch is the status change of one transition plus the stamps it sets.
type StatusPatch struct {
	Action  string
	To      string
	ActorID *uuid.UUID
	At      time.Time
	Reason  string
}

// Columns is the column set an UPDATE for this patch writes.
func (sp StatusPatch) Columns() map[string]any {
	cols := map[string]any{
		"status":     sp.To,
		"updated_at": sp.At,
	}
	switch sp.Action {
	case ActionApprove:
		cols["approved_by"] = sp.ActorID
		cols["approved_at"] = sp.At
	case ActionReject, ActionCancel:
		cols["rejected_by"] = sp.ActorID
		cols["rejected_at"] = sp.At
		cols["rejection_reason"] = sp.Reason
	case ActionPay:
		cols["paid_at"] = sp.At
	}
	return cols
}

// ApplyStatus mirrors Columns on an in-memory payroll.
func (p *Payroll) ApplyStatus(sp StatusPatch) {
	p.Status = sp.To
	p.UpdatedAt = sp.At
	at := sp.At
	switch sp.Action {
	case ActionApprove:
		p.ApprovedBy = sp.ActorID
		p.ApprovedAt = &at
	case ActionReject, ActionCancel:
		reason := sp.Reason
		p.RejectedBy = sp.ActorID
		p.RejectedAt = &at
		p.RejectionReason = &reason
	case ActionPay:
		p.PaidAt = &at
	}
}
