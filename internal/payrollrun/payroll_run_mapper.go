package payrollrun

import (
	"time"

	"go-payroll/internal/shared/period"
)

func mapToResponse(r PayrollRun) RunResponse {
	ids := make([]string, 0, len(r.PayrollIDs))
	for _, id := range r.PayrollIDs {
		ids = append(ids, id.String())
	}

	return RunResponse{
		ID:                r.ID.String(),
		RunNumber:         r.RunNumber,
		PeriodStart:       r.PeriodStart.Format(period.DateLayout),
		PeriodEnd:         r.PeriodEnd.Format(period.DateLayout),
		Frequency:         r.Frequency,
		AutoApprove:       r.AutoApprove,
		EmployeeCount:     r.EmployeeCount,
		ErrorCount:        r.ErrorCount,
		PayrollIDs:        ids,
		TotalGross:        r.TotalGross,
		TotalNet:          r.TotalNet,
		TotalDeductions:   r.TotalDeductions,
		TotalEmployerCost: r.TotalEmployerCost,
		Status:            r.Status,
		CreatedBy:         r.CreatedByName,
		SubmittedBy:       r.SubmittedByName,
		SubmittedAt:       timeString(r.SubmittedAt),
		ReviewedBy:        r.ReviewedByName,
		ReviewedAt:        timeString(r.ReviewedAt),
		ReviewNotes:       r.ReviewNotes,
		ApprovedBy:        r.ApprovedByName,
		ApprovedAt:        timeString(r.ApprovedAt),
		ApprovalNotes:     r.ApprovalNotes,
		RejectedBy:        r.RejectedByName,
		RejectedAt:        timeString(r.RejectedAt),
		RejectionReason:   r.RejectionReason,
		PaidBy:            r.PaidByName,
		PaidAt:            timeString(r.PaidAt),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(runs []PayrollRun) []RunResponse {
	out := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, mapToResponse(r))
	}
	return out
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
