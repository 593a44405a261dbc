package payroll

import (
	"time"

	"go-payroll/internal/shared/period"

	"github.com/google/uuid"
)

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func mapItems(items []PayrollItem) []PayrollItemResponse {
	out := make([]PayrollItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, PayrollItemResponse{
			Kind:      it.Kind,
			Name:      it.Name,
			Amount:    it.Amount,
			Statutory: it.Statutory,
			Taxable:   it.Taxable,
			Source:    it.Source,
		})
	}
	return out
}

func MapToResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:             p.ID.String(),
		OrganisationID: p.OrganisationID.String(),
		EmployeeID:     p.EmployeeID.String(),
		PayrollRunID:   uuidString(p.PayrollRunID),
		PeriodStart:    p.PeriodStart.Format(period.DateLayout),
		PeriodEnd:      p.PeriodEnd.Format(period.DateLayout),
		Frequency:      p.Frequency,
		SalaryType:     p.SalaryType,
		Origin:         p.Origin,

		ContractSalary:     p.ContractSalary,
		BaseSalary:         p.BaseSalary,
		HourlyRate:         p.HourlyRate.StringFixed(4),
		DaysWorked:         p.DaysWorked,
		ExpectedDays:       p.ExpectedDays,
		HoursWorked:        p.HoursWorked.StringFixed(2),
		OvertimeHours:      p.OvertimeHours.StringFixed(2),
		OvertimeMultiplier: p.OvertimeMultiplier.StringFixed(2),
		OvertimePay:        p.OvertimePay,
		SalesTotal:         p.SalesTotal,
		Commission:         p.Commission,

		TotalAllowances:            p.TotalAllowances,
		TotalBonuses:               p.TotalBonuses,
		TotalDeductions:            p.TotalDeductions,
		IncomeTax:                  p.IncomeTax,
		SocialContributionEmployee: p.SocialContributionEmployee,
		SocialContributionEmployer: p.SocialContributionEmployer,
		GrossPay:                   p.GrossPay,
		TaxableIncome:              p.TaxableIncome,
		NetPay:                     p.NetPay,
		EmployerCost:               p.EmployerCost,

		Status:          p.Status,
		CreatedBy:       uuidString(p.CreatedBy),
		ApprovedBy:      uuidString(p.ApprovedBy),
		ApprovedAt:      timeString(p.ApprovedAt),
		RejectedBy:      uuidString(p.RejectedBy),
		RejectedAt:      timeString(p.RejectedAt),
		RejectionReason: p.RejectionReason,
		PaidAt:          timeString(p.PaidAt),

		Items: mapItems(p.Items),
	}
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	out := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		out = append(out, MapToResponse(p))
	}
	return out
}

func mapToBreakdown(p Payroll) PayrollBreakdownResponse {
	return PayrollBreakdownResponse{
		PayrollID:       p.ID.String(),
		Allowances:      mapItems(p.ItemsOf(ItemAllowance)),
		Bonuses:         mapItems(p.ItemsOf(ItemBonus)),
		Deductions:      mapItems(p.ItemsOf(ItemDeduction)),
		TotalAllowances: p.TotalAllowances,
		TotalBonuses:    p.TotalBonuses,
		TotalDeductions: p.TotalDeductions,
		GrossPay:        p.GrossPay,
		NetPay:          p.NetPay,
	}
}
