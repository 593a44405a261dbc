package events

import "time"

const (
	PayrollRunRequestedTopic     = "payroll.run.requested.v1"
	PayrollRunRequestedEventType = "payroll_run_requested"
)

type PayrollRunRequestedEvent struct {
	EventType               string    `json:"event_type"`
	OrganisationID          string    `json:"organisation_id"`
	RequestedBy             string    `json:"requested_by"`
	RequestedName           string    `json:"requested_name"`
	EmployeeIDs             []string  `json:"employee_ids"`
	PeriodStart             string    `json:"period_start"`
	PeriodEnd               string    `json:"period_end"`
	Frequency               string    `json:"frequency"`
	UsePackage              bool      `json:"use_package"`
	IncludeAttendance       bool      `json:"include_attendance"`
	ApplyIncomeTax          bool      `json:"apply_income_tax"`
	ApplySocialContribution bool      `json:"apply_social_contribution"`
	AutoApprove             bool      `json:"auto_approve"`
	AdoptOrphans            bool      `json:"adopt_orphans"`
	OccurredAt              time.Time `json:"occurred_at"`
}
