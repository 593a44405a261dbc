package events

import "time"

const (
	PayslipNotificationTopic     = "payroll.payslip.notification.v1"
	PayslipNotificationEventType = "payslip_notification_requested"
)

// PayslipNotificationRequestedEvent carries what the delivery side needs to render a payslip
// message without reading the payroll store.
type PayslipNotificationRequestedEvent struct {
	EventType      string    `json:"event_type"`
	PayrollID      string    `json:"payroll_id"`
	PayrollRunID   string    `json:"payroll_run_id,omitempty"`
	OrganisationID string    `json:"organisation_id"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name"`
	Recipient      string    `json:"recipient"`
	PeriodStart    string    `json:"period_start"`
	PeriodEnd      string    `json:"period_end"`
	GrossPay       int64     `json:"gross_pay"`
	NetPay         int64     `json:"net_pay"`
	RequestID      string    `json:"request_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
