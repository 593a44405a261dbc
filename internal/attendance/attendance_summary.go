package attendance

import (
	"go-payroll/internal/shared/period"

	"github.com/shopspring/decimal"
)

// Summary is an employee's attendance over one pay period.
type Summary struct {
	DaysWorked    int             `json:"days_worked"`
	ExpectedDays  int             `json:"expected_days"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	// FromRecords is false when the summary assumes full attendance.
	FromRecords bool `json:"from_records"`
}

// FullAttendance is used when no attendance records exist: every expected
// working day is counted as a standard day with no overtime.
func FullAttendance(p period.Period, dailyHours decimal.Decimal) Summary {
	days := p.WorkingDays()
	return Summary{
		DaysWorked:    days,
		ExpectedDays:  days,
		RegularHours:  dailyHours.Mul(decimal.NewFromInt(int64(days))),
		OvertimeHours: decimal.Zero,
	}
}

// Summarize folds attendance rows into a Summary. Hours beyond dailyHours on
// a day are overtime. A day without clock-out counts as a standard day.
// Absent and leave days are not worked days.
func Summarize(rows []Attendance, p period.Period, dailyHours decimal.Decimal) Summary {
	if len(rows) == 0 {
		return FullAttendance(p, dailyHours)
	}

	s := Summary{
		ExpectedDays:  p.WorkingDays(),
		RegularHours:  decimal.Zero,
		OvertimeHours: decimal.Zero,
		FromRecords:   true,
	}
	seen := map[string]bool{}

	for _, row := range rows {
		if row.Status == StatusAbsent || row.Status == StatusLeave || !p.Contains(row.AttendanceDate) {
			continue
		}
		day := row.AttendanceDate.Format(period.DateLayout)
		if seen[day] {
			continue
		}
		seen[day] = true
		s.DaysWorked++

		hours := dailyHours
		if row.ClockOut != nil && row.ClockOut.After(row.ClockIn) {
			hours = decimal.NewFromFloat(row.ClockOut.Sub(row.ClockIn).Hours()).Round(2)
		}

		if hours.GreaterThan(dailyHours) {
			s.RegularHours = s.RegularHours.Add(dailyHours)
			s.OvertimeHours = s.OvertimeHours.Add(hours.Sub(dailyHours))
		} else {
			s.RegularHours = s.RegularHours.Add(hours)
		}
	}

	return s
}
