package attendance_test

import (
	"testing"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/shared/period"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int, in, out string) attendance.Attendance {
	date := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	clockIn, _ := time.Parse(time.RFC3339, date.Format("2006-01-02")+"T"+in+":00Z")
	row := attendance.Attendance{AttendanceDate: date, ClockIn: clockIn, Status: attendance.StatusPresent}
	if out != "" {
		clockOut, _ := time.Parse(time.RFC3339, date.Format("2006-01-02")+"T"+out+":00Z")
		row.ClockOut = &clockOut
	}
	return row
}

func TestSummarize(t *testing.T) {
	p, err := period.Parse("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	eight := decimal.NewFromInt(8)

	absent := day(6, "08:00", "")
	absent.Status = attendance.StatusAbsent

	rows := []attendance.Attendance{
		day(4, "08:00", "17:30"), // 9.5h -> 8 + 1.5 overtime
		day(5, "08:00", "12:00"), // 4h
		day(5, "13:00", "17:00"), // duplicate date ignored
		absent,
		day(7, "08:00", ""), // no clock-out -> standard day
	}

	s := attendance.Summarize(rows, p, eight)

	assert.True(t, s.FromRecords)
	assert.Equal(t, 3, s.DaysWorked)
	assert.Equal(t, 21, s.ExpectedDays)
	assert.True(t, s.RegularHours.Equal(decimal.NewFromInt(20)), s.RegularHours.String())
	assert.True(t, s.OvertimeHours.Equal(decimal.RequireFromString("1.5")), s.OvertimeHours.String())
}

func TestSummarize_NoRecordsIsFullAttendance(t *testing.T) {
	p, err := period.Parse("2024-03-01", "2024-03-31")
	require.NoError(t, err)

	s := attendance.Summarize(nil, p, decimal.NewFromInt(8))

	assert.False(t, s.FromRecords)
	assert.Equal(t, 21, s.DaysWorked)
	assert.Equal(t, s.ExpectedDays, s.DaysWorked)
	assert.True(t, s.RegularHours.Equal(decimal.NewFromInt(168)))
	assert.True(t, s.OvertimeHours.IsZero())
}
