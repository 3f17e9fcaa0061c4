package attendance

import (
	"time"
)

// HourCategory is the closed set of premium categories a worked hour can be
// billed under. Every worked hour lands in exactly one category; night
// differential is an overlay tracked separately because it stacks on top of
// whatever category its hours already belong to.
type HourCategory string

const (
	CategoryRegular               HourCategory = "regular"
	CategoryRestDay               HourCategory = "rest_day"
	CategorySpecialHoliday        HourCategory = "special_holiday"
	CategoryRegularHoliday        HourCategory = "regular_holiday"
	CategoryRestDaySpecialHoliday HourCategory = "rest_day_special_holiday"
	CategoryRestDayRegularHoliday HourCategory = "rest_day_regular_holiday"

	CategoryOvertime                      HourCategory = "overtime"
	CategoryOvertimeRestDay               HourCategory = "overtime_rest_day"
	CategoryOvertimeSpecialHoliday        HourCategory = "overtime_special_holiday"
	CategoryOvertimeRegularHoliday        HourCategory = "overtime_regular_holiday"
	CategoryOvertimeRestDaySpecialHoliday HourCategory = "overtime_rest_day_special_holiday"
	CategoryOvertimeRestDayRegularHoliday HourCategory = "overtime_rest_day_regular_holiday"

	CategoryNightDifferential     HourCategory = "night_differential"
	CategoryRegularHolidayUnwkday HourCategory = "regular_holiday_unworked"

	// CategoryPaidLeave appears only in earnings breakdowns: paid-leave days
	// are paid by day count, not by worked hours.
	CategoryPaidLeave HourCategory = "paid_leave"
)

// AttendanceRecord is one employee-day. At most one of IsPresent, IsAbsent,
// IsOnLeave is true; there is exactly one record per (employee, date).
type AttendanceRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time

	TimeIn     *time.Time
	TimeOut    *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time

	IsPresent        bool
	IsAbsent         bool
	IsOnLeave        bool
	IsLate           bool
	IsUndertime      bool
	IsHalfDay        bool
	IsDayOff         bool
	IsRegularHoliday bool
	IsSpecialHoliday bool

	TotalHours     float64
	OvertimeHours  float64
	NightDiffHours float64

	LeaveTypeID    *string
	LeaveRequestID *string

	// Breakdown captures the premium categories actually earned this day,
	// persisted alongside the record for audit.
	Breakdown DayBreakdown

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayBreakdownEntry is one category's share of the day's hours.
type DayBreakdownEntry struct {
	Category HourCategory `json:"category"`
	Hours    float64      `json:"hours"`
}

// DayBreakdown is the structured payroll breakdown stored on the record.
// It is a closed list, not an open dictionary, so consumers can handle every
// category exhaustively.
type DayBreakdown struct {
	Entries []DayBreakdownEntry `json:"entries"`
}

// DayKey identifies an employee-day; the date is the calendar date string so
// the key is usable in maps regardless of time components.
type DayKey struct {
	EmployeeID string
	Date       string
}

// Key returns the record's DayKey.
func (r AttendanceRecord) Key() DayKey {
	return DayKey{EmployeeID: r.EmployeeID, Date: r.Date.Format("2006-01-02")}
}
