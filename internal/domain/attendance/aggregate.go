package attendance

import "time"

// Aggregate is the period-level reduction of one employee's attendance.
// It is derived, never persisted; payroll recomputes it on every run.
//
// The hour fields below (everything except NightDiffHours) partition the
// hours actually worked in the period: no hour appears in two buckets.
// NightDiffHours overlays hours already counted elsewhere.
type Aggregate struct {
	EmployeeID  string
	PeriodStart time.Time
	PeriodEnd   time.Time

	RegularHours               float64
	RestDayHours               float64
	SpecialHolidayHours        float64
	RegularHolidayHours        float64
	RestDaySpecialHolidayHours float64
	RestDayRegularHolidayHours float64

	OvertimeHours                      float64
	OvertimeRestDayHours               float64
	OvertimeSpecialHolidayHours        float64
	OvertimeRegularHolidayHours        float64
	OvertimeRestDaySpecialHolidayHours float64
	OvertimeRestDayRegularHolidayHours float64

	NightDiffHours float64

	// Unworked regular holidays are paid by day, not by hour.
	RegularHolidayUnworkedDays int

	DaysWorked      int
	DaysAbsent      int
	DaysPaidLeave   int
	DaysUnpaidLeave int
	DaysLate        int

	// Edge flags for the stacked-multiplier decisions downstream.
	HolidayOnRestDay       bool
	HolidayRestDayOvertime bool
}

// WorkedHours sums the partition buckets.
func (a Aggregate) WorkedHours() float64 {
	return a.RegularHours +
		a.RestDayHours +
		a.SpecialHolidayHours +
		a.RegularHolidayHours +
		a.RestDaySpecialHolidayHours +
		a.RestDayRegularHolidayHours +
		a.OvertimeHours +
		a.OvertimeRestDayHours +
		a.OvertimeSpecialHolidayHours +
		a.OvertimeRegularHolidayHours +
		a.OvertimeRestDaySpecialHolidayHours +
		a.OvertimeRestDayRegularHolidayHours
}
