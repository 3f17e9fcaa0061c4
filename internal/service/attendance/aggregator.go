package attendance

import (
	"time"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
)

// ClassifyDay computes the premium-category breakdown for a single record.
// Base hours (total minus overtime) land in the bucket for the day's
// condition; overtime hours land in the overtime bucket for the same
// condition; night-differential hours are an overlay entry. The buckets are
// mutually exclusive so no hour is paid from two entries.
func ClassifyDay(record attendance.AttendanceRecord) attendance.DayBreakdown {
	var breakdown attendance.DayBreakdown
	add := func(category attendance.HourCategory, hours float64) {
		if hours <= 0 {
			return
		}
		breakdown.Entries = append(breakdown.Entries, attendance.DayBreakdownEntry{
			Category: category,
			Hours:    hours,
		})
	}

	worked := record.IsPresent && record.TotalHours > 0
	if !worked {
		// An unworked regular holiday is still paid, by day, unless the
		// employee is marked absent.
		if record.IsRegularHoliday && !record.IsAbsent {
			breakdown.Entries = append(breakdown.Entries, attendance.DayBreakdownEntry{
				Category: attendance.CategoryRegularHolidayUnwkday,
				Hours:    0,
			})
		}
		return breakdown
	}

	base, overtime := baseCategory(record), overtimeCategory(record)

	baseHours := record.TotalHours - record.OvertimeHours
	if baseHours < 0 {
		baseHours = 0
	}
	add(base, baseHours)
	add(overtime, record.OvertimeHours)
	add(attendance.CategoryNightDifferential, record.NightDiffHours)

	return breakdown
}

func baseCategory(r attendance.AttendanceRecord) attendance.HourCategory {
	switch {
	case r.IsDayOff && r.IsRegularHoliday:
		return attendance.CategoryRestDayRegularHoliday
	case r.IsDayOff && r.IsSpecialHoliday:
		return attendance.CategoryRestDaySpecialHoliday
	case r.IsRegularHoliday:
		return attendance.CategoryRegularHoliday
	case r.IsSpecialHoliday:
		return attendance.CategorySpecialHoliday
	case r.IsDayOff:
		return attendance.CategoryRestDay
	default:
		return attendance.CategoryRegular
	}
}

func overtimeCategory(r attendance.AttendanceRecord) attendance.HourCategory {
	switch baseCategory(r) {
	case attendance.CategoryRestDayRegularHoliday:
		return attendance.CategoryOvertimeRestDayRegularHoliday
	case attendance.CategoryRestDaySpecialHoliday:
		return attendance.CategoryOvertimeRestDaySpecialHoliday
	case attendance.CategoryRegularHoliday:
		return attendance.CategoryOvertimeRegularHoliday
	case attendance.CategorySpecialHoliday:
		return attendance.CategoryOvertimeSpecialHoliday
	case attendance.CategoryRestDay:
		return attendance.CategoryOvertimeRestDay
	default:
		return attendance.CategoryOvertime
	}
}

// Aggregate reduces one employee's records for a period into the per-category
// totals and day counts the earnings engine consumes. paidLeaveTypes maps
// leave type ids to their paid flag. The function has no hidden state:
// re-running over the same records yields identical totals.
func Aggregate(employeeID string, start, end time.Time, records []attendance.AttendanceRecord, paidLeaveTypes map[string]bool) attendance.Aggregate {
	agg := attendance.Aggregate{
		EmployeeID:  employeeID,
		PeriodStart: start,
		PeriodEnd:   end,
	}

	for _, record := range records {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.Date.Before(start) || record.Date.After(end) {
			continue
		}

		if record.IsLate {
			agg.DaysLate++
		}

		switch {
		case record.IsPresent:
			agg.DaysWorked++
		case record.IsAbsent:
			agg.DaysAbsent++
		case record.IsOnLeave:
			if record.LeaveTypeID != nil && paidLeaveTypes[*record.LeaveTypeID] {
				agg.DaysPaidLeave++
			} else {
				agg.DaysUnpaidLeave++
			}
		}

		for _, entry := range ClassifyDay(record).Entries {
			accumulate(&agg, entry)
		}

		holiday := record.IsRegularHoliday || record.IsSpecialHoliday
		if holiday && record.IsDayOff {
			agg.HolidayOnRestDay = true
			if record.OvertimeHours > 0 {
				agg.HolidayRestDayOvertime = true
			}
		}
	}

	return agg
}

func accumulate(agg *attendance.Aggregate, entry attendance.DayBreakdownEntry) {
	switch entry.Category {
	case attendance.CategoryRegular:
		agg.RegularHours += entry.Hours
	case attendance.CategoryRestDay:
		agg.RestDayHours += entry.Hours
	case attendance.CategorySpecialHoliday:
		agg.SpecialHolidayHours += entry.Hours
	case attendance.CategoryRegularHoliday:
		agg.RegularHolidayHours += entry.Hours
	case attendance.CategoryRestDaySpecialHoliday:
		agg.RestDaySpecialHolidayHours += entry.Hours
	case attendance.CategoryRestDayRegularHoliday:
		agg.RestDayRegularHolidayHours += entry.Hours
	case attendance.CategoryOvertime:
		agg.OvertimeHours += entry.Hours
	case attendance.CategoryOvertimeRestDay:
		agg.OvertimeRestDayHours += entry.Hours
	case attendance.CategoryOvertimeSpecialHoliday:
		agg.OvertimeSpecialHolidayHours += entry.Hours
	case attendance.CategoryOvertimeRegularHoliday:
		agg.OvertimeRegularHolidayHours += entry.Hours
	case attendance.CategoryOvertimeRestDaySpecialHoliday:
		agg.OvertimeRestDaySpecialHolidayHours += entry.Hours
	case attendance.CategoryOvertimeRestDayRegularHoliday:
		agg.OvertimeRestDayRegularHolidayHours += entry.Hours
	case attendance.CategoryNightDifferential:
		agg.NightDiffHours += entry.Hours
	case attendance.CategoryRegularHolidayUnwkday:
		agg.RegularHolidayUnworkedDays++
	}
}
