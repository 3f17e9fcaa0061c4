package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
)

func workedDay(employeeID string, date time.Time, total, overtime float64) attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		EmployeeID:    employeeID,
		Date:          date,
		IsPresent:     true,
		TotalHours:    total,
		OvertimeHours: overtime,
	}
}

func TestClassifyDay_BucketsArePartition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		record  attendance.AttendanceRecord
		buckets map[attendance.HourCategory]float64
	}{
		{
			name:   "plain working day",
			record: workedDay("emp-1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 8, 0),
			buckets: map[attendance.HourCategory]float64{
				attendance.CategoryRegular: 8,
			},
		},
		{
			name:   "working day with overtime",
			record: workedDay("emp-1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 10, 2),
			buckets: map[attendance.HourCategory]float64{
				attendance.CategoryRegular:  8,
				attendance.CategoryOvertime: 2,
			},
		},
		{
			name: "regular holiday on a rest day with overtime",
			record: func() attendance.AttendanceRecord {
				r := workedDay("emp-1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 10, 2)
				r.IsDayOff = true
				r.IsRegularHoliday = true
				return r
			}(),
			buckets: map[attendance.HourCategory]float64{
				attendance.CategoryRestDayRegularHoliday:         8,
				attendance.CategoryOvertimeRestDayRegularHoliday: 2,
			},
		},
		{
			name: "special holiday",
			record: func() attendance.AttendanceRecord {
				r := workedDay("emp-1", time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC), 8, 0)
				r.IsSpecialHoliday = true
				return r
			}(),
			buckets: map[attendance.HourCategory]float64{
				attendance.CategorySpecialHoliday: 8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown := ClassifyDay(tt.record)

			got := make(map[attendance.HourCategory]float64)
			var sum float64
			for _, entry := range breakdown.Entries {
				_, dup := got[entry.Category]
				require.False(t, dup, "category %s appears twice", entry.Category)
				got[entry.Category] = entry.Hours
				sum += entry.Hours
			}
			assert.Equal(t, tt.buckets, got)
			// Worked hours are partitioned: bucket hours sum to the day's total.
			assert.InDelta(t, tt.record.TotalHours, sum, 1e-9)
		})
	}
}

func TestClassifyDay_NightDifferentialIsOverlay(t *testing.T) {
	t.Parallel()
	record := workedDay("emp-1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 8, 0)
	record.NightDiffHours = 3

	breakdown := ClassifyDay(record)

	// The night hours stay inside the regular bucket; the overlay entry does
	// not shrink it.
	got := make(map[attendance.HourCategory]float64)
	for _, entry := range breakdown.Entries {
		got[entry.Category] = entry.Hours
	}
	assert.Equal(t, 8.0, got[attendance.CategoryRegular])
	assert.Equal(t, 3.0, got[attendance.CategoryNightDifferential])
}

func TestClassifyDay_UnworkedRegularHoliday(t *testing.T) {
	t.Parallel()
	holiday := attendance.AttendanceRecord{
		EmployeeID:       "emp-1",
		Date:             time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsRegularHoliday: true,
	}

	breakdown := ClassifyDay(holiday)
	require.Len(t, breakdown.Entries, 1)
	assert.Equal(t, attendance.CategoryRegularHolidayUnwkday, breakdown.Entries[0].Category)

	// An absence on the holiday forfeits the holiday pay.
	absent := holiday
	absent.IsAbsent = true
	assert.Empty(t, ClassifyDay(absent).Entries)
}

func TestAggregate_SumsPeriod(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	restDayWorked := workedDay("emp-1", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), 9, 1)
	restDayWorked.IsDayOff = true

	late := workedDay("emp-1", time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), 8, 0)
	late.IsLate = true

	paidType := "lt-vacation"
	unpaidType := "lt-unpaid"
	onPaidLeave := attendance.AttendanceRecord{
		EmployeeID:  "emp-1",
		Date:        time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		IsOnLeave:   true,
		LeaveTypeID: &paidType,
	}
	onUnpaidLeave := attendance.AttendanceRecord{
		EmployeeID:  "emp-1",
		Date:        time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC),
		IsOnLeave:   true,
		LeaveTypeID: &unpaidType,
	}

	records := []attendance.AttendanceRecord{
		workedDay("emp-1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 8, 0),
		late,
		restDayWorked,
		onPaidLeave,
		onUnpaidLeave,
		{EmployeeID: "emp-1", Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), IsAbsent: true},
		// Outside the period and foreign records must be ignored.
		workedDay("emp-1", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), 8, 0),
		workedDay("emp-2", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 8, 0),
	}

	agg := Aggregate("emp-1", start, end, records, map[string]bool{paidType: true})

	assert.Equal(t, 16.0, agg.RegularHours)
	assert.Equal(t, 8.0, agg.RestDayHours)
	assert.Equal(t, 1.0, agg.OvertimeRestDayHours)
	assert.Equal(t, 3, agg.DaysWorked)
	assert.Equal(t, 1, agg.DaysAbsent)
	assert.Equal(t, 1, agg.DaysPaidLeave)
	assert.Equal(t, 1, agg.DaysUnpaidLeave)
	assert.Equal(t, 1, agg.DaysLate)
}

func TestAggregate_IsPure(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	records := []attendance.AttendanceRecord{
		workedDay("emp-1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 10, 2),
		workedDay("emp-1", time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), 8, 0),
	}

	first := Aggregate("emp-1", start, end, records, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Aggregate("emp-1", start, end, records, nil))
	}
}
