package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date, time_in, time_out, break_start, break_end,
	is_present, is_absent, is_on_leave, is_late, is_undertime, is_half_day,
	is_day_off, is_regular_holiday, is_special_holiday,
	total_hours, overtime_hours, night_diff_hours,
	leave_type_id, leave_request_id, breakdown, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	var breakdownBytes []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.TimeIn, &rec.TimeOut, &rec.BreakStart, &rec.BreakEnd,
		&rec.IsPresent, &rec.IsAbsent, &rec.IsOnLeave, &rec.IsLate, &rec.IsUndertime, &rec.IsHalfDay,
		&rec.IsDayOff, &rec.IsRegularHoliday, &rec.IsSpecialHoliday,
		&rec.TotalHours, &rec.OvertimeHours, &rec.NightDiffHours,
		&rec.LeaveTypeID, &rec.LeaveRequestID, &breakdownBytes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if len(breakdownBytes) > 0 {
		_ = json.Unmarshal(breakdownBytes, &rec.Breakdown)
	}
	return rec, nil
}

func (r *attendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	breakdownJSON, _ := json.Marshal(record.Breakdown)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, time_in, time_out, break_start, break_end,
			is_present, is_absent, is_on_leave, is_late, is_undertime, is_half_day,
			is_day_off, is_regular_holiday, is_special_holiday,
			total_hours, overtime_hours, night_diff_hours,
			leave_type_id, leave_request_id, breakdown
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Date,
		record.TimeIn, record.TimeOut, record.BreakStart, record.BreakEnd,
		record.IsPresent, record.IsAbsent, record.IsOnLeave, record.IsLate,
		record.IsUndertime, record.IsHalfDay, record.IsDayOff,
		record.IsRegularHoliday, record.IsSpecialHoliday,
		record.TotalHours, record.OvertimeHours, record.NightDiffHours,
		record.LeaveTypeID, record.LeaveRequestID, breakdownJSON,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return record, nil
}

// Upsert relies on the unique (employee_id, date) constraint: an existing
// employee-day is replaced in place and keeps its id.
func (r *attendanceRepository) Upsert(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, bool, error) {
	q := GetQuerier(ctx, r.db)

	breakdownJSON, _ := json.Marshal(record.Breakdown)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, time_in, time_out, break_start, break_end,
			is_present, is_absent, is_on_leave, is_late, is_undertime, is_half_day,
			is_day_off, is_regular_holiday, is_special_holiday,
			total_hours, overtime_hours, night_diff_hours,
			leave_type_id, leave_request_id, breakdown
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			time_in = EXCLUDED.time_in,
			time_out = EXCLUDED.time_out,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			is_present = EXCLUDED.is_present,
			is_absent = EXCLUDED.is_absent,
			is_on_leave = EXCLUDED.is_on_leave,
			is_late = EXCLUDED.is_late,
			is_undertime = EXCLUDED.is_undertime,
			is_half_day = EXCLUDED.is_half_day,
			is_day_off = EXCLUDED.is_day_off,
			is_regular_holiday = EXCLUDED.is_regular_holiday,
			is_special_holiday = EXCLUDED.is_special_holiday,
			total_hours = EXCLUDED.total_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			night_diff_hours = EXCLUDED.night_diff_hours,
			leave_type_id = EXCLUDED.leave_type_id,
			leave_request_id = EXCLUDED.leave_request_id,
			breakdown = EXCLUDED.breakdown,
			updated_at = now()
		RETURNING id, created_at, updated_at, (created_at <> updated_at) AS was_updated
	`

	var wasUpdated bool
	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Date,
		record.TimeIn, record.TimeOut, record.BreakStart, record.BreakEnd,
		record.IsPresent, record.IsAbsent, record.IsOnLeave, record.IsLate,
		record.IsUndertime, record.IsHalfDay, record.IsDayOff,
		record.IsRegularHoliday, record.IsSpecialHoliday,
		record.TotalHours, record.OvertimeHours, record.NightDiffHours,
		record.LeaveTypeID, record.LeaveRequestID, breakdownJSON,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt, &wasUpdated)
	if err != nil {
		return attendance.AttendanceRecord{}, false, fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return record, wasUpdated, nil
}

func (r *attendanceRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *attendanceRepository) GetByEmployeesAndPeriod(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string][]attendance.AttendanceRecord, error) {
	result := make(map[string][]attendance.AttendanceRecord)
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = ANY($1) AND date >= $2 AND date <= $3
		ORDER BY employee_id, date
	`

	rows, err := q.Query(ctx, query, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		result[rec.EmployeeID] = append(result[rec.EmployeeID], rec)
	}
	return result, rows.Err()
}

func (r *attendanceRepository) FindExisting(ctx context.Context, keys []attendance.DayKey) (map[attendance.DayKey]string, error) {
	result := make(map[attendance.DayKey]string)
	if len(keys) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	employeeIDs := make([]string, 0, len(keys))
	dates := make([]string, 0, len(keys))
	for _, key := range keys {
		employeeIDs = append(employeeIDs, key.EmployeeID)
		dates = append(dates, key.Date)
	}

	// unnest pairs the two arrays positionally, so each (employee, date)
	// tuple is matched exactly.
	query := `
		SELECT a.id, a.employee_id, to_char(a.date, 'YYYY-MM-DD')
		FROM attendance_records a
		JOIN unnest($1::text[], $2::date[]) AS k(employee_id, date)
		  ON a.employee_id = k.employee_id AND a.date = k.date
	`

	rows, err := q.Query(ctx, query, employeeIDs, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to find existing attendance records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var key attendance.DayKey
		if err := rows.Scan(&id, &key.EmployeeID, &key.Date); err != nil {
			return nil, fmt.Errorf("failed to scan existing attendance record: %w", err)
		}
		result[key] = id
	}
	return result, rows.Err()
}

func (r *attendanceRepository) DeleteByLeaveRequestFrom(ctx context.Context, leaveRequestID string, from time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM attendance_records WHERE leave_request_id = $1 AND date >= $2`

	tag, err := q.Exec(ctx, query, leaveRequestID, from)
	if err != nil {
		return 0, fmt.Errorf("failed to delete leave attendance records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
