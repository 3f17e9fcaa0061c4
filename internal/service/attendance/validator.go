package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/validator"
)

// BatchContext carries the reference data the validator needs. The validator
// itself does no I/O: the caller snapshots leave requests and persisted
// employee-days beforehand.
type BatchContext struct {
	// LeaveRequests by id, for rule 9's cross checks.
	LeaveRequests map[string]leave.LeaveRequest
	// Existing maps persisted employee-days to their record ids.
	Existing map[attendance.DayKey]string
}

// FileDuplicate is a batch-level conflict: the same employee-day appears on
// more than one row of the same file.
type FileDuplicate struct {
	EmployeeID string
	Date       string
	Rows       []int
}

// BatchResult is everything the two-phase import protocol needs: the clean
// records, the row-scoped errors, the batch-level file duplicates, and the
// persisted-duplicate warnings.
type BatchResult struct {
	Records        []attendance.AttendanceRecord
	RowErrors      attendance.RowErrors
	FileDuplicates []FileDuplicate
	Warnings       []attendance.DuplicateWarning
}

// HasFileDuplicates reports whether the batch must be rejected outright.
func (r BatchResult) HasFileDuplicates() bool {
	return len(r.FileDuplicates) > 0
}

// ValidateBatch validates every row independently and then runs the duplicate
// passes over the validated set. A row with any validation failure is excluded
// from the clean set and reported; other rows are unaffected. The function is
// pure: re-running over the same inputs yields identical results.
func ValidateBatch(rows []attendance.RawRow, batchCtx BatchContext) BatchResult {
	var result BatchResult

	for _, row := range rows {
		record, errs := validateRow(row, batchCtx.LeaveRequests)
		if len(errs) > 0 {
			result.RowErrors = append(result.RowErrors, errs...)
			continue
		}
		result.Records = append(result.Records, record)
	}

	// Duplicate detection is a separate pass over the validated set.
	result.FileDuplicates = findFileDuplicates(rows, result.Records)
	result.Warnings = findPersistedDuplicates(rows, result.Records, batchCtx.Existing)

	return result
}

// validateRow applies the field-shape rules first; semantic rules only run
// once every field parsed, so one malformed field does not cascade.
func validateRow(row attendance.RawRow, leaveRequests map[string]leave.LeaveRequest) (attendance.AttendanceRecord, attendance.RowErrors) {
	var errs attendance.RowErrors
	fail := func(format string, args ...interface{}) {
		errs = append(errs, attendance.RowError{Row: row.RowNumber, Message: fmt.Sprintf(format, args...)})
	}

	// Rule 1: required fields present and well-formed.
	if validator.IsEmpty(row.EmployeeID) {
		fail("employee_id is required")
	}
	date, ok := validator.IsValidDate(row.Date)
	if !ok {
		fail("date %q is not a valid YYYY-MM-DD date", row.Date)
	}

	timeIn := parseOptionalTimestamp(row.TimeIn, "time_in", fail)
	timeOut := parseOptionalTimestamp(row.TimeOut, "time_out", fail)
	breakStart := parseOptionalTimestamp(row.BreakStart, "break_start", fail)
	breakEnd := parseOptionalTimestamp(row.BreakEnd, "break_end", fail)

	// Rule 2: numeric fields parse and are non-negative.
	totalHours, ok := validator.ParseHours(row.TotalHours)
	if !ok {
		fail("total_hours %q must be a non-negative number", row.TotalHours)
	}
	overtimeHours, ok := validator.ParseHours(row.OvertimeHours)
	if !ok {
		fail("overtime_hours %q must be a non-negative number", row.OvertimeHours)
	}
	nightDiffHours, ok := validator.ParseHours(row.NightDiffHours)
	if !ok {
		fail("night_diff_hours %q must be a non-negative number", row.NightDiffHours)
	}

	// Rule 3: boolean flags parse to true/false only.
	flags := map[string]string{
		"is_present":         row.IsPresent,
		"is_absent":          row.IsAbsent,
		"is_on_leave":        row.IsOnLeave,
		"is_late":            row.IsLate,
		"is_undertime":       row.IsUndertime,
		"is_half_day":        row.IsHalfDay,
		"is_day_off":         row.IsDayOff,
		"is_regular_holiday": row.IsRegularHoliday,
		"is_special_holiday": row.IsSpecialHoliday,
	}
	parsed := make(map[string]bool, len(flags))
	for field, raw := range flags {
		value, ok := validator.ParseBool(raw)
		if !ok {
			fail("%s %q must be true or false", field, raw)
			continue
		}
		parsed[field] = value
	}

	if len(errs) > 0 {
		return attendance.AttendanceRecord{}, errs
	}

	isPresent := parsed["is_present"]
	isAbsent := parsed["is_absent"]
	isOnLeave := parsed["is_on_leave"]
	isLate := parsed["is_late"]
	isUndertime := parsed["is_undertime"]
	isHalfDay := parsed["is_half_day"]
	isDayOff := parsed["is_day_off"]
	isRegularHoliday := parsed["is_regular_holiday"]
	isSpecialHoliday := parsed["is_special_holiday"]

	// Rule 4: primary state exclusivity.
	var primary []string
	if isPresent {
		primary = append(primary, "present")
	}
	if isAbsent {
		primary = append(primary, "absent")
	}
	if isOnLeave {
		primary = append(primary, "on-leave")
	}
	if len(primary) > 1 {
		fail("states %s are mutually exclusive", strings.Join(primary, ", "))
	}

	// Rule 5: secondary states depend on the primary state.
	if !isPresent {
		if isLate {
			fail("is_late requires is_present")
		}
		if isUndertime {
			fail("is_undertime requires is_present")
		}
		if isHalfDay {
			fail("is_half_day requires is_present")
		}
		if overtimeHours > 0 {
			fail("overtime_hours require is_present")
		}
		if totalHours > 0 {
			fail("total_hours require is_present")
		}
	}
	if overtimeHours > totalHours {
		fail("overtime_hours cannot exceed total_hours")
	}

	// Rule 6: day-off handling.
	if isDayOff && isAbsent {
		fail("is_day_off and is_absent cannot be combined; a day off supersedes absence")
	}
	if isDayOff && isPresent && (timeIn == nil || timeOut == nil) {
		fail("working on a day off requires explicit time_in and time_out")
	}

	// Rule 7: time ordering.
	if isPresent && timeIn != nil && timeOut != nil && !timeOut.After(*timeIn) {
		fail("time_out must be after time_in")
	}

	// Rule 8: holiday exclusivity.
	if isRegularHoliday && isSpecialHoliday {
		fail("is_regular_holiday and is_special_holiday are mutually exclusive")
	}

	// Rule 9: leave references.
	var leaveTypeID, leaveRequestID *string
	if isOnLeave {
		if validator.IsEmpty(row.LeaveTypeID) {
			fail("on-leave records require a leave_type_id")
		} else {
			id := strings.TrimSpace(row.LeaveTypeID)
			leaveTypeID = &id
		}
	}
	if !validator.IsEmpty(row.LeaveRequestID) {
		id := strings.TrimSpace(row.LeaveRequestID)
		leaveRequestID = &id
		request, found := leaveRequests[id]
		switch {
		case !found:
			fail("leave request %s does not exist", id)
		case request.EmployeeID != strings.TrimSpace(row.EmployeeID):
			fail("leave request %s belongs to a different employee", id)
		case request.Status != leave.StatusApproved:
			fail("leave request %s is not approved", id)
		case !request.Covers(date):
			fail("date %s is outside leave request %s's range", row.Date, id)
		case leaveTypeID != nil && request.LeaveTypeID != *leaveTypeID:
			fail("leave_type_id does not match leave request %s", id)
		}
	}

	if len(errs) > 0 {
		return attendance.AttendanceRecord{}, errs
	}

	return attendance.AttendanceRecord{
		EmployeeID:       strings.TrimSpace(row.EmployeeID),
		Date:             date,
		TimeIn:           timeIn,
		TimeOut:          timeOut,
		BreakStart:       breakStart,
		BreakEnd:         breakEnd,
		IsPresent:        isPresent,
		IsAbsent:         isAbsent,
		IsOnLeave:        isOnLeave,
		IsLate:           isLate,
		IsUndertime:      isUndertime,
		IsHalfDay:        isHalfDay,
		IsDayOff:         isDayOff,
		IsRegularHoliday: isRegularHoliday,
		IsSpecialHoliday: isSpecialHoliday,
		TotalHours:       totalHours,
		OvertimeHours:    overtimeHours,
		NightDiffHours:   nightDiffHours,
		LeaveTypeID:      leaveTypeID,
		LeaveRequestID:   leaveRequestID,
	}, nil
}

func parseOptionalTimestamp(raw, field string, fail func(string, ...interface{})) *time.Time {
	if validator.IsEmpty(raw) {
		return nil
	}
	t, ok := validator.IsValidDateTime(raw)
	if !ok {
		fail("%s %q must be a fully-qualified ISO8601 timestamp", field, raw)
		return nil
	}
	return &t
}

// findFileDuplicates locates employee-days appearing on more than one row of
// the batch. These are hard errors: the whole batch is rejected so the caller
// can fix the file rather than guess which row wins.
func findFileDuplicates(rows []attendance.RawRow, records []attendance.AttendanceRecord) []FileDuplicate {
	rowNumbers := rowNumbersByKey(rows, records)

	var duplicates []FileDuplicate
	keys := make([]attendance.DayKey, 0, len(rowNumbers))
	for key := range rowNumbers {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].EmployeeID != keys[j].EmployeeID {
			return keys[i].EmployeeID < keys[j].EmployeeID
		}
		return keys[i].Date < keys[j].Date
	})
	for _, key := range keys {
		if len(rowNumbers[key]) > 1 {
			duplicates = append(duplicates, FileDuplicate{
				EmployeeID: key.EmployeeID,
				Date:       key.Date,
				Rows:       rowNumbers[key],
			})
		}
	}
	return duplicates
}

// findPersistedDuplicates flags validated rows whose employee-day already has
// a stored record. Warnings, not errors: the submit phase needs an explicit
// overwrite confirmation for them.
func findPersistedDuplicates(rows []attendance.RawRow, records []attendance.AttendanceRecord, existing map[attendance.DayKey]string) []attendance.DuplicateWarning {
	if len(existing) == 0 {
		return nil
	}
	rowNumbers := rowNumbersByKey(rows, records)

	var warnings []attendance.DuplicateWarning
	for _, record := range records {
		key := record.Key()
		existingID, found := existing[key]
		if !found {
			continue
		}
		numbers := rowNumbers[key]
		row := 0
		if len(numbers) > 0 {
			row = numbers[0]
		}
		warnings = append(warnings, attendance.DuplicateWarning{
			Row:              row,
			EmployeeID:       key.EmployeeID,
			Date:             key.Date,
			ExistingRecordID: existingID,
		})
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Row < warnings[j].Row })
	return warnings
}

// rowNumbersByKey maps each validated employee-day to the row numbers that
// produced it, in file order.
func rowNumbersByKey(rows []attendance.RawRow, records []attendance.AttendanceRecord) map[attendance.DayKey][]int {
	validKeys := make(map[attendance.DayKey]bool, len(records))
	for _, record := range records {
		validKeys[record.Key()] = true
	}

	rowNumbers := make(map[attendance.DayKey][]int)
	for _, row := range rows {
		date, ok := validator.IsValidDate(row.Date)
		if !ok {
			continue
		}
		key := attendance.DayKey{
			EmployeeID: strings.TrimSpace(row.EmployeeID),
			Date:       date.Format("2006-01-02"),
		}
		if !validKeys[key] {
			continue
		}
		rowNumbers[key] = append(rowNumbers[key], row.RowNumber)
	}
	return rowNumbers
}
