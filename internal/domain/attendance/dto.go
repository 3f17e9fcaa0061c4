package attendance

import (
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/validator"
)

// RawRow is one attendance row exactly as it arrived from the import file or
// form: every field still a string, validated and typed by the batch
// validator. RowNumber is carried through for error reporting.
type RawRow struct {
	RowNumber int `json:"row_number"`

	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`

	TimeIn     string `json:"time_in,omitempty"`
	TimeOut    string `json:"time_out,omitempty"`
	BreakStart string `json:"break_start,omitempty"`
	BreakEnd   string `json:"break_end,omitempty"`

	IsPresent        string `json:"is_present,omitempty"`
	IsAbsent         string `json:"is_absent,omitempty"`
	IsOnLeave        string `json:"is_on_leave,omitempty"`
	IsLate           string `json:"is_late,omitempty"`
	IsUndertime      string `json:"is_undertime,omitempty"`
	IsHalfDay        string `json:"is_half_day,omitempty"`
	IsDayOff         string `json:"is_day_off,omitempty"`
	IsRegularHoliday string `json:"is_regular_holiday,omitempty"`
	IsSpecialHoliday string `json:"is_special_holiday,omitempty"`

	TotalHours     string `json:"total_hours,omitempty"`
	OvertimeHours  string `json:"overtime_hours,omitempty"`
	NightDiffHours string `json:"night_diff_hours,omitempty"`

	LeaveTypeID    string `json:"leave_type_id,omitempty"`
	LeaveRequestID string `json:"leave_request_id,omitempty"`
}

// ImportRequest is the preview phase: validate and detect duplicates without
// persisting anything.
type ImportRequest struct {
	Rows []RawRow `json:"rows"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rows",
			Message: "at least one attendance row is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SubmitImportRequest is the commit phase. The previewed rows are sent back
// with an explicit overwrite decision for persisted duplicates.
type SubmitImportRequest struct {
	Rows              []RawRow `json:"rows"`
	OverwriteExisting bool     `json:"overwrite_existing"`
}

func (r *SubmitImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rows",
			Message: "at least one attendance row is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualEntryRequest records a single attendance day through the same
// validation rules as the bulk path.
type ManualEntryRequest struct {
	Row               RawRow `json:"row"`
	OverwriteExisting bool   `json:"overwrite_existing"`
}

type RowErrorResponse struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// DuplicateWarning flags a row whose employee/date already has a persisted
// record. It is a warning, not an error: submission decides.
type DuplicateWarning struct {
	Row              int    `json:"row"`
	EmployeeID       string `json:"employee_id"`
	Date             string `json:"date"`
	ExistingRecordID string `json:"existing_record_id"`
}

type ImportPreviewResponse struct {
	TotalRows      int                `json:"total_rows"`
	ValidRows      int                `json:"valid_rows"`
	Errors         []RowErrorResponse `json:"errors,omitempty"`
	Warnings       []DuplicateWarning `json:"warnings,omitempty"`
	CanSubmit      bool               `json:"can_submit"`
	NeedsOverwrite bool               `json:"needs_overwrite"`
}

type ImportSubmitResponse struct {
	Created int                `json:"created"`
	Updated int                `json:"updated"`
	Errors  []RowErrorResponse `json:"errors,omitempty"`
}

type RecordResponse struct {
	ID               string       `json:"id"`
	EmployeeID       string       `json:"employee_id"`
	Date             string       `json:"date"`
	TimeIn           *string      `json:"time_in,omitempty"`
	TimeOut          *string      `json:"time_out,omitempty"`
	IsPresent        bool         `json:"is_present"`
	IsAbsent         bool         `json:"is_absent"`
	IsOnLeave        bool         `json:"is_on_leave"`
	IsLate           bool         `json:"is_late"`
	IsUndertime      bool         `json:"is_undertime"`
	IsHalfDay        bool         `json:"is_half_day"`
	IsDayOff         bool         `json:"is_day_off"`
	IsRegularHoliday bool         `json:"is_regular_holiday"`
	IsSpecialHoliday bool         `json:"is_special_holiday"`
	TotalHours       float64      `json:"total_hours"`
	OvertimeHours    float64      `json:"overtime_hours"`
	NightDiffHours   float64      `json:"night_diff_hours"`
	LeaveTypeID      *string      `json:"leave_type_id,omitempty"`
	LeaveRequestID   *string      `json:"leave_request_id,omitempty"`
	Breakdown        DayBreakdown `json:"breakdown"`
}

type ListRecordsFilter struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (f *ListRecordsFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	start, okStart := validator.IsValidDate(f.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(f.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
