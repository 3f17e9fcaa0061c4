package attendance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAttendanceNotFound     = errors.New("attendance record not found")
	ErrEmptyBatch             = errors.New("attendance batch contains no rows")
	ErrDuplicateRowsInFile    = errors.New("batch contains duplicate rows for the same employee and date")
	ErrOverwriteNotConfirmed  = errors.New("attendance already exists for employee and date; overwrite not confirmed")
	ErrBatchValidationFailed  = errors.New("attendance batch failed validation")
	ErrLeaveReferenceMismatch = errors.New("leave request reference does not match the attendance record")
)

// RowError is a row-scoped validation failure; Row is 1-based as received
// from the import file.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

type RowErrors []RowError

func (v RowErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
