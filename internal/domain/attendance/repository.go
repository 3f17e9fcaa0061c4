package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// Upsert replaces the record for the same (employee, date) if one exists.
	// Used only by the confirmed-overwrite submit path.
	Upsert(ctx context.Context, record AttendanceRecord) (AttendanceRecord, bool, error)

	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceRecord, error)

	// GetByEmployeesAndPeriod batch-fetches records for a payroll run,
	// grouped by employee id.
	GetByEmployeesAndPeriod(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string][]AttendanceRecord, error)

	// FindExisting returns the persisted record ids for any of the given
	// employee-days. Used for duplicate detection in both preview and the
	// re-check immediately before submit.
	FindExisting(ctx context.Context, keys []DayKey) (map[DayKey]string, error)

	// DeleteByLeaveRequestFrom removes the on-leave records a leave approval
	// created, from the given date forward. Returns the number removed.
	DeleteByLeaveRequestFrom(ctx context.Context, leaveRequestID string, from time.Time) (int, error)
}

// AttendanceService defines the attendance operations exposed upstream.
type AttendanceService interface {
	// PreviewImport validates the batch and detects duplicates. Nothing is
	// persisted.
	PreviewImport(ctx context.Context, req ImportRequest) (ImportPreviewResponse, error)

	// SubmitImport re-validates, re-checks persisted duplicates, and commits
	// the batch. Persisted duplicates require OverwriteExisting.
	SubmitImport(ctx context.Context, req SubmitImportRequest) (ImportSubmitResponse, error)

	// CreateManual records one day through the same rules as the bulk path.
	CreateManual(ctx context.Context, req ManualEntryRequest) (RecordResponse, error)

	ListRecords(ctx context.Context, filter ListRecordsFilter) ([]RecordResponse, error)
}
