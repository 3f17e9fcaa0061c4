package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/employee"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
	"github.com/suweldohq/suweldo-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db             *database.DB
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRepository
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
	}
}

func (s *AttendanceServiceImpl) PreviewImport(ctx context.Context, req attendance.ImportRequest) (attendance.ImportPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportPreviewResponse{}, err
	}

	result, err := s.validate(ctx, req.Rows)
	if err != nil {
		return attendance.ImportPreviewResponse{}, err
	}

	resp := attendance.ImportPreviewResponse{
		TotalRows:      len(req.Rows),
		ValidRows:      len(result.Records),
		Warnings:       result.Warnings,
		NeedsOverwrite: len(result.Warnings) > 0,
	}
	for _, e := range result.RowErrors {
		resp.Errors = append(resp.Errors, attendance.RowErrorResponse{Row: e.Row, Message: e.Message})
	}
	for _, dup := range result.FileDuplicates {
		for _, row := range dup.Rows {
			resp.Errors = append(resp.Errors, attendance.RowErrorResponse{
				Row:     row,
				Message: "duplicate of employee " + dup.EmployeeID + " on " + dup.Date + " within the same file",
			})
		}
	}
	resp.CanSubmit = len(resp.Errors) == 0 && resp.ValidRows > 0
	return resp, nil
}

// SubmitImport re-runs the full validation rather than trusting a previous
// preview: the database may have changed in between, and the rows the client
// sends back are authoritative.
func (s *AttendanceServiceImpl) SubmitImport(ctx context.Context, req attendance.SubmitImportRequest) (attendance.ImportSubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportSubmitResponse{}, err
	}

	result, err := s.validate(ctx, req.Rows)
	if err != nil {
		return attendance.ImportSubmitResponse{}, err
	}
	if result.HasFileDuplicates() {
		return attendance.ImportSubmitResponse{}, attendance.ErrDuplicateRowsInFile
	}
	if len(result.RowErrors) > 0 {
		return attendance.ImportSubmitResponse{}, result.RowErrors
	}
	if len(result.Warnings) > 0 && !req.OverwriteExisting {
		return attendance.ImportSubmitResponse{}, attendance.ErrOverwriteNotConfirmed
	}
	if len(result.Records) == 0 {
		return attendance.ImportSubmitResponse{}, attendance.ErrEmptyBatch
	}

	var resp attendance.ImportSubmitResponse
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		for _, record := range result.Records {
			record.ID = uuid.New().String()
			record.Breakdown = ClassifyDay(record)

			_, updated, err := s.attendanceRepo.Upsert(txCtx, record)
			if err != nil {
				return err
			}
			if updated {
				resp.Updated++
			} else {
				resp.Created++
			}
		}
		return nil
	})
	if err != nil {
		return attendance.ImportSubmitResponse{}, err
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) CreateManual(ctx context.Context, req attendance.ManualEntryRequest) (attendance.RecordResponse, error) {
	result, err := s.validate(ctx, []attendance.RawRow{req.Row})
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if len(result.RowErrors) > 0 {
		return attendance.RecordResponse{}, result.RowErrors
	}
	if len(result.Warnings) > 0 && !req.OverwriteExisting {
		return attendance.RecordResponse{}, attendance.ErrOverwriteNotConfirmed
	}
	if len(result.Records) == 0 {
		return attendance.RecordResponse{}, attendance.ErrEmptyBatch
	}

	record := result.Records[0]
	record.ID = uuid.New().String()
	record.Breakdown = ClassifyDay(record)

	saved, _, err := s.attendanceRepo.Upsert(ctx, record)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return toRecordResponse(saved), nil
}

func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.ListRecordsFilter) ([]attendance.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, filter.EmployeeID); err != nil {
		return nil, err
	}

	start, _ := time.Parse("2006-01-02", filter.StartDate)
	end, _ := time.Parse("2006-01-02", filter.EndDate)

	records, err := s.attendanceRepo.GetByEmployeeAndPeriod(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toRecordResponse(record))
	}
	return responses, nil
}

// validate assembles the batch context (referenced leave requests, persisted
// employee-days) and runs the pure batch validator over the rows.
func (s *AttendanceServiceImpl) validate(ctx context.Context, rows []attendance.RawRow) (BatchResult, error) {
	var leaveRequestIDs []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.LeaveRequestID != "" && !seen[row.LeaveRequestID] {
			seen[row.LeaveRequestID] = true
			leaveRequestIDs = append(leaveRequestIDs, row.LeaveRequestID)
		}
	}

	leaveRequests := make(map[string]leave.LeaveRequest)
	if len(leaveRequestIDs) > 0 {
		var err error
		leaveRequests, err = s.leaveRepo.GetRequestsByIDs(ctx, leaveRequestIDs)
		if err != nil {
			return BatchResult{}, err
		}
	}

	keys := make([]attendance.DayKey, 0, len(rows))
	for _, row := range rows {
		if row.EmployeeID != "" && row.Date != "" {
			keys = append(keys, attendance.DayKey{EmployeeID: row.EmployeeID, Date: row.Date})
		}
	}
	existing, err := s.attendanceRepo.FindExisting(ctx, keys)
	if err != nil {
		return BatchResult{}, err
	}

	return ValidateBatch(rows, BatchContext{
		LeaveRequests: leaveRequests,
		Existing:      existing,
	}), nil
}

func toRecordResponse(record attendance.AttendanceRecord) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:               record.ID,
		EmployeeID:       record.EmployeeID,
		Date:             record.Date.Format("2006-01-02"),
		IsPresent:        record.IsPresent,
		IsAbsent:         record.IsAbsent,
		IsOnLeave:        record.IsOnLeave,
		IsLate:           record.IsLate,
		IsUndertime:      record.IsUndertime,
		IsHalfDay:        record.IsHalfDay,
		IsDayOff:         record.IsDayOff,
		IsRegularHoliday: record.IsRegularHoliday,
		IsSpecialHoliday: record.IsSpecialHoliday,
		TotalHours:       record.TotalHours,
		OvertimeHours:    record.OvertimeHours,
		NightDiffHours:   record.NightDiffHours,
		LeaveTypeID:      record.LeaveTypeID,
		LeaveRequestID:   record.LeaveRequestID,
		Breakdown:        record.Breakdown,
	}
	if record.TimeIn != nil {
		v := record.TimeIn.Format(time.RFC3339)
		resp.TimeIn = &v
	}
	if record.TimeOut != nil {
		v := record.TimeOut.Format(time.RFC3339)
		resp.TimeOut = &v
	}
	return resp
}
