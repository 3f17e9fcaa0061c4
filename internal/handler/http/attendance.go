package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	PreviewImport(w http.ResponseWriter, r *http.Request)
	SubmitImport(w http.ResponseWriter, r *http.Request)
	CreateManual(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// PreviewImport implements AttendanceHandler.
func (h *AttendanceHandlerImpl) PreviewImport(w http.ResponseWriter, r *http.Request) {
	var req attendance.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PreviewImport decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	preview, err := h.attendanceService.PreviewImport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}

// SubmitImport implements AttendanceHandler.
func (h *AttendanceHandlerImpl) SubmitImport(w http.ResponseWriter, r *http.Request) {
	var req attendance.SubmitImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitImport decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.SubmitImport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance batch imported", result)
}

// CreateManual implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateManual decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.CreateManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance record saved", record)
}

// ListRecords implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := attendance.ListRecordsFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}

	records, err := h.attendanceService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
