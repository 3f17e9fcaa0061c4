package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
	"github.com/suweldohq/suweldo-backend-go/internal/handler/http/response"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/pdf"
)

type PayrollHandler interface {
	GenerateRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslipPDF(w http.ResponseWriter, r *http.Request)
	ListEmployeePayslips(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// GenerateRun implements PayrollHandler.
func (h *PayrollHandlerImpl) GenerateRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GenerateRun decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	summary, err := h.payrollService.GenerateRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run generated", summary)
}

// GetRun implements PayrollHandler.
func (h *PayrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.payrollService.GetRun(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, run)
}

// ListRuns implements PayrollHandler.
func (h *PayrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.payrollService.ListRuns(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, runs)
}

// GetPayslip implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "id")
	if payslipID == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	payslip, err := h.payrollService.GetPayslip(r.Context(), payslipID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip)
}

// DownloadPayslipPDF implements PayrollHandler.
func (h *PayrollHandlerImpl) DownloadPayslipPDF(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "id")
	if payslipID == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	payslip, err := h.payrollService.GetPayslip(r.Context(), payslipID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	run, err := h.payrollService.GetRun(r.Context(), payslip.PayrollHeaderID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	document, err := pdf.RenderPayslip(run, payslip)
	if err != nil {
		slog.Error("DownloadPayslipPDF render error", "error", err, "payslip_id", payslipID)
		response.InternalServerError(w, "Failed to render payslip PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s.pdf"`, payslipID))
	_, _ = w.Write(document)
}

// ListEmployeePayslips implements PayrollHandler.
func (h *PayrollHandlerImpl) ListEmployeePayslips(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	payslips, err := h.payrollService.ListEmployeePayslips(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslips)
}
