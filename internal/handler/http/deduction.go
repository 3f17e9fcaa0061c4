package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
	"github.com/suweldohq/suweldo-backend-go/internal/handler/http/response"
)

type DeductionHandler interface {
	CreateLoan(w http.ResponseWriter, r *http.Request)
	GetLoan(w http.ResponseWriter, r *http.Request)
	ListLoans(w http.ResponseWriter, r *http.Request)
	RecordPayment(w http.ResponseWriter, r *http.Request)
	ListPayments(w http.ResponseWriter, r *http.Request)
}

type DeductionHandlerImpl struct {
	loanService deduction.LoanService
}

func NewDeductionHandler(loanService deduction.LoanService) DeductionHandler {
	return &DeductionHandlerImpl{loanService: loanService}
}

// CreateLoan implements DeductionHandler.
func (h *DeductionHandlerImpl) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req deduction.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateLoan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	loan, err := h.loanService.CreateLoan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan created", loan)
}

// GetLoan implements DeductionHandler.
func (h *DeductionHandlerImpl) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		response.BadRequest(w, "Loan ID is required", nil)
		return
	}

	loan, err := h.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan)
}

// ListLoans implements DeductionHandler.
func (h *DeductionHandlerImpl) ListLoans(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id query parameter is required", nil)
		return
	}

	loans, err := h.loanService.ListLoans(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loans)
}

// RecordPayment implements DeductionHandler.
func (h *DeductionHandlerImpl) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		response.BadRequest(w, "Loan ID is required", nil)
		return
	}

	var req deduction.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecordPayment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.LoanID = loanID

	payment, err := h.loanService.RecordPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment recorded", payment)
}

// ListPayments implements DeductionHandler.
func (h *DeductionHandlerImpl) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		response.BadRequest(w, "Loan ID is required", nil)
		return
	}

	payments, err := h.loanService.ListPayments(r.Context(), loanID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payments)
}
