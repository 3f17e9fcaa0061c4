package response

import (
	"errors"
	"net/http"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/employee"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field-level validation failures
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Row-scoped import failures
	var rowErrs attendance.RowErrors
	if errors.As(err, &rowErrs) {
		rows := make([]RowDetail, 0, len(rowErrs))
		for _, e := range rowErrs {
			rows = append(rows, RowDetail{Row: e.Row, Message: e.Message})
		}
		RowValidationError(w, "Attendance batch validation failed", rows)
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is not active", nil)
	case errors.Is(err, employee.ErrNoRateConfigured):
		BadRequest(w, "Employee has no pay rate configured", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrEmptyBatch):
		BadRequest(w, "Attendance batch is empty", nil)
	case errors.Is(err, attendance.ErrDuplicateRowsInFile):
		Conflict(w, "Import file contains duplicate employee-day rows")
	case errors.Is(err, attendance.ErrOverwriteNotConfirmed):
		Conflict(w, "Existing attendance records found; confirm overwrite to proceed")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrLeaveRequestNotApproved):
		Conflict(w, "Leave request is not approved")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		NotFound(w, "Leave balance not found")

	// Deduction domain errors
	case errors.Is(err, deduction.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, deduction.ErrLoanInactive):
		BadRequest(w, "Loan is not active", nil)
	case errors.Is(err, deduction.ErrLedgerInconsistency):
		Conflict(w, "Payment would exceed the loan's remaining balance")
	case errors.Is(err, deduction.ErrInvalidFrequency):
		BadRequest(w, "Invalid payment frequency", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrHeaderNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPayslipAlreadyExists):
		Conflict(w, "Payslip already exists for this employee and period")
	case errors.Is(err, payroll.ErrEmptyEmployeeSelection):
		BadRequest(w, "No employees matched the payroll selection", nil)
	case errors.Is(err, payroll.ErrUnknownRateType):
		BadRequest(w, "Employee has an unknown rate type", nil)

	// Configuration errors surface the exact missing key
	case errors.Is(err, rateconfig.ErrConfigurationMissing):
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "CONFIGURATION_MISSING",
				Message: err.Error(),
			},
		})
	case errors.Is(err, rateconfig.ErrConfigurationNotFound):
		NotFound(w, "Rate configuration not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
