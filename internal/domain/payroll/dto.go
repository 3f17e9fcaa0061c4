package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/validator"
)

// GeneratePayrollRequest selects the run's period and employee set. Exactly
// one selection mode applies: explicit ids, department ids, or all active.
type GeneratePayrollRequest struct {
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	EmployeeIDs   []string `json:"employee_ids,omitempty"`
	DepartmentIDs []string `json:"department_ids,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
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

	if len(r.EmployeeIDs) > 0 && len(r.DepartmentIDs) > 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_ids",
			Message: "employee_ids and department_ids are mutually exclusive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EmployeeResult is the per-employee success entry in a run summary.
type EmployeeResult struct {
	EmployeeID string          `json:"employee_id"`
	PayslipID  string          `json:"payslip_id"`
	GrossPay   decimal.Decimal `json:"gross_pay"`
	NetPay     decimal.Decimal `json:"net_pay"`
	DaysWorked int             `json:"days_worked"`
}

// EmployeeFailure records an isolated per-employee calculation failure.
type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// EmployeeConflict records an employee skipped by the duplicate guard.
type EmployeeConflict struct {
	EmployeeID string `json:"employee_id"`
	PayslipID  string `json:"existing_payslip_id"`
}

type RunSummaryResponse struct {
	RunID       string             `json:"run_id"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	GeneratedBy string             `json:"generated_by"`
	Succeeded   int                `json:"succeeded"`
	Failed      int                `json:"failed"`
	Skipped     int                `json:"skipped"`
	TotalGross  decimal.Decimal    `json:"total_gross"`
	TotalNet    decimal.Decimal    `json:"total_net"`
	Results     []EmployeeResult   `json:"results"`
	Failures    []EmployeeFailure  `json:"failures,omitempty"`
	Conflicts   []EmployeeConflict `json:"conflicts,omitempty"`
}

type PayslipResponse struct {
	ID              string              `json:"id"`
	PayrollHeaderID string              `json:"payroll_header_id"`
	EmployeeID      string              `json:"employee_id"`
	EmployeeName    string              `json:"employee_name,omitempty"`
	EmployeeCode    string              `json:"employee_code,omitempty"`
	GrossPay        decimal.Decimal     `json:"gross_pay"`
	Earnings        EarningsBreakdown   `json:"earnings"`
	Statutory       StatutoryDeductions `json:"statutory"`
	LoanDeductions  decimal.Decimal     `json:"loan_deductions"`
	NetPay          decimal.Decimal     `json:"net_pay"`
	DaysWorked      int                 `json:"days_worked"`
	DaysAbsent      int                 `json:"days_absent"`
	DaysLeave       int                 `json:"days_leave"`
}

type HeaderResponse struct {
	ID          string            `json:"id"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	GeneratedAt string            `json:"generated_at"`
	GeneratedBy string            `json:"generated_by"`
	Payslips    []PayslipResponse `json:"payslips,omitempty"`
}
