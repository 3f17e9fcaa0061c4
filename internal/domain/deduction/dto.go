package deduction

import (
	"github.com/shopspring/decimal"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/validator"
)

type CreateLoanRequest struct {
	EmployeeID        string          `json:"employee_id"`
	DeductionType     string          `json:"deduction_type"`
	Principal         decimal.Decimal `json:"principal"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentsTotal int             `json:"installments_total"`
	StartDate         string          `json:"start_date"`
	PaymentFrequency  string          `json:"payment_frequency"`
	AutoDeduct        *bool           `json:"auto_deduct,omitempty"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.DeductionType) {
		errs = append(errs, validator.ValidationError{
			Field:   "deduction_type",
			Message: "deduction_type is required",
		})
	}
	if !r.Principal.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "principal",
			Message: "principal must be positive",
		})
	}
	if !r.InstallmentAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "installment_amount",
			Message: "installment_amount must be positive",
		})
	}
	if r.InstallmentsTotal <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "installments_total",
			Message: "installments_total must be positive",
		})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	validFrequencies := []string{
		string(FrequencyWeekly),
		string(FrequencyBiWeekly),
		string(FrequencySemiMonthly),
		string(FrequencyMonthly),
	}
	if !validator.IsInSlice(r.PaymentFrequency, validFrequencies) {
		errs = append(errs, validator.ValidationError{
			Field:   "payment_frequency",
			Message: "payment_frequency must be one of weekly, bi_weekly, semi_monthly, monthly",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordPaymentRequest struct {
	LoanID string          `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
}

func (r *RecordPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LoanID) {
		errs = append(errs, validator.ValidationError{
			Field:   "loan_id",
			Message: "loan_id is required",
		})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoanResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	DeductionType     string          `json:"deduction_type"`
	Principal         decimal.Decimal `json:"principal"`
	RemainingBalance  decimal.Decimal `json:"remaining_balance"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentsTotal int             `json:"installments_total"`
	InstallmentsPaid  int             `json:"installments_paid"`
	StartDate         string          `json:"start_date"`
	EndDate           *string         `json:"end_date,omitempty"`
	PaymentFrequency  string          `json:"payment_frequency"`
	AutoDeduct        bool            `json:"auto_deduct"`
	NextDeductionDate string          `json:"next_deduction_date"`
	Status            string          `json:"status"`
}

type PaymentResponse struct {
	ID               string          `json:"id"`
	LoanID           string          `json:"loan_id"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	PeriodStart      *string         `json:"period_start,omitempty"`
	PeriodEnd        *string         `json:"period_end,omitempty"`
	PaidAt           string          `json:"paid_at"`
	Source           string          `json:"source"`
}
