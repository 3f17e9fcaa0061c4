package deduction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LoanRepository defines data access for loans and their payment ledger.
// Mutations run inside the caller's transaction via the shared Querier
// resolution, so a payment row, balance update and next-date advance commit
// or roll back together.
type LoanRepository interface {
	Create(ctx context.Context, loan Loan) (Loan, error)
	GetByID(ctx context.Context, id string) (Loan, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Loan, error)

	// ListDeductibleForPeriod returns active auto-deduct loans whose next
	// deduction date falls on or before periodEnd, grouped by employee.
	ListDeductibleForPeriod(ctx context.Context, employeeIDs []string, periodEnd time.Time) (map[string][]Loan, error)

	// ApplyPayment atomically appends the payment row and updates the loan's
	// balance, installment count, next deduction date and active flag.
	ApplyPayment(ctx context.Context, payment DeductionPayment, balance decimal.Decimal, installmentsPaid int, nextDeductionDate time.Time, isActive bool) (DeductionPayment, error)

	ListPayments(ctx context.Context, loanID string) ([]DeductionPayment, error)
}

// LoanService defines loan operations exposed upstream and to payroll.
type LoanService interface {
	CreateLoan(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	GetLoan(ctx context.Context, id string) (LoanResponse, error)
	ListLoans(ctx context.Context, employeeID string) ([]LoanResponse, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (PaymentResponse, error)
	ListPayments(ctx context.Context, loanID string) ([]PaymentResponse, error)

	// ApplyForPeriod withholds this period's installments for one employee,
	// committing ledger rows as part of the supplied transaction context.
	// Returns the total withheld and the per-loan payments applied.
	ApplyForPeriod(ctx context.Context, employeeID string, loans []Loan, periodStart, periodEnd time.Time) (decimal.Decimal, []DeductionPayment, error)
}
