package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) deduction.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, employee_id, deduction_type, principal, remaining_balance,
	installment_amount, installments_total, installments_paid,
	start_date, end_date, payment_frequency, auto_deduct,
	next_deduction_date, is_active, created_at, updated_at
`

func scanLoan(row pgx.Row) (deduction.Loan, error) {
	var loan deduction.Loan
	err := row.Scan(
		&loan.ID, &loan.EmployeeID, &loan.DeductionType, &loan.Principal, &loan.RemainingBalance,
		&loan.InstallmentAmount, &loan.InstallmentsTotal, &loan.InstallmentsPaid,
		&loan.StartDate, &loan.EndDate, &loan.PaymentFrequency, &loan.AutoDeduct,
		&loan.NextDeductionDate, &loan.IsActive, &loan.CreatedAt, &loan.UpdatedAt,
	)
	return loan, err
}

func (r *loanRepository) Create(ctx context.Context, loan deduction.Loan) (deduction.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_loans (
			id, employee_id, deduction_type, principal, remaining_balance,
			installment_amount, installments_total, installments_paid,
			start_date, end_date, payment_frequency, auto_deduct,
			next_deduction_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		loan.ID, loan.EmployeeID, loan.DeductionType, loan.Principal, loan.RemainingBalance,
		loan.InstallmentAmount, loan.InstallmentsTotal, loan.InstallmentsPaid,
		loan.StartDate, loan.EndDate, loan.PaymentFrequency, loan.AutoDeduct,
		loan.NextDeductionDate, loan.IsActive,
	).Scan(&loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return deduction.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return loan, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (deduction.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM employee_loans WHERE id = $1`

	loan, err := scanLoan(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return deduction.Loan{}, deduction.ErrLoanNotFound
		}
		return deduction.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

func (r *loanRepository) ListByEmployee(ctx context.Context, employeeID string) ([]deduction.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM employee_loans WHERE employee_id = $1 ORDER BY start_date DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func (r *loanRepository) ListDeductibleForPeriod(ctx context.Context, employeeIDs []string, periodEnd time.Time) (map[string][]deduction.Loan, error) {
	result := make(map[string][]deduction.Loan)
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + loanColumns + `
		FROM employee_loans
		WHERE employee_id = ANY($1)
		  AND is_active = true
		  AND auto_deduct = true
		  AND remaining_balance > 0
		  AND next_deduction_date <= $2
		ORDER BY employee_id, start_date
	`

	rows, err := q.Query(ctx, query, employeeIDs, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductible loans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		result[loan.EmployeeID] = append(result[loan.EmployeeID], loan)
	}
	return result, rows.Err()
}

// ApplyPayment writes the ledger row and the loan update together. Callers
// run it inside a transaction so the two statements commit or roll back as
// one.
func (r *loanRepository) ApplyPayment(ctx context.Context, payment deduction.DeductionPayment, balance decimal.Decimal, installmentsPaid int, nextDeductionDate time.Time, isActive bool) (deduction.DeductionPayment, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO deduction_payments (
			id, loan_id, amount, resulting_balance, period_start, period_end, paid_at, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, insertQuery,
		payment.ID, payment.LoanID, payment.Amount, payment.ResultingBalance,
		payment.PeriodStart, payment.PeriodEnd, payment.PaidAt, payment.Source,
	).Scan(&payment.CreatedAt)
	if err != nil {
		return deduction.DeductionPayment{}, fmt.Errorf("failed to insert deduction payment: %w", err)
	}

	updateQuery := `
		UPDATE employee_loans
		SET remaining_balance = $2,
		    installments_paid = $3,
		    next_deduction_date = $4,
		    is_active = $5,
		    updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, updateQuery, payment.LoanID, balance, installmentsPaid, nextDeductionDate, isActive)
	if err != nil {
		return deduction.DeductionPayment{}, fmt.Errorf("failed to update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return deduction.DeductionPayment{}, deduction.ErrLoanNotFound
	}
	return payment, nil
}

func (r *loanRepository) ListPayments(ctx context.Context, loanID string) ([]deduction.DeductionPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, loan_id, amount, resulting_balance, period_start, period_end, paid_at, source, created_at
		FROM deduction_payments
		WHERE loan_id = $1
		ORDER BY paid_at DESC
	`

	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction payments: %w", err)
	}
	defer rows.Close()

	var payments []deduction.DeductionPayment
	for rows.Next() {
		var p deduction.DeductionPayment
		if err := rows.Scan(
			&p.ID, &p.LoanID, &p.Amount, &p.ResultingBalance,
			&p.PeriodStart, &p.PeriodEnd, &p.PaidAt, &p.Source, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deduction payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func collectLoans(rows pgx.Rows) ([]deduction.Loan, error) {
	var loans []deduction.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
