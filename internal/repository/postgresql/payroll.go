package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) GetHeaderByPeriod(ctx context.Context, start, end time.Time) (payroll.PayrollHeader, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, start_date, end_date, generated_at, generated_by, created_at, updated_at
		FROM payroll_headers
		WHERE start_date = $1 AND end_date = $2
	`

	var header payroll.PayrollHeader
	err := q.QueryRow(ctx, query, start, end).Scan(
		&header.ID, &header.StartDate, &header.EndDate,
		&header.GeneratedAt, &header.GeneratedBy,
		&header.CreatedAt, &header.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollHeader{}, payroll.ErrHeaderNotFound
		}
		return payroll.PayrollHeader{}, fmt.Errorf("failed to get payroll header: %w", err)
	}
	return header, nil
}

func (r *payrollRepository) CreateHeader(ctx context.Context, header payroll.PayrollHeader) (payroll.PayrollHeader, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_headers (id, start_date, end_date, generated_at, generated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		header.ID, header.StartDate, header.EndDate, header.GeneratedAt, header.GeneratedBy,
	).Scan(&header.CreatedAt, &header.UpdatedAt)
	if err != nil {
		return payroll.PayrollHeader{}, fmt.Errorf("failed to create payroll header: %w", err)
	}
	return header, nil
}

func (r *payrollRepository) GetHeaderByID(ctx context.Context, id string) (payroll.PayrollHeader, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, start_date, end_date, generated_at, generated_by, created_at, updated_at
		FROM payroll_headers
		WHERE id = $1
	`

	var header payroll.PayrollHeader
	err := q.QueryRow(ctx, query, id).Scan(
		&header.ID, &header.StartDate, &header.EndDate,
		&header.GeneratedAt, &header.GeneratedBy,
		&header.CreatedAt, &header.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollHeader{}, payroll.ErrHeaderNotFound
		}
		return payroll.PayrollHeader{}, fmt.Errorf("failed to get payroll header: %w", err)
	}
	return header, nil
}

func (r *payrollRepository) ListHeaders(ctx context.Context) ([]payroll.PayrollHeader, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, start_date, end_date, generated_at, generated_by, created_at, updated_at
		FROM payroll_headers
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll headers: %w", err)
	}
	defer rows.Close()

	var headers []payroll.PayrollHeader
	for rows.Next() {
		var header payroll.PayrollHeader
		if err := rows.Scan(
			&header.ID, &header.StartDate, &header.EndDate,
			&header.GeneratedAt, &header.GeneratedBy,
			&header.CreatedAt, &header.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll header: %w", err)
		}
		headers = append(headers, header)
	}
	return headers, rows.Err()
}

const payslipColumns = `
	p.id, p.payroll_header_id, p.employee_id,
	p.gross_pay, p.earnings, p.statutory, p.loan_deductions, p.net_pay,
	p.days_worked, p.days_absent, p.days_leave,
	p.created_at, p.updated_at, e.full_name, e.employee_code
`

const payslipFrom = ` FROM payslips p JOIN employees e ON e.id = p.employee_id `

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var earningsBytes, statutoryBytes []byte
	err := row.Scan(
		&p.ID, &p.PayrollHeaderID, &p.EmployeeID,
		&p.GrossPay, &earningsBytes, &statutoryBytes, &p.LoanDeductions, &p.NetPay,
		&p.DaysWorked, &p.DaysAbsent, &p.DaysLeave,
		&p.CreatedAt, &p.UpdatedAt, &p.EmployeeName, &p.EmployeeCode,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}
	_ = json.Unmarshal(earningsBytes, &p.Earnings)
	_ = json.Unmarshal(statutoryBytes, &p.Statutory)
	return p, nil
}

func (r *payrollRepository) CreatePayslip(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	earningsJSON, _ := json.Marshal(payslip.Earnings)
	statutoryJSON, _ := json.Marshal(payslip.Statutory)

	query := `
		INSERT INTO payslips (
			id, payroll_header_id, employee_id,
			gross_pay, earnings, statutory, loan_deductions, net_pay,
			days_worked, days_absent, days_leave
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		payslip.ID, payslip.PayrollHeaderID, payslip.EmployeeID,
		payslip.GrossPay, earningsJSON, statutoryJSON, payslip.LoanDeductions, payslip.NetPay,
		payslip.DaysWorked, payslip.DaysAbsent, payslip.DaysLeave,
	).Scan(&payslip.CreatedAt, &payslip.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Payslip{}, payroll.ErrPayslipAlreadyExists
		}
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return payslip, nil
}

func (r *payrollRepository) GetPayslipByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + payslipFrom + `WHERE p.id = $1`

	p, err := scanPayslip(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ListPayslipsByHeader(ctx context.Context, headerID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + payslipFrom + `
		WHERE p.payroll_header_id = $1
		ORDER BY e.employee_code`

	rows, err := q.Query(ctx, query, headerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	return collectPayslips(rows)
}

func (r *payrollRepository) ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + payslipFrom + `
		WHERE p.employee_id = $1
		ORDER BY p.created_at DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	return collectPayslips(rows)
}

// FindExistingPayslips backs the duplicate-generation guard: any payslip
// whose header covers the exact same period blocks regeneration for that
// employee.
func (r *payrollRepository) FindExistingPayslips(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string]string, error) {
	result := make(map[string]string)
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.employee_id, p.id
		FROM payslips p
		JOIN payroll_headers h ON h.id = p.payroll_header_id
		WHERE p.employee_id = ANY($1) AND h.start_date = $2 AND h.end_date = $3
	`

	rows, err := q.Query(ctx, query, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find existing payslips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID, payslipID string
		if err := rows.Scan(&employeeID, &payslipID); err != nil {
			return nil, fmt.Errorf("failed to scan existing payslip: %w", err)
		}
		result[employeeID] = payslipID
	}
	return result, rows.Err()
}

func collectPayslips(rows pgx.Rows) ([]payroll.Payslip, error) {
	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}
