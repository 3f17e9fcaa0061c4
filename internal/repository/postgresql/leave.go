package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) GetLeaveTypeByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, is_paid, created_at, updated_at FROM leave_types WHERE id = $1`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, id).Scan(&lt.ID, &lt.Name, &lt.IsPaid, &lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

func (r *leaveRepository) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, is_paid, created_at, updated_at FROM leave_types ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var lt leave.LeaveType
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.IsPaid, &lt.CreatedAt, &lt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

const leaveRequestColumns = `
	r.id, r.employee_id, r.leave_type_id, r.start_date, r.end_date,
	r.working_days, r.reason, r.status, r.approved_by, r.approved_at,
	r.created_at, r.updated_at, t.name
`

const leaveRequestFrom = ` FROM leave_requests r JOIN leave_types t ON t.id = r.leave_type_id `

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.WorkingDays, &req.Reason, &req.Status, &req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt, &req.LeaveTypeName,
	)
	return req, err
}

func (r *leaveRepository) CreateRequest(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, start_date, end_date,
			working_days, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate,
		req.WorkingDays, req.Reason, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return req, nil
}

func (r *leaveRepository) GetRequestByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `WHERE r.id = $1`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

func (r *leaveRepository) GetRequestsByIDs(ctx context.Context, ids []string) (map[string]leave.LeaveRequest, error) {
	result := make(map[string]leave.LeaveRequest)
	if len(ids) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `WHERE r.id = ANY($1)`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		result[req.ID] = req
	}
	return result, rows.Err()
}

func (r *leaveRepository) UpdateRequestStatus(ctx context.Context, id string, status leave.LeaveStatus, approvedBy *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
		    approved_by = $3,
		    approved_at = CASE WHEN $3::text IS NULL THEN approved_at ELSE now() END,
		    updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, status, approvedBy)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRepository) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, year, entitled_days, used_days, remaining_days, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.EntitledDays, &b.UsedDays, &b.RemainingDays, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// AdjustBalance applies a signed day delta; negative deltas consume balance,
// positive deltas restore it.
func (r *leaveRepository) AdjustBalance(ctx context.Context, employeeID, leaveTypeID string, year int, deltaDays float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days - $4,
		    remaining_days = remaining_days + $4,
		    updated_at = now()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	tag, err := q.Exec(ctx, query, employeeID, leaveTypeID, year, deltaDays)
	if err != nil {
		return fmt.Errorf("failed to adjust leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveBalanceNotFound
	}
	return nil
}
