package leave

import (
	"context"
)

// LeaveRepository defines data access for leave types, requests and balances.
type LeaveRepository interface {
	GetLeaveTypeByID(ctx context.Context, id string) (LeaveType, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)

	CreateRequest(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetRequestByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetRequestsByIDs batch-fetches requests for the attendance validator's
	// leave-reference checks.
	GetRequestsByIDs(ctx context.Context, ids []string) (map[string]LeaveRequest, error)

	UpdateRequestStatus(ctx context.Context, id string, status LeaveStatus, approvedBy *string) error

	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	AdjustBalance(ctx context.Context, employeeID, leaveTypeID string, year int, deltaDays float64) error
}

// LeaveService defines the leave operations the payroll platform exposes.
type LeaveService interface {
	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	// ApproveRequest deducts the balance and creates on-leave attendance
	// records for every working day in the window, in one transaction.
	ApproveRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)

	// CancelRequest restores exactly the days the approval deducted and
	// removes only the still-future attendance records it created.
	CancelRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)

	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalanceResponse, error)
}
