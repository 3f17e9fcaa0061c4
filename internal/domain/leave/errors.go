package leave

import "errors"

var (
	ErrLeaveTypeNotFound            = errors.New("leave type not found")
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveRequestNotApproved      = errors.New("leave request is not approved")
	ErrInsufficientBalance          = errors.New("insufficient leave balance")
	ErrLeaveBalanceNotFound         = errors.New("leave balance not found")
)
