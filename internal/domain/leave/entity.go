package leave

import "time"

// LeaveStatus enum
type LeaveStatus string

const (
	StatusPending   LeaveStatus = "pending"
	StatusApproved  LeaveStatus = "approved"
	StatusRejected  LeaveStatus = "rejected"
	StatusCancelled LeaveStatus = "cancelled"
)

// LeaveType - IsPaid decides whether on-leave days contribute paid hours to
// the attendance aggregate.
type LeaveType struct {
	ID        string
	Name      string
	IsPaid    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	WorkingDays int
	Reason      *string
	Status      LeaveStatus
	ApprovedBy  *string
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	LeaveTypeName *string
}

// Covers reports whether date falls inside the request's range (inclusive).
func (r LeaveRequest) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(r.StartDate.Truncate(24*time.Hour)) && !d.After(r.EndDate.Truncate(24*time.Hour))
}

// LeaveBalance tracks an employee's remaining days for one leave type & year.
type LeaveBalance struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   string
	Year          int
	EntitledDays  float64
	UsedDays      float64
	RemainingDays float64
	UpdatedAt     time.Time
}
