package leave

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
)

type balanceAdjustment struct {
	employeeID  string
	leaveTypeID string
	year        int
	deltaDays   float64
}

type fakeLeaveRepo struct {
	leave.LeaveRepository

	requests    map[string]leave.LeaveRequest
	adjustments []balanceAdjustment
}

func (f *fakeLeaveRepo) GetRequestByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (f *fakeLeaveRepo) UpdateRequestStatus(_ context.Context, id string, status leave.LeaveStatus, approvedBy *string) error {
	request := f.requests[id]
	request.Status = status
	request.ApprovedBy = approvedBy
	f.requests[id] = request
	return nil
}

func (f *fakeLeaveRepo) AdjustBalance(_ context.Context, employeeID, leaveTypeID string, year int, deltaDays float64) error {
	f.adjustments = append(f.adjustments, balanceAdjustment{
		employeeID:  employeeID,
		leaveTypeID: leaveTypeID,
		year:        year,
		deltaDays:   deltaDays,
	})
	return nil
}

type fakeCancelAttendanceRepo struct {
	attendance.AttendanceRepository

	removed       int
	deletedFrom   *time.Time
	deletedForReq string
}

func (f *fakeCancelAttendanceRepo) DeleteByLeaveRequestFrom(_ context.Context, leaveRequestID string, from time.Time) (int, error) {
	f.deletedForReq = leaveRequestID
	f.deletedFrom = &from
	return f.removed, nil
}

func approvedRequest() leave.LeaveRequest {
	approver := "user-9"
	return leave.LeaveRequest{
		ID:          "req-1",
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-vacation",
		StartDate:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
		WorkingDays: 5,
		Status:      leave.StatusApproved,
		ApprovedBy:  &approver,
	}
}

func newCancelService(leaveRepo *fakeLeaveRepo, attendanceRepo *fakeCancelAttendanceRepo) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		runTx: func(ctx context.Context, _ *database.DB, fn func(tx pgx.Tx) error) error {
			return fn(nil)
		},
	}
}

func TestCancelRequest_RestoresBalanceForRemovedDays(t *testing.T) {
	t.Parallel()
	leaveRepo := &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{"req-1": approvedRequest()}}
	attendanceRepo := &fakeCancelAttendanceRepo{removed: 3}
	svc := newCancelService(leaveRepo, attendanceRepo)

	resp, err := svc.CancelRequest(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, string(leave.StatusCancelled), resp.Status)
	assert.Equal(t, "req-1", attendanceRepo.deletedForReq)
	require.NotNil(t, attendanceRepo.deletedFrom)

	// The balance gets back exactly one day per removed attendance row, no
	// more: days already taken before the cancellation stay deducted.
	require.Len(t, leaveRepo.adjustments, 1)
	adj := leaveRepo.adjustments[0]
	assert.Equal(t, "emp-1", adj.employeeID)
	assert.Equal(t, "lt-vacation", adj.leaveTypeID)
	assert.Equal(t, 2025, adj.year)
	assert.Equal(t, float64(3), adj.deltaDays)
}

func TestCancelRequest_FullyTakenLeaveKeepsBalance(t *testing.T) {
	t.Parallel()
	leaveRepo := &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{"req-1": approvedRequest()}}
	attendanceRepo := &fakeCancelAttendanceRepo{removed: 0}
	svc := newCancelService(leaveRepo, attendanceRepo)

	resp, err := svc.CancelRequest(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, string(leave.StatusCancelled), resp.Status)
	assert.Empty(t, leaveRepo.adjustments)
}

func TestCancelRequest_RequiresApprovedRequest(t *testing.T) {
	t.Parallel()
	pending := approvedRequest()
	pending.Status = leave.StatusPending
	pending.ApprovedBy = nil
	leaveRepo := &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{"req-1": pending}}
	attendanceRepo := &fakeCancelAttendanceRepo{}
	svc := newCancelService(leaveRepo, attendanceRepo)

	_, err := svc.CancelRequest(context.Background(), "req-1")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotApproved)
	assert.Empty(t, leaveRepo.adjustments)
	assert.Empty(t, attendanceRepo.deletedForReq)
}
