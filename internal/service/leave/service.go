package leave

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/employee"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
	"github.com/suweldohq/suweldo-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	db             *database.DB
	leaveRepo      leave.LeaveRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository

	// runTx is postgresql.WithTransaction; a field so service tests can run
	// the approval and cancellation flows against fakes.
	runTx func(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error
}

func NewLeaveService(
	db *database.DB,
	leaveRepo leave.LeaveRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:             db,
		leaveRepo:      leaveRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		runTx:          postgresql.WithTransaction,
	}
}

func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !emp.IsActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	if _, err := s.leaveRepo.GetLeaveTypeByID(ctx, req.LeaveTypeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	request := leave.LeaveRequest{
		ID:          uuid.New().String(),
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		WorkingDays: countWorkingDays(start, end),
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	}

	created, err := s.leaveRepo.CreateRequest(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(created), nil
}

// ApproveRequest deducts the balance and materializes one on-leave attendance
// record per working day, all in one transaction: payroll sees either the
// fully approved leave or none of it.
func (s *LeaveServiceImpl) ApproveRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	approverID, err := getUserIDFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.leaveRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	year := request.StartDate.Year()
	balance, err := s.leaveRepo.GetBalance(ctx, request.EmployeeID, request.LeaveTypeID, year)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if balance.RemainingDays < float64(request.WorkingDays) {
		return leave.LeaveRequestResponse{}, leave.ErrInsufficientBalance
	}

	err = s.runTx(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.leaveRepo.UpdateRequestStatus(txCtx, request.ID, leave.StatusApproved, &approverID); err != nil {
			return err
		}
		if err := s.leaveRepo.AdjustBalance(txCtx, request.EmployeeID, request.LeaveTypeID, year, -float64(request.WorkingDays)); err != nil {
			return err
		}

		leaveTypeID := request.LeaveTypeID
		leaveRequestID := request.ID
		for d := request.StartDate; !d.After(request.EndDate); d = d.AddDate(0, 0, 1) {
			if isWeekend(d) {
				continue
			}
			record := attendance.AttendanceRecord{
				ID:             uuid.New().String(),
				EmployeeID:     request.EmployeeID,
				Date:           d,
				IsOnLeave:      true,
				LeaveTypeID:    &leaveTypeID,
				LeaveRequestID: &leaveRequestID,
			}
			if _, _, err := s.attendanceRepo.Upsert(txCtx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	approved, err := s.leaveRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(approved), nil
}

// CancelRequest undoes an approval: the balance gets back exactly the days
// the approval deducted, and only attendance records from today forward are
// removed. Days already taken stay on record.
func (s *LeaveServiceImpl) CancelRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.leaveRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusApproved {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotApproved
	}

	year := request.StartDate.Year()

	err = s.runTx(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.leaveRepo.UpdateRequestStatus(txCtx, request.ID, leave.StatusCancelled, nil); err != nil {
			return err
		}

		today := time.Now().Truncate(24 * time.Hour)
		removed, err := s.attendanceRepo.DeleteByLeaveRequestFrom(txCtx, request.ID, today)
		if err != nil {
			return err
		}

		if removed > 0 {
			if err := s.leaveRepo.AdjustBalance(txCtx, request.EmployeeID, request.LeaveTypeID, year, float64(removed)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	cancelled, err := s.leaveRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(cancelled), nil
}

func (s *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalanceResponse, error) {
	balance, err := s.leaveRepo.GetBalance(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return leave.LeaveBalanceResponse{
		EmployeeID:    balance.EmployeeID,
		LeaveTypeID:   balance.LeaveTypeID,
		Year:          balance.Year,
		EntitledDays:  balance.EntitledDays,
		UsedDays:      balance.UsedDays,
		RemainingDays: balance.RemainingDays,
	}, nil
}

func getUserIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", err
	}
	userID, _ := claims["user_id"].(string)
	return userID, nil
}

func isWeekend(d time.Time) bool {
	return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
}

func countWorkingDays(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			days++
		}
	}
	return days
}

func toRequestResponse(request leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:          request.ID,
		EmployeeID:  request.EmployeeID,
		LeaveTypeID: request.LeaveTypeID,
		StartDate:   request.StartDate.Format("2006-01-02"),
		EndDate:     request.EndDate.Format("2006-01-02"),
		WorkingDays: request.WorkingDays,
		Reason:      request.Reason,
		Status:      string(request.Status),
		ApprovedBy:  request.ApprovedBy,
	}
	if request.LeaveTypeName != nil {
		resp.LeaveTypeName = *request.LeaveTypeName
	}
	if request.ApprovedAt != nil {
		v := request.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
