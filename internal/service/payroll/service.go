package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/employee"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
	"github.com/suweldohq/suweldo-backend-go/internal/repository/postgresql"
	attendancesvc "github.com/suweldohq/suweldo-backend-go/internal/service/attendance"
)

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	configRepo     rateconfig.ConfigurationRepository
	loanRepo       deduction.LoanRepository
	leaveRepo      leave.LeaveRepository
	loanService    deduction.LoanService
	workerCount    int

	// runTx is postgresql.WithTransaction; a field so service tests can run
	// the persist phase against fakes.
	runTx func(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	configRepo rateconfig.ConfigurationRepository,
	loanRepo deduction.LoanRepository,
	leaveRepo leave.LeaveRepository,
	loanService deduction.LoanService,
	workerCount int,
) payroll.PayrollService {
	if workerCount < 1 {
		workerCount = 1
	}
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		configRepo:     configRepo,
		loanRepo:       loanRepo,
		leaveRepo:      leaveRepo,
		loanService:    loanService,
		workerCount:    workerCount,
		runTx:          postgresql.WithTransaction,
	}
}

func getClaimsFromContext(ctx context.Context) (userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

// computation is one employee's finished calculation, held until the persist
// phase writes all successes under a single header.
type computation struct {
	Employee  employee.Employee
	Aggregate attendance.Aggregate
	Earnings  payroll.EarningsBreakdown
	Statutory payroll.StatutoryDeductions
}

func (s *PayrollServiceImpl) GenerateRun(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.RunSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	employees, err := s.resolveEmployees(ctx, req)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}
	if len(employees) == 0 {
		return payroll.RunSummaryResponse{}, payroll.ErrEmptyEmployeeSelection
	}

	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	// Duplicate guard: an employee with a payslip for this exact period is
	// skipped and reported, never overwritten.
	existing, err := s.payrollRepo.FindExistingPayslips(ctx, employeeIDs, start, end)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	var conflicts []payroll.EmployeeConflict
	eligible := make([]employee.Employee, 0, len(employees))
	for _, emp := range employees {
		if payslipID, ok := existing[emp.ID]; ok {
			conflicts = append(conflicts, payroll.EmployeeConflict{
				EmployeeID: emp.ID,
				PayslipID:  payslipID,
			})
			continue
		}
		eligible = append(eligible, emp)
	}

	// One snapshot as of the period end governs the whole run; mid-run
	// configuration changes cannot split the batch.
	configRows, err := s.configRepo.ListActiveAsOf(ctx, end)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}
	snapshot := rateconfig.BuildSnapshot(configRows, end)

	eligibleIDs := make([]string, 0, len(eligible))
	for _, emp := range eligible {
		eligibleIDs = append(eligibleIDs, emp.ID)
	}

	recordsByEmployee, err := s.attendanceRepo.GetByEmployeesAndPeriod(ctx, eligibleIDs, start, end)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	loansByEmployee, err := s.loanRepo.ListDeductibleForPeriod(ctx, eligibleIDs, end)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	leaveTypes, err := s.leaveRepo.ListLeaveTypes(ctx)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}
	paidLeaveTypes := make(map[string]bool, len(leaveTypes))
	for _, lt := range leaveTypes {
		paidLeaveTypes[lt.ID] = lt.IsPaid
	}

	computations, failures, err := s.computeAll(ctx, eligible, start, end, recordsByEmployee, paidLeaveTypes, snapshot)
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	summary := payroll.RunSummaryResponse{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedBy: userID,
		Failed:      len(failures),
		Skipped:     len(conflicts),
		Failures:    failures,
		Conflicts:   conflicts,
		TotalGross:  decimal.Zero,
		TotalNet:    decimal.Zero,
	}

	// Persist phase: one transaction covers the header, every payslip and
	// every loan ledger row, so a partial run never becomes visible.
	err = s.runTx(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// An existing header for the exact range is reused, so a follow-up
		// run for employees skipped the first time lands under the same run.
		header, err := s.payrollRepo.GetHeaderByPeriod(txCtx, start, end)
		if errors.Is(err, payroll.ErrHeaderNotFound) {
			header, err = s.payrollRepo.CreateHeader(txCtx, payroll.PayrollHeader{
				ID:          uuid.New().String(),
				StartDate:   start,
				EndDate:     end,
				GeneratedAt: time.Now(),
				GeneratedBy: userID,
			})
		}
		if err != nil {
			return err
		}
		summary.RunID = header.ID

		for _, comp := range computations {
			loanTotal, _, err := s.loanService.ApplyForPeriod(txCtx, comp.Employee.ID, loansByEmployee[comp.Employee.ID], start, end)
			if err != nil {
				return fmt.Errorf("apply loan deductions for employee %s: %w", comp.Employee.ID, err)
			}

			payslip := assemblePayslip(header, comp, loanTotal)
			created, err := s.payrollRepo.CreatePayslip(txCtx, payslip)
			if err != nil {
				return fmt.Errorf("create payslip for employee %s: %w", comp.Employee.ID, err)
			}

			summary.Results = append(summary.Results, payroll.EmployeeResult{
				EmployeeID: comp.Employee.ID,
				PayslipID:  created.ID,
				GrossPay:   created.GrossPay,
				NetPay:     created.NetPay,
				DaysWorked: created.DaysWorked,
			})
			summary.TotalGross = summary.TotalGross.Add(created.GrossPay)
			summary.TotalNet = summary.TotalNet.Add(created.NetPay)
		}
		return nil
	})
	if err != nil {
		return payroll.RunSummaryResponse{}, err
	}

	summary.Succeeded = len(summary.Results)
	return summary, nil
}

// computeAll runs the pure per-employee pipeline concurrently. A failure in
// one employee's numbers is isolated and reported; a missing configuration
// value fails the whole run, since every remaining employee would hit it too.
func (s *PayrollServiceImpl) computeAll(
	ctx context.Context,
	employees []employee.Employee,
	start, end time.Time,
	recordsByEmployee map[string][]attendance.AttendanceRecord,
	paidLeaveTypes map[string]bool,
	snapshot rateconfig.Snapshot,
) ([]computation, []payroll.EmployeeFailure, error) {
	var (
		mu           sync.Mutex
		computations []computation
		failures     []payroll.EmployeeFailure
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			agg := attendancesvc.Aggregate(emp.ID, start, end, recordsByEmployee[emp.ID], paidLeaveTypes)

			earnings, err := ComputeEarnings(agg, emp, snapshot)
			if err == nil {
				var statutory payroll.StatutoryDeductions
				statutory, err = ComputeStatutory(earnings.Gross, snapshot)
				if err == nil {
					mu.Lock()
					computations = append(computations, computation{
						Employee:  emp,
						Aggregate: agg,
						Earnings:  earnings,
						Statutory: statutory,
					})
					mu.Unlock()
					return nil
				}
			}

			if errors.Is(err, rateconfig.ErrConfigurationMissing) {
				return err
			}

			mu.Lock()
			failures = append(failures, payroll.EmployeeFailure{
				EmployeeID: emp.ID,
				Reason:     err.Error(),
			})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Worker completion order is nondeterministic; the persisted order and
	// the summary are not.
	sort.Slice(computations, func(i, j int) bool {
		return computations[i].Employee.ID < computations[j].Employee.ID
	})
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].EmployeeID < failures[j].EmployeeID
	})

	return computations, failures, nil
}

// assemblePayslip rounds each component to centavos exactly once, then
// derives gross from the rounded lines and net from the rounded components
// so the payslip's own arithmetic checks out.
func assemblePayslip(header payroll.PayrollHeader, comp computation, loanTotal decimal.Decimal) payroll.Payslip {
	earnings := comp.Earnings
	gross := decimal.Zero
	for i := range earnings.Lines {
		earnings.Lines[i].Amount = earnings.Lines[i].Amount.Round(2)
		gross = gross.Add(earnings.Lines[i].Amount)
	}
	earnings.Gross = gross

	statutory := payroll.StatutoryDeductions{
		SSS:            comp.Statutory.SSS.Round(2),
		PhilHealth:     comp.Statutory.PhilHealth.Round(2),
		PagIBIG:        comp.Statutory.PagIBIG.Round(2),
		WithholdingTax: comp.Statutory.WithholdingTax.Round(2),
	}
	loans := loanTotal.Round(2)
	net := gross.Sub(statutory.Total()).Sub(loans)

	return payroll.Payslip{
		ID:              uuid.New().String(),
		PayrollHeaderID: header.ID,
		EmployeeID:      comp.Employee.ID,
		GrossPay:        gross,
		Earnings:        earnings,
		Statutory:       statutory,
		LoanDeductions:  loans,
		NetPay:          net,
		DaysWorked:      comp.Aggregate.DaysWorked,
		DaysAbsent:      comp.Aggregate.DaysAbsent,
		DaysLeave:       comp.Aggregate.DaysPaidLeave + comp.Aggregate.DaysUnpaidLeave,
	}
}

func (s *PayrollServiceImpl) resolveEmployees(ctx context.Context, req payroll.GeneratePayrollRequest) ([]employee.Employee, error) {
	switch {
	case len(req.EmployeeIDs) > 0:
		employees, err := s.employeeRepo.GetByIDs(ctx, req.EmployeeIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]employee.Employee, len(employees))
		for _, emp := range employees {
			byID[emp.ID] = emp
		}
		resolved := make([]employee.Employee, 0, len(req.EmployeeIDs))
		for _, id := range req.EmployeeIDs {
			emp, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", employee.ErrEmployeeNotFound, id)
			}
			if !emp.IsActive {
				return nil, fmt.Errorf("%w: %s", employee.ErrEmployeeInactive, id)
			}
			resolved = append(resolved, emp)
		}
		return resolved, nil
	case len(req.DepartmentIDs) > 0:
		return s.employeeRepo.GetActiveByDepartmentIDs(ctx, req.DepartmentIDs)
	default:
		return s.employeeRepo.GetActive(ctx)
	}
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, headerID string) (payroll.HeaderResponse, error) {
	header, err := s.payrollRepo.GetHeaderByID(ctx, headerID)
	if err != nil {
		return payroll.HeaderResponse{}, err
	}

	payslips, err := s.payrollRepo.ListPayslipsByHeader(ctx, headerID)
	if err != nil {
		return payroll.HeaderResponse{}, err
	}

	resp := toHeaderResponse(header)
	for _, p := range payslips {
		resp.Payslips = append(resp.Payslips, toPayslipResponse(p))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context) ([]payroll.HeaderResponse, error) {
	headers, err := s.payrollRepo.ListHeaders(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.HeaderResponse, 0, len(headers))
	for _, h := range headers {
		responses = append(responses, toHeaderResponse(h))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	payslip, err := s.payrollRepo.GetPayslipByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return toPayslipResponse(payslip), nil
}

func (s *PayrollServiceImpl) ListEmployeePayslips(ctx context.Context, employeeID string) ([]payroll.PayslipResponse, error) {
	payslips, err := s.payrollRepo.ListPayslipsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		responses = append(responses, toPayslipResponse(p))
	}
	return responses, nil
}

func toHeaderResponse(header payroll.PayrollHeader) payroll.HeaderResponse {
	return payroll.HeaderResponse{
		ID:          header.ID,
		StartDate:   header.StartDate.Format("2006-01-02"),
		EndDate:     header.EndDate.Format("2006-01-02"),
		GeneratedAt: header.GeneratedAt.Format(time.RFC3339),
		GeneratedBy: header.GeneratedBy,
	}
}

func toPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	resp := payroll.PayslipResponse{
		ID:              p.ID,
		PayrollHeaderID: p.PayrollHeaderID,
		EmployeeID:      p.EmployeeID,
		GrossPay:        p.GrossPay,
		Earnings:        p.Earnings,
		Statutory:       p.Statutory,
		LoanDeductions:  p.LoanDeductions,
		NetPay:          p.NetPay,
		DaysWorked:      p.DaysWorked,
		DaysAbsent:      p.DaysAbsent,
		DaysLeave:       p.DaysLeave,
	}
	if p.EmployeeName != nil {
		resp.EmployeeName = *p.EmployeeName
	}
	if p.EmployeeCode != nil {
		resp.EmployeeCode = *p.EmployeeCode
	}
	return resp
}
