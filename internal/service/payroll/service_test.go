package payroll

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/employee"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/leave"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
	deductionsvc "github.com/suweldohq/suweldo-backend-go/internal/service/deduction"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository

	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var result []employee.Employee
	for _, emp := range f.employees {
		if wanted[emp.ID] {
			result = append(result, emp)
		}
	}
	return result, nil
}

func (f *fakeEmployeeRepo) GetActive(_ context.Context) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, emp := range f.employees {
		if emp.IsActive {
			result = append(result, emp)
		}
	}
	return result, nil
}

func runEmployee(id string) employee.Employee {
	return employee.Employee{
		ID:       id,
		RateType: employee.RateTypeMonthly,
		Rate:     decimal.RequireFromString("22000"),
		IsActive: true,
	}
}

func fullConfigRows() []rateconfig.RateConfiguration {
	return []rateconfig.RateConfiguration{
		configRow(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardDailyHours, "8"),
		configRow(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardMonthlyDays, "22"),
		configRow(rateconfig.TypePremiumMultiplier, rateconfig.KeyOvertime, "1.25"),
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSMSCFloor, "4000"),
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSMSCCeiling, "30000"),
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSMSCStep, "500"),
		configRow(rateconfig.TypeSSS, rateconfig.KeySSSEmployeeRate, "0.045"),
		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthPremiumRate, "0.05"),
		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthEmployeeShare, "0.5"),
		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthSalaryFloor, "10000"),
		configRow(rateconfig.TypePhilHealth, rateconfig.KeyPhilHealthSalaryCeiling, "100000"),
		configRow(rateconfig.TypePagIBIG, rateconfig.KeyPagIBIGEmployeeRate, "0.02"),
		configRow(rateconfig.TypePagIBIG, rateconfig.KeyPagIBIGCompensationCap, "10000"),
		configRow(rateconfig.TypeTaxBracket, "bracket_01_floor", "0"),
		configRow(rateconfig.TypeTaxBracket, "bracket_01_rate", "0"),
		configRow(rateconfig.TypeTaxBracket, "bracket_01_base", "0"),
	}
}

func fullSnapshot() rateconfig.Snapshot {
	return rateconfig.BuildSnapshot(fullConfigRows(), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
}

func workedRecords(employeeID string, days int) []attendance.AttendanceRecord {
	records := make([]attendance.AttendanceRecord, 0, days)
	for i := 0; i < days; i++ {
		records = append(records, attendance.AttendanceRecord{
			EmployeeID: employeeID,
			Date:       time.Date(2025, 1, 16+i, 0, 0, 0, 0, time.UTC),
			IsPresent:  true,
			TotalHours: 8,
		})
	}
	return records
}

func TestComputeAll_IsolatesEmployeeFailures(t *testing.T) {
	t.Parallel()
	svc := &PayrollServiceImpl{workerCount: 4}

	broken := runEmployee("emp-2")
	broken.RateType = "weekly"
	employees := []employee.Employee{runEmployee("emp-1"), broken, runEmployee("emp-3")}

	start := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	records := map[string][]attendance.AttendanceRecord{
		"emp-1": workedRecords("emp-1", 10),
		"emp-2": workedRecords("emp-2", 10),
		"emp-3": workedRecords("emp-3", 10),
	}

	computations, failures, err := svc.computeAll(context.Background(), employees, start, end, records, nil, fullSnapshot())
	require.NoError(t, err)

	require.Len(t, computations, 2)
	assert.Equal(t, "emp-1", computations[0].Employee.ID)
	assert.Equal(t, "emp-3", computations[1].Employee.ID)

	require.Len(t, failures, 1)
	assert.Equal(t, "emp-2", failures[0].EmployeeID)
	assert.Contains(t, failures[0].Reason, "unknown employee rate type")
}

func TestComputeAll_MissingConfigurationAbortsRun(t *testing.T) {
	t.Parallel()
	svc := &PayrollServiceImpl{workerCount: 4}

	employees := []employee.Employee{runEmployee("emp-1"), runEmployee("emp-2")}
	start := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	records := map[string][]attendance.AttendanceRecord{
		"emp-1": workedRecords("emp-1", 10),
		"emp-2": workedRecords("emp-2", 10),
	}

	// A snapshot without statutory tables must fail the whole run, not mark
	// every employee individually failed.
	empty := rateconfig.BuildSnapshot([]rateconfig.RateConfiguration{
		configRow(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardDailyHours, "8"),
		configRow(rateconfig.TypeWorkSchedule, rateconfig.KeyStandardMonthlyDays, "22"),
	}, end)

	_, _, err := svc.computeAll(context.Background(), employees, start, end, records, nil, empty)
	assert.ErrorIs(t, err, rateconfig.ErrConfigurationMissing)
}

func TestComputeAll_OrderIsDeterministic(t *testing.T) {
	t.Parallel()
	svc := &PayrollServiceImpl{workerCount: 8}

	var employees []employee.Employee
	records := make(map[string][]attendance.AttendanceRecord)
	ids := []string{"emp-09", "emp-03", "emp-07", "emp-01", "emp-05", "emp-08", "emp-02", "emp-06", "emp-04"}
	for _, id := range ids {
		employees = append(employees, runEmployee(id))
		records[id] = workedRecords(id, 5)
	}

	start := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	computations, _, err := svc.computeAll(context.Background(), employees, start, end, records, nil, fullSnapshot())
	require.NoError(t, err)
	require.Len(t, computations, len(ids))

	resultIDs := make([]string, 0, len(computations))
	for _, comp := range computations {
		resultIDs = append(resultIDs, comp.Employee.ID)
	}
	assert.True(t, sort.StringsAreSorted(resultIDs), "results not sorted: %v", resultIDs)
}

func TestAssemblePayslip_RoundsOnceAndBalances(t *testing.T) {
	t.Parallel()
	header := payroll.PayrollHeader{ID: "run-1"}
	comp := computation{
		Employee: runEmployee("emp-1"),
		Aggregate: attendance.Aggregate{
			DaysWorked:      10,
			DaysAbsent:      1,
			DaysPaidLeave:   1,
			DaysUnpaidLeave: 2,
		},
		Earnings: payroll.EarningsBreakdown{
			// The raw line sum 10100.12745 rounds to 10100.13, but the sum of
			// the individually rounded lines is 10100.12. Gross must equal the
			// latter, since the itemized lines are what the payslip prints.
			Lines: []payroll.EarningsLine{
				{
					Category: attendance.CategoryRegular,
					Amount:   decimal.RequireFromString("10000.12345"),
				},
				{
					Category: attendance.CategoryOvertime,
					Amount:   decimal.RequireFromString("100.004"),
				},
			},
			Gross: decimal.RequireFromString("10100.12745"),
		},
		Statutory: payroll.StatutoryDeductions{
			SSS:            decimal.RequireFromString("450.005"),
			PhilHealth:     decimal.RequireFromString("250.004"),
			PagIBIG:        decimal.RequireFromString("200"),
			WithholdingTax: decimal.RequireFromString("0"),
		},
	}

	payslip := assemblePayslip(header, comp, decimal.RequireFromString("1000.006"))

	assert.Equal(t, "10100.12", payslip.GrossPay.String())
	assert.Equal(t, "10000.12", payslip.Earnings.Lines[0].Amount.String())
	assert.Equal(t, "100", payslip.Earnings.Lines[1].Amount.String())
	assert.Equal(t, "450.01", payslip.Statutory.SSS.String())
	assert.Equal(t, "1000.01", payslip.LoanDeductions.String())

	lineSum := decimal.Zero
	for _, line := range payslip.Earnings.Lines {
		lineSum = lineSum.Add(line.Amount)
	}
	assert.True(t, payslip.GrossPay.Equal(lineSum), "gross %s != line sum %s", payslip.GrossPay, lineSum)
	assert.True(t, payslip.Earnings.Gross.Equal(lineSum), "breakdown gross %s != line sum %s", payslip.Earnings.Gross, lineSum)

	// Net is derived from the rounded components, so the printed payslip's own
	// arithmetic reconciles.
	expectedNet := payslip.GrossPay.Sub(payslip.Statutory.Total()).Sub(payslip.LoanDeductions)
	assert.True(t, payslip.NetPay.Equal(expectedNet), "net %s != %s", payslip.NetPay, expectedNet)

	assert.Equal(t, 10, payslip.DaysWorked)
	assert.Equal(t, 1, payslip.DaysAbsent)
	assert.Equal(t, 3, payslip.DaysLeave)
}

func TestResolveEmployees_ExplicitSelection(t *testing.T) {
	t.Parallel()
	inactive := runEmployee("emp-2")
	inactive.IsActive = false
	repo := &fakeEmployeeRepo{employees: []employee.Employee{runEmployee("emp-1"), inactive}}
	svc := &PayrollServiceImpl{employeeRepo: repo}

	resolved, err := svc.resolveEmployees(context.Background(), payroll.GeneratePayrollRequest{EmployeeIDs: []string{"emp-1"}})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "emp-1", resolved[0].ID)

	_, err = svc.resolveEmployees(context.Background(), payroll.GeneratePayrollRequest{EmployeeIDs: []string{"emp-1", "emp-missing"}})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.resolveEmployees(context.Background(), payroll.GeneratePayrollRequest{EmployeeIDs: []string{"emp-1", "emp-2"}})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

type fakePayrollRepo struct {
	payroll.PayrollRepository

	existingHeader *payroll.PayrollHeader
	existing       map[string]string

	createdHeaders  []payroll.PayrollHeader
	createdPayslips []payroll.Payslip
}

func (f *fakePayrollRepo) GetHeaderByPeriod(_ context.Context, _, _ time.Time) (payroll.PayrollHeader, error) {
	if f.existingHeader != nil {
		return *f.existingHeader, nil
	}
	return payroll.PayrollHeader{}, payroll.ErrHeaderNotFound
}

func (f *fakePayrollRepo) CreateHeader(_ context.Context, header payroll.PayrollHeader) (payroll.PayrollHeader, error) {
	f.createdHeaders = append(f.createdHeaders, header)
	return header, nil
}

func (f *fakePayrollRepo) CreatePayslip(_ context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	f.createdPayslips = append(f.createdPayslips, payslip)
	return payslip, nil
}

func (f *fakePayrollRepo) FindExistingPayslips(_ context.Context, _ []string, _, _ time.Time) (map[string]string, error) {
	return f.existing, nil
}

type fakeRunAttendanceRepo struct {
	attendance.AttendanceRepository

	records map[string][]attendance.AttendanceRecord
}

func (f *fakeRunAttendanceRepo) GetByEmployeesAndPeriod(_ context.Context, employeeIDs []string, _, _ time.Time) (map[string][]attendance.AttendanceRecord, error) {
	result := make(map[string][]attendance.AttendanceRecord, len(employeeIDs))
	for _, id := range employeeIDs {
		result[id] = f.records[id]
	}
	return result, nil
}

type fakeRunConfigRepo struct {
	rateconfig.ConfigurationRepository

	rows []rateconfig.RateConfiguration
}

func (f *fakeRunConfigRepo) ListActiveAsOf(_ context.Context, _ time.Time) ([]rateconfig.RateConfiguration, error) {
	return f.rows, nil
}

type fakeRunLoanRepo struct {
	deduction.LoanRepository
}

func (f *fakeRunLoanRepo) ListDeductibleForPeriod(_ context.Context, _ []string, _ time.Time) (map[string][]deduction.Loan, error) {
	return nil, nil
}

type fakeRunLeaveRepo struct {
	leave.LeaveRepository
}

func (f *fakeRunLeaveRepo) ListLeaveTypes(_ context.Context) ([]leave.LeaveType, error) {
	return nil, nil
}

func newRunService(payrollRepo *fakePayrollRepo, employees []employee.Employee, records map[string][]attendance.AttendanceRecord) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   &fakeEmployeeRepo{employees: employees},
		attendanceRepo: &fakeRunAttendanceRepo{records: records},
		configRepo:     &fakeRunConfigRepo{rows: fullConfigRows()},
		loanRepo:       &fakeRunLoanRepo{},
		leaveRepo:      &fakeRunLeaveRepo{},
		loanService:    deductionsvc.NewLoanService(nil, nil),
		workerCount:    4,
		runTx: func(ctx context.Context, _ *database.DB, fn func(tx pgx.Tx) error) error {
			return fn(nil)
		},
	}
}

func generatorContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"user_id": "user-1"})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestGenerateRun_SkipsEmployeesWithExistingPayslips(t *testing.T) {
	t.Parallel()
	repo := &fakePayrollRepo{existing: map[string]string{"emp-1": "pay-existing"}}
	employees := []employee.Employee{runEmployee("emp-1"), runEmployee("emp-2")}
	records := map[string][]attendance.AttendanceRecord{
		"emp-1": workedRecords("emp-1", 10),
		"emp-2": workedRecords("emp-2", 10),
	}
	svc := newRunService(repo, employees, records)

	summary, err := svc.GenerateRun(generatorContext(t), payroll.GeneratePayrollRequest{
		StartDate: "2025-01-16",
		EndDate:   "2025-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Conflicts, 1)
	assert.Equal(t, "emp-1", summary.Conflicts[0].EmployeeID)
	assert.Equal(t, "pay-existing", summary.Conflicts[0].PayslipID)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, "emp-2", summary.Results[0].EmployeeID)
	require.Len(t, repo.createdPayslips, 1)
	assert.Equal(t, "emp-2", repo.createdPayslips[0].EmployeeID)
}

func TestGenerateRun_ReusesHeaderForSamePeriod(t *testing.T) {
	t.Parallel()
	existing := payroll.PayrollHeader{
		ID:        "run-existing",
		StartDate: time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	repo := &fakePayrollRepo{existingHeader: &existing}
	employees := []employee.Employee{runEmployee("emp-1")}
	records := map[string][]attendance.AttendanceRecord{
		"emp-1": workedRecords("emp-1", 10),
	}
	svc := newRunService(repo, employees, records)

	summary, err := svc.GenerateRun(generatorContext(t), payroll.GeneratePayrollRequest{
		StartDate: "2025-01-16",
		EndDate:   "2025-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "run-existing", summary.RunID)
	assert.Empty(t, repo.createdHeaders)
	require.Len(t, repo.createdPayslips, 1)
	assert.Equal(t, "run-existing", repo.createdPayslips[0].PayrollHeaderID)
}

func TestGenerateRun_CreatesHeaderWhenNoneExists(t *testing.T) {
	t.Parallel()
	repo := &fakePayrollRepo{}
	employees := []employee.Employee{runEmployee("emp-1")}
	records := map[string][]attendance.AttendanceRecord{
		"emp-1": workedRecords("emp-1", 10),
	}
	svc := newRunService(repo, employees, records)

	summary, err := svc.GenerateRun(generatorContext(t), payroll.GeneratePayrollRequest{
		StartDate: "2025-01-16",
		EndDate:   "2025-01-31",
	})
	require.NoError(t, err)

	require.Len(t, repo.createdHeaders, 1)
	assert.Equal(t, repo.createdHeaders[0].ID, summary.RunID)
	assert.Equal(t, "user-1", repo.createdHeaders[0].GeneratedBy)
	assert.Equal(t, "user-1", summary.GeneratedBy)
	assert.Equal(t, 1, summary.Succeeded)
}
