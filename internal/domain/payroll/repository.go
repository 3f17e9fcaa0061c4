package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for headers and payslips.
type PayrollRepository interface {
	// GetHeaderByPeriod looks up a header for the exact start/end pair.
	GetHeaderByPeriod(ctx context.Context, start, end time.Time) (PayrollHeader, error)
	CreateHeader(ctx context.Context, header PayrollHeader) (PayrollHeader, error)
	GetHeaderByID(ctx context.Context, id string) (PayrollHeader, error)
	ListHeaders(ctx context.Context) ([]PayrollHeader, error)

	CreatePayslip(ctx context.Context, payslip Payslip) (Payslip, error)
	GetPayslipByID(ctx context.Context, id string) (Payslip, error)
	ListPayslipsByHeader(ctx context.Context, headerID string) ([]Payslip, error)
	ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)

	// FindExistingPayslips returns, for the exact period, the payslip ids
	// already present keyed by employee id. The duplicate-generation guard.
	FindExistingPayslips(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string]string, error)
}

// PayrollService defines the payroll operations exposed upstream.
type PayrollService interface {
	// GenerateRun drives the whole batch: resolve employees, compute each
	// independently, persist one payslip per success under one header, and
	// report per-employee outcomes.
	GenerateRun(ctx context.Context, req GeneratePayrollRequest) (RunSummaryResponse, error)

	GetRun(ctx context.Context, headerID string) (HeaderResponse, error)
	ListRuns(ctx context.Context) ([]HeaderResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListEmployeePayslips(ctx context.Context, employeeID string) ([]PayslipResponse, error)
}
