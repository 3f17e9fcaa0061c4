package payroll

import "errors"

var (
	ErrHeaderNotFound         = errors.New("payroll header not found")
	ErrPayslipNotFound        = errors.New("payslip not found")
	ErrPayslipAlreadyExists   = errors.New("payslip already exists for this employee and period")
	ErrEmptyEmployeeSelection = errors.New("payroll run resolved an empty employee set")
	ErrInvalidPeriod          = errors.New("invalid payroll period")
	ErrUnknownRateType        = errors.New("unknown employee rate type")
)
