package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/attendance"
)

// PayrollHeader is one generated run for an exact date range. It owns the
// payslips produced under it.
type PayrollHeader struct {
	ID          string
	StartDate   time.Time
	EndDate     time.Time
	GeneratedAt time.Time
	GeneratedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EarningsLine is one category's pay: hours at a rate under a multiplier.
type EarningsLine struct {
	Category   attendance.HourCategory `json:"category"`
	Hours      decimal.Decimal         `json:"hours"`
	HourlyRate decimal.Decimal         `json:"hourly_rate"`
	Multiplier decimal.Decimal         `json:"multiplier"`
	Amount     decimal.Decimal         `json:"amount"`
}

// EarningsBreakdown is the itemized gross-pay audit trail persisted with the
// payslip. Lines use the closed HourCategory set.
type EarningsBreakdown struct {
	Lines []EarningsLine  `json:"lines"`
	Gross decimal.Decimal `json:"gross"`
}

// StatutoryDeductions are the government-mandated withholdings for a period.
type StatutoryDeductions struct {
	SSS            decimal.Decimal `json:"sss"`
	PhilHealth     decimal.Decimal `json:"philhealth"`
	PagIBIG        decimal.Decimal `json:"pagibig"`
	WithholdingTax decimal.Decimal `json:"withholding_tax"`
}

// Total sums the statutory withholdings.
func (s StatutoryDeductions) Total() decimal.Decimal {
	return s.SSS.Add(s.PhilHealth).Add(s.PagIBIG).Add(s.WithholdingTax)
}

// Payslip is one employee's result under a header. Created once per
// (header, employee); regeneration for the same exact period is a conflict,
// never an overwrite.
type Payslip struct {
	ID              string
	PayrollHeaderID string
	EmployeeID      string

	GrossPay       decimal.Decimal
	Earnings       EarningsBreakdown
	Statutory      StatutoryDeductions
	LoanDeductions decimal.Decimal
	NetPay         decimal.Decimal

	DaysWorked int
	DaysAbsent int
	DaysLeave  int

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// TotalDeductions sums everything withheld from gross.
func (p Payslip) TotalDeductions() decimal.Decimal {
	return p.Statutory.Total().Add(p.LoanDeductions)
}
