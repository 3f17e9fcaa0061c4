package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentFrequency enum
type PaymentFrequency string

const (
	FrequencyWeekly      PaymentFrequency = "weekly"
	FrequencyBiWeekly    PaymentFrequency = "bi_weekly"
	FrequencySemiMonthly PaymentFrequency = "semi_monthly"
	FrequencyMonthly     PaymentFrequency = "monthly"
)

// LoanStatus is derived from balance and dates, never stored.
type LoanStatus string

const (
	StatusActive   LoanStatus = "ACTIVE"
	StatusPaid     LoanStatus = "PAID"
	StatusExpired  LoanStatus = "EXPIRED"
	StatusPending  LoanStatus = "PENDING"
	StatusInactive LoanStatus = "INACTIVE"
)

// Loan is a recurring deduction: a loan or salary advance amortized across
// payroll periods.
type Loan struct {
	ID                string
	EmployeeID        string
	DeductionType     string
	Principal         decimal.Decimal
	RemainingBalance  decimal.Decimal
	InstallmentAmount decimal.Decimal
	InstallmentsTotal int
	InstallmentsPaid  int
	StartDate         time.Time
	EndDate           *time.Time
	PaymentFrequency  PaymentFrequency
	AutoDeduct        bool
	NextDeductionDate time.Time
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Status derives the loan's display status as of now.
func (l Loan) Status(now time.Time) LoanStatus {
	switch {
	case l.RemainingBalance.IsZero() || l.InstallmentsPaid >= l.InstallmentsTotal:
		return StatusPaid
	case !l.IsActive:
		return StatusInactive
	case now.Before(l.StartDate):
		return StatusPending
	case l.EndDate != nil && now.After(*l.EndDate):
		return StatusExpired
	default:
		return StatusActive
	}
}

// DeductionPayment is one append-only ledger row. Never mutated after insert.
type DeductionPayment struct {
	ID               string
	LoanID           string
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	PeriodStart      *time.Time
	PeriodEnd        *time.Time
	PaidAt           time.Time
	Source           string // "payroll" or "manual"
	CreatedAt        time.Time
}
