package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateType is the basis an employee's pay rate is expressed in.
type RateType string

const (
	RateTypeHourly  RateType = "hourly"
	RateTypeDaily   RateType = "daily"
	RateTypeMonthly RateType = "monthly"
)

// Employee carries only the fields the payroll pipeline reads. Employee CRUD
// is owned by the people-management system; this side never writes.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	DepartmentID *string
	RateType     RateType
	Rate         decimal.Decimal
	IsActive     bool
	HiredAt      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	DepartmentName *string
}
