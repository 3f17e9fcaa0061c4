package deduction

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
)

// fakeLoanRepo records ApplyPayment calls so tests can observe the ledger
// mutations ApplyForPeriod requests.
type fakeLoanRepo struct {
	deduction.LoanRepository

	applied []appliedPayment
}

type appliedPayment struct {
	payment          deduction.DeductionPayment
	balance          decimal.Decimal
	installmentsPaid int
	nextDate         time.Time
	isActive         bool
}

func (f *fakeLoanRepo) ApplyPayment(_ context.Context, payment deduction.DeductionPayment, balance decimal.Decimal, installmentsPaid int, nextDeductionDate time.Time, isActive bool) (deduction.DeductionPayment, error) {
	f.applied = append(f.applied, appliedPayment{
		payment:          payment,
		balance:          balance,
		installmentsPaid: installmentsPaid,
		nextDate:         nextDeductionDate,
		isActive:         isActive,
	})
	return payment, nil
}

func activeLoan(id, employeeID string, balance, installment string, nextDue time.Time) deduction.Loan {
	return deduction.Loan{
		ID:                id,
		EmployeeID:        employeeID,
		DeductionType:     "loan",
		Principal:         decimal.RequireFromString("10000"),
		RemainingBalance:  decimal.RequireFromString(balance),
		InstallmentAmount: decimal.RequireFromString(installment),
		InstallmentsTotal: 10,
		PaymentFrequency:  deduction.FrequencySemiMonthly,
		AutoDeduct:        true,
		NextDeductionDate: nextDue,
		IsActive:          true,
	}
}

func TestApplyForPeriod_DeductsDueInstallment(t *testing.T) {
	t.Parallel()
	repo := &fakeLoanRepo{}
	svc := &LoanServiceImpl{loanRepo: repo}

	periodStart := day(2025, time.January, 16)
	periodEnd := day(2025, time.January, 31)
	loans := []deduction.Loan{activeLoan("loan-1", "emp-1", "5000", "1000", day(2025, time.January, 31))}

	total, payments, err := svc.ApplyForPeriod(context.Background(), "emp-1", loans, periodStart, periodEnd)
	require.NoError(t, err)

	assert.Equal(t, "1000", total.String())
	require.Len(t, payments, 1)
	assert.Equal(t, "payroll", payments[0].Source)
	require.NotNil(t, payments[0].PeriodEnd)
	assert.True(t, payments[0].PeriodEnd.Equal(periodEnd))

	require.Len(t, repo.applied, 1)
	applied := repo.applied[0]
	assert.Equal(t, "4000", applied.balance.String())
	assert.Equal(t, 1, applied.installmentsPaid)
	assert.True(t, applied.isActive)
	assert.True(t, applied.nextDate.Equal(day(2025, time.February, 15)), "got %s", applied.nextDate)
}

func TestApplyForPeriod_CapsAtBalanceAndDeactivates(t *testing.T) {
	t.Parallel()
	repo := &fakeLoanRepo{}
	svc := &LoanServiceImpl{loanRepo: repo}

	loans := []deduction.Loan{activeLoan("loan-1", "emp-1", "600", "1000", day(2025, time.January, 31))}

	total, _, err := svc.ApplyForPeriod(context.Background(), "emp-1", loans, day(2025, time.January, 16), day(2025, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, "600", total.String())
	require.Len(t, repo.applied, 1)
	assert.True(t, repo.applied[0].balance.IsZero())
	assert.False(t, repo.applied[0].isActive)
}

func TestApplyForPeriod_SkipsIneligibleLoans(t *testing.T) {
	t.Parallel()
	repo := &fakeLoanRepo{}
	svc := &LoanServiceImpl{loanRepo: repo}

	periodEnd := day(2025, time.January, 31)

	notDue := activeLoan("loan-due-later", "emp-1", "5000", "1000", day(2025, time.February, 15))
	manual := activeLoan("loan-manual", "emp-1", "5000", "1000", periodEnd)
	manual.AutoDeduct = false
	inactive := activeLoan("loan-inactive", "emp-1", "5000", "1000", periodEnd)
	inactive.IsActive = false
	settled := activeLoan("loan-settled", "emp-1", "0", "1000", periodEnd)
	otherEmployee := activeLoan("loan-other", "emp-2", "5000", "1000", periodEnd)

	total, payments, err := svc.ApplyForPeriod(
		context.Background(), "emp-1",
		[]deduction.Loan{notDue, manual, inactive, settled, otherEmployee},
		day(2025, time.January, 16), periodEnd,
	)
	require.NoError(t, err)

	assert.True(t, total.IsZero())
	assert.Empty(t, payments)
	assert.Empty(t, repo.applied)
}

func TestApplyForPeriod_SumsMultipleLoans(t *testing.T) {
	t.Parallel()
	repo := &fakeLoanRepo{}
	svc := &LoanServiceImpl{loanRepo: repo}

	periodEnd := day(2025, time.January, 31)
	loans := []deduction.Loan{
		activeLoan("loan-1", "emp-1", "5000", "1000", periodEnd),
		activeLoan("loan-2", "emp-1", "2000", "500", periodEnd),
	}

	total, payments, err := svc.ApplyForPeriod(context.Background(), "emp-1", loans, day(2025, time.January, 16), periodEnd)
	require.NoError(t, err)

	assert.Equal(t, "1500", total.String())
	assert.Len(t, payments, 2)
	assert.Len(t, repo.applied, 2)
}
