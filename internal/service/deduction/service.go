package deduction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/deduction"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
	"github.com/suweldohq/suweldo-backend-go/internal/repository/postgresql"
)

type LoanServiceImpl struct {
	db       *database.DB
	loanRepo deduction.LoanRepository
}

func NewLoanService(db *database.DB, loanRepo deduction.LoanRepository) deduction.LoanService {
	return &LoanServiceImpl{
		db:       db,
		loanRepo: loanRepo,
	}
}

func (s *LoanServiceImpl) CreateLoan(ctx context.Context, req deduction.CreateLoanRequest) (deduction.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.LoanResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)

	autoDeduct := true
	if req.AutoDeduct != nil {
		autoDeduct = *req.AutoDeduct
	}

	loan := deduction.Loan{
		ID:                uuid.New().String(),
		EmployeeID:        req.EmployeeID,
		DeductionType:     req.DeductionType,
		Principal:         req.Principal,
		RemainingBalance:  req.Principal,
		InstallmentAmount: req.InstallmentAmount,
		InstallmentsTotal: req.InstallmentsTotal,
		StartDate:         startDate,
		PaymentFrequency:  deduction.PaymentFrequency(req.PaymentFrequency),
		AutoDeduct:        autoDeduct,
		NextDeductionDate: startDate,
		IsActive:          true,
	}

	created, err := s.loanRepo.Create(ctx, loan)
	if err != nil {
		return deduction.LoanResponse{}, err
	}

	return toLoanResponse(created, time.Now()), nil
}

func (s *LoanServiceImpl) GetLoan(ctx context.Context, id string) (deduction.LoanResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return deduction.LoanResponse{}, err
	}
	return toLoanResponse(loan, time.Now()), nil
}

func (s *LoanServiceImpl) ListLoans(ctx context.Context, employeeID string) ([]deduction.LoanResponse, error) {
	loans, err := s.loanRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]deduction.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, toLoanResponse(loan, now))
	}
	return responses, nil
}

// RecordPayment posts a manual payment against a loan, outside payroll. A
// payment matching the full remaining balance settles the loan early.
func (s *LoanServiceImpl) RecordPayment(ctx context.Context, req deduction.RecordPaymentRequest) (deduction.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.PaymentResponse{}, err
	}

	var applied deduction.DeductionPayment
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		loan, err := s.loanRepo.GetByID(txCtx, req.LoanID)
		if err != nil {
			return err
		}
		if !loan.IsActive || loan.RemainingBalance.IsZero() {
			return deduction.ErrLoanInactive
		}
		if req.Amount.GreaterThan(loan.RemainingBalance) {
			return deduction.ErrLedgerInconsistency
		}

		newBalance := loan.RemainingBalance.Sub(req.Amount)
		installmentsPaid := loan.InstallmentsPaid
		if req.Amount.GreaterThanOrEqual(loan.InstallmentAmount) || newBalance.IsZero() {
			installmentsPaid++
		}
		stillActive := !newBalance.IsZero() && installmentsPaid < loan.InstallmentsTotal

		payment := deduction.DeductionPayment{
			ID:               uuid.New().String(),
			LoanID:           loan.ID,
			Amount:           req.Amount,
			ResultingBalance: newBalance,
			PaidAt:           time.Now(),
			Source:           "manual",
		}

		applied, err = s.loanRepo.ApplyPayment(txCtx, payment, newBalance, installmentsPaid, loan.NextDeductionDate, stillActive)
		return err
	})
	if err != nil {
		return deduction.PaymentResponse{}, err
	}

	return toPaymentResponse(applied), nil
}

func (s *LoanServiceImpl) ListPayments(ctx context.Context, loanID string) ([]deduction.PaymentResponse, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	payments, err := s.loanRepo.ListPayments(ctx, loanID)
	if err != nil {
		return nil, err
	}

	responses := make([]deduction.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, toPaymentResponse(payment))
	}
	return responses, nil
}

// ApplyForPeriod withholds one installment per due loan, capped at the
// remaining balance. It runs inside the caller's transaction context so the
// ledger rows commit with the payslip they fund.
func (s *LoanServiceImpl) ApplyForPeriod(ctx context.Context, employeeID string, loans []deduction.Loan, periodStart, periodEnd time.Time) (decimal.Decimal, []deduction.DeductionPayment, error) {
	total := decimal.Zero
	var payments []deduction.DeductionPayment

	for _, loan := range loans {
		if loan.EmployeeID != employeeID || !loan.AutoDeduct || !loan.IsActive {
			continue
		}
		if loan.NextDeductionDate.After(periodEnd) || loan.RemainingBalance.IsZero() {
			continue
		}

		amount := loan.InstallmentAmount
		if amount.GreaterThan(loan.RemainingBalance) {
			amount = loan.RemainingBalance
		}
		newBalance := loan.RemainingBalance.Sub(amount)
		if newBalance.IsNegative() {
			return decimal.Zero, nil, deduction.ErrLedgerInconsistency
		}
		installmentsPaid := loan.InstallmentsPaid + 1
		stillActive := !newBalance.IsZero() && installmentsPaid < loan.InstallmentsTotal

		nextDate, err := NextDeductionDate(loan.NextDeductionDate, loan.PaymentFrequency)
		if err != nil {
			return decimal.Zero, nil, err
		}

		ps, pe := periodStart, periodEnd
		payment := deduction.DeductionPayment{
			ID:               uuid.New().String(),
			LoanID:           loan.ID,
			Amount:           amount,
			ResultingBalance: newBalance,
			PeriodStart:      &ps,
			PeriodEnd:        &pe,
			PaidAt:           time.Now(),
			Source:           "payroll",
		}

		applied, err := s.loanRepo.ApplyPayment(ctx, payment, newBalance, installmentsPaid, nextDate, stillActive)
		if err != nil {
			return decimal.Zero, nil, err
		}

		total = total.Add(amount)
		payments = append(payments, applied)
	}

	return total, payments, nil
}

func toLoanResponse(loan deduction.Loan, now time.Time) deduction.LoanResponse {
	resp := deduction.LoanResponse{
		ID:                loan.ID,
		EmployeeID:        loan.EmployeeID,
		DeductionType:     loan.DeductionType,
		Principal:         loan.Principal,
		RemainingBalance:  loan.RemainingBalance,
		InstallmentAmount: loan.InstallmentAmount,
		InstallmentsTotal: loan.InstallmentsTotal,
		InstallmentsPaid:  loan.InstallmentsPaid,
		StartDate:         loan.StartDate.Format("2006-01-02"),
		PaymentFrequency:  string(loan.PaymentFrequency),
		AutoDeduct:        loan.AutoDeduct,
		NextDeductionDate: loan.NextDeductionDate.Format("2006-01-02"),
		Status:            string(loan.Status(now)),
	}
	if loan.EndDate != nil {
		endDate := loan.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	return resp
}

func toPaymentResponse(payment deduction.DeductionPayment) deduction.PaymentResponse {
	resp := deduction.PaymentResponse{
		ID:               payment.ID,
		LoanID:           payment.LoanID,
		Amount:           payment.Amount,
		ResultingBalance: payment.ResultingBalance,
		PaidAt:           payment.PaidAt.Format(time.RFC3339),
		Source:           payment.Source,
	}
	if payment.PeriodStart != nil {
		v := payment.PeriodStart.Format("2006-01-02")
		resp.PeriodStart = &v
	}
	if payment.PeriodEnd != nil {
		v := payment.PeriodEnd.Format("2006-01-02")
		resp.PeriodEnd = &v
	}
	return resp
}
