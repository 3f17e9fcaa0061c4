package deduction

import "errors"

var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanInactive         = errors.New("loan is not active")
	ErrLedgerInconsistency  = errors.New("loan payment would drive balance below zero or exceed installment count")
	ErrInvalidFrequency     = errors.New("invalid payment frequency")
	ErrZeroPayment          = errors.New("payment amount must be positive")
)
