package deduction

import "errors"

var (
	ErrFeeNotFound            = errors.New("recurring fee not found")
	ErrAdvanceNotFound        = errors.New("cash advance not found")
	ErrDuplicateFee           = errors.New("fee for this driver, type, month and year already exists")
	ErrInstallmentExists      = errors.New("installment already recorded for this period")
	ErrConcurrentModification = errors.New("record was modified by a concurrent settlement run")
)
