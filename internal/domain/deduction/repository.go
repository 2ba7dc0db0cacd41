package deduction

import (
	"context"
	"time"
)

type FeeFilter struct {
	DriverID *string
	Month    *int
	Year     *int
}

type FeeRepository interface {
	// Create returns ErrDuplicateFee when (driver, type, month, year) is taken.
	Create(ctx context.Context, f RecurringFee) (RecurringFee, error)
	GetByID(ctx context.Context, id string) (RecurringFee, error)
	GetAll(ctx context.Context) ([]RecurringFee, error)
	Search(ctx context.Context, filter FeeFilter) ([]RecurringFee, error)
	Update(ctx context.Context, f RecurringFee) (RecurringFee, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, driverID string, feeType FeeType, month, year int) (bool, error)
	// Decrement moves weeks_remaining from expected to expected-1 and deactivates the fee
	// at zero. It returns ErrConcurrentModification when the row no longer holds expected.
	Decrement(ctx context.Context, id string, expected int) error
}

type AdvanceFilter struct {
	DriverID *string
	From     *time.Time
	To       *time.Time
}

type AdvanceRepository interface {
	Create(ctx context.Context, a CashAdvance) (CashAdvance, error)
	GetByID(ctx context.Context, id string) (CashAdvance, error)
	GetAll(ctx context.Context) ([]CashAdvance, error)
	Search(ctx context.Context, filter AdvanceFilter) ([]CashAdvance, error)
	Update(ctx context.Context, a CashAdvance) (CashAdvance, error)
	Delete(ctx context.Context, id string) error
	Decrement(ctx context.Context, id string, expected int) error
}

type InstallmentRepository interface {
	// Record returns ErrInstallmentExists when the record was already charged for the period.
	Record(ctx context.Context, i Installment) error
	ListForPeriod(ctx context.Context, start, end time.Time) ([]Installment, error)
}
