package fuel

import "errors"

var (
	ErrFuelTransactionNotFound  = errors.New("fuel transaction not found")
	ErrDuplicateFuelTransaction = errors.New("fuel transaction with the same invoice, date, location and amount already exists")
)
