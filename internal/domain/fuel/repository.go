package fuel

import (
	"context"
	"time"
)

type FuelFilter struct {
	DriverID       *string
	From           *time.Time
	To             *time.Time
	UnassignedOnly bool
}

type FuelRepository interface {
	Create(ctx context.Context, tx FuelTransaction) (FuelTransaction, error)
	GetByID(ctx context.Context, id string) (FuelTransaction, error)
	List(ctx context.Context, filter FuelFilter) ([]FuelTransaction, error)
	SetDriver(ctx context.Context, id string, driverID *string) error
	Delete(ctx context.Context, id string) error
	// Exists checks the duplicate key (invoice, date, location, amount) using trimmed
	// case-insensitive strings and the amount rounded to cents.
	Exists(ctx context.Context, tx FuelTransaction) (bool, error)

	// GetForDriver returns transactions dated within [from, to] that are either linked to
	// driverID or unlinked with a name and unit matching the driver.
	GetForDriver(ctx context.Context, driverID, driverName, unit string, from, to time.Time) ([]FuelTransaction, error)
	// GetUnlinked returns transactions dated within [from, to] that have no driver link.
	GetUnlinked(ctx context.Context, from, to time.Time) ([]FuelTransaction, error)
}
