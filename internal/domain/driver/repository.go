package driver

import "context"

type DriverFilter struct {
	Status *Status
	Search *string
}

type DriverRepository interface {
	Create(ctx context.Context, d Driver) (Driver, error)
	GetByID(ctx context.Context, id string) (Driver, error)
	// GetActive returns ACTIVE drivers ordered by name.
	GetActive(ctx context.Context) ([]Driver, error)
	List(ctx context.Context, filter DriverFilter) ([]Driver, error)
	Update(ctx context.Context, d Driver) (Driver, error)
	Delete(ctx context.Context, id string) error
	// ExistsActiveByName checks the normalized name among active drivers, ignoring excludeID.
	ExistsActiveByName(ctx context.Context, name string, excludeID string) (bool, error)
	// IsReferenced reports whether any load, fuel transaction, fee or advance points at the driver.
	IsReferenced(ctx context.Context, id string) (bool, error)
}
