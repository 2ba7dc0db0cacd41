package load

import (
	"context"
	"time"
)

type LoadFilter struct {
	DriverID *string
	Status   *Status
	From     *time.Time
	To       *time.Time
	Search   *string
}

type LoadRepository interface {
	Create(ctx context.Context, l Load) (Load, error)
	GetByID(ctx context.Context, id string) (Load, error)
	List(ctx context.Context, filter LoadFilter) ([]Load, error)
	Update(ctx context.Context, l Load) (Load, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	ExistsByLoadNumber(ctx context.Context, loadNumber string, excludeID string) (bool, error)

	// GetByDriverAndDateRange returns the driver's loads delivered within [from, to].
	GetByDriverAndDateRange(ctx context.Context, driverID string, from, to time.Time) ([]Load, error)
	// GetUnassigned returns loads delivered within [from, to] that have no driver.
	GetUnassigned(ctx context.Context, from, to time.Time) ([]Load, error)
	// GetOrphaned returns loads delivered within [from, to] whose driver no longer exists.
	GetOrphaned(ctx context.Context, from, to time.Time) ([]Load, error)
}
