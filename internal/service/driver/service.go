package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
)

type DriverServiceImpl struct {
	tx         database.Transactor
	driverRepo driver.DriverRepository
}

func NewDriverService(tx database.Transactor, driverRepo driver.DriverRepository) driver.DriverService {
	return &DriverServiceImpl{tx: tx, driverRepo: driverRepo}
}

// Create implements driver.DriverService.
func (s *DriverServiceImpl) Create(ctx context.Context, req driver.CreateDriverRequest) (driver.DriverResponse, error) {
	if err := req.Validate(); err != nil {
		return driver.DriverResponse{}, err
	}
	d := req.ToEntity()
	d.Name = strings.TrimSpace(d.Name)
	d.TruckUnit = strings.TrimSpace(d.TruckUnit)

	var created driver.Driver
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if d.IsActive() {
			exists, err := s.driverRepo.ExistsActiveByName(txCtx, d.Name, "")
			if err != nil {
				return err
			}
			if exists {
				return driver.ErrDriverNameExists
			}
		}

		var err error
		created, err = s.driverRepo.Create(txCtx, d)
		return err
	})
	if err != nil {
		return driver.DriverResponse{}, err
	}

	slog.Info("driver created", "driver_id", created.ID, "name", created.Name)
	return driver.NewDriverResponse(created), nil
}

// GetByID implements driver.DriverService.
func (s *DriverServiceImpl) GetByID(ctx context.Context, id string) (driver.DriverResponse, error) {
	d, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return driver.DriverResponse{}, err
	}
	return driver.NewDriverResponse(d), nil
}

// List implements driver.DriverService.
func (s *DriverServiceImpl) List(ctx context.Context, filter driver.DriverFilter) ([]driver.DriverResponse, error) {
	drivers, err := s.driverRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	out := make([]driver.DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, driver.NewDriverResponse(d))
	}
	return out, nil
}

// Update implements driver.DriverService. Reactivating a driver or renaming an active
// one re-checks the active name uniqueness.
func (s *DriverServiceImpl) Update(ctx context.Context, req driver.UpdateDriverRequest) (driver.DriverResponse, error) {
	if err := req.Validate(); err != nil {
		return driver.DriverResponse{}, err
	}

	var updated driver.Driver
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		d, err := s.driverRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		req.Apply(&d)
		d.Name = strings.TrimSpace(d.Name)
		d.TruckUnit = strings.TrimSpace(d.TruckUnit)

		if d.IsActive() {
			exists, err := s.driverRepo.ExistsActiveByName(txCtx, d.Name, d.ID)
			if err != nil {
				return err
			}
			if exists {
				return driver.ErrDriverNameExists
			}
		}

		updated, err = s.driverRepo.Update(txCtx, d)
		return err
	})
	if err != nil {
		return driver.DriverResponse{}, err
	}
	return driver.NewDriverResponse(updated), nil
}

// Delete implements driver.DriverService. A driver that any load, fuel transaction, fee
// or advance still points at cannot be removed; terminate it instead.
func (s *DriverServiceImpl) Delete(ctx context.Context, id string) error {
	return s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.driverRepo.GetByID(txCtx, id); err != nil {
			return err
		}
		referenced, err := s.driverRepo.IsReferenced(txCtx, id)
		if err != nil {
			return err
		}
		if referenced {
			return driver.ErrDriverInUse
		}
		if err := s.driverRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, driver.ErrDriverNotFound) {
				return err
			}
			return fmt.Errorf("failed to delete driver: %w", err)
		}
		return nil
	})
}
