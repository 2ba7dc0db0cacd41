package fuel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
)

type FuelServiceImpl struct {
	tx         database.Transactor
	fuelRepo   fuel.FuelRepository
	driverRepo driver.DriverRepository
}

func NewFuelService(tx database.Transactor, fuelRepo fuel.FuelRepository, driverRepo driver.DriverRepository) fuel.FuelService {
	return &FuelServiceImpl{tx: tx, fuelRepo: fuelRepo, driverRepo: driverRepo}
}

// Create implements fuel.FuelService.
func (s *FuelServiceImpl) Create(ctx context.Context, req fuel.CreateFuelTransactionRequest) (fuel.FuelTransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return fuel.FuelTransactionResponse{}, err
	}

	var created fuel.FuelTransaction
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		drivers, err := s.driverRepo.GetActive(txCtx)
		if err != nil {
			return err
		}
		tx := req.ToEntity()
		if tx.DriverID != nil {
			if _, err := s.driverRepo.GetByID(txCtx, *tx.DriverID); err != nil {
				return err
			}
		}

		var ok bool
		created, ok, err = s.insert(txCtx, tx, drivers)
		if err != nil {
			return err
		}
		if !ok {
			return fuel.ErrDuplicateFuelTransaction
		}
		return nil
	})
	if err != nil {
		return fuel.FuelTransactionResponse{}, err
	}
	return fuel.NewFuelTransactionResponse(created), nil
}

// Import implements fuel.FuelService. Rows matching an existing transaction are
// counted as duplicates and skipped; the rest are inserted in one transaction.
func (s *FuelServiceImpl) Import(ctx context.Context, req fuel.ImportFuelRequest) (fuel.ImportFuelResponse, error) {
	if err := req.Validate(); err != nil {
		return fuel.ImportFuelResponse{}, err
	}

	var resp fuel.ImportFuelResponse
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		drivers, err := s.driverRepo.GetActive(txCtx)
		if err != nil {
			return err
		}

		for i := range req.Transactions {
			created, ok, err := s.insert(txCtx, req.Transactions[i].ToEntity(), drivers)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			if !ok {
				resp.Duplicates++
				continue
			}
			resp.Imported++
			if created.DriverID != nil {
				resp.Linked++
			} else {
				resp.Unassigned++
			}
		}
		return nil
	})
	if err != nil {
		return fuel.ImportFuelResponse{}, err
	}

	slog.Info("fuel import finished",
		"imported", resp.Imported,
		"duplicates", resp.Duplicates,
		"linked", resp.Linked,
		"unassigned", resp.Unassigned,
	)
	return resp, nil
}

// insert skips duplicates and links unassigned rows to the single active driver whose
// name and unit match the statement.
func (s *FuelServiceImpl) insert(ctx context.Context, tx fuel.FuelTransaction, drivers []driver.Driver) (fuel.FuelTransaction, bool, error) {
	exists, err := s.fuelRepo.Exists(ctx, tx)
	if err != nil {
		return fuel.FuelTransaction{}, false, err
	}
	if exists {
		return fuel.FuelTransaction{}, false, nil
	}

	if tx.DriverID == nil {
		tx.DriverID = matchDriver(drivers, tx.DriverName, tx.Unit)
	}
	created, err := s.fuelRepo.Create(ctx, tx)
	if err != nil {
		return fuel.FuelTransaction{}, false, err
	}
	return created, true, nil
}

func matchDriver(drivers []driver.Driver, name, unit string) *string {
	var match *string
	for i := range drivers {
		if !drivers[i].Matches(name, unit) {
			continue
		}
		if match != nil {
			return nil
		}
		match = &drivers[i].ID
	}
	return match
}

// List implements fuel.FuelService.
func (s *FuelServiceImpl) List(ctx context.Context, req fuel.ListFuelRequest) ([]fuel.FuelTransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	txs, err := s.fuelRepo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list fuel transactions: %w", err)
	}
	return fuel.NewFuelTransactionResponses(txs), nil
}

// AssignDriver implements fuel.FuelService.
func (s *FuelServiceImpl) AssignDriver(ctx context.Context, req fuel.AssignDriverRequest) (fuel.FuelTransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return fuel.FuelTransactionResponse{}, err
	}

	var updated fuel.FuelTransaction
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if req.DriverID != nil {
			if _, err := s.driverRepo.GetByID(txCtx, *req.DriverID); err != nil {
				return err
			}
		}
		if err := s.fuelRepo.SetDriver(txCtx, req.ID, req.DriverID); err != nil {
			return err
		}
		var err error
		updated, err = s.fuelRepo.GetByID(txCtx, req.ID)
		return err
	})
	if err != nil {
		return fuel.FuelTransactionResponse{}, err
	}
	return fuel.NewFuelTransactionResponse(updated), nil
}

// Delete implements fuel.FuelService.
func (s *FuelServiceImpl) Delete(ctx context.Context, id string) error {
	return s.fuelRepo.Delete(ctx, id)
}
