package settlement

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func (s *SettlementServiceImpl) Overview(ctx context.Context, req settlement.OverviewRequest) (settlement.OverviewResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.OverviewResponse{}, err
	}
	period, err := req.Period()
	if err != nil {
		return settlement.OverviewResponse{}, err
	}

	var (
		unlinked   []fuel.FuelTransaction
		drivers    []driver.Driver
		unassigned []load.Load
		orphaned   []load.Load
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		unlinked, err = s.fuelRepo.GetUnlinked(gctx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to get unlinked fuel: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		drivers, err = s.driverRepo.List(gctx, driver.DriverFilter{})
		if err != nil {
			return fmt.Errorf("failed to list drivers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		unassigned, err = s.loadRepo.GetUnassigned(gctx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to get unassigned loads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orphaned, err = s.loadRepo.GetOrphaned(gctx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to get orphaned loads: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return settlement.OverviewResponse{}, err
	}

	// Unlinked fuel that still matches some driver by name and unit is not lost.
	var orphanFuel []fuel.FuelTransaction
	total := decimal.Zero
	for _, tx := range unlinked {
		if matchesAny(drivers, tx) {
			continue
		}
		orphanFuel = append(orphanFuel, tx)
		total = total.Add(tx.Amount)
	}

	return settlement.OverviewResponse{
		PeriodStart:         period.Start.Format("2006-01-02"),
		PeriodEnd:           period.End.Format("2006-01-02"),
		UnassignedFuel:      fuel.NewFuelTransactionResponses(orphanFuel),
		UnassignedFuelTotal: total,
		UnassignedLoads:     load.NewLoadResponses(unassigned),
		OrphanedLoads:       load.NewLoadResponses(orphaned),
	}, nil
}

func matchesAny(drivers []driver.Driver, tx fuel.FuelTransaction) bool {
	for _, d := range drivers {
		if d.Matches(tx.DriverName, tx.Unit) {
			return true
		}
	}
	return false
}
