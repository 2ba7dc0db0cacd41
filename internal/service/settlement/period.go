package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
)

// PeriodSelector resolves which drivers a settlement run covers.
type PeriodSelector struct {
	driverRepo driver.DriverRepository
}

func NewPeriodSelector(driverRepo driver.DriverRepository) *PeriodSelector {
	return &PeriodSelector{driverRepo: driverRepo}
}

// Select returns the drivers in scope. With an explicit filter the drivers come back in
// filter order without duplicates, whatever their status; ids that resolve to nothing
// are reported as issues. Without a filter every active driver is returned, by name.
func (s *PeriodSelector) Select(ctx context.Context, filter []string) ([]driver.Driver, []settlement.Issue, error) {
	if len(filter) == 0 {
		drivers, err := s.driverRepo.GetActive(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get active drivers: %w", err)
		}
		return drivers, nil, nil
	}

	var (
		drivers []driver.Driver
		issues  []settlement.Issue
		seen    = make(map[string]struct{}, len(filter))
	)
	for _, id := range filter {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		d, err := s.driverRepo.GetByID(ctx, id)
		if errors.Is(err, driver.ErrDriverNotFound) {
			slog.Warn("driver filter references unknown driver", "driver_id", id)
			issues = append(issues, settlement.Issue{
				Code:       settlement.IssueUnresolvedDriverReference,
				RecordKind: "driver",
				RecordID:   id,
				DriverID:   id,
				Message:    settlement.ErrUnresolvedDriverReference.Error(),
			})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get driver %s: %w", id, err)
		}
		drivers = append(drivers, d)
	}
	return drivers, issues, nil
}
