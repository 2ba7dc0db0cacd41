package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/driver-settlement-go/internal/config"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
)

type SettlementServiceImpl struct {
	tx              database.Transactor
	selector        *PeriodSelector
	resolver        *DeductionResolver
	driverRepo      driver.DriverRepository
	loadRepo        load.LoadRepository
	fuelRepo        fuel.FuelRepository
	feeRepo         deduction.FeeRepository
	advanceRepo     deduction.AdvanceRepository
	installmentRepo deduction.InstallmentRepository
	amortization    bool
}

func NewSettlementService(
	tx database.Transactor,
	driverRepo driver.DriverRepository,
	loadRepo load.LoadRepository,
	fuelRepo fuel.FuelRepository,
	feeRepo deduction.FeeRepository,
	advanceRepo deduction.AdvanceRepository,
	installmentRepo deduction.InstallmentRepository,
	cfg config.SettlementConfig,
) settlement.SettlementService {
	return &SettlementServiceImpl{
		tx:              tx,
		selector:        NewPeriodSelector(driverRepo),
		resolver:        NewDeductionResolver(feeRepo),
		driverRepo:      driverRepo,
		loadRepo:        loadRepo,
		fuelRepo:        fuelRepo,
		feeRepo:         feeRepo,
		advanceRepo:     advanceRepo,
		installmentRepo: installmentRepo,
		amortization:    cfg.AmortizationEnabled,
	}
}

// CalculateSettlements reads every input and applies amortization inside one snapshot
// transaction, so a run never sees another run's half-applied decrements.
func (s *SettlementServiceImpl) CalculateSettlements(ctx context.Context, req settlement.CalculateSettlementsRequest) (settlement.CalculateSettlementsResponse, error) {
	if err := req.Validate(); err != nil {
		return settlement.CalculateSettlementsResponse{}, err
	}
	period, err := req.Period()
	if err != nil {
		return settlement.CalculateSettlementsResponse{}, err
	}

	amortize := s.amortization && !req.DryRun
	var (
		entries   []settlement.Entry
		issues    []settlement.Issue
		amortized int
	)

	err = s.tx.WithinSnapshotTx(ctx, func(txCtx context.Context) error {
		drivers, selectIssues, err := s.selector.Select(txCtx, req.DriverIDs)
		if err != nil {
			return err
		}
		issues = append(issues, selectIssues...)

		fees, err := s.feeRepo.GetAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to get recurring fees: %w", err)
		}
		advances, err := s.advanceRepo.GetAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to get cash advances: %w", err)
		}
		installments, err := s.installmentRepo.ListForPeriod(txCtx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to get installments: %w", err)
		}
		charged := NewChargedSet(installments)

		danglingIssues, err := s.danglingReferences(txCtx, period, fees, advances)
		if err != nil {
			return err
		}
		issues = append(issues, danglingIssues...)

		for _, d := range drivers {
			loads, err := s.loadRepo.GetByDriverAndDateRange(txCtx, d.ID, period.Start, period.End)
			if err != nil {
				return fmt.Errorf("failed to get loads for driver %s: %w", d.ID, err)
			}
			fuelTxs, err := s.fuelRepo.GetForDriver(txCtx, d.ID, d.Name, d.TruckUnit, period.Start, period.End)
			if err != nil {
				return fmt.Errorf("failed to get fuel for driver %s: %w", d.ID, err)
			}

			entry := Calculate(d, period, Inputs{
				Loads:    loads,
				Fuel:     fuelTxs,
				Fees:     ApplicableFees(fees, d.ID, period, charged),
				Advances: ApplicableAdvances(advances, d.ID, period, charged),
			})

			if amortize {
				n, err := s.amortize(txCtx, entry, charged)
				if err != nil {
					return err
				}
				amortized += n
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return settlement.CalculateSettlementsResponse{}, err
	}

	resp := settlement.CalculateSettlementsResponse{
		PeriodStart: period.Start.Format("2006-01-02"),
		PeriodEnd:   period.End.Format("2006-01-02"),
		DryRun:      !amortize,
		Entries:     make([]settlement.EntryResponse, 0, len(entries)),
		Summary:     settlement.Summarize(entries),
		Issues:      issues,
		Amortized:   amortized,
	}
	if resp.Issues == nil {
		resp.Issues = []settlement.Issue{}
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, settlement.NewEntryResponse(e))
	}

	slog.Info("settlements calculated",
		"period", period.String(),
		"drivers", len(entries),
		"dry_run", resp.DryRun,
		"amortized", amortized,
		"issues", len(resp.Issues),
		"net_pay", resp.Summary.NetPay.String(),
	)
	return resp, nil
}

// danglingReferences reports period records whose driver does not exist. They are
// excluded from every entry because no driver in scope can match them.
func (s *SettlementServiceImpl) danglingReferences(ctx context.Context, p settlement.Period, fees []deduction.RecurringFee, advances []deduction.CashAdvance) ([]settlement.Issue, error) {
	all, err := s.driverRepo.List(ctx, driver.DriverFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	known := make(map[string]struct{}, len(all))
	for _, d := range all {
		known[d.ID] = struct{}{}
	}

	var issues []settlement.Issue
	month, year := p.BillingMonth()
	for _, f := range fees {
		if _, ok := known[f.DriverID]; ok || !f.Active || f.FeeMonth != month || f.FeeYear != year {
			continue
		}
		issues = append(issues, unresolved("fee", f.ID, f.DriverID))
	}
	for _, a := range advances {
		if _, ok := known[a.DriverID]; ok || !a.Active || a.GivenDate.After(p.End) {
			continue
		}
		issues = append(issues, unresolved("advance", a.ID, a.DriverID))
	}

	orphaned, err := s.loadRepo.GetOrphaned(ctx, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get orphaned loads: %w", err)
	}
	for _, l := range orphaned {
		issues = append(issues, unresolved("load", l.ID, *l.DriverID))
	}
	return issues, nil
}

func unresolved(kind, recordID, driverID string) settlement.Issue {
	slog.Warn("record references unknown driver", "kind", kind, "record_id", recordID, "driver_id", driverID)
	return settlement.Issue{
		Code:       settlement.IssueUnresolvedDriverReference,
		RecordKind: kind,
		RecordID:   recordID,
		DriverID:   driverID,
		Message:    settlement.ErrUnresolvedDriverReference.Error(),
	}
}
