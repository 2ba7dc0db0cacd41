package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/google/uuid"
)

// amortize charges every fee and advance of the entry once for the period: it records
// an installment and decrements weeks_remaining, deactivating the record at zero.
// Records already in charged are skipped, so a period is amortized at most once.
// It must run inside the transaction that read the entry's records.
func (s *SettlementServiceImpl) amortize(ctx context.Context, entry settlement.Entry, charged ChargedSet) (int, error) {
	count := 0

	for _, f := range entry.Fees {
		ok, err := s.chargeOnce(ctx, charged, deduction.Installment{
			RecordKind:     deduction.RecordKindFee,
			RecordID:       f.ID,
			DriverID:       f.DriverID,
			PeriodStart:    entry.Period.Start,
			PeriodEnd:      entry.Period.End,
			Amount:         f.Amount,
			WeeksRemaining: remainingAfter(f.WeeksRemaining),
		}, func(ctx context.Context) error {
			return s.feeRepo.Decrement(ctx, f.ID, f.WeeksRemaining)
		})
		if err != nil {
			return count, fmt.Errorf("amortize fee %s: %w", f.ID, err)
		}
		if ok {
			count++
		}
	}

	for _, a := range entry.Advances {
		ok, err := s.chargeOnce(ctx, charged, deduction.Installment{
			RecordKind:     deduction.RecordKindAdvance,
			RecordID:       a.ID,
			DriverID:       a.DriverID,
			PeriodStart:    entry.Period.Start,
			PeriodEnd:      entry.Period.End,
			Amount:         a.Amount,
			WeeksRemaining: remainingAfter(a.WeeksRemaining),
		}, func(ctx context.Context) error {
			return s.advanceRepo.Decrement(ctx, a.ID, a.WeeksRemaining)
		})
		if err != nil {
			return count, fmt.Errorf("amortize advance %s: %w", a.ID, err)
		}
		if ok {
			count++
		}
	}

	return count, nil
}

func (s *SettlementServiceImpl) chargeOnce(ctx context.Context, charged ChargedSet, inst deduction.Installment, decrement func(context.Context) error) (bool, error) {
	if charged.Has(inst.RecordKind, inst.RecordID) {
		return false, nil
	}

	inst.ID = uuid.Must(uuid.NewV7()).String()
	err := s.installmentRepo.Record(ctx, inst)
	if errors.Is(err, deduction.ErrInstallmentExists) {
		slog.Debug("installment already recorded", "kind", inst.RecordKind, "record_id", inst.RecordID)
		charged.add(inst.RecordKind, inst.RecordID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := decrement(ctx); err != nil {
		return false, err
	}
	charged.add(inst.RecordKind, inst.RecordID)

	slog.Debug("deduction amortized",
		"kind", inst.RecordKind,
		"record_id", inst.RecordID,
		"driver_id", inst.DriverID,
		"weeks_remaining", inst.WeeksRemaining,
	)
	return true, nil
}

func remainingAfter(weeks int) int {
	if weeks <= 1 {
		return 0
	}
	return weeks - 1
}
