package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
)

func (s *SettlementServiceImpl) ApplyBatchFees(ctx context.Context, req settlement.BatchFeeRequest) (settlement.BatchFeeResult, error) {
	if err := req.Validate(); err != nil {
		return settlement.BatchFeeResult{}, err
	}

	result := settlement.BatchFeeResult{
		AppliedFees: []settlement.AppliedFee{},
		Skipped:     []settlement.BatchFeeSkip{},
	}
	charges := req.Charges()
	if len(charges) == 0 {
		result.Summary = batchSummary(result)
		return result, nil
	}

	drivers, err := s.driverRepo.GetActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to get active drivers: %w", err)
	}
	fees, err := s.feeRepo.GetAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to get recurring fees: %w", err)
	}

	firstOfMonth := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)

	for _, d := range drivers {
		for _, c := range charges {
			created, reason, err := s.applyFee(ctx, d, c, fees, req.Month, req.Year, firstOfMonth)
			if err != nil {
				result.Summary = batchSummary(result)
				slog.Error("batch fee application stopped",
					"driver_id", d.ID,
					"fee_type", c.FeeType,
					"applied", result.Applied,
					"error", err,
				)
				return result, fmt.Errorf("apply %s fee for driver %s: %w", c.FeeType, d.ID, err)
			}
			if reason != "" {
				skip := settlement.BatchFeeSkip{
					DriverID:   d.ID,
					DriverName: d.Name,
					FeeType:    string(c.FeeType),
					Reason:     reason,
				}
				slog.Debug("batch fee skipped", "skip", skip.String())
				result.Skipped = append(result.Skipped, skip)
				continue
			}
			result.AppliedFees = append(result.AppliedFees, settlement.AppliedFee{
				FeeID:      created.ID,
				DriverID:   d.ID,
				DriverName: d.Name,
				FeeType:    string(c.FeeType),
				Amount:     created.Amount,
			})
			result.Applied++
		}
	}

	result.Summary = batchSummary(result)
	slog.Info("batch fees applied",
		"month", req.Month,
		"year", req.Year,
		"applied", result.Applied,
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// applyFee creates one single-installment fee in its own transaction. A non-empty
// reason means the pair was skipped.
func (s *SettlementServiceImpl) applyFee(
	ctx context.Context,
	d driver.Driver,
	c settlement.FeeCharge,
	fees []deduction.RecurringFee,
	month, year int,
	firstOfMonth time.Time,
) (deduction.RecurringFee, string, error) {
	var (
		created deduction.RecurringFee
		reason  string
	)
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		dup, err := s.resolver.IsDuplicate(txCtx, d.ID, c.FeeType, month, year)
		if err != nil {
			return err
		}
		if dup {
			reason = settlement.SkipReasonDuplicate
			return nil
		}
		if OnPaymentPlan(fees, d.ID, c.FeeType) {
			reason = settlement.SkipReasonPaymentPlan
			return nil
		}

		created, err = s.feeRepo.Create(txCtx, deduction.RecurringFee{
			DriverID:       d.ID,
			FeeType:        c.FeeType,
			Amount:         c.Amount,
			StartDate:      firstOfMonth,
			TotalWeeks:     1,
			WeeksRemaining: 1,
			Active:         true,
			FeeMonth:       month,
			FeeYear:        year,
		})
		if errors.Is(err, deduction.ErrDuplicateFee) {
			reason = settlement.SkipReasonDuplicate
			return nil
		}
		return err
	})
	return created, reason, err
}

func batchSummary(r settlement.BatchFeeResult) string {
	drivers := make(map[string]struct{})
	for _, f := range r.AppliedFees {
		drivers[f.DriverID] = struct{}{}
	}
	return fmt.Sprintf("Fees applied for %d drivers", len(drivers))
}
