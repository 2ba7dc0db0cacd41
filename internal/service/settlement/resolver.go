package settlement

import (
	"context"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
)

// DeductionResolver decides which fees and advances apply to a driver and period.
type DeductionResolver struct {
	feeRepo deduction.FeeRepository
}

func NewDeductionResolver(feeRepo deduction.FeeRepository) *DeductionResolver {
	return &DeductionResolver{feeRepo: feeRepo}
}

// IsDuplicate reports whether a fee already exists for the exact
// (driver, type, month, year) key.
func (r *DeductionResolver) IsDuplicate(ctx context.Context, driverID string, feeType deduction.FeeType, month, year int) (bool, error) {
	return r.feeRepo.Exists(ctx, driverID, feeType, month, year)
}

// OnPaymentPlan reports whether the driver has an active multi-week fee of feeType.
// Single-installment fees are not a plan.
func OnPaymentPlan(fees []deduction.RecurringFee, driverID string, feeType deduction.FeeType) bool {
	for _, f := range fees {
		if f.DriverID == driverID && f.FeeType == feeType && f.IsPaymentPlan() {
			return true
		}
	}
	return false
}

type chargeKey struct {
	kind deduction.RecordKind
	id   string
}

// ChargedSet holds the records already amortized for one period.
type ChargedSet map[chargeKey]struct{}

func NewChargedSet(installments []deduction.Installment) ChargedSet {
	set := make(ChargedSet, len(installments))
	for _, i := range installments {
		set[chargeKey{kind: i.RecordKind, id: i.RecordID}] = struct{}{}
	}
	return set
}

func (c ChargedSet) Has(kind deduction.RecordKind, id string) bool {
	_, ok := c[chargeKey{kind: kind, id: id}]
	return ok
}

func (c ChargedSet) add(kind deduction.RecordKind, id string) {
	c[chargeKey{kind: kind, id: id}] = struct{}{}
}

// ApplicableFees selects the driver's fees billed for the month of the period start
// that started on or before the period end. A fee counts while it is active, or when it
// was already charged for this exact period, so re-running a period reproduces it.
func ApplicableFees(fees []deduction.RecurringFee, driverID string, p settlement.Period, charged ChargedSet) []deduction.RecurringFee {
	month, year := p.BillingMonth()
	var out []deduction.RecurringFee
	for _, f := range fees {
		if f.DriverID != driverID {
			continue
		}
		if !f.Active && !charged.Has(deduction.RecordKindFee, f.ID) {
			continue
		}
		if f.StartDate.After(p.End) {
			continue
		}
		if f.FeeMonth != month || f.FeeYear != year {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ApplicableAdvances selects the driver's advances given on or before the period end
// that are active or already charged for this period.
func ApplicableAdvances(advances []deduction.CashAdvance, driverID string, p settlement.Period, charged ChargedSet) []deduction.CashAdvance {
	var out []deduction.CashAdvance
	for _, a := range advances {
		if a.DriverID != driverID {
			continue
		}
		if !a.Active && !charged.Has(deduction.RecordKindAdvance, a.ID) {
			continue
		}
		if a.GivenDate.After(p.End) {
			continue
		}
		out = append(out, a)
	}
	return out
}
