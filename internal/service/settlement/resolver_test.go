package settlement

import (
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/stretchr/testify/assert"
)

func fee(id, driverID string, month, year int, active bool) deduction.RecurringFee {
	return deduction.RecurringFee{
		ID:             id,
		DriverID:       driverID,
		FeeType:        deduction.FeeTypeELD,
		Amount:         dec("50"),
		StartDate:      day("2024-03-01"),
		TotalWeeks:     1,
		WeeksRemaining: 1,
		Active:         active,
		FeeMonth:       month,
		FeeYear:        year,
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func feeID(f deduction.RecurringFee) string    { return f.ID }
func advanceID(a deduction.CashAdvance) string { return a.ID }

func TestApplicableFees(t *testing.T) {
	p := testPeriod(t)
	future := fee("future", "d-1", 3, 2024, true)
	future.StartDate = day("2024-03-11")

	fees := []deduction.RecurringFee{
		fee("current", "d-1", 3, 2024, true),
		fee("inactive", "d-1", 3, 2024, false),
		fee("charged", "d-1", 3, 2024, false),
		fee("april", "d-1", 4, 2024, true),
		fee("last-year", "d-1", 3, 2023, true),
		fee("other-driver", "d-2", 3, 2024, true),
		future,
	}
	charged := NewChargedSet([]deduction.Installment{{RecordKind: deduction.RecordKindFee, RecordID: "charged"}})

	got := ApplicableFees(fees, "d-1", p, charged)

	assert.Equal(t, []string{"current", "charged"}, ids(got, feeID))
}

func TestApplicableFees_BillingMonthFollowsPeriodStart(t *testing.T) {
	p, err := newPeriod("2024-03-28", "2024-04-03")
	assert.NoError(t, err)

	got := ApplicableFees([]deduction.RecurringFee{
		fee("march", "d-1", 3, 2024, true),
		fee("april", "d-1", 4, 2024, true),
	}, "d-1", p, ChargedSet{})

	assert.Equal(t, []string{"march"}, ids(got, feeID))
}

func TestApplicableAdvances(t *testing.T) {
	p := testPeriod(t)
	advances := []deduction.CashAdvance{
		{ID: "given-before", DriverID: "d-1", GivenDate: day("2024-02-20"), Active: true},
		{ID: "given-on-end", DriverID: "d-1", GivenDate: day("2024-03-10"), Active: true},
		{ID: "given-after", DriverID: "d-1", GivenDate: day("2024-03-11"), Active: true},
		{ID: "paid-off", DriverID: "d-1", GivenDate: day("2024-02-01"), Active: false},
		{ID: "charged", DriverID: "d-1", GivenDate: day("2024-02-01"), Active: false},
		{ID: "other-driver", DriverID: "d-2", GivenDate: day("2024-03-05"), Active: true},
	}
	charged := NewChargedSet([]deduction.Installment{{RecordKind: deduction.RecordKindAdvance, RecordID: "charged"}})

	got := ApplicableAdvances(advances, "d-1", p, charged)

	assert.Equal(t, []string{"given-before", "given-on-end", "charged"}, ids(got, advanceID))
}

func TestChargedSet_DistinguishesKinds(t *testing.T) {
	set := NewChargedSet([]deduction.Installment{{RecordKind: deduction.RecordKindFee, RecordID: "x"}})

	assert.True(t, set.Has(deduction.RecordKindFee, "x"))
	assert.False(t, set.Has(deduction.RecordKindAdvance, "x"))
}

func TestOnPaymentPlan(t *testing.T) {
	plan := fee("plan", "d-1", 3, 2024, true)
	plan.TotalWeeks = 4
	plan.WeeksRemaining = 3
	finished := plan
	finished.ID = "finished"
	finished.DriverID = "d-2"
	finished.Active = false

	fees := []deduction.RecurringFee{plan, finished, fee("single", "d-3", 3, 2024, true)}

	assert.True(t, OnPaymentPlan(fees, "d-1", deduction.FeeTypeELD))
	assert.False(t, OnPaymentPlan(fees, "d-1", deduction.FeeTypeTVC))
	assert.False(t, OnPaymentPlan(fees, "d-2", deduction.FeeTypeELD))
	assert.False(t, OnPaymentPlan(fees, "d-3", deduction.FeeTypeELD))
}
