package settlement

import (
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Inputs are the candidate records gathered for one driver. Fees and advances are
// expected to have been resolved already.
type Inputs struct {
	Loads    []load.Load
	Fuel     []fuel.FuelTransaction
	Fees     []deduction.RecurringFee
	Advances []deduction.CashAdvance
}

// Calculate derives a driver's settlement for the period. It has no side effects.
// Amounts keep full decimal precision; net pay may be negative.
func Calculate(d driver.Driver, p settlement.Period, in Inputs) settlement.Entry {
	e := settlement.Entry{
		Driver:       d,
		Period:       p,
		Loads:        []load.Load{},
		Fuel:         []fuel.FuelTransaction{},
		Fees:         []deduction.RecurringFee{},
		Advances:     []deduction.CashAdvance{},
		GrossPay:     decimal.Zero,
		FuelTotal:    decimal.Zero,
		FeeTotal:     decimal.Zero,
		AdvanceTotal: decimal.Zero,
	}

	loadTotal := decimal.Zero
	for _, l := range in.Loads {
		if !loadBelongsTo(l, d, p) {
			continue
		}
		e.Loads = append(e.Loads, l)
		loadTotal = loadTotal.Add(l.GrossAmount)
	}
	e.GrossPay = loadTotal.Mul(d.DriverPercent).Div(hundred)

	for _, tx := range in.Fuel {
		if !fuelBelongsTo(tx, d, p) {
			continue
		}
		e.Fuel = append(e.Fuel, tx)
		e.FuelTotal = e.FuelTotal.Add(tx.Amount)
	}

	for _, f := range in.Fees {
		e.Fees = append(e.Fees, f)
		e.FeeTotal = e.FeeTotal.Add(f.Amount)
	}

	for _, a := range in.Advances {
		e.Advances = append(e.Advances, a)
		e.AdvanceTotal = e.AdvanceTotal.Add(a.Amount)
	}

	e.NetPay = e.GrossPay.Sub(e.FuelTotal).Sub(e.FeeTotal).Sub(e.AdvanceTotal)
	return e
}

// A load belongs to the period holding its delivery date. Undated or unassigned
// loads belong to none.
func loadBelongsTo(l load.Load, d driver.Driver, p settlement.Period) bool {
	if l.DriverID == nil || *l.DriverID != d.ID {
		return false
	}
	return l.DeliveryDate != nil && p.Contains(*l.DeliveryDate)
}

// A fuel transaction is attributed through its reconciliation link when present,
// otherwise by name and unit.
func fuelBelongsTo(tx fuel.FuelTransaction, d driver.Driver, p settlement.Period) bool {
	if !p.Contains(tx.TranDate) {
		return false
	}
	if tx.DriverID != nil {
		return *tx.DriverID == d.ID
	}
	return d.Matches(tx.DriverName, tx.Unit)
}
