package settlement

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/shopspring/decimal"
)

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod truncates both bounds to UTC dates and rejects an end before the start.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: dateOf(start), End: dateOf(end)}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// Contains reports whether the calendar day of t falls within the period.
func (p Period) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// BillingMonth is the month and year of the period start. Recurring fees are billed
// against it.
func (p Period) BillingMonth() (month, year int) {
	return int(p.Start.Month()), p.Start.Year()
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Entry is one driver's settlement for a period. It is derived on every request and
// never stored.
type Entry struct {
	Driver       driver.Driver
	Period       Period
	Loads        []load.Load
	Fuel         []fuel.FuelTransaction
	Fees         []deduction.RecurringFee
	Advances     []deduction.CashAdvance
	GrossPay     decimal.Decimal
	FuelTotal    decimal.Decimal
	FeeTotal     decimal.Decimal
	AdvanceTotal decimal.Decimal
	NetPay       decimal.Decimal
}

type IssueCode string

const (
	IssueUnresolvedDriverReference IssueCode = "unresolved_driver_reference"
)

// Issue is a data problem found during a run. The offending record is left out of
// every total and the run carries on.
type Issue struct {
	Code       IssueCode `json:"code"`
	RecordKind string    `json:"record_kind"`
	RecordID   string    `json:"record_id"`
	DriverID   string    `json:"driver_id"`
	Message    string    `json:"message"`
}
