package settlement

import (
	"fmt"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculateSettlementsRequest struct {
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	DriverIDs   []string `json:"driver_ids,omitempty"`
	DryRun      bool     `json:"dry_run"`
}

// Validate checks the request shape. An end before the start is reported by the
// service as ErrInvalidPeriod.
func (r *CalculateSettlementsRequest) Validate() error {
	var errs validator.ValidationErrors

	start, end := r.PeriodStart, r.PeriodEnd
	errs = validator.CheckDate(errs, "period_start", &start, true)
	errs = validator.CheckDate(errs, "period_end", &end, true)
	for i, id := range r.DriverIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("driver_ids[%d]", i), Message: "must be a valid UUID"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period parses a validated request.
func (r *CalculateSettlementsRequest) Period() (Period, error) {
	return NewPeriod(validator.ParseDate(r.PeriodStart), validator.ParseDate(r.PeriodEnd))
}

type EntryResponse struct {
	DriverID         string                         `json:"driver_id"`
	DriverName       string                         `json:"driver_name"`
	TruckUnit        string                         `json:"truck_unit"`
	DriverPercent    decimal.Decimal                `json:"driver_percent"`
	PeriodStart      string                         `json:"period_start"`
	PeriodEnd        string                         `json:"period_end"`
	Loads            []load.LoadResponse            `json:"loads"`
	FuelTransactions []fuel.FuelTransactionResponse `json:"fuel_transactions"`
	Fees             []deduction.FeeResponse        `json:"fees"`
	Advances         []deduction.AdvanceResponse    `json:"advances"`
	GrossPay         decimal.Decimal                `json:"gross_pay"`
	FuelTotal        decimal.Decimal                `json:"fuel_total"`
	FeeTotal         decimal.Decimal                `json:"fee_total"`
	AdvanceTotal     decimal.Decimal                `json:"advance_total"`
	NetPay           decimal.Decimal                `json:"net_pay"`
}

func NewEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		DriverID:         e.Driver.ID,
		DriverName:       e.Driver.Name,
		TruckUnit:        e.Driver.TruckUnit,
		DriverPercent:    e.Driver.DriverPercent,
		PeriodStart:      e.Period.Start.Format("2006-01-02"),
		PeriodEnd:        e.Period.End.Format("2006-01-02"),
		Loads:            load.NewLoadResponses(e.Loads),
		FuelTransactions: fuel.NewFuelTransactionResponses(e.Fuel),
		Fees:             deduction.NewFeeResponses(e.Fees),
		Advances:         deduction.NewAdvanceResponses(e.Advances),
		GrossPay:         e.GrossPay,
		FuelTotal:        e.FuelTotal,
		FeeTotal:         e.FeeTotal,
		AdvanceTotal:     e.AdvanceTotal,
		NetPay:           e.NetPay,
	}
}

type Summary struct {
	DriverCount      int             `json:"driver_count"`
	GrossPay         decimal.Decimal `json:"gross_pay"`
	FuelTotal        decimal.Decimal `json:"fuel_total"`
	FeeTotal         decimal.Decimal `json:"fee_total"`
	AdvanceTotal     decimal.Decimal `json:"advance_total"`
	NetPay           decimal.Decimal `json:"net_pay"`
	NegativeNetCount int             `json:"negative_net_count"`
}

// Summarize totals a set of entries.
func Summarize(entries []Entry) Summary {
	s := Summary{
		DriverCount:  len(entries),
		GrossPay:     decimal.Zero,
		FuelTotal:    decimal.Zero,
		FeeTotal:     decimal.Zero,
		AdvanceTotal: decimal.Zero,
		NetPay:       decimal.Zero,
	}
	for _, e := range entries {
		s.GrossPay = s.GrossPay.Add(e.GrossPay)
		s.FuelTotal = s.FuelTotal.Add(e.FuelTotal)
		s.FeeTotal = s.FeeTotal.Add(e.FeeTotal)
		s.AdvanceTotal = s.AdvanceTotal.Add(e.AdvanceTotal)
		s.NetPay = s.NetPay.Add(e.NetPay)
		if e.NetPay.IsNegative() {
			s.NegativeNetCount++
		}
	}
	return s
}

type CalculateSettlementsResponse struct {
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	DryRun      bool            `json:"dry_run"`
	Entries     []EntryResponse `json:"entries"`
	Summary     Summary         `json:"summary"`
	Issues      []Issue         `json:"issues"`
	Amortized   int             `json:"amortized"`
}

// ========== BATCH FEE DTOs ==========

type BatchFeeRequest struct {
	Amounts map[string]validator.Amount `json:"amounts"`
	Month   int                         `json:"month"`
	Year    int                         `json:"year"`
}

func (r *BatchFeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Amounts) == 0 {
		errs = append(errs, validator.ValidationError{Field: "amounts", Message: "must contain at least one fee type"})
	}
	for feeType, amount := range r.Amounts {
		field := "amounts." + feeType
		if !deduction.IsValidFeeType(feeType) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "unknown fee type"})
			continue
		}
		errs = validator.CheckAmount(errs, field, amount, false, true)
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Charges returns the positive amounts in fee type order. Non-positive entries are dropped.
func (r *BatchFeeRequest) Charges() []FeeCharge {
	var out []FeeCharge
	for _, t := range deduction.FeeTypes {
		raw, ok := r.Amounts[string(t)]
		if !ok || raw.IsZero() {
			continue
		}
		amount := raw.Decimal()
		if !amount.IsPositive() {
			continue
		}
		out = append(out, FeeCharge{FeeType: t, Amount: amount})
	}
	return out
}

type FeeCharge struct {
	FeeType deduction.FeeType
	Amount  decimal.Decimal
}

const (
	SkipReasonDuplicate   = "duplicate"
	SkipReasonPaymentPlan = "payment plan"
)

type BatchFeeSkip struct {
	DriverID   string `json:"driver_id"`
	DriverName string `json:"driver_name"`
	FeeType    string `json:"fee_type"`
	Reason     string `json:"reason"`
}

func (s BatchFeeSkip) String() string {
	return fmt.Sprintf("%s (%s, %s)", s.DriverName, s.FeeType, s.Reason)
}

type AppliedFee struct {
	FeeID      string          `json:"fee_id"`
	DriverID   string          `json:"driver_id"`
	DriverName string          `json:"driver_name"`
	FeeType    string          `json:"fee_type"`
	Amount     decimal.Decimal `json:"amount"`
}

type BatchFeeResult struct {
	Applied     int            `json:"applied"`
	AppliedFees []AppliedFee   `json:"applied_fees"`
	Skipped     []BatchFeeSkip `json:"skipped"`
	Summary     string         `json:"summary"`
}

// ========== OVERVIEW DTOs ==========

type OverviewRequest struct {
	PeriodStart string
	PeriodEnd   string
}

func (r *OverviewRequest) Validate() error {
	var errs validator.ValidationErrors
	start, end := r.PeriodStart, r.PeriodEnd
	errs = validator.CheckDate(errs, "start", &start, true)
	errs = validator.CheckDate(errs, "end", &end, true)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *OverviewRequest) Period() (Period, error) {
	return NewPeriod(validator.ParseDate(r.PeriodStart), validator.ParseDate(r.PeriodEnd))
}

type OverviewResponse struct {
	PeriodStart         string                         `json:"period_start"`
	PeriodEnd           string                         `json:"period_end"`
	UnassignedFuel      []fuel.FuelTransactionResponse `json:"unassigned_fuel"`
	UnassignedFuelTotal decimal.Decimal                `json:"unassigned_fuel_total"`
	UnassignedLoads     []load.LoadResponse            `json:"unassigned_loads"`
	OrphanedLoads       []load.LoadResponse            `json:"orphaned_loads"`
}

// ========== EXPORT DTOs ==========

type ExportRequest struct {
	PeriodStart string
	PeriodEnd   string
	DriverIDs   []string
	// Format is xlsx or csv; empty means xlsx.
	Format string
}

// Calculation returns the dry-run request an export is computed from.
func (r *ExportRequest) Calculation() CalculateSettlementsRequest {
	return CalculateSettlementsRequest{
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		DriverIDs:   r.DriverIDs,
		DryRun:      true,
	}
}

type ExportFile struct {
	FileName    string
	ContentType string
}
