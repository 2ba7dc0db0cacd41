package deduction

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const maxPlanWeeks = 52

// ========== FEE DTOs ==========

type CreateFeeRequest struct {
	DriverID   string           `json:"driver_id"`
	FeeType    string           `json:"fee_type"`
	Amount     validator.Amount `json:"amount"`
	StartDate  string           `json:"start_date"`
	TotalWeeks int              `json:"total_weeks"`
	FeeMonth   *int             `json:"fee_month,omitempty"`
	FeeYear    *int             `json:"fee_year,omitempty"`
}

func (r *CreateFeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "must be a valid UUID"})
	}
	if !IsValidFeeType(r.FeeType) {
		errs = append(errs, validator.ValidationError{Field: "fee_type", Message: "must be ELD, TVC, PARKING, ACH or OTHER"})
	}
	errs = validator.CheckAmount(errs, "amount", r.Amount, true, false)
	startDate := r.StartDate
	errs = validator.CheckDate(errs, "start_date", &startDate, true)
	if r.TotalWeeks < 0 || r.TotalWeeks > maxPlanWeeks {
		errs = append(errs, validator.ValidationError{Field: "total_weeks", Message: "must be between 1 and " + strconv.Itoa(maxPlanWeeks)})
	}
	errs = checkBillingMonth(errs, r.FeeMonth, r.FeeYear)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds a fee from a validated request. The billing month defaults to the
// start date's month and a missing plan length means a single installment.
func (r *CreateFeeRequest) ToEntity() RecurringFee {
	start := validator.ParseDate(r.StartDate)
	weeks := r.TotalWeeks
	if weeks == 0 {
		weeks = 1
	}
	f := RecurringFee{
		DriverID:       r.DriverID,
		FeeType:        FeeType(r.FeeType),
		Amount:         r.Amount.Decimal(),
		StartDate:      start,
		TotalWeeks:     weeks,
		WeeksRemaining: weeks,
		Active:         true,
		FeeMonth:       int(start.Month()),
		FeeYear:        start.Year(),
	}
	if r.FeeMonth != nil && r.FeeYear != nil {
		f.FeeMonth = *r.FeeMonth
		f.FeeYear = *r.FeeYear
	}
	return f
}

type UpdateFeeRequest struct {
	ID             string            `json:"-"`
	Amount         *validator.Amount `json:"amount,omitempty"`
	StartDate      *string           `json:"start_date,omitempty"`
	TotalWeeks     *int              `json:"total_weeks,omitempty"`
	WeeksRemaining *int              `json:"weeks_remaining,omitempty"`
	Active         *bool             `json:"active,omitempty"`
}

func (r *UpdateFeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Amount != nil {
		errs = validator.CheckAmount(errs, "amount", *r.Amount, true, false)
	}
	errs = validator.CheckDate(errs, "start_date", r.StartDate, false)
	if r.TotalWeeks != nil && (*r.TotalWeeks < 1 || *r.TotalWeeks > maxPlanWeeks) {
		errs = append(errs, validator.ValidationError{Field: "total_weeks", Message: "must be between 1 and " + strconv.Itoa(maxPlanWeeks)})
	}
	if r.WeeksRemaining != nil && *r.WeeksRemaining < 0 {
		errs = append(errs, validator.ValidationError{Field: "weeks_remaining", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the non-nil fields onto f and checks the resulting plan is consistent.
func (r *UpdateFeeRequest) Apply(f *RecurringFee) error {
	if r.Amount != nil {
		f.Amount = r.Amount.Decimal()
	}
	if r.StartDate != nil {
		f.StartDate = validator.ParseDate(*r.StartDate)
	}
	if r.TotalWeeks != nil {
		f.TotalWeeks = *r.TotalWeeks
	}
	if r.WeeksRemaining != nil {
		f.WeeksRemaining = *r.WeeksRemaining
	}
	if r.Active != nil {
		f.Active = *r.Active
	}
	return checkRemaining(f.WeeksRemaining, f.TotalWeeks, "total_weeks")
}

type ListFeesRequest struct {
	DriverID *string
	Month    *int
	Year     *int
}

func (r *ListFeesRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type FeeResponse struct {
	ID             string          `json:"id"`
	DriverID       string          `json:"driver_id"`
	FeeType        string          `json:"fee_type"`
	Amount         decimal.Decimal `json:"amount"`
	StartDate      string          `json:"start_date"`
	TotalWeeks     int             `json:"total_weeks"`
	WeeksRemaining int             `json:"weeks_remaining"`
	Active         bool            `json:"active"`
	FeeMonth       int             `json:"fee_month"`
	FeeYear        int             `json:"fee_year"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewFeeResponse(f RecurringFee) FeeResponse {
	return FeeResponse{
		ID:             f.ID,
		DriverID:       f.DriverID,
		FeeType:        string(f.FeeType),
		Amount:         f.Amount,
		StartDate:      f.StartDate.Format("2006-01-02"),
		TotalWeeks:     f.TotalWeeks,
		WeeksRemaining: f.WeeksRemaining,
		Active:         f.Active,
		FeeMonth:       f.FeeMonth,
		FeeYear:        f.FeeYear,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func NewFeeResponses(fees []RecurringFee) []FeeResponse {
	out := make([]FeeResponse, 0, len(fees))
	for _, f := range fees {
		out = append(out, NewFeeResponse(f))
	}
	return out
}

// ========== CASH ADVANCE DTOs ==========

type CreateAdvanceRequest struct {
	DriverID     string           `json:"driver_id"`
	Amount       validator.Amount `json:"amount"`
	GivenDate    string           `json:"given_date"`
	DueDate      string           `json:"due_date"`
	PaymentWeeks int              `json:"payment_weeks"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "must be a valid UUID"})
	}
	errs = validator.CheckAmount(errs, "amount", r.Amount, true, false)
	if !r.Amount.IsZero() && r.Amount.Decimal().IsZero() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	given, givenOK := validator.IsValidDate(r.GivenDate)
	if !givenOK {
		errs = append(errs, validator.ValidationError{Field: "given_date", Message: "must be in YYYY-MM-DD format"})
	}
	due, dueOK := validator.IsValidDate(r.DueDate)
	if !dueOK {
		errs = append(errs, validator.ValidationError{Field: "due_date", Message: "must be in YYYY-MM-DD format"})
	}
	if givenOK && dueOK && due.Before(given) {
		errs = append(errs, validator.ValidationError{Field: "due_date", Message: "must not be before given_date"})
	}
	if r.PaymentWeeks < 1 || r.PaymentWeeks > maxPlanWeeks {
		errs = append(errs, validator.ValidationError{Field: "payment_weeks", Message: "must be between 1 and " + strconv.Itoa(maxPlanWeeks)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateAdvanceRequest) ToEntity() CashAdvance {
	return CashAdvance{
		DriverID:       r.DriverID,
		Amount:         r.Amount.Decimal(),
		GivenDate:      validator.ParseDate(r.GivenDate),
		DueDate:        validator.ParseDate(r.DueDate),
		PaymentWeeks:   r.PaymentWeeks,
		WeeksRemaining: r.PaymentWeeks,
		Active:         true,
	}
}

type UpdateAdvanceRequest struct {
	ID             string            `json:"-"`
	Amount         *validator.Amount `json:"amount,omitempty"`
	GivenDate      *string           `json:"given_date,omitempty"`
	DueDate        *string           `json:"due_date,omitempty"`
	PaymentWeeks   *int              `json:"payment_weeks,omitempty"`
	WeeksRemaining *int              `json:"weeks_remaining,omitempty"`
	Active         *bool             `json:"active,omitempty"`
}

func (r *UpdateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Amount != nil {
		errs = validator.CheckAmount(errs, "amount", *r.Amount, true, false)
	}
	errs = validator.CheckDate(errs, "given_date", r.GivenDate, false)
	errs = validator.CheckDate(errs, "due_date", r.DueDate, false)
	if r.PaymentWeeks != nil && (*r.PaymentWeeks < 1 || *r.PaymentWeeks > maxPlanWeeks) {
		errs = append(errs, validator.ValidationError{Field: "payment_weeks", Message: "must be between 1 and " + strconv.Itoa(maxPlanWeeks)})
	}
	if r.WeeksRemaining != nil && *r.WeeksRemaining < 0 {
		errs = append(errs, validator.ValidationError{Field: "weeks_remaining", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateAdvanceRequest) Apply(a *CashAdvance) error {
	if r.Amount != nil {
		a.Amount = r.Amount.Decimal()
	}
	if r.GivenDate != nil {
		a.GivenDate = validator.ParseDate(*r.GivenDate)
	}
	if r.DueDate != nil {
		a.DueDate = validator.ParseDate(*r.DueDate)
	}
	if r.PaymentWeeks != nil {
		a.PaymentWeeks = *r.PaymentWeeks
	}
	if r.WeeksRemaining != nil {
		a.WeeksRemaining = *r.WeeksRemaining
	}
	if r.Active != nil {
		a.Active = *r.Active
	}
	if a.DueDate.Before(a.GivenDate) {
		return validator.ValidationErrors{{Field: "due_date", Message: "must not be before given_date"}}
	}
	return checkRemaining(a.WeeksRemaining, a.PaymentWeeks, "payment_weeks")
}

type ListAdvancesRequest struct {
	DriverID *string
	From     *string
	To       *string
}

func (r *ListAdvancesRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = validator.CheckDate(errs, "from", r.From, false)
	errs = validator.CheckDate(errs, "to", r.To, false)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ListAdvancesRequest) ToFilter() AdvanceFilter {
	return AdvanceFilter{
		DriverID: r.DriverID,
		From:     validator.ParseOptionalDate(r.From),
		To:       validator.ParseOptionalDate(r.To),
	}
}

type AdvanceResponse struct {
	ID             string          `json:"id"`
	DriverID       string          `json:"driver_id"`
	Amount         decimal.Decimal `json:"amount"`
	GivenDate      string          `json:"given_date"`
	DueDate        string          `json:"due_date"`
	PaymentWeeks   int             `json:"payment_weeks"`
	WeeksRemaining int             `json:"weeks_remaining"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewAdvanceResponse(a CashAdvance) AdvanceResponse {
	return AdvanceResponse{
		ID:             a.ID,
		DriverID:       a.DriverID,
		Amount:         a.Amount,
		GivenDate:      a.GivenDate.Format("2006-01-02"),
		DueDate:        a.DueDate.Format("2006-01-02"),
		PaymentWeeks:   a.PaymentWeeks,
		WeeksRemaining: a.WeeksRemaining,
		Active:         a.Active,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func NewAdvanceResponses(advances []CashAdvance) []AdvanceResponse {
	out := make([]AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		out = append(out, NewAdvanceResponse(a))
	}
	return out
}

func checkBillingMonth(errs validator.ValidationErrors, month, year *int) validator.ValidationErrors {
	if (month == nil) != (year == nil) {
		return append(errs, validator.ValidationError{Field: "fee_month", Message: "fee_month and fee_year must be given together"})
	}
	if month != nil && (*month < 1 || *month > 12) {
		errs = append(errs, validator.ValidationError{Field: "fee_month", Message: "must be between 1 and 12"})
	}
	if year != nil && (*year < 2000 || *year > 2100) {
		errs = append(errs, validator.ValidationError{Field: "fee_year", Message: "must be between 2000 and 2100"})
	}
	return errs
}

func checkRemaining(remaining, total int, totalField string) error {
	if remaining > total {
		return validator.ValidationErrors{{Field: "weeks_remaining", Message: "must not exceed " + totalField}}
	}
	return nil
}
