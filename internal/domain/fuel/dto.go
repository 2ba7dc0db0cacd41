package fuel

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateFuelTransactionRequest struct {
	CardNumber   string           `json:"card_number"`
	TranDate     string           `json:"tran_date"`
	TranTime     string           `json:"tran_time"`
	Invoice      string           `json:"invoice"`
	Unit         string           `json:"unit"`
	DriverName   string           `json:"driver_name"`
	Odometer     *int             `json:"odometer,omitempty"`
	LocationName string           `json:"location_name"`
	City         string           `json:"city"`
	StateProv    string           `json:"state_prov"`
	Fees         validator.Amount `json:"fees"`
	Item         string           `json:"item"`
	UnitPrice    validator.Amount `json:"unit_price"`
	DiscPPU      validator.Amount `json:"disc_ppu"`
	DiscCost     validator.Amount `json:"disc_cost"`
	Quantity     validator.Amount `json:"qty"`
	DiscAmount   validator.Amount `json:"disc_amt"`
	DiscType     string           `json:"disc_type"`
	Amount       validator.Amount `json:"amt"`
	Currency     string           `json:"currency"`
	DriverID     *string          `json:"driver_id,omitempty"`
}

func (r *CreateFuelTransactionRequest) Validate() error {
	errs := r.validate("")
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateFuelTransactionRequest) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	tranDate := r.TranDate
	errs = validator.CheckDate(errs, prefix+"tran_date", &tranDate, true)
	if validator.IsEmpty(r.Invoice) {
		errs = append(errs, validator.ValidationError{Field: prefix + "invoice", Message: "is required"})
	}
	errs = validator.CheckAmount(errs, prefix+"amt", r.Amount, true, true)
	errs = validator.CheckAmount(errs, prefix+"fees", r.Fees, false, true)
	errs = validator.CheckAmount(errs, prefix+"unit_price", r.UnitPrice, false, true)
	errs = validator.CheckAmount(errs, prefix+"disc_ppu", r.DiscPPU, false, true)
	errs = validator.CheckAmount(errs, prefix+"disc_cost", r.DiscCost, false, true)
	errs = validator.CheckAmount(errs, prefix+"qty", r.Quantity, false, true)
	errs = validator.CheckAmount(errs, prefix+"disc_amt", r.DiscAmount, false, true)
	if r.DriverID != nil && !validator.IsEmpty(*r.DriverID) && !validator.IsValidUUID(*r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: prefix + "driver_id", Message: "must be a valid UUID"})
	}
	return errs
}

func (r *CreateFuelTransactionRequest) ToEntity() FuelTransaction {
	tx := FuelTransaction{
		CardNumber:   r.CardNumber,
		TranDate:     validator.ParseDate(r.TranDate),
		TranTime:     r.TranTime,
		Invoice:      r.Invoice,
		Unit:         r.Unit,
		DriverName:   r.DriverName,
		Odometer:     r.Odometer,
		LocationName: r.LocationName,
		City:         r.City,
		StateProv:    r.StateProv,
		Fees:         r.Fees.Decimal(),
		Item:         r.Item,
		UnitPrice:    r.UnitPrice.Decimal(),
		DiscPPU:      r.DiscPPU.Decimal(),
		DiscCost:     r.DiscCost.Decimal(),
		Quantity:     r.Quantity.Decimal(),
		DiscAmount:   r.DiscAmount.Decimal(),
		DiscType:     r.DiscType,
		Amount:       r.Amount.Decimal(),
		Currency:     r.Currency,
	}
	if r.DriverID != nil && !validator.IsEmpty(*r.DriverID) {
		tx.DriverID = r.DriverID
	}
	if tx.Currency == "" {
		tx.Currency = "USD"
	}
	return tx
}

// ImportFuelRequest carries rows already parsed from a fuel card statement.
type ImportFuelRequest struct {
	Transactions []CreateFuelTransactionRequest `json:"transactions"`
}

func (r *ImportFuelRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.Transactions) == 0 {
		errs = append(errs, validator.ValidationError{Field: "transactions", Message: "must contain at least one row"})
	}
	for i := range r.Transactions {
		errs = append(errs, r.Transactions[i].validate(fmt.Sprintf("transactions[%d].", i))...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ImportFuelResponse struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Linked     int `json:"linked"`
	Unassigned int `json:"unassigned"`
}

type ListFuelRequest struct {
	DriverID       *string
	From           *string
	To             *string
	UnassignedOnly bool
}

func (r *ListFuelRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = validator.CheckDate(errs, "from", r.From, false)
	errs = validator.CheckDate(errs, "to", r.To, false)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ListFuelRequest) ToFilter() FuelFilter {
	return FuelFilter{
		DriverID:       r.DriverID,
		From:           validator.ParseOptionalDate(r.From),
		To:             validator.ParseOptionalDate(r.To),
		UnassignedOnly: r.UnassignedOnly,
	}
}

// AssignDriverRequest links a transaction to a driver; a nil DriverID clears the link.
type AssignDriverRequest struct {
	ID       string  `json:"-"`
	DriverID *string `json:"driver_id"`
}

func (r *AssignDriverRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.DriverID != nil && !validator.IsValidUUID(*r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "must be a valid UUID"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type FuelTransactionResponse struct {
	ID           string          `json:"id"`
	CardNumber   string          `json:"card_number"`
	TranDate     string          `json:"tran_date"`
	TranTime     string          `json:"tran_time"`
	Invoice      string          `json:"invoice"`
	Unit         string          `json:"unit"`
	DriverName   string          `json:"driver_name"`
	Odometer     *int            `json:"odometer,omitempty"`
	LocationName string          `json:"location_name"`
	City         string          `json:"city"`
	StateProv    string          `json:"state_prov"`
	Fees         decimal.Decimal `json:"fees"`
	Item         string          `json:"item"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     decimal.Decimal `json:"qty"`
	DiscAmount   decimal.Decimal `json:"disc_amt"`
	Amount       decimal.Decimal `json:"amt"`
	Currency     string          `json:"currency"`
	DriverID     *string         `json:"driver_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewFuelTransactionResponse(tx FuelTransaction) FuelTransactionResponse {
	return FuelTransactionResponse{
		ID:           tx.ID,
		CardNumber:   tx.CardNumber,
		TranDate:     tx.TranDate.Format("2006-01-02"),
		TranTime:     tx.TranTime,
		Invoice:      tx.Invoice,
		Unit:         tx.Unit,
		DriverName:   tx.DriverName,
		Odometer:     tx.Odometer,
		LocationName: tx.LocationName,
		City:         tx.City,
		StateProv:    tx.StateProv,
		Fees:         tx.Fees,
		Item:         tx.Item,
		UnitPrice:    tx.UnitPrice,
		Quantity:     tx.Quantity,
		DiscAmount:   tx.DiscAmount,
		Amount:       tx.Amount,
		Currency:     tx.Currency,
		DriverID:     tx.DriverID,
		CreatedAt:    tx.CreatedAt,
	}
}

func NewFuelTransactionResponses(txs []FuelTransaction) []FuelTransactionResponse {
	out := make([]FuelTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewFuelTransactionResponse(tx))
	}
	return out
}
