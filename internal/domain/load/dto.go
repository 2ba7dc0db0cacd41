package load

import (
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var validStatuses = []string{
	string(StatusBooked),
	string(StatusInTransit),
	string(StatusDelivered),
	string(StatusPaid),
	string(StatusCancelled),
}

func IsValidStatus(s string) bool {
	return validator.IsInSlice(s, validStatuses)
}

type CreateLoadRequest struct {
	LoadNumber     string           `json:"load_number"`
	Customer       string           `json:"customer"`
	PickUpLocation string           `json:"pick_up_location"`
	DropLocation   string           `json:"drop_location"`
	DriverID       *string          `json:"driver_id,omitempty"`
	Status         string           `json:"status,omitempty"`
	GrossAmount    validator.Amount `json:"gross_amount"`
	Notes          *string          `json:"notes,omitempty"`
	DeliveryDate   *string          `json:"delivery_date,omitempty"`
}

func (r *CreateLoadRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LoadNumber) {
		errs = append(errs, validator.ValidationError{Field: "load_number", Message: "is required"})
	}
	if validator.IsEmpty(r.Customer) {
		errs = append(errs, validator.ValidationError{Field: "customer", Message: "is required"})
	}
	if r.DriverID != nil && !validator.IsEmpty(*r.DriverID) && !validator.IsValidUUID(*r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "must be a valid UUID"})
	}
	if r.Status != "" && !IsValidStatus(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be BOOKED, IN_TRANSIT, DELIVERED, PAID or CANCELLED"})
	}
	errs = validator.CheckAmount(errs, "gross_amount", r.GrossAmount, true, false)
	errs = validator.CheckDate(errs, "delivery_date", r.DeliveryDate, false)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateLoadRequest) ToEntity() Load {
	l := Load{
		LoadNumber:     r.LoadNumber,
		Customer:       r.Customer,
		PickUpLocation: r.PickUpLocation,
		DropLocation:   r.DropLocation,
		DriverID:       emptyToNil(r.DriverID),
		Status:         Status(r.Status),
		GrossAmount:    r.GrossAmount.Decimal(),
		Notes:          r.Notes,
		DeliveryDate:   validator.ParseOptionalDate(r.DeliveryDate),
	}
	if l.Status == "" {
		l.Status = StatusBooked
	}
	return l
}

type UpdateLoadRequest struct {
	ID             string            `json:"-"`
	LoadNumber     *string           `json:"load_number,omitempty"`
	Customer       *string           `json:"customer,omitempty"`
	PickUpLocation *string           `json:"pick_up_location,omitempty"`
	DropLocation   *string           `json:"drop_location,omitempty"`
	DriverID       *string           `json:"driver_id,omitempty"`
	GrossAmount    *validator.Amount `json:"gross_amount,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	DeliveryDate   *string           `json:"delivery_date,omitempty"`
}

func (r *UpdateLoadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.LoadNumber != nil && validator.IsEmpty(*r.LoadNumber) {
		errs = append(errs, validator.ValidationError{Field: "load_number", Message: "must not be empty"})
	}
	if r.DriverID != nil && !validator.IsEmpty(*r.DriverID) && !validator.IsValidUUID(*r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "must be a valid UUID"})
	}
	if r.GrossAmount != nil {
		errs = validator.CheckAmount(errs, "gross_amount", *r.GrossAmount, true, false)
	}
	errs = validator.CheckDate(errs, "delivery_date", r.DeliveryDate, false)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the non-nil fields onto l. An empty driver_id unassigns the load.
func (r *UpdateLoadRequest) Apply(l *Load) {
	if r.LoadNumber != nil {
		l.LoadNumber = *r.LoadNumber
	}
	if r.Customer != nil {
		l.Customer = *r.Customer
	}
	if r.PickUpLocation != nil {
		l.PickUpLocation = *r.PickUpLocation
	}
	if r.DropLocation != nil {
		l.DropLocation = *r.DropLocation
	}
	if r.DriverID != nil {
		l.DriverID = emptyToNil(r.DriverID)
	}
	if r.GrossAmount != nil {
		l.GrossAmount = r.GrossAmount.Decimal()
	}
	if r.Notes != nil {
		l.Notes = r.Notes
	}
	if r.DeliveryDate != nil {
		l.DeliveryDate = validator.ParseOptionalDate(r.DeliveryDate)
	}
}

type UpdateLoadStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateLoadStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if !IsValidStatus(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be BOOKED, IN_TRANSIT, DELIVERED, PAID or CANCELLED"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListLoadsRequest struct {
	DriverID *string
	Status   *string
	From     *string
	To       *string
	Search   *string
}

func (r *ListLoadsRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Status != nil && !IsValidStatus(*r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be BOOKED, IN_TRANSIT, DELIVERED, PAID or CANCELLED"})
	}
	errs = validator.CheckDate(errs, "from", r.From, false)
	errs = validator.CheckDate(errs, "to", r.To, false)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ListLoadsRequest) ToFilter() LoadFilter {
	f := LoadFilter{
		DriverID: r.DriverID,
		From:     validator.ParseOptionalDate(r.From),
		To:       validator.ParseOptionalDate(r.To),
		Search:   r.Search,
	}
	if r.Status != nil {
		s := Status(*r.Status)
		f.Status = &s
	}
	return f
}

type LoadResponse struct {
	ID             string          `json:"id"`
	LoadNumber     string          `json:"load_number"`
	Customer       string          `json:"customer"`
	PickUpLocation string          `json:"pick_up_location"`
	DropLocation   string          `json:"drop_location"`
	DriverID       *string         `json:"driver_id,omitempty"`
	Status         string          `json:"status"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	Notes          *string         `json:"notes,omitempty"`
	DeliveryDate   *string         `json:"delivery_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewLoadResponse(l Load) LoadResponse {
	var delivery *string
	if l.DeliveryDate != nil {
		s := l.DeliveryDate.Format("2006-01-02")
		delivery = &s
	}
	return LoadResponse{
		ID:             l.ID,
		LoadNumber:     l.LoadNumber,
		Customer:       l.Customer,
		PickUpLocation: l.PickUpLocation,
		DropLocation:   l.DropLocation,
		DriverID:       l.DriverID,
		Status:         string(l.Status),
		GrossAmount:    l.GrossAmount,
		Notes:          l.Notes,
		DeliveryDate:   delivery,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func NewLoadResponses(loads []Load) []LoadResponse {
	out := make([]LoadResponse, 0, len(loads))
	for _, l := range loads {
		out = append(out, NewLoadResponse(l))
	}
	return out
}

func emptyToNil(s *string) *string {
	if s == nil || validator.IsEmpty(*s) {
		return nil
	}
	return s
}
