package load

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// Load is a freight job. It belongs wholly to the pay period containing its delivery date.
type Load struct {
	ID             string
	LoadNumber     string
	Customer       string
	PickUpLocation string
	DropLocation   string
	DriverID       *string
	Status         Status
	GrossAmount    decimal.Decimal
	Notes          *string
	DeliveryDate   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
