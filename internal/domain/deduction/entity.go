package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

type FeeType string

const (
	FeeTypeELD     FeeType = "ELD"
	FeeTypeTVC     FeeType = "TVC"
	FeeTypeParking FeeType = "PARKING"
	FeeTypeACH     FeeType = "ACH"
	FeeTypeOther   FeeType = "OTHER"
)

// FeeTypes lists every fee type in the order batch operations process them.
var FeeTypes = []FeeType{FeeTypeELD, FeeTypeTVC, FeeTypeParking, FeeTypeACH, FeeTypeOther}

func IsValidFeeType(s string) bool {
	for _, t := range FeeTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// RecurringFee is charged in full on every settlement of its billing month until
// WeeksRemaining reaches zero.
type RecurringFee struct {
	ID             string
	DriverID       string
	FeeType        FeeType
	Amount         decimal.Decimal
	StartDate      time.Time
	TotalWeeks     int
	WeeksRemaining int
	Active         bool
	FeeMonth       int
	FeeYear        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPaymentPlan reports whether the fee is an active multi-week plan.
func (f RecurringFee) IsPaymentPlan() bool {
	return f.Active && f.TotalWeeks > 1
}

// CashAdvance is repaid over PaymentWeeks settlements.
type CashAdvance struct {
	ID             string
	DriverID       string
	Amount         decimal.Decimal
	GivenDate      time.Time
	DueDate        time.Time
	PaymentWeeks   int
	WeeksRemaining int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RecordKind string

const (
	RecordKindFee     RecordKind = "fee"
	RecordKindAdvance RecordKind = "advance"
)

// Installment records that a fee or advance was charged and amortized for one pay period.
// (RecordKind, RecordID, PeriodStart, PeriodEnd) is unique.
type Installment struct {
	ID             string
	RecordKind     RecordKind
	RecordID       string
	DriverID       string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Amount         decimal.Decimal
	WeeksRemaining int
	CreatedAt      time.Time
}
