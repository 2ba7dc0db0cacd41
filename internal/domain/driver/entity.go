package driver

import (
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DriverType string

const (
	DriverTypeOwnerOperator DriverType = "OWNER_OPERATOR"
	DriverTypeCompanyDriver DriverType = "COMPANY_DRIVER"
	DriverTypeOther         DriverType = "OTHER"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusOnLeave    Status = "ON_LEAVE"
	StatusTerminated Status = "TERMINATED"
)

// Driver is a payee whose settlement is computed per pay period.
type Driver struct {
	ID                string
	Name              string
	TruckUnit         string
	DriverPercent     decimal.Decimal
	CompanyPercent    decimal.Decimal
	ServiceFeePercent decimal.Decimal
	DOB               *time.Time
	LicenseNumber     string
	DriverType        DriverType
	EmployeeLLC       *string
	CDLExpiry         *time.Time
	MedicalExpiry     *time.Time
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (d Driver) IsActive() bool {
	return d.Status == StatusActive
}

// Matches reports whether a free-text name and unit pair identifies this driver.
// Both sides are compared trimmed and case-insensitively.
func (d Driver) Matches(name, unit string) bool {
	return validator.NormalizeKey(d.Name) == validator.NormalizeKey(name) &&
		validator.NormalizeKey(d.TruckUnit) == validator.NormalizeKey(unit)
}
