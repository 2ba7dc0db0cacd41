package driver

import (
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var validDriverTypes = []string{
	string(DriverTypeOwnerOperator),
	string(DriverTypeCompanyDriver),
	string(DriverTypeOther),
}

var validStatuses = []string{
	string(StatusActive),
	string(StatusOnLeave),
	string(StatusTerminated),
}

type CreateDriverRequest struct {
	Name              string           `json:"name"`
	TruckUnit         string           `json:"truck_unit"`
	DriverPercent     validator.Amount `json:"driver_percent"`
	CompanyPercent    validator.Amount `json:"company_percent"`
	ServiceFeePercent validator.Amount `json:"service_fee_percent"`
	DOB               *string          `json:"dob,omitempty"`
	LicenseNumber     string           `json:"license_number"`
	DriverType        string           `json:"driver_type"`
	EmployeeLLC       *string          `json:"employee_llc,omitempty"`
	CDLExpiry         *string          `json:"cdl_expiry,omitempty"`
	MedicalExpiry     *string          `json:"medical_expiry,omitempty"`
	Status            string           `json:"status,omitempty"`
}

func (r *CreateDriverRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not exceed 100 characters"})
	}
	if validator.IsEmpty(r.TruckUnit) {
		errs = append(errs, validator.ValidationError{Field: "truck_unit", Message: "is required"})
	}
	errs = validator.CheckPercent(errs, "driver_percent", r.DriverPercent, true)
	errs = validator.CheckPercent(errs, "company_percent", r.CompanyPercent, false)
	errs = validator.CheckPercent(errs, "service_fee_percent", r.ServiceFeePercent, false)
	errs = validator.CheckDate(errs, "dob", r.DOB, false)
	errs = validator.CheckDate(errs, "cdl_expiry", r.CDLExpiry, false)
	errs = validator.CheckDate(errs, "medical_expiry", r.MedicalExpiry, false)

	if r.DriverType != "" && !validator.IsInSlice(r.DriverType, validDriverTypes) {
		errs = append(errs, validator.ValidationError{Field: "driver_type", Message: "must be OWNER_OPERATOR, COMPANY_DRIVER or OTHER"})
	}
	if r.Status != "" && !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be ACTIVE, ON_LEAVE or TERMINATED"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds a Driver from a validated request.
func (r *CreateDriverRequest) ToEntity() Driver {
	d := Driver{
		Name:              r.Name,
		TruckUnit:         r.TruckUnit,
		DriverPercent:     r.DriverPercent.Decimal(),
		CompanyPercent:    r.CompanyPercent.Decimal(),
		ServiceFeePercent: r.ServiceFeePercent.Decimal(),
		DOB:               validator.ParseOptionalDate(r.DOB),
		LicenseNumber:     r.LicenseNumber,
		DriverType:        DriverType(r.DriverType),
		EmployeeLLC:       r.EmployeeLLC,
		CDLExpiry:         validator.ParseOptionalDate(r.CDLExpiry),
		MedicalExpiry:     validator.ParseOptionalDate(r.MedicalExpiry),
		Status:            Status(r.Status),
	}
	if d.DriverType == "" {
		d.DriverType = DriverTypeCompanyDriver
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	return d
}

// UpdateDriverRequest carries a partial update; nil fields are left unchanged.
type UpdateDriverRequest struct {
	ID                string            `json:"-"`
	Name              *string           `json:"name,omitempty"`
	TruckUnit         *string           `json:"truck_unit,omitempty"`
	DriverPercent     *validator.Amount `json:"driver_percent,omitempty"`
	CompanyPercent    *validator.Amount `json:"company_percent,omitempty"`
	ServiceFeePercent *validator.Amount `json:"service_fee_percent,omitempty"`
	DOB               *string           `json:"dob,omitempty"`
	LicenseNumber     *string           `json:"license_number,omitempty"`
	DriverType        *string           `json:"driver_type,omitempty"`
	EmployeeLLC       *string           `json:"employee_llc,omitempty"`
	CDLExpiry         *string           `json:"cdl_expiry,omitempty"`
	MedicalExpiry     *string           `json:"medical_expiry,omitempty"`
	Status            *string           `json:"status,omitempty"`
}

func (r *UpdateDriverRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.TruckUnit != nil && validator.IsEmpty(*r.TruckUnit) {
		errs = append(errs, validator.ValidationError{Field: "truck_unit", Message: "must not be empty"})
	}
	if r.DriverPercent != nil {
		errs = validator.CheckPercent(errs, "driver_percent", *r.DriverPercent, true)
	}
	if r.CompanyPercent != nil {
		errs = validator.CheckPercent(errs, "company_percent", *r.CompanyPercent, true)
	}
	if r.ServiceFeePercent != nil {
		errs = validator.CheckPercent(errs, "service_fee_percent", *r.ServiceFeePercent, true)
	}
	errs = validator.CheckDate(errs, "dob", r.DOB, false)
	errs = validator.CheckDate(errs, "cdl_expiry", r.CDLExpiry, false)
	errs = validator.CheckDate(errs, "medical_expiry", r.MedicalExpiry, false)
	if r.DriverType != nil && !validator.IsInSlice(*r.DriverType, validDriverTypes) {
		errs = append(errs, validator.ValidationError{Field: "driver_type", Message: "must be OWNER_OPERATOR, COMPANY_DRIVER or OTHER"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be ACTIVE, ON_LEAVE or TERMINATED"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the non-nil fields of a validated request onto d.
func (r *UpdateDriverRequest) Apply(d *Driver) {
	if r.Name != nil {
		d.Name = *r.Name
	}
	if r.TruckUnit != nil {
		d.TruckUnit = *r.TruckUnit
	}
	if r.DriverPercent != nil {
		d.DriverPercent = r.DriverPercent.Decimal()
	}
	if r.CompanyPercent != nil {
		d.CompanyPercent = r.CompanyPercent.Decimal()
	}
	if r.ServiceFeePercent != nil {
		d.ServiceFeePercent = r.ServiceFeePercent.Decimal()
	}
	if r.DOB != nil {
		d.DOB = validator.ParseOptionalDate(r.DOB)
	}
	if r.LicenseNumber != nil {
		d.LicenseNumber = *r.LicenseNumber
	}
	if r.DriverType != nil {
		d.DriverType = DriverType(*r.DriverType)
	}
	if r.EmployeeLLC != nil {
		d.EmployeeLLC = r.EmployeeLLC
	}
	if r.CDLExpiry != nil {
		d.CDLExpiry = validator.ParseOptionalDate(r.CDLExpiry)
	}
	if r.MedicalExpiry != nil {
		d.MedicalExpiry = validator.ParseOptionalDate(r.MedicalExpiry)
	}
	if r.Status != nil {
		d.Status = Status(*r.Status)
	}
}

type DriverResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	TruckUnit         string          `json:"truck_unit"`
	DriverPercent     decimal.Decimal `json:"driver_percent"`
	CompanyPercent    decimal.Decimal `json:"company_percent"`
	ServiceFeePercent decimal.Decimal `json:"service_fee_percent"`
	DOB               *string         `json:"dob,omitempty"`
	LicenseNumber     string          `json:"license_number"`
	DriverType        string          `json:"driver_type"`
	EmployeeLLC       *string         `json:"employee_llc,omitempty"`
	CDLExpiry         *string         `json:"cdl_expiry,omitempty"`
	MedicalExpiry     *string         `json:"medical_expiry,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func NewDriverResponse(d Driver) DriverResponse {
	return DriverResponse{
		ID:                d.ID,
		Name:              d.Name,
		TruckUnit:         d.TruckUnit,
		DriverPercent:     d.DriverPercent,
		CompanyPercent:    d.CompanyPercent,
		ServiceFeePercent: d.ServiceFeePercent,
		DOB:               formatDate(d.DOB),
		LicenseNumber:     d.LicenseNumber,
		DriverType:        string(d.DriverType),
		EmployeeLLC:       d.EmployeeLLC,
		CDLExpiry:         formatDate(d.CDLExpiry),
		MedicalExpiry:     formatDate(d.MedicalExpiry),
		Status:            string(d.Status),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
