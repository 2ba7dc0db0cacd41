package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/auth"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/user"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, settlement.ErrAmortizationRequiresAdmin):
		Forbidden(w, err.Error())

	// Drivers
	case errors.Is(err, driver.ErrDriverNotFound):
		NotFound(w, "Driver not found")
	case errors.Is(err, driver.ErrDriverNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, driver.ErrDriverInUse):
		Conflict(w, err.Error())

	// Loads and fuel
	case errors.Is(err, load.ErrLoadNotFound):
		NotFound(w, "Load not found")
	case errors.Is(err, load.ErrLoadNumberExists):
		Conflict(w, err.Error())
	case errors.Is(err, fuel.ErrFuelTransactionNotFound):
		NotFound(w, "Fuel transaction not found")
	case errors.Is(err, fuel.ErrDuplicateFuelTransaction):
		Conflict(w, err.Error())

	// Deductions
	case errors.Is(err, deduction.ErrFeeNotFound):
		NotFound(w, "Recurring fee not found")
	case errors.Is(err, deduction.ErrAdvanceNotFound):
		NotFound(w, "Cash advance not found")
	case errors.Is(err, deduction.ErrDuplicateFee):
		Conflict(w, err.Error())
	case errors.Is(err, deduction.ErrConcurrentModification):
		Conflict(w, "Another settlement run changed these records; retry the request")

	// Settlement
	case errors.Is(err, settlement.ErrInvalidPeriod):
		BadRequest(w, err.Error(), map[string]string{"period_end": "must not be before period_start"})
	case errors.Is(err, settlement.ErrInvalidExportFormat):
		BadRequest(w, err.Error(), map[string]string{"format": "must be xlsx or csv"})

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
