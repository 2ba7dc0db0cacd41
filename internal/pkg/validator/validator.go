package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// ErrMalformedAmount is returned for monetary input that is not a plain decimal number.
var ErrMalformedAmount = errors.New("malformed amount")

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var amountRegex = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// ParseAmount parses a plain decimal string such as "1250.50".
// Thousands separators, currency symbols and exponents are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountRegex.MatchString(s) {
		return decimal.Zero, ErrMalformedAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMalformedAmount
	}
	return d, nil
}

// Amount keeps the raw text of a monetary JSON field so that malformed input
// surfaces as a field-level validation error instead of a decode failure.
// Both JSON numbers and JSON strings are accepted.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*a = ""
		return nil
	}
	*a = Amount(strings.Trim(s, `"`))
	return nil
}

// IsZero reports whether the field was omitted.
func (a Amount) IsZero() bool {
	return IsEmpty(string(a))
}

// Decimal parses the amount. Call it only after validation.
func (a Amount) Decimal() decimal.Decimal {
	d, _ := ParseAmount(string(a))
	return d
}

// CheckAmount validates a monetary field and appends any problem to errs.
// Negative values are rejected unless allowNegative is set.
func CheckAmount(errs ValidationErrors, field string, a Amount, required, allowNegative bool) ValidationErrors {
	if a.IsZero() {
		if required {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
		return errs
	}
	d, err := ParseAmount(string(a))
	if err != nil {
		return append(errs, ValidationError{Field: field, Message: ErrMalformedAmount.Error()})
	}
	if !allowNegative && d.IsNegative() {
		errs = append(errs, ValidationError{Field: field, Message: "must be non-negative"})
	}
	return errs
}

var hundred = decimal.NewFromInt(100)

// CheckPercent validates a percentage in the closed range [0, 100].
func CheckPercent(errs ValidationErrors, field string, a Amount, required bool) ValidationErrors {
	if a.IsZero() {
		if required {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
		return errs
	}
	d, err := ParseAmount(string(a))
	if err != nil {
		return append(errs, ValidationError{Field: field, Message: ErrMalformedAmount.Error()})
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		errs = append(errs, ValidationError{Field: field, Message: "must be between 0 and 100"})
	}
	return errs
}

// CheckDate validates an optional or required YYYY-MM-DD field.
func CheckDate(errs ValidationErrors, field string, s *string, required bool) ValidationErrors {
	if s == nil || IsEmpty(*s) {
		if required {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
		return errs
	}
	if _, ok := IsValidDate(*s); !ok {
		errs = append(errs, ValidationError{Field: field, Message: "must be in YYYY-MM-DD format"})
	}
	return errs
}

// ParseDate parses a YYYY-MM-DD string. Returns the zero time on failure.
func ParseDate(dateStr string) time.Time {
	t, _ := time.Parse("2006-01-02", dateStr)
	return t
}

// ParseOptionalDate parses an optional YYYY-MM-DD string.
func ParseOptionalDate(s *string) *time.Time {
	if s == nil || IsEmpty(*s) {
		return nil
	}
	t := ParseDate(*s)
	return &t
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// NormalizeKey trims and lower-cases a natural key for case-insensitive comparison.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
