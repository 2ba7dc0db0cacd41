package settlement

import "errors"

var (
	ErrInvalidPeriod             = errors.New("invalid period: end before start")
	ErrUnresolvedDriverReference = errors.New("record references a driver that does not exist")
	ErrInvalidExportFormat       = errors.New("export format must be xlsx or csv")
	ErrAmortizationRequiresAdmin = errors.New("only admins may run a settlement that amortizes deductions")
)
