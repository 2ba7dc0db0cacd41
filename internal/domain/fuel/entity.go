package fuel

import (
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// FuelTransaction is one fuel card purchase. DriverName and Unit are free text from
// the card statement; DriverID is set once the row is reconciled to a driver.
type FuelTransaction struct {
	ID           string
	CardNumber   string
	TranDate     time.Time
	TranTime     string
	Invoice      string
	Unit         string
	DriverName   string
	Odometer     *int
	LocationName string
	City         string
	StateProv    string
	Fees         decimal.Decimal
	Item         string
	UnitPrice    decimal.Decimal
	DiscPPU      decimal.Decimal
	DiscCost     decimal.Decimal
	Quantity     decimal.Decimal
	DiscAmount   decimal.Decimal
	DiscType     string
	Amount       decimal.Decimal
	Currency     string
	DriverID     *string
	CreatedAt    time.Time
}

// IsDuplicateOf reports whether both rows describe the same purchase: invoice, date and
// location compared trimmed and case-insensitively, amount to the cent.
func (tx FuelTransaction) IsDuplicateOf(other FuelTransaction) bool {
	return validator.NormalizeKey(tx.Invoice) == validator.NormalizeKey(other.Invoice) &&
		tx.TranDate.Format("2006-01-02") == other.TranDate.Format("2006-01-02") &&
		validator.NormalizeKey(tx.LocationName) == validator.NormalizeKey(other.LocationName) &&
		tx.Amount.Round(2).Equal(other.Amount.Round(2))
}

// FilterForDriver keeps rows linked to driverID and unlinked rows whose name and unit
// match the driver.
func FilterForDriver(txs []FuelTransaction, driverID, driverName, unit string) []FuelTransaction {
	name, truck := validator.NormalizeKey(driverName), validator.NormalizeKey(unit)
	out := make([]FuelTransaction, 0, len(txs))
	for _, tx := range txs {
		if tx.DriverID != nil {
			if *tx.DriverID == driverID {
				out = append(out, tx)
			}
			continue
		}
		if validator.NormalizeKey(tx.DriverName) == name && validator.NormalizeKey(tx.Unit) == truck {
			out = append(out, tx)
		}
	}
	return out
}
