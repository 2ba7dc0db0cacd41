package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/google/uuid"
)

type fuelRepository struct {
	store *Store
}

func NewFuelRepository(store *Store) fuel.FuelRepository {
	return &fuelRepository{store: store}
}

const fuelColumns = `id, card_number, tran_date, tran_time, invoice, unit, driver_name, odometer,
	location_name, city, state_prov, fees, item, unit_price, disc_ppu, disc_cost, qty, disc_amt,
	disc_type, amt, currency, driver_id, created_at`

func scanFuel(row scanner) (fuel.FuelTransaction, error) {
	var (
		tx                  fuel.FuelTransaction
		tranDate, createdAt string
		odometer            sql.NullInt64
		driverID            sql.NullString
	)
	err := row.Scan(
		&tx.ID, &tx.CardNumber, &tranDate, &tx.TranTime, &tx.Invoice, &tx.Unit, &tx.DriverName,
		&odometer, &tx.LocationName, &tx.City, &tx.StateProv, &tx.Fees, &tx.Item, &tx.UnitPrice,
		&tx.DiscPPU, &tx.DiscCost, &tx.Quantity, &tx.DiscAmount, &tx.DiscType, &tx.Amount,
		&tx.Currency, &driverID, &createdAt,
	)
	if err != nil {
		return fuel.FuelTransaction{}, err
	}

	if odometer.Valid {
		v := int(odometer.Int64)
		tx.Odometer = &v
	}
	tx.DriverID = stringPtr(driverID)
	if tx.TranDate, err = parseDate(tranDate); err != nil {
		return fuel.FuelTransaction{}, err
	}
	if tx.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return fuel.FuelTransaction{}, err
	}
	return tx, nil
}

func (r *fuelRepository) queryFuel(ctx context.Context, query string, args ...any) ([]fuel.FuelTransaction, error) {
	rows, err := r.store.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get fuel transactions: %w", err)
	}
	defer rows.Close()

	txs := []fuel.FuelTransaction{}
	for rows.Next() {
		tx, err := scanFuel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fuel transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *fuelRepository) Create(ctx context.Context, tx fuel.FuelTransaction) (fuel.FuelTransaction, error) {
	tx.ID = uuid.Must(uuid.NewV7()).String()

	var odometer sql.NullInt64
	if tx.Odometer != nil {
		odometer = sql.NullInt64{Int64: int64(*tx.Odometer), Valid: true}
	}

	_, err := r.store.querier(ctx).ExecContext(ctx, `
		INSERT INTO fuel_transactions (`+fuelColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.CardNumber, formatDate(tx.TranDate), tx.TranTime, tx.Invoice, tx.Unit, tx.DriverName,
		odometer, tx.LocationName, tx.City, tx.StateProv, tx.Fees, tx.Item, tx.UnitPrice,
		tx.DiscPPU, tx.DiscCost, tx.Quantity, tx.DiscAmount, tx.DiscType, tx.Amount,
		tx.Currency, nullString(tx.DriverID), now(),
	)
	if err != nil {
		return fuel.FuelTransaction{}, fmt.Errorf("failed to create fuel transaction: %w", err)
	}
	return r.GetByID(ctx, tx.ID)
}

func (r *fuelRepository) GetByID(ctx context.Context, id string) (fuel.FuelTransaction, error) {
	row := r.store.querier(ctx).QueryRowContext(ctx, `SELECT `+fuelColumns+` FROM fuel_transactions WHERE id = ?`, id)
	tx, err := scanFuel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fuel.FuelTransaction{}, fuel.ErrFuelTransactionNotFound
		}
		return fuel.FuelTransaction{}, fmt.Errorf("failed to get fuel transaction: %w", err)
	}
	return tx, nil
}

func (r *fuelRepository) List(ctx context.Context, filter fuel.FuelFilter) ([]fuel.FuelTransaction, error) {
	conditions := []string{"1=1"}
	var args []any

	if filter.DriverID != nil {
		conditions = append(conditions, "driver_id = ?")
		args = append(args, *filter.DriverID)
	}
	if filter.From != nil {
		conditions = append(conditions, "tran_date >= ?")
		args = append(args, formatDate(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "tran_date <= ?")
		args = append(args, formatDate(*filter.To))
	}
	if filter.UnassignedOnly {
		conditions = append(conditions, "driver_id IS NULL")
	}

	query := `SELECT ` + fuelColumns + ` FROM fuel_transactions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY tran_date DESC, tran_time DESC, invoice ASC`
	return r.queryFuel(ctx, query, args...)
}

func (r *fuelRepository) SetDriver(ctx context.Context, id string, driverID *string) error {
	res, err := r.store.querier(ctx).ExecContext(ctx,
		`UPDATE fuel_transactions SET driver_id = ? WHERE id = ?`, nullString(driverID), id)
	if err != nil {
		return fmt.Errorf("failed to set fuel transaction driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fuel.ErrFuelTransactionNotFound
	}
	return nil
}

func (r *fuelRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.querier(ctx).ExecContext(ctx, `DELETE FROM fuel_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fuel transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fuel.ErrFuelTransactionNotFound
	}
	return nil
}

// Exists narrows candidates by date in SQL and compares the text keys and amounts in
// Go. SQLite's LOWER only folds ASCII.
func (r *fuelRepository) Exists(ctx context.Context, tx fuel.FuelTransaction) (bool, error) {
	candidates, err := r.queryFuel(ctx, `
		SELECT `+fuelColumns+`
		FROM fuel_transactions
		WHERE tran_date = ?`,
		formatDate(tx.TranDate),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check fuel transaction: %w", err)
	}

	for _, c := range candidates {
		if c.IsDuplicateOf(tx) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fuelRepository) GetForDriver(ctx context.Context, driverID, driverName, unit string, from, to time.Time) ([]fuel.FuelTransaction, error) {
	txs, err := r.queryFuel(ctx, `
		SELECT `+fuelColumns+`
		FROM fuel_transactions
		WHERE tran_date BETWEEN ? AND ?
		  AND (driver_id = ? OR driver_id IS NULL)
		ORDER BY tran_date ASC, tran_time ASC, invoice ASC`,
		formatDate(from), formatDate(to), driverID,
	)
	if err != nil {
		return nil, err
	}
	return fuel.FilterForDriver(txs, driverID, driverName, unit), nil
}

func (r *fuelRepository) GetUnlinked(ctx context.Context, from, to time.Time) ([]fuel.FuelTransaction, error) {
	return r.queryFuel(ctx, `
		SELECT `+fuelColumns+`
		FROM fuel_transactions
		WHERE driver_id IS NULL AND tran_date BETWEEN ? AND ?
		ORDER BY tran_date ASC, tran_time ASC, invoice ASC`,
		formatDate(from), formatDate(to),
	)
}
