package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fuelRepositoryImpl struct {
	db *database.DB
}

func NewFuelRepository(db *database.DB) fuel.FuelRepository {
	return &fuelRepositoryImpl{db: db}
}

const fuelColumns = `id, card_number, tran_date, tran_time, invoice, unit, driver_name, odometer,
		location_name, city, state_prov, fees, item, unit_price, disc_ppu, disc_cost, qty,
		disc_amt, disc_type, amt, currency, driver_id, created_at`

func scanFuel(row pgx.Row) (fuel.FuelTransaction, error) {
	var tx fuel.FuelTransaction
	err := row.Scan(
		&tx.ID,
		&tx.CardNumber,
		&tx.TranDate,
		&tx.TranTime,
		&tx.Invoice,
		&tx.Unit,
		&tx.DriverName,
		&tx.Odometer,
		&tx.LocationName,
		&tx.City,
		&tx.StateProv,
		&tx.Fees,
		&tx.Item,
		&tx.UnitPrice,
		&tx.DiscPPU,
		&tx.DiscCost,
		&tx.Quantity,
		&tx.DiscAmount,
		&tx.DiscType,
		&tx.Amount,
		&tx.Currency,
		&tx.DriverID,
		&tx.CreatedAt,
	)
	return tx, err
}

func (r *fuelRepositoryImpl) queryFuel(ctx context.Context, query string, args ...interface{}) ([]fuel.FuelTransaction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
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
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return txs, nil
}

// Create implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) Create(ctx context.Context, tx fuel.FuelTransaction) (fuel.FuelTransaction, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return fuel.FuelTransaction{}, fmt.Errorf("failed to generate fuel transaction id: %w", err)
	}

	query := `
		INSERT INTO fuel_transactions (id, card_number, tran_date, tran_time, invoice, unit, driver_name,
			odometer, location_name, city, state_prov, fees, item, unit_price, disc_ppu, disc_cost, qty,
			disc_amt, disc_type, amt, currency, driver_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, NOW())
		RETURNING ` + fuelColumns

	created, err := scanFuel(q.QueryRow(ctx, query,
		id.String(), tx.CardNumber, tx.TranDate, tx.TranTime, tx.Invoice, tx.Unit, tx.DriverName,
		tx.Odometer, tx.LocationName, tx.City, tx.StateProv, tx.Fees, tx.Item, tx.UnitPrice,
		tx.DiscPPU, tx.DiscCost, tx.Quantity, tx.DiscAmount, tx.DiscType, tx.Amount, tx.Currency,
		tx.DriverID,
	))
	if err != nil {
		return fuel.FuelTransaction{}, fmt.Errorf("failed to create fuel transaction: %w", err)
	}
	return created, nil
}

// GetByID implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) GetByID(ctx context.Context, id string) (fuel.FuelTransaction, error) {
	q := GetQuerier(ctx, r.db)

	tx, err := scanFuel(q.QueryRow(ctx, `SELECT `+fuelColumns+` FROM fuel_transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fuel.FuelTransaction{}, fuel.ErrFuelTransactionNotFound
		}
		return fuel.FuelTransaction{}, fmt.Errorf("failed to get fuel transaction: %w", err)
	}
	return tx, nil
}

// List implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) List(ctx context.Context, filter fuel.FuelFilter) ([]fuel.FuelTransaction, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.DriverID != nil {
		conditions = append(conditions, fmt.Sprintf("driver_id = $%d", argIdx))
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("tran_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("tran_date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}
	if filter.UnassignedOnly {
		conditions = append(conditions, "driver_id IS NULL")
	}

	query := `SELECT ` + fuelColumns + ` FROM fuel_transactions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY tran_date DESC, tran_time DESC, invoice ASC`
	return r.queryFuel(ctx, query, args...)
}

// SetDriver implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) SetDriver(ctx context.Context, id string, driverID *string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE fuel_transactions SET driver_id = $1 WHERE id = $2`, driverID, id)
	if err != nil {
		return fmt.Errorf("failed to set fuel transaction driver: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return fuel.ErrFuelTransactionNotFound
	}
	return nil
}

// Delete implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM fuel_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fuel transaction: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return fuel.ErrFuelTransactionNotFound
	}
	return nil
}

// Exists implements fuel.FuelRepository. Only the date is matched in SQL; the
// remaining comparison uses the same folding as the SQLite store.
func (r *fuelRepositoryImpl) Exists(ctx context.Context, tx fuel.FuelTransaction) (bool, error) {
	query := `
		SELECT ` + fuelColumns + `
		FROM fuel_transactions
		WHERE tran_date = $1
	`
	candidates, err := r.queryFuel(ctx, query, tx.TranDate)
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

// GetForDriver implements fuel.FuelRepository. Name and unit matching happens in Go so
// it folds case the same way under every database collation.
func (r *fuelRepositoryImpl) GetForDriver(ctx context.Context, driverID, driverName, unit string, from, to time.Time) ([]fuel.FuelTransaction, error) {
	query := `
		SELECT ` + fuelColumns + `
		FROM fuel_transactions
		WHERE tran_date BETWEEN $1 AND $2
		  AND (driver_id = $3 OR driver_id IS NULL)
		ORDER BY tran_date ASC, tran_time ASC, invoice ASC
	`
	txs, err := r.queryFuel(ctx, query, from, to, driverID)
	if err != nil {
		return nil, err
	}
	return fuel.FilterForDriver(txs, driverID, driverName, unit), nil
}

// GetUnlinked implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) GetUnlinked(ctx context.Context, from, to time.Time) ([]fuel.FuelTransaction, error) {
	query := `
		SELECT ` + fuelColumns + `
		FROM fuel_transactions
		WHERE driver_id IS NULL AND tran_date BETWEEN $1 AND $2
		ORDER BY tran_date ASC, tran_time ASC, invoice ASC
	`
	return r.queryFuel(ctx, query, from, to)
}
