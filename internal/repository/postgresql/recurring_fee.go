package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type feeRepositoryImpl struct {
	db *database.DB
}

func NewFeeRepository(db *database.DB) deduction.FeeRepository {
	return &feeRepositoryImpl{db: db}
}

const feeColumns = `id, driver_id, fee_type, amount, start_date, total_weeks, weeks_remaining, active,
		fee_month, fee_year, created_at, updated_at`

func scanFee(row pgx.Row) (deduction.RecurringFee, error) {
	var f deduction.RecurringFee
	err := row.Scan(
		&f.ID,
		&f.DriverID,
		&f.FeeType,
		&f.Amount,
		&f.StartDate,
		&f.TotalWeeks,
		&f.WeeksRemaining,
		&f.Active,
		&f.FeeMonth,
		&f.FeeYear,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

func (r *feeRepositoryImpl) queryFees(ctx context.Context, query string, args ...interface{}) ([]deduction.RecurringFee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring fees: %w", err)
	}
	defer rows.Close()

	fees := []deduction.RecurringFee{}
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring fee: %w", err)
		}
		fees = append(fees, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return fees, nil
}

// Create implements deduction.FeeRepository. A concurrent insert of the same
// (driver, type, month, year) key loses quietly and reports ErrDuplicateFee.
func (r *feeRepositoryImpl) Create(ctx context.Context, f deduction.RecurringFee) (deduction.RecurringFee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return deduction.RecurringFee{}, fmt.Errorf("failed to generate fee id: %w", err)
	}

	query := `
		INSERT INTO recurring_fees (id, driver_id, fee_type, amount, start_date, total_weeks,
			weeks_remaining, active, fee_month, fee_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (driver_id, fee_type, fee_month, fee_year) DO NOTHING
		RETURNING ` + feeColumns

	created, err := scanFee(q.QueryRow(ctx, query,
		id.String(), f.DriverID, f.FeeType, f.Amount, f.StartDate, f.TotalWeeks,
		f.WeeksRemaining, f.Active, f.FeeMonth, f.FeeYear,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deduction.RecurringFee{}, deduction.ErrDuplicateFee
		}
		return deduction.RecurringFee{}, fmt.Errorf("failed to create recurring fee: %w", err)
	}
	return created, nil
}

// GetByID implements deduction.FeeRepository.
func (r *feeRepositoryImpl) GetByID(ctx context.Context, id string) (deduction.RecurringFee, error) {
	q := GetQuerier(ctx, r.db)

	f, err := scanFee(q.QueryRow(ctx, `SELECT `+feeColumns+` FROM recurring_fees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deduction.RecurringFee{}, deduction.ErrFeeNotFound
		}
		return deduction.RecurringFee{}, fmt.Errorf("failed to get recurring fee: %w", err)
	}
	return f, nil
}

// GetAll implements deduction.FeeRepository.
func (r *feeRepositoryImpl) GetAll(ctx context.Context) ([]deduction.RecurringFee, error) {
	return r.queryFees(ctx, `SELECT `+feeColumns+` FROM recurring_fees ORDER BY fee_year, fee_month, driver_id, fee_type`)
}

// Search implements deduction.FeeRepository.
func (r *feeRepositoryImpl) Search(ctx context.Context, filter deduction.FeeFilter) ([]deduction.RecurringFee, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.DriverID != nil {
		conditions = append(conditions, fmt.Sprintf("driver_id = $%d", argIdx))
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("fee_month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("fee_year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	query := `SELECT ` + feeColumns + ` FROM recurring_fees WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY fee_year DESC, fee_month DESC, fee_type ASC`
	return r.queryFees(ctx, query, args...)
}

// Update implements deduction.FeeRepository.
func (r *feeRepositoryImpl) Update(ctx context.Context, f deduction.RecurringFee) (deduction.RecurringFee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE recurring_fees
		SET amount = $2, start_date = $3, total_weeks = $4, weeks_remaining = $5, active = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + feeColumns

	updated, err := scanFee(q.QueryRow(ctx, query,
		f.ID, f.Amount, f.StartDate, f.TotalWeeks, f.WeeksRemaining, f.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deduction.RecurringFee{}, deduction.ErrFeeNotFound
		}
		return deduction.RecurringFee{}, fmt.Errorf("failed to update recurring fee: %w", err)
	}
	return updated, nil
}

// Delete implements deduction.FeeRepository.
func (r *feeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM recurring_fees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring fee: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return deduction.ErrFeeNotFound
	}
	return nil
}

// Exists implements deduction.FeeRepository.
func (r *feeRepositoryImpl) Exists(ctx context.Context, driverID string, feeType deduction.FeeType, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM recurring_fees
			WHERE driver_id = $1 AND fee_type = $2 AND fee_month = $3 AND fee_year = $4
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, driverID, feeType, month, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recurring fee: %w", err)
	}
	return exists, nil
}

// Decrement implements deduction.FeeRepository.
func (r *feeRepositoryImpl) Decrement(ctx context.Context, id string, expected int) error {
	return decrement(ctx, GetQuerier(ctx, r.db), "recurring_fees", id, expected)
}

// decrement is a compare-and-swap on weeks_remaining. It never goes below zero and
// clears active once the last week is taken.
func decrement(ctx context.Context, q database.Querier, table, id string, expected int) error {
	query := `
		UPDATE ` + table + `
		SET weeks_remaining = CASE WHEN weeks_remaining > 0 THEN weeks_remaining - 1 ELSE 0 END,
			active = weeks_remaining > 1,
			updated_at = NOW()
		WHERE id = $1 AND weeks_remaining = $2 AND active
	`

	commandTag, err := q.Exec(ctx, query, id, expected)
	if err != nil {
		return mapTxError(fmt.Errorf("failed to decrement %s: %w", table, err))
	}
	if commandTag.RowsAffected() == 0 {
		return deduction.ErrConcurrentModification
	}
	return nil
}
