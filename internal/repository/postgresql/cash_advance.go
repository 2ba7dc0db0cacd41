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

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) deduction.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

const advanceColumns = `id, driver_id, amount, given_date, due_date, payment_weeks, weeks_remaining,
		active, created_at, updated_at`

func scanAdvance(row pgx.Row) (deduction.CashAdvance, error) {
	var a deduction.CashAdvance
	err := row.Scan(
		&a.ID,
		&a.DriverID,
		&a.Amount,
		&a.GivenDate,
		&a.DueDate,
		&a.PaymentWeeks,
		&a.WeeksRemaining,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *advanceRepositoryImpl) queryAdvances(ctx context.Context, query string, args ...interface{}) ([]deduction.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get cash advances: %w", err)
	}
	defer rows.Close()

	advances := []deduction.CashAdvance{}
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash advance: %w", err)
		}
		advances = append(advances, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return advances, nil
}

// Create implements deduction.AdvanceRepository.
func (r *advanceRepositoryImpl) Create(ctx context.Context, a deduction.CashAdvance) (deduction.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return deduction.CashAdvance{}, fmt.Errorf("failed to generate advance id: %w", err)
	}

	query := `
		INSERT INTO cash_advances (id, driver_id, amount, given_date, due_date, payment_weeks,
			weeks_remaining, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		id.String(), a.DriverID, a.Amount, a.GivenDate, a.DueDate, a.PaymentWeeks, a.WeeksRemaining, a.Active,
	))
	if err != nil {
		return deduction.CashAdvance{}, fmt.Errorf("failed to create cash advance: %w", err)
	}
	return created, nil
}

// GetByID implements deduction.AdvanceRepository.
func (r *advanceRepositoryImpl) GetByID(ctx context.Context, id string) (deduction.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRow(ctx, `SELECT `+advanceColumns+` FROM cash_advances WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deduction.CashAdvance{}, deduction.ErrAdvanceNotFound
		}
		return deduction.CashAdvance{}, fmt.Errorf("failed to get cash advance: %w", err)
	}
	return a, nil
}

// GetAll implements deduction.AdvanceRepository.
func (r *advanceRepositoryImpl) GetAll(ctx context.Context) ([]deduction.CashAdvance, error) {
	return r.queryAdvances(ctx, `SELECT `+advanceColumns+` FROM cash_advances ORDER BY given_date, id`)
}

// Search implements deduction.AdvanceRepository.
func (r *advanceRepositoryImpl) Search(ctx context.Context, filter deduction.AdvanceFilter) ([]deduction.CashAdvance, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.DriverID != nil {
		conditions = append(conditions, fmt.Sprintf("driver_id = $%d", argIdx))
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("given_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("given_date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	query := `SELECT ` + advanceColumns + ` FROM cash_advances WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY given_date DESC, id DESC`
	return r.queryAdvances(ctx, query, args...)
}

// Update implements deduction.AdvanceRepository.
func (r *advanceRepositoryImpl) Update(ctx context.Context, a deduction.CashAdvance) (deduction.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE cash_advances
		SET amount = $2, given_date = $3, due_date = $4, payment_weeks = $5, weeks_remaining = $6,
			active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + advanceColumns

	updated, err := scanAdvance(q.QueryRow(ctx, query,
		a.ID, a.Amount, a.GivenDate, a.DueDate, a.PaymentWeeks, a.WeeksRemaining, a.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deduction.CashAdvance{}, deduction.ErrAdvanceNotFound
		}
		return deduction.CashAdvance{}, fmt.Errorf("failed to update cash advance: %w", err)
	}
	return updated, nil
}

// Delete implements deduction.AdvanceRepository.
func (r *advanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM cash_advances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash advance: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return deduction.ErrAdvanceNotFound
	}
	return nil
}

// Decrement implements deduction.AdvanceRepository.
func (r *advanceRepositoryImpl) Decrement(ctx context.Context, id string, expected int) error {
	return decrement(ctx, GetQuerier(ctx, r.db), "cash_advances", id, expected)
}
