package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type loadRepositoryImpl struct {
	db *database.DB
}

func NewLoadRepository(db *database.DB) load.LoadRepository {
	return &loadRepositoryImpl{db: db}
}

const loadColumns = `l.id, l.load_number, l.customer, l.pick_up_location, l.drop_location, l.driver_id,
		l.status, l.gross_amount, l.notes, l.delivery_date, l.created_at, l.updated_at`

func scanLoad(row pgx.Row) (load.Load, error) {
	var l load.Load
	err := row.Scan(
		&l.ID,
		&l.LoadNumber,
		&l.Customer,
		&l.PickUpLocation,
		&l.DropLocation,
		&l.DriverID,
		&l.Status,
		&l.GrossAmount,
		&l.Notes,
		&l.DeliveryDate,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func (r *loadRepositoryImpl) queryLoads(ctx context.Context, query string, args ...interface{}) ([]load.Load, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get loads: %w", err)
	}
	defer rows.Close()

	loads := []load.Load{}
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load: %w", err)
		}
		loads = append(loads, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return loads, nil
}

// Create implements load.LoadRepository.
func (r *loadRepositoryImpl) Create(ctx context.Context, l load.Load) (load.Load, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return load.Load{}, fmt.Errorf("failed to generate load id: %w", err)
	}

	query := `
		INSERT INTO loads AS l (id, load_number, customer, pick_up_location, drop_location, driver_id,
			status, gross_amount, notes, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + loadColumns

	created, err := scanLoad(q.QueryRow(ctx, query,
		id.String(), l.LoadNumber, l.Customer, l.PickUpLocation, l.DropLocation, l.DriverID,
		l.Status, l.GrossAmount, l.Notes, l.DeliveryDate,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return load.Load{}, load.ErrLoadNumberExists
		}
		return load.Load{}, fmt.Errorf("failed to create load: %w", err)
	}
	return created, nil
}

// GetByID implements load.LoadRepository.
func (r *loadRepositoryImpl) GetByID(ctx context.Context, id string) (load.Load, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLoad(q.QueryRow(ctx, `SELECT `+loadColumns+` FROM loads l WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return load.Load{}, load.ErrLoadNotFound
		}
		return load.Load{}, fmt.Errorf("failed to get load: %w", err)
	}
	return l, nil
}

// List implements load.LoadRepository.
func (r *loadRepositoryImpl) List(ctx context.Context, filter load.LoadFilter) ([]load.Load, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.DriverID != nil {
		conditions = append(conditions, fmt.Sprintf("l.driver_id = $%d", argIdx))
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("l.delivery_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("l.delivery_date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(l.load_number ILIKE $%d OR l.customer ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	query := `SELECT ` + loadColumns + ` FROM loads l WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY l.delivery_date DESC NULLS LAST, l.load_number ASC`
	return r.queryLoads(ctx, query, args...)
}

// Update implements load.LoadRepository.
func (r *loadRepositoryImpl) Update(ctx context.Context, l load.Load) (load.Load, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loads AS l
		SET load_number = $2, customer = $3, pick_up_location = $4, drop_location = $5,
			driver_id = $6, gross_amount = $7, notes = $8, delivery_date = $9, updated_at = NOW()
		WHERE l.id = $1
		RETURNING ` + loadColumns

	updated, err := scanLoad(q.QueryRow(ctx, query,
		l.ID, l.LoadNumber, l.Customer, l.PickUpLocation, l.DropLocation,
		l.DriverID, l.GrossAmount, l.Notes, l.DeliveryDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return load.Load{}, load.ErrLoadNotFound
		}
		if isUniqueViolation(err) {
			return load.Load{}, load.ErrLoadNumberExists
		}
		return load.Load{}, fmt.Errorf("failed to update load: %w", err)
	}
	return updated, nil
}

// UpdateStatus implements load.LoadRepository.
func (r *loadRepositoryImpl) UpdateStatus(ctx context.Context, id string, status load.Status) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE loads SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update load status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return load.ErrLoadNotFound
	}
	return nil
}

// Delete implements load.LoadRepository.
func (r *loadRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM loads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete load: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return load.ErrLoadNotFound
	}
	return nil
}

// ExistsByLoadNumber implements load.LoadRepository.
func (r *loadRepositoryImpl) ExistsByLoadNumber(ctx context.Context, loadNumber string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM loads WHERE LOWER(TRIM(load_number)) = LOWER(TRIM($1)) AND id::text <> $2)`,
		loadNumber, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check load number: %w", err)
	}
	return exists, nil
}

// GetByDriverAndDateRange implements load.LoadRepository.
func (r *loadRepositoryImpl) GetByDriverAndDateRange(ctx context.Context, driverID string, from, to time.Time) ([]load.Load, error) {
	query := `
		SELECT ` + loadColumns + `
		FROM loads l
		WHERE l.driver_id = $1 AND l.delivery_date BETWEEN $2 AND $3
		ORDER BY l.delivery_date ASC, l.load_number ASC
	`
	return r.queryLoads(ctx, query, driverID, from, to)
}

// GetUnassigned implements load.LoadRepository.
func (r *loadRepositoryImpl) GetUnassigned(ctx context.Context, from, to time.Time) ([]load.Load, error) {
	query := `
		SELECT ` + loadColumns + `
		FROM loads l
		WHERE l.driver_id IS NULL AND l.delivery_date BETWEEN $1 AND $2
		ORDER BY l.delivery_date ASC, l.load_number ASC
	`
	return r.queryLoads(ctx, query, from, to)
}

// GetOrphaned implements load.LoadRepository.
func (r *loadRepositoryImpl) GetOrphaned(ctx context.Context, from, to time.Time) ([]load.Load, error) {
	query := `
		SELECT ` + loadColumns + `
		FROM loads l
		LEFT JOIN drivers d ON d.id = l.driver_id
		WHERE l.driver_id IS NOT NULL AND d.id IS NULL AND l.delivery_date BETWEEN $1 AND $2
		ORDER BY l.delivery_date ASC, l.load_number ASC
	`
	return r.queryLoads(ctx, query, from, to)
}
