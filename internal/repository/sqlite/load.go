package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/google/uuid"
)

type loadRepository struct {
	store *Store
}

func NewLoadRepository(store *Store) load.LoadRepository {
	return &loadRepository{store: store}
}

const loadColumns = `l.id, l.load_number, l.customer, l.pick_up_location, l.drop_location, l.driver_id,
	l.status, l.gross_amount, l.notes, l.delivery_date, l.created_at, l.updated_at`

func scanLoad(row scanner) (load.Load, error) {
	var (
		l                      load.Load
		driverID, notes, deliv sql.NullString
		createdAt, updatedAt   string
	)
	err := row.Scan(
		&l.ID, &l.LoadNumber, &l.Customer, &l.PickUpLocation, &l.DropLocation, &driverID,
		&l.Status, &l.GrossAmount, &notes, &deliv, &createdAt, &updatedAt,
	)
	if err != nil {
		return load.Load{}, err
	}

	l.DriverID = stringPtr(driverID)
	l.Notes = stringPtr(notes)
	if l.DeliveryDate, err = parseOptionalDate(deliv); err != nil {
		return load.Load{}, err
	}
	if l.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return load.Load{}, err
	}
	if l.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return load.Load{}, err
	}
	return l, nil
}

func (r *loadRepository) queryLoads(ctx context.Context, query string, args ...any) ([]load.Load, error) {
	rows, err := r.store.querier(ctx).QueryContext(ctx, query, args...)
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
	return loads, rows.Err()
}

func (r *loadRepository) Create(ctx context.Context, l load.Load) (load.Load, error) {
	l.ID = uuid.Must(uuid.NewV7()).String()
	ts := now()

	_, err := r.store.querier(ctx).ExecContext(ctx, `
		INSERT INTO loads (id, load_number, customer, pick_up_location, drop_location, driver_id,
			status, gross_amount, notes, delivery_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.LoadNumber, l.Customer, l.PickUpLocation, l.DropLocation, nullString(l.DriverID),
		l.Status, l.GrossAmount, nullString(l.Notes), formatOptionalDate(l.DeliveryDate), ts, ts,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return load.Load{}, load.ErrLoadNumberExists
		}
		return load.Load{}, fmt.Errorf("failed to create load: %w", err)
	}
	return r.GetByID(ctx, l.ID)
}

func (r *loadRepository) GetByID(ctx context.Context, id string) (load.Load, error) {
	row := r.store.querier(ctx).QueryRowContext(ctx, `SELECT `+loadColumns+` FROM loads l WHERE l.id = ?`, id)
	l, err := scanLoad(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return load.Load{}, load.ErrLoadNotFound
		}
		return load.Load{}, fmt.Errorf("failed to get load: %w", err)
	}
	return l, nil
}

func (r *loadRepository) List(ctx context.Context, filter load.LoadFilter) ([]load.Load, error) {
	conditions := []string{"1=1"}
	var args []any

	if filter.DriverID != nil {
		conditions = append(conditions, "l.driver_id = ?")
		args = append(args, *filter.DriverID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "l.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, "l.delivery_date >= ?")
		args = append(args, formatDate(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "l.delivery_date <= ?")
		args = append(args, formatDate(*filter.To))
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, "(l.load_number LIKE ? OR l.customer LIKE ?)")
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + loadColumns + ` FROM loads l WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY l.delivery_date IS NULL, l.delivery_date DESC, l.load_number ASC`
	return r.queryLoads(ctx, query, args...)
}

func (r *loadRepository) Update(ctx context.Context, l load.Load) (load.Load, error) {
	res, err := r.store.querier(ctx).ExecContext(ctx, `
		UPDATE loads
		SET load_number = ?, customer = ?, pick_up_location = ?, drop_location = ?, driver_id = ?,
			gross_amount = ?, notes = ?, delivery_date = ?, updated_at = ?
		WHERE id = ?`,
		l.LoadNumber, l.Customer, l.PickUpLocation, l.DropLocation, nullString(l.DriverID),
		l.GrossAmount, nullString(l.Notes), formatOptionalDate(l.DeliveryDate), now(), l.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return load.Load{}, load.ErrLoadNumberExists
		}
		return load.Load{}, fmt.Errorf("failed to update load: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return load.Load{}, load.ErrLoadNotFound
	}
	return r.GetByID(ctx, l.ID)
}

func (r *loadRepository) UpdateStatus(ctx context.Context, id string, status load.Status) error {
	res, err := r.store.querier(ctx).ExecContext(ctx,
		`UPDATE loads SET status = ?, updated_at = ? WHERE id = ?`, status, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update load status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return load.ErrLoadNotFound
	}
	return nil
}

func (r *loadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.querier(ctx).ExecContext(ctx, `DELETE FROM loads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete load: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return load.ErrLoadNotFound
	}
	return nil
}

func (r *loadRepository) ExistsByLoadNumber(ctx context.Context, loadNumber string, excludeID string) (bool, error) {
	var count int
	err := r.store.querier(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loads WHERE LOWER(TRIM(load_number)) = LOWER(TRIM(?)) AND id <> ?`, loadNumber, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check load number: %w", err)
	}
	return count > 0, nil
}

func (r *loadRepository) GetByDriverAndDateRange(ctx context.Context, driverID string, from, to time.Time) ([]load.Load, error) {
	return r.queryLoads(ctx, `
		SELECT `+loadColumns+`
		FROM loads l
		WHERE l.driver_id = ? AND l.delivery_date BETWEEN ? AND ?
		ORDER BY l.delivery_date ASC, l.load_number ASC`,
		driverID, formatDate(from), formatDate(to),
	)
}

func (r *loadRepository) GetUnassigned(ctx context.Context, from, to time.Time) ([]load.Load, error) {
	return r.queryLoads(ctx, `
		SELECT `+loadColumns+`
		FROM loads l
		WHERE l.driver_id IS NULL AND l.delivery_date BETWEEN ? AND ?
		ORDER BY l.delivery_date ASC, l.load_number ASC`,
		formatDate(from), formatDate(to),
	)
}

func (r *loadRepository) GetOrphaned(ctx context.Context, from, to time.Time) ([]load.Load, error) {
	return r.queryLoads(ctx, `
		SELECT `+loadColumns+`
		FROM loads l
		LEFT JOIN drivers d ON d.id = l.driver_id
		WHERE l.driver_id IS NOT NULL AND d.id IS NULL AND l.delivery_date BETWEEN ? AND ?
		ORDER BY l.delivery_date ASC, l.load_number ASC`,
		formatDate(from), formatDate(to),
	)
}
