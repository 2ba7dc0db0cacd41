package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type driverRepositoryImpl struct {
	db *database.DB
}

func NewDriverRepository(db *database.DB) driver.DriverRepository {
	return &driverRepositoryImpl{db: db}
}

const driverColumns = `id, name, truck_unit, driver_percent, company_percent, service_fee_percent,
		dob, license_number, driver_type, employee_llc, cdl_expiry, medical_expiry, status,
		created_at, updated_at`

func scanDriver(row pgx.Row) (driver.Driver, error) {
	var d driver.Driver
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.TruckUnit,
		&d.DriverPercent,
		&d.CompanyPercent,
		&d.ServiceFeePercent,
		&d.DOB,
		&d.LicenseNumber,
		&d.DriverType,
		&d.EmployeeLLC,
		&d.CDLExpiry,
		&d.MedicalExpiry,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Create implements driver.DriverRepository.
func (r *driverRepositoryImpl) Create(ctx context.Context, d driver.Driver) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return driver.Driver{}, fmt.Errorf("failed to generate driver id: %w", err)
	}

	query := `
		INSERT INTO drivers (id, name, truck_unit, driver_percent, company_percent, service_fee_percent,
			dob, license_number, driver_type, employee_llc, cdl_expiry, medical_expiry, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING ` + driverColumns

	created, err := scanDriver(q.QueryRow(ctx, query,
		id.String(), d.Name, d.TruckUnit, d.DriverPercent, d.CompanyPercent, d.ServiceFeePercent,
		d.DOB, d.LicenseNumber, d.DriverType, d.EmployeeLLC, d.CDLExpiry, d.MedicalExpiry, d.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return driver.Driver{}, driver.ErrDriverNameExists
		}
		return driver.Driver{}, fmt.Errorf("failed to create driver: %w", err)
	}
	return created, nil
}

// GetByID implements driver.DriverRepository.
func (r *driverRepositoryImpl) GetByID(ctx context.Context, id string) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	d, err := scanDriver(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}
	return d, nil
}

// GetActive implements driver.DriverRepository.
func (r *driverRepositoryImpl) GetActive(ctx context.Context) ([]driver.Driver, error) {
	status := driver.StatusActive
	return r.List(ctx, driver.DriverFilter{Status: &status})
}

// List implements driver.DriverRepository.
func (r *driverRepositoryImpl) List(ctx context.Context, filter driver.DriverFilter) ([]driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR truck_unit ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	query := `SELECT ` + driverColumns + ` FROM drivers WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY name ASC, id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	drivers := []driver.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return drivers, nil
}

// Update implements driver.DriverRepository.
func (r *driverRepositoryImpl) Update(ctx context.Context, d driver.Driver) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE drivers
		SET name = $2, truck_unit = $3, driver_percent = $4, company_percent = $5,
			service_fee_percent = $6, dob = $7, license_number = $8, driver_type = $9,
			employee_llc = $10, cdl_expiry = $11, medical_expiry = $12, status = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + driverColumns

	updated, err := scanDriver(q.QueryRow(ctx, query,
		d.ID, d.Name, d.TruckUnit, d.DriverPercent, d.CompanyPercent, d.ServiceFeePercent,
		d.DOB, d.LicenseNumber, d.DriverType, d.EmployeeLLC, d.CDLExpiry, d.MedicalExpiry, d.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		if isUniqueViolation(err) {
			return driver.Driver{}, driver.ErrDriverNameExists
		}
		return driver.Driver{}, fmt.Errorf("failed to update driver: %w", err)
	}
	return updated, nil
}

// Delete implements driver.DriverRepository.
func (r *driverRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

// ExistsActiveByName implements driver.DriverRepository.
func (r *driverRepositoryImpl) ExistsActiveByName(ctx context.Context, name string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM drivers
			WHERE LOWER(TRIM(name)) = LOWER(TRIM($1)) AND status = 'ACTIVE' AND id::text <> $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check driver name: %w", err)
	}
	return exists, nil
}

// IsReferenced implements driver.DriverRepository.
func (r *driverRepositoryImpl) IsReferenced(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(SELECT 1 FROM loads WHERE driver_id = $1)
			OR EXISTS(SELECT 1 FROM fuel_transactions WHERE driver_id = $1)
			OR EXISTS(SELECT 1 FROM recurring_fees WHERE driver_id = $1)
			OR EXISTS(SELECT 1 FROM cash_advances WHERE driver_id = $1)
	`

	var referenced bool
	if err := q.QueryRow(ctx, query, id).Scan(&referenced); err != nil {
		return false, fmt.Errorf("failed to check driver references: %w", err)
	}
	return referenced, nil
}
