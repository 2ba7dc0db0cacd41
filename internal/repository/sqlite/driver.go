package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/google/uuid"
)

type driverRepository struct {
	store *Store
}

func NewDriverRepository(store *Store) driver.DriverRepository {
	return &driverRepository{store: store}
}

const driverColumns = `id, name, truck_unit, driver_percent, company_percent, service_fee_percent,
	dob, license_number, driver_type, employee_llc, cdl_expiry, medical_expiry, status,
	created_at, updated_at`

func scanDriver(row scanner) (driver.Driver, error) {
	var (
		d                      driver.Driver
		dob, cdl, medical, llc sql.NullString
		createdAt, updatedAt   string
	)
	err := row.Scan(
		&d.ID, &d.Name, &d.TruckUnit, &d.DriverPercent, &d.CompanyPercent, &d.ServiceFeePercent,
		&dob, &d.LicenseNumber, &d.DriverType, &llc, &cdl, &medical, &d.Status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return driver.Driver{}, err
	}

	d.EmployeeLLC = stringPtr(llc)
	if d.DOB, err = parseOptionalDate(dob); err != nil {
		return driver.Driver{}, err
	}
	if d.CDLExpiry, err = parseOptionalDate(cdl); err != nil {
		return driver.Driver{}, err
	}
	if d.MedicalExpiry, err = parseOptionalDate(medical); err != nil {
		return driver.Driver{}, err
	}
	if d.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return driver.Driver{}, err
	}
	if d.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return driver.Driver{}, err
	}
	return d, nil
}

func (r *driverRepository) Create(ctx context.Context, d driver.Driver) (driver.Driver, error) {
	d.ID = uuid.Must(uuid.NewV7()).String()
	ts := now()

	_, err := r.store.querier(ctx).ExecContext(ctx, `
		INSERT INTO drivers (`+driverColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.TruckUnit, d.DriverPercent, d.CompanyPercent, d.ServiceFeePercent,
		formatOptionalDate(d.DOB), d.LicenseNumber, d.DriverType, nullString(d.EmployeeLLC),
		formatOptionalDate(d.CDLExpiry), formatOptionalDate(d.MedicalExpiry), d.Status, ts, ts,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return driver.Driver{}, driver.ErrDriverNameExists
		}
		return driver.Driver{}, fmt.Errorf("failed to create driver: %w", err)
	}
	return r.GetByID(ctx, d.ID)
}

func (r *driverRepository) GetByID(ctx context.Context, id string) (driver.Driver, error) {
	row := r.store.querier(ctx).QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = ?`, id)
	d, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}
	return d, nil
}

func (r *driverRepository) GetActive(ctx context.Context) ([]driver.Driver, error) {
	status := driver.StatusActive
	return r.List(ctx, driver.DriverFilter{Status: &status})
}

func (r *driverRepository) List(ctx context.Context, filter driver.DriverFilter) ([]driver.Driver, error) {
	conditions := []string{"1=1"}
	var args []any

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, "(name LIKE ? OR truck_unit LIKE ?)")
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + driverColumns + ` FROM drivers WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY name ASC, id ASC`

	rows, err := r.store.querier(ctx).QueryContext(ctx, query, args...)
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
	return drivers, rows.Err()
}

func (r *driverRepository) Update(ctx context.Context, d driver.Driver) (driver.Driver, error) {
	res, err := r.store.querier(ctx).ExecContext(ctx, `
		UPDATE drivers
		SET name = ?, truck_unit = ?, driver_percent = ?, company_percent = ?, service_fee_percent = ?,
			dob = ?, license_number = ?, driver_type = ?, employee_llc = ?, cdl_expiry = ?,
			medical_expiry = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		d.Name, d.TruckUnit, d.DriverPercent, d.CompanyPercent, d.ServiceFeePercent,
		formatOptionalDate(d.DOB), d.LicenseNumber, d.DriverType, nullString(d.EmployeeLLC),
		formatOptionalDate(d.CDLExpiry), formatOptionalDate(d.MedicalExpiry), d.Status, now(), d.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return driver.Driver{}, driver.ErrDriverNameExists
		}
		return driver.Driver{}, fmt.Errorf("failed to update driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return driver.Driver{}, driver.ErrDriverNotFound
	}
	return r.GetByID(ctx, d.ID)
}

func (r *driverRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.querier(ctx).ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

func (r *driverRepository) ExistsActiveByName(ctx context.Context, name string, excludeID string) (bool, error) {
	var count int
	err := r.store.querier(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM drivers
		WHERE LOWER(TRIM(name)) = LOWER(TRIM(?)) AND status = 'ACTIVE' AND id <> ?`,
		name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check driver name: %w", err)
	}
	return count > 0, nil
}

func (r *driverRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	var referenced int
	err := r.store.querier(ctx).QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM loads WHERE driver_id = ?1)
			OR EXISTS(SELECT 1 FROM fuel_transactions WHERE driver_id = ?1)
			OR EXISTS(SELECT 1 FROM recurring_fees WHERE driver_id = ?1)
			OR EXISTS(SELECT 1 FROM cash_advances WHERE driver_id = ?1)`,
		id,
	).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("failed to check driver references: %w", err)
	}
	return referenced != 0, nil
}
