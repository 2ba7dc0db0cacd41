package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/google/uuid"
)

// ========== RECURRING FEES ==========

type feeRepository struct {
	store *Store
}

func NewFeeRepository(store *Store) deduction.FeeRepository {
	return &feeRepository{store: store}
}

const feeColumns = `id, driver_id, fee_type, amount, start_date, total_weeks, weeks_remaining, active,
	fee_month, fee_year, created_at, updated_at`

func scanFee(row scanner) (deduction.RecurringFee, error) {
	var (
		f                               deduction.RecurringFee
		startDate, createdAt, updatedAt string
	)
	err := row.Scan(
		&f.ID, &f.DriverID, &f.FeeType, &f.Amount, &startDate, &f.TotalWeeks, &f.WeeksRemaining,
		&f.Active, &f.FeeMonth, &f.FeeYear, &createdAt, &updatedAt,
	)
	if err != nil {
		return deduction.RecurringFee{}, err
	}

	if f.StartDate, err = parseDate(startDate); err != nil {
		return deduction.RecurringFee{}, err
	}
	if f.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return deduction.RecurringFee{}, err
	}
	if f.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return deduction.RecurringFee{}, err
	}
	return f, nil
}

func (r *feeRepository) queryFees(ctx context.Context, query string, args ...any) ([]deduction.RecurringFee, error) {
	rows, err := r.store.querier(ctx).QueryContext(ctx, query, args...)
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
	return fees, rows.Err()
}

func (r *feeRepository) Create(ctx context.Context, f deduction.RecurringFee) (deduction.RecurringFee, error) {
	f.ID = uuid.Must(uuid.NewV7()).String()
	ts := now()

	res, err := r.store.querier(ctx).ExecContext(ctx, `
		INSERT INTO recurring_fees (`+feeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (driver_id, fee_type, fee_month, fee_year) DO NOTHING`,
		f.ID, f.DriverID, f.FeeType, f.Amount, formatDate(f.StartDate), f.TotalWeeks,
		f.WeeksRemaining, boolToInt(f.Active), f.FeeMonth, f.FeeYear, ts, ts,
	)
	if err != nil {
		return deduction.RecurringFee{}, fmt.Errorf("failed to create recurring fee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deduction.RecurringFee{}, deduction.ErrDuplicateFee
	}
	return r.GetByID(ctx, f.ID)
}

func (r *feeRepository) GetByID(ctx context.Context, id string) (deduction.RecurringFee, error) {
	row := r.store.querier(ctx).QueryRowContext(ctx, `SELECT `+feeColumns+` FROM recurring_fees WHERE id = ?`, id)
	f, err := scanFee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deduction.RecurringFee{}, deduction.ErrFeeNotFound
		}
		return deduction.RecurringFee{}, fmt.Errorf("failed to get recurring fee: %w", err)
	}
	return f, nil
}

func (r *feeRepository) GetAll(ctx context.Context) ([]deduction.RecurringFee, error) {
	return r.queryFees(ctx, `SELECT `+feeColumns+` FROM recurring_fees ORDER BY fee_year, fee_month, driver_id, fee_type`)
}

func (r *feeRepository) Search(ctx context.Context, filter deduction.FeeFilter) ([]deduction.RecurringFee, error) {
	conditions := []string{"1=1"}
	var args []any

	if filter.DriverID != nil {
		conditions = append(conditions, "driver_id = ?")
		args = append(args, *filter.DriverID)
	}
	if filter.Month != nil {
		conditions = append(conditions, "fee_month = ?")
		args = append(args, *filter.Month)
	}
	if filter.Year != nil {
		conditions = append(conditions, "fee_year = ?")
		args = append(args, *filter.Year)
	}

	query := `SELECT ` + feeColumns + ` FROM recurring_fees WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY fee_year DESC, fee_month DESC, fee_type ASC`
	return r.queryFees(ctx, query, args...)
}

func (r *feeRepository) Update(ctx context.Context, f deduction.RecurringFee) (deduction.RecurringFee, error) {
	res, err := r.store.querier(ctx).ExecContext(ctx, `
		UPDATE recurring_fees
		SET amount = ?, start_date = ?, total_weeks = ?, weeks_remaining = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		f.Amount, formatDate(f.StartDate), f.TotalWeeks, f.WeeksRemaining, boolToInt(f.Active), now(), f.ID,
	)
	if err != nil {
		return deduction.RecurringFee{}, fmt.Errorf("failed to update recurring fee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deduction.RecurringFee{}, deduction.ErrFeeNotFound
	}
	return r.GetByID(ctx, f.ID)
}

func (r *feeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.querier(ctx).ExecContext(ctx, `DELETE FROM recurring_fees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring fee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deduction.ErrFeeNotFound
	}
	return nil
}

func (r *feeRepository) Exists(ctx context.Context, driverID string, feeType deduction.FeeType, month, year int) (bool, error) {
	var count int
	err := r.store.querier(ctx).QueryRowContext(ctx, `
		SELECT COUNT(1) FROM recurring_fees
		WHERE driver_id = ? AND fee_type = ? AND fee_month = ? AND fee_year = ?`,
		driverID, feeType, month, year,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recurring fee: %w", err)
	}
	return count > 0, nil
}

func (r *feeRepository) Decrement(ctx context.Context, id string, expected int) error {
	return decrement(ctx, r.store.querier(ctx), "recurring_fees", id, expected)
}

// decrement is a compare-and-swap on weeks_remaining. SQLite evaluates the SET
// expressions against the old row, so active reads the pre-decrement value.
func decrement(ctx context.Context, q querier, table, id string, expected int) error {
	res, err := q.ExecContext(ctx, `
		UPDATE `+table+`
		SET weeks_remaining = CASE WHEN weeks_remaining > 0 THEN weeks_remaining - 1 ELSE 0 END,
			active = weeks_remaining > 1,
			updated_at = ?
		WHERE id = ? AND weeks_remaining = ? AND active = 1`,
		now(), id, expected,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deduction.ErrConcurrentModification
	}
	return nil
}

// ========== CASH ADVANCES ==========

type advanceRepository struct {
	store *Store
}

func NewAdvanceRepository(store *Store) deduction.AdvanceRepository {
	return &advanceRepository{store: store}
}

const advanceColumns = `id, driver_id, amount, given_date, due_date, payment_weeks, weeks_remaining,
	active, created_at, updated_at`

func scanAdvance(row scanner) (deduction.CashAdvance, error) {
	var (
		a                                deduction.CashAdvance
		given, due, createdAt, updatedAt string
	)
	err := row.Scan(
		&a.ID, &a.DriverID, &a.Amount, &given, &due, &a.PaymentWeeks, &a.WeeksRemaining,
		&a.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		return deduction.CashAdvance{}, err
	}

	if a.GivenDate, err = parseDate(given); err != nil {
		return deduction.CashAdvance{}, err
	}
	if a.DueDate, err = parseDate(due); err != nil {
		return deduction.CashAdvance{}, err
	}
	if a.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return deduction.CashAdvance{}, err
	}
	if a.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return deduction.CashAdvance{}, err
	}
	return a, nil
}

func (r *advanceRepository) queryAdvances(ctx context.Context, query string, args ...any) ([]deduction.CashAdvance, error) {
	rows, err := r.store.querier(ctx).QueryContext(ctx, query, args...)
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
	return advances, rows.Err()
}

func (r *advanceRepository) Create(ctx context.Context, a deduction.CashAdvance) (deduction.CashAdvance, error) {
	a.ID = uuid.Must(uuid.NewV7()).String()
	ts := now()

	_, err := r.store.querier(ctx).ExecContext(ctx, `
		INSERT INTO cash_advances (`+advanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.DriverID, a.Amount, formatDate(a.GivenDate), formatDate(a.DueDate), a.PaymentWeeks,
		a.WeeksRemaining, boolToInt(a.Active), ts, ts,
	)
	if err != nil {
		return deduction.CashAdvance{}, fmt.Errorf("failed to create cash advance: %w", err)
	}
	return r.GetByID(ctx, a.ID)
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (deduction.CashAdvance, error) {
	row := r.store.querier(ctx).QueryRowContext(ctx, `SELECT `+advanceColumns+` FROM cash_advances WHERE id = ?`, id)
	a, err := scanAdvance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deduction.CashAdvance{}, deduction.ErrAdvanceNotFound
		}
		return deduction.CashAdvance{}, fmt.Errorf("failed to get cash advance: %w", err)
	}
	return a, nil
}

func (r *advanceRepository) GetAll(ctx context.Context) ([]deduction.CashAdvance, error) {
	return r.queryAdvances(ctx, `SELECT `+advanceColumns+` FROM cash_advances ORDER BY given_date, id`)
}

func (r *advanceRepository) Search(ctx context.Context, filter deduction.AdvanceFilter) ([]deduction.CashAdvance, error) {
	conditions := []string{"1=1"}
	var args []any

	if filter.DriverID != nil {
		conditions = append(conditions, "driver_id = ?")
		args = append(args, *filter.DriverID)
	}
	if filter.From != nil {
		conditions = append(conditions, "given_date >= ?")
		args = append(args, formatDate(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "given_date <= ?")
		args = append(args, formatDate(*filter.To))
	}

	query := `SELECT ` + advanceColumns + ` FROM cash_advances WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY given_date DESC, id DESC`
	return r.queryAdvances(ctx, query, args...)
}

func (r *advanceRepository) Update(ctx context.Context, a deduction.CashAdvance) (deduction.CashAdvance, error) {
	res, err := r.store.querier(ctx).ExecContext(ctx, `
		UPDATE cash_advances
		SET amount = ?, given_date = ?, due_date = ?, payment_weeks = ?, weeks_remaining = ?,
			active = ?, updated_at = ?
		WHERE id = ?`,
		a.Amount, formatDate(a.GivenDate), formatDate(a.DueDate), a.PaymentWeeks, a.WeeksRemaining,
		boolToInt(a.Active), now(), a.ID,
	)
	if err != nil {
		return deduction.CashAdvance{}, fmt.Errorf("failed to update cash advance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deduction.CashAdvance{}, deduction.ErrAdvanceNotFound
	}
	return r.GetByID(ctx, a.ID)
}

func (r *advanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.querier(ctx).ExecContext(ctx, `DELETE FROM cash_advances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash advance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deduction.ErrAdvanceNotFound
	}
	return nil
}

func (r *advanceRepository) Decrement(ctx context.Context, id string, expected int) error {
	return decrement(ctx, r.store.querier(ctx), "cash_advances", id, expected)
}

// ========== INSTALLMENTS ==========

type installmentRepository struct {
	store *Store
}

func NewInstallmentRepository(store *Store) deduction.InstallmentRepository {
	return &installmentRepository{store: store}
}

func (r *installmentRepository) Record(ctx context.Context, i deduction.Installment) error {
	res, err := r.store.querier(ctx).ExecContext(ctx, `
		INSERT INTO deduction_installments (id, record_kind, record_id, driver_id, period_start,
			period_end, amount, weeks_remaining, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (record_kind, record_id, period_start, period_end) DO NOTHING`,
		i.ID, i.RecordKind, i.RecordID, i.DriverID, formatDate(i.PeriodStart), formatDate(i.PeriodEnd),
		i.Amount, i.WeeksRemaining, now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record installment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deduction.ErrInstallmentExists
	}
	return nil
}

func (r *installmentRepository) ListForPeriod(ctx context.Context, start, end time.Time) ([]deduction.Installment, error) {
	rows, err := r.store.querier(ctx).QueryContext(ctx, `
		SELECT id, record_kind, record_id, driver_id, period_start, period_end, amount,
			weeks_remaining, created_at
		FROM deduction_installments
		WHERE period_start = ? AND period_end = ?
		ORDER BY created_at ASC`,
		formatDate(start), formatDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	installments := []deduction.Installment{}
	for rows.Next() {
		var (
			i                          deduction.Installment
			periodStart, periodEnd, ts string
		)
		err := rows.Scan(
			&i.ID, &i.RecordKind, &i.RecordID, &i.DriverID, &periodStart, &periodEnd,
			&i.Amount, &i.WeeksRemaining, &ts,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		if i.PeriodStart, err = parseDate(periodStart); err != nil {
			return nil, err
		}
		if i.PeriodEnd, err = parseDate(periodEnd); err != nil {
			return nil, err
		}
		if i.CreatedAt, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		installments = append(installments, i)
	}
	return installments, rows.Err()
}
