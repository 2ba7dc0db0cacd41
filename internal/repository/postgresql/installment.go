package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
)

type installmentRepositoryImpl struct {
	db *database.DB
}

func NewInstallmentRepository(db *database.DB) deduction.InstallmentRepository {
	return &installmentRepositoryImpl{db: db}
}

// Record implements deduction.InstallmentRepository.
func (r *installmentRepositoryImpl) Record(ctx context.Context, i deduction.Installment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deduction_installments (id, record_kind, record_id, driver_id, period_start,
			period_end, amount, weeks_remaining, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (record_kind, record_id, period_start, period_end) DO NOTHING
	`

	commandTag, err := q.Exec(ctx, query,
		i.ID, i.RecordKind, i.RecordID, i.DriverID, i.PeriodStart, i.PeriodEnd, i.Amount, i.WeeksRemaining,
	)
	if err != nil {
		return mapTxError(fmt.Errorf("failed to record installment: %w", err))
	}
	if commandTag.RowsAffected() == 0 {
		return deduction.ErrInstallmentExists
	}
	return nil
}

// ListForPeriod implements deduction.InstallmentRepository.
func (r *installmentRepositoryImpl) ListForPeriod(ctx context.Context, start, end time.Time) ([]deduction.Installment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, record_kind, record_id, driver_id, period_start, period_end, amount,
			weeks_remaining, created_at
		FROM deduction_installments
		WHERE period_start = $1 AND period_end = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	installments := []deduction.Installment{}
	for rows.Next() {
		var i deduction.Installment
		err := rows.Scan(
			&i.ID,
			&i.RecordKind,
			&i.RecordID,
			&i.DriverID,
			&i.PeriodStart,
			&i.PeriodEnd,
			&i.Amount,
			&i.WeeksRemaining,
			&i.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, i)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return installments, nil
}
