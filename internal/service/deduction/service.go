package deduction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
)

type DeductionServiceImpl struct {
	tx          database.Transactor
	feeRepo     deduction.FeeRepository
	advanceRepo deduction.AdvanceRepository
	driverRepo  driver.DriverRepository
}

func NewDeductionService(
	tx database.Transactor,
	feeRepo deduction.FeeRepository,
	advanceRepo deduction.AdvanceRepository,
	driverRepo driver.DriverRepository,
) deduction.DeductionService {
	return &DeductionServiceImpl{
		tx:          tx,
		feeRepo:     feeRepo,
		advanceRepo: advanceRepo,
		driverRepo:  driverRepo,
	}
}

// ========== FEES ==========

// CreateFee implements deduction.DeductionService.
func (s *DeductionServiceImpl) CreateFee(ctx context.Context, req deduction.CreateFeeRequest) (deduction.FeeResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.FeeResponse{}, err
	}

	var created deduction.RecurringFee
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.driverRepo.GetByID(txCtx, req.DriverID); err != nil {
			return err
		}
		var err error
		created, err = s.feeRepo.Create(txCtx, req.ToEntity())
		return err
	})
	if err != nil {
		return deduction.FeeResponse{}, err
	}

	slog.Info("recurring fee created",
		"fee_id", created.ID,
		"driver_id", created.DriverID,
		"fee_type", created.FeeType,
		"billing_month", fmt.Sprintf("%04d-%02d", created.FeeYear, created.FeeMonth),
	)
	return deduction.NewFeeResponse(created), nil
}

// GetFee implements deduction.DeductionService.
func (s *DeductionServiceImpl) GetFee(ctx context.Context, id string) (deduction.FeeResponse, error) {
	f, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		return deduction.FeeResponse{}, err
	}
	return deduction.NewFeeResponse(f), nil
}

// ListFees implements deduction.DeductionService.
func (s *DeductionServiceImpl) ListFees(ctx context.Context, req deduction.ListFeesRequest) ([]deduction.FeeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fees, err := s.feeRepo.Search(ctx, deduction.FeeFilter{
		DriverID: req.DriverID,
		Month:    req.Month,
		Year:     req.Year,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring fees: %w", err)
	}
	return deduction.NewFeeResponses(fees), nil
}

// UpdateFee implements deduction.DeductionService.
func (s *DeductionServiceImpl) UpdateFee(ctx context.Context, req deduction.UpdateFeeRequest) (deduction.FeeResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.FeeResponse{}, err
	}

	var updated deduction.RecurringFee
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		f, err := s.feeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := req.Apply(&f); err != nil {
			return err
		}
		updated, err = s.feeRepo.Update(txCtx, f)
		return err
	})
	if err != nil {
		return deduction.FeeResponse{}, err
	}
	return deduction.NewFeeResponse(updated), nil
}

// DeleteFee implements deduction.DeductionService.
func (s *DeductionServiceImpl) DeleteFee(ctx context.Context, id string) error {
	return s.feeRepo.Delete(ctx, id)
}

// ========== CASH ADVANCES ==========

// CreateAdvance implements deduction.DeductionService.
func (s *DeductionServiceImpl) CreateAdvance(ctx context.Context, req deduction.CreateAdvanceRequest) (deduction.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.AdvanceResponse{}, err
	}

	var created deduction.CashAdvance
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.driverRepo.GetByID(txCtx, req.DriverID); err != nil {
			return err
		}
		var err error
		created, err = s.advanceRepo.Create(txCtx, req.ToEntity())
		return err
	})
	if err != nil {
		return deduction.AdvanceResponse{}, err
	}

	slog.Info("cash advance created", "advance_id", created.ID, "driver_id", created.DriverID, "amount", created.Amount.String())
	return deduction.NewAdvanceResponse(created), nil
}

// GetAdvance implements deduction.DeductionService.
func (s *DeductionServiceImpl) GetAdvance(ctx context.Context, id string) (deduction.AdvanceResponse, error) {
	a, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return deduction.AdvanceResponse{}, err
	}
	return deduction.NewAdvanceResponse(a), nil
}

// ListAdvances implements deduction.DeductionService.
func (s *DeductionServiceImpl) ListAdvances(ctx context.Context, req deduction.ListAdvancesRequest) ([]deduction.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	advances, err := s.advanceRepo.Search(ctx, req.ToFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list cash advances: %w", err)
	}
	return deduction.NewAdvanceResponses(advances), nil
}

// UpdateAdvance implements deduction.DeductionService.
func (s *DeductionServiceImpl) UpdateAdvance(ctx context.Context, req deduction.UpdateAdvanceRequest) (deduction.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.AdvanceResponse{}, err
	}

	var updated deduction.CashAdvance
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		a, err := s.advanceRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := req.Apply(&a); err != nil {
			return err
		}
		updated, err = s.advanceRepo.Update(txCtx, a)
		return err
	})
	if err != nil {
		return deduction.AdvanceResponse{}, err
	}
	return deduction.NewAdvanceResponse(updated), nil
}

// DeleteAdvance implements deduction.DeductionService.
func (s *DeductionServiceImpl) DeleteAdvance(ctx context.Context, id string) error {
	return s.advanceRepo.Delete(ctx, id)
}
