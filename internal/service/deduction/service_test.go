package deduction

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeductionService(t *testing.T) (deduction.DeductionService, driver.Driver) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	driverRepo := sqlite.NewDriverRepository(store)
	d, err := driverRepo.Create(context.Background(), driver.Driver{
		Name:          "John Smith",
		TruckUnit:     "T-101",
		DriverPercent: decimal.NewFromInt(75),
		DriverType:    driver.DriverTypeCompanyDriver,
		Status:        driver.StatusActive,
	})
	require.NoError(t, err)

	svc := NewDeductionService(store, sqlite.NewFeeRepository(store), sqlite.NewAdvanceRepository(store), driverRepo)
	return svc, d
}

func intPtr(i int) *int { return &i }

func TestDeductionService_CreateFee_DefaultsBillingMonth(t *testing.T) {
	ctx := context.Background()
	svc, d := newTestDeductionService(t)

	fee, err := svc.CreateFee(ctx, deduction.CreateFeeRequest{
		DriverID:  d.ID,
		FeeType:   "ELD",
		Amount:    validator.Amount("50"),
		StartDate: "2024-03-15",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, fee.FeeMonth)
	assert.Equal(t, 2024, fee.FeeYear)
	assert.Equal(t, 1, fee.TotalWeeks)
	assert.Equal(t, 1, fee.WeeksRemaining)
	assert.True(t, fee.Active)
}

func TestDeductionService_CreateFee_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, d := newTestDeductionService(t)
	req := deduction.CreateFeeRequest{
		DriverID:  d.ID,
		FeeType:   "TVC",
		Amount:    validator.Amount("25"),
		StartDate: "2024-03-01",
		FeeMonth:  intPtr(4),
		FeeYear:   intPtr(2024),
	}

	_, err := svc.CreateFee(ctx, req)
	require.NoError(t, err)
	_, err = svc.CreateFee(ctx, req)
	assert.ErrorIs(t, err, deduction.ErrDuplicateFee)

	fees, err := svc.ListFees(ctx, deduction.ListFeesRequest{Month: intPtr(4), Year: intPtr(2024)})
	require.NoError(t, err)
	assert.Len(t, fees, 1)
}

func TestDeductionService_CreateFee_UnknownDriver(t *testing.T) {
	svc, _ := newTestDeductionService(t)

	_, err := svc.CreateFee(context.Background(), deduction.CreateFeeRequest{
		DriverID:  "0190a6f0-0000-7000-8000-000000000000",
		FeeType:   "ELD",
		Amount:    validator.Amount("50"),
		StartDate: "2024-03-01",
	})

	assert.ErrorIs(t, err, driver.ErrDriverNotFound)
}

func TestDeductionService_UpdateFee_RemainingCannotExceedTotal(t *testing.T) {
	ctx := context.Background()
	svc, d := newTestDeductionService(t)
	fee, err := svc.CreateFee(ctx, deduction.CreateFeeRequest{
		DriverID:   d.ID,
		FeeType:    "PARKING",
		Amount:     validator.Amount("40"),
		StartDate:  "2024-03-01",
		TotalWeeks: 4,
	})
	require.NoError(t, err)

	_, err = svc.UpdateFee(ctx, deduction.UpdateFeeRequest{ID: fee.ID, WeeksRemaining: intPtr(5)})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	active := false
	updated, err := svc.UpdateFee(ctx, deduction.UpdateFeeRequest{ID: fee.ID, WeeksRemaining: intPtr(2), Active: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.WeeksRemaining)
	assert.False(t, updated.Active)

	require.NoError(t, svc.DeleteFee(ctx, fee.ID))
	_, err = svc.GetFee(ctx, fee.ID)
	assert.ErrorIs(t, err, deduction.ErrFeeNotFound)
}

func TestDeductionService_Advances(t *testing.T) {
	ctx := context.Background()
	svc, d := newTestDeductionService(t)

	adv, err := svc.CreateAdvance(ctx, deduction.CreateAdvanceRequest{
		DriverID:     d.ID,
		Amount:       validator.Amount("300"),
		GivenDate:    "2024-03-05",
		DueDate:      "2024-03-26",
		PaymentWeeks: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, adv.WeeksRemaining)
	assert.True(t, adv.Active)

	_, err = svc.CreateAdvance(ctx, deduction.CreateAdvanceRequest{
		DriverID:     d.ID,
		Amount:       validator.Amount("100"),
		GivenDate:    "2024-03-05",
		DueDate:      "2024-03-01",
		PaymentWeeks: 1,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "due_date")

	from := "2024-03-01"
	list, err := svc.ListAdvances(ctx, deduction.ListAdvancesRequest{DriverID: &d.ID, From: &from})
	require.NoError(t, err)
	require.Len(t, list, 1)

	amount := validator.Amount("250")
	updated, err := svc.UpdateAdvance(ctx, deduction.UpdateAdvanceRequest{ID: adv.ID, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "250", updated.Amount.String())

	require.NoError(t, svc.DeleteAdvance(ctx, adv.ID))
	_, err = svc.GetAdvance(ctx, adv.ID)
	assert.ErrorIs(t, err, deduction.ErrAdvanceNotFound)
}
