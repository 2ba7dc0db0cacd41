package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/user"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func createTestDriver(t *testing.T, ctx context.Context, store *sqlite.Store, name, unit string) driver.Driver {
	t.Helper()
	d, err := sqlite.NewDriverRepository(store).Create(ctx, driver.Driver{
		Name:          name,
		TruckUnit:     unit,
		DriverPercent: decimal.NewFromInt(75),
		DriverType:    driver.DriverTypeCompanyDriver,
		Status:        driver.StatusActive,
	})
	require.NoError(t, err)
	return d
}

func TestDriverRepository_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewDriverRepository(store)
	dob := date("1980-06-15")

	created, err := repo.Create(ctx, driver.Driver{
		Name:          "John Smith",
		TruckUnit:     "T-101",
		DriverPercent: decimal.RequireFromString("72.5"),
		DOB:           &dob,
		DriverType:    driver.DriverTypeOwnerOperator,
		Status:        driver.StatusActive,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", got.Name)
	assert.True(t, decimal.RequireFromString("72.5").Equal(got.DriverPercent))
	require.NotNil(t, got.DOB)
	assert.True(t, dob.Equal(*got.DOB))
	assert.Nil(t, got.CDLExpiry)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, uuid.Must(uuid.NewV7()).String())
	assert.ErrorIs(t, err, driver.ErrDriverNotFound)
}

func TestDriverRepository_Create_DuplicateActiveName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	createTestDriver(t, ctx, store, "John Smith", "T-101")

	_, err := sqlite.NewDriverRepository(store).Create(ctx, driver.Driver{
		Name:          "  john smith ",
		TruckUnit:     "T-999",
		DriverPercent: decimal.NewFromInt(70),
		DriverType:    driver.DriverTypeCompanyDriver,
		Status:        driver.StatusActive,
	})
	assert.ErrorIs(t, err, driver.ErrDriverNameExists)

	_, err = sqlite.NewDriverRepository(store).Create(ctx, driver.Driver{
		Name:          "John Smith",
		TruckUnit:     "T-999",
		DriverPercent: decimal.NewFromInt(70),
		DriverType:    driver.DriverTypeCompanyDriver,
		Status:        driver.StatusTerminated,
	})
	assert.NoError(t, err)
}

func TestDriverRepository_IsReferenced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewDriverRepository(store)
	d := createTestDriver(t, ctx, store, "John Smith", "T-101")

	referenced, err := repo.IsReferenced(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	_, err = sqlite.NewAdvanceRepository(store).Create(ctx, deduction.CashAdvance{
		DriverID:       d.ID,
		Amount:         decimal.NewFromInt(300),
		GivenDate:      date("2024-03-01"),
		DueDate:        date("2024-03-22"),
		PaymentWeeks:   3,
		WeeksRemaining: 3,
		Active:         true,
	})
	require.NoError(t, err)

	referenced, err = repo.IsReferenced(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, referenced)
}

func TestLoadRepository_DateRangeAndOrphaned(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewLoadRepository(store)
	d := createTestDriver(t, ctx, store, "John Smith", "T-101")
	ghost := uuid.Must(uuid.NewV7()).String()
	inside := date("2024-03-10")
	outside := date("2024-03-11")

	_, err := repo.Create(ctx, load.Load{LoadNumber: "L-1", Customer: "Acme", DriverID: &d.ID, Status: load.StatusDelivered, GrossAmount: decimal.NewFromInt(1000), DeliveryDate: &inside})
	require.NoError(t, err)
	_, err = repo.Create(ctx, load.Load{LoadNumber: "L-2", Customer: "Acme", DriverID: &d.ID, Status: load.StatusDelivered, GrossAmount: decimal.NewFromInt(400), DeliveryDate: &outside})
	require.NoError(t, err)
	orphan, err := repo.Create(ctx, load.Load{LoadNumber: "L-3", Customer: "Acme", DriverID: &ghost, Status: load.StatusDelivered, GrossAmount: decimal.NewFromInt(500), DeliveryDate: &inside})
	require.NoError(t, err)
	_, err = repo.Create(ctx, load.Load{LoadNumber: "L-4", Customer: "Acme", Status: load.StatusBooked, GrossAmount: decimal.NewFromInt(250), DeliveryDate: &inside})
	require.NoError(t, err)

	own, err := repo.GetByDriverAndDateRange(ctx, d.ID, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "L-1", own[0].LoadNumber)

	orphaned, err := repo.GetOrphaned(ctx, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, orphaned, 1)
	assert.Equal(t, orphan.ID, orphaned[0].ID)

	unassigned, err := repo.GetUnassigned(ctx, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "L-4", unassigned[0].LoadNumber)
}

func TestLoadRepository_ExistsByLoadNumber(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewLoadRepository(store)

	created, err := repo.Create(ctx, load.Load{LoadNumber: "L-1", Customer: "Acme", Status: load.StatusBooked, GrossAmount: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	exists, err := repo.ExistsByLoadNumber(ctx, "L-1", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByLoadNumber(ctx, "L-1", created.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadRepository_Create_LoadNumberIgnoresCase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewLoadRepository(store)

	_, err := repo.Create(ctx, load.Load{LoadNumber: "ABC-1", Customer: "Acme", Status: load.StatusBooked, GrossAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	exists, err := repo.ExistsByLoadNumber(ctx, " abc-1 ", "")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Create(ctx, load.Load{LoadNumber: "abc-1", Customer: "Other", Status: load.StatusBooked, GrossAmount: decimal.NewFromInt(200)})
	assert.ErrorIs(t, err, load.ErrLoadNumberExists)
}

func TestFuelRepository_ExistsAndGetForDriver(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewFuelRepository(store)
	d := createTestDriver(t, ctx, store, "John Smith", "T-101")

	_, err := repo.Create(ctx, fuel.FuelTransaction{
		TranDate:     date("2024-03-05"),
		Invoice:      "INV-1",
		Unit:         "t-101",
		DriverName:   "JOHN SMITH",
		LocationName: "Pilot #12",
		Amount:       decimal.RequireFromString("200.004"),
		Currency:     "USD",
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, fuel.FuelTransaction{
		TranDate:     date("2024-03-06"),
		Invoice:      "INV-2",
		Unit:         "T-202",
		DriverName:   "Someone Else",
		LocationName: "Loves",
		Amount:       decimal.NewFromInt(80),
		Currency:     "USD",
	})
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, fuel.FuelTransaction{
		TranDate:     date("2024-03-05"),
		Invoice:      " inv-1 ",
		LocationName: "PILOT #12",
		Amount:       decimal.RequireFromString("200.00"),
	})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, fuel.FuelTransaction{
		TranDate:     date("2024-03-05"),
		Invoice:      "INV-1",
		LocationName: "Pilot #12",
		Amount:       decimal.RequireFromString("200.01"),
	})
	require.NoError(t, err)
	assert.False(t, exists)

	txs, err := repo.GetForDriver(ctx, d.ID, d.Name, d.TruckUnit, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	unlinked, err := repo.GetUnlinked(ctx, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	assert.Len(t, unlinked, 2)

	require.NoError(t, repo.SetDriver(ctx, txs[0].ID, &d.ID))
	unlinked, err = repo.GetUnlinked(ctx, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	assert.Len(t, unlinked, 1)
}

func TestFuelRepository_FoldsNonASCIICase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewFuelRepository(store)
	d := createTestDriver(t, ctx, store, "José Núñez", "T-1")

	_, err := repo.Create(ctx, fuel.FuelTransaction{
		TranDate:     date("2024-03-05"),
		Invoice:      "FACTURA-Ñ1",
		Unit:         "t-1",
		DriverName:   "JOSÉ NÚÑEZ",
		LocationName: "Estación Río",
		Amount:       decimal.NewFromInt(123),
		Currency:     "USD",
	})
	require.NoError(t, err)

	txs, err := repo.GetForDriver(ctx, d.ID, d.Name, d.TruckUnit, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	exists, err := repo.Exists(ctx, fuel.FuelTransaction{
		TranDate:     date("2024-03-05"),
		Invoice:      "factura-ñ1",
		LocationName: "ESTACIÓN RÍO",
		Amount:       decimal.NewFromInt(123),
	})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFeeRepository_Create_ConflictReturnsDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewFeeRepository(store)
	fee := deduction.RecurringFee{
		DriverID:       uuid.Must(uuid.NewV7()).String(),
		FeeType:        deduction.FeeTypeELD,
		Amount:         decimal.NewFromInt(50),
		StartDate:      date("2024-03-01"),
		TotalWeeks:     1,
		WeeksRemaining: 1,
		Active:         true,
		FeeMonth:       3,
		FeeYear:        2024,
	}

	created, err := repo.Create(ctx, fee)
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, deduction.FeeTypeELD, created.FeeType)

	_, err = repo.Create(ctx, fee)
	assert.ErrorIs(t, err, deduction.ErrDuplicateFee)

	exists, err := repo.Exists(ctx, fee.DriverID, deduction.FeeTypeELD, 3, 2024)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFeeRepository_Decrement_CompareAndSwap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewFeeRepository(store)
	created, err := repo.Create(ctx, deduction.RecurringFee{
		DriverID:       uuid.Must(uuid.NewV7()).String(),
		FeeType:        deduction.FeeTypeTVC,
		Amount:         decimal.NewFromInt(25),
		StartDate:      date("2024-03-01"),
		TotalWeeks:     2,
		WeeksRemaining: 2,
		Active:         true,
		FeeMonth:       3,
		FeeYear:        2024,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Decrement(ctx, created.ID, 2))
	assert.ErrorIs(t, repo.Decrement(ctx, created.ID, 2), deduction.ErrConcurrentModification)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WeeksRemaining)
	assert.True(t, got.Active)

	require.NoError(t, repo.Decrement(ctx, created.ID, 1))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.WeeksRemaining)
	assert.False(t, got.Active)
	assert.ErrorIs(t, repo.Decrement(ctx, created.ID, 0), deduction.ErrConcurrentModification)
}

func TestAdvanceRepository_SearchAndDecrement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewAdvanceRepository(store)
	driverID := uuid.Must(uuid.NewV7()).String()

	created, err := repo.Create(ctx, deduction.CashAdvance{
		DriverID:       driverID,
		Amount:         decimal.NewFromInt(100),
		GivenDate:      date("2024-03-05"),
		DueDate:        date("2024-03-12"),
		PaymentWeeks:   1,
		WeeksRemaining: 1,
		Active:         true,
	})
	require.NoError(t, err)

	from := date("2024-03-01")
	found, err := repo.Search(ctx, deduction.AdvanceFilter{DriverID: &driverID, From: &from})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, date("2024-03-05").Equal(found[0].GivenDate))

	require.NoError(t, repo.Decrement(ctx, created.ID, 1))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, 0, got.WeeksRemaining)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), deduction.ErrAdvanceNotFound)
}

func TestInstallmentRepository_Record_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewInstallmentRepository(store)
	inst := deduction.Installment{
		ID:          uuid.Must(uuid.NewV7()).String(),
		RecordKind:  deduction.RecordKindAdvance,
		RecordID:    uuid.Must(uuid.NewV7()).String(),
		DriverID:    uuid.Must(uuid.NewV7()).String(),
		PeriodStart: date("2024-03-04"),
		PeriodEnd:   date("2024-03-10"),
		Amount:      decimal.NewFromInt(100),
	}

	require.NoError(t, repo.Record(ctx, inst))
	inst.ID = uuid.Must(uuid.NewV7()).String()
	assert.ErrorIs(t, repo.Record(ctx, inst), deduction.ErrInstallmentExists)

	list, err := repo.ListForPeriod(ctx, date("2024-03-04"), date("2024-03-10"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, deduction.RecordKindAdvance, list[0].RecordKind)

	list, err = repo.ListForPeriod(ctx, date("2024-03-11"), date("2024-03-17"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_WithinTx_RollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(txCtx context.Context) error {
		createTestDriver(t, txCtx, store, "Rolled Back", "T-0")
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	drivers, err := sqlite.NewDriverRepository(store).List(ctx, driver.DriverFilter{})
	require.NoError(t, err)
	assert.Empty(t, drivers)
}

func TestStore_WithinTx_Nested(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(outer context.Context) error {
		return store.WithinSnapshotTx(outer, func(inner context.Context) error {
			createTestDriver(t, inner, store, "Nested", "T-1")
			return nil
		})
	})
	require.NoError(t, err)

	drivers, err := sqlite.NewDriverRepository(store).List(ctx, driver.DriverFilter{})
	require.NoError(t, err)
	assert.Len(t, drivers, 1)
}

func TestUserRepository_CreateAndGetByEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepository(store)

	created, err := repo.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: "hash", Role: user.RoleAdmin})
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.IsAdmin())

	_, err = repo.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: "hash", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
