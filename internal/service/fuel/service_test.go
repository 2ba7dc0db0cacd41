package fuel

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fuelFixture struct {
	svc        fuel.FuelService
	driverRepo driver.DriverRepository
}

func newFuelFixture(t *testing.T) fuelFixture {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	driverRepo := sqlite.NewDriverRepository(store)
	return fuelFixture{
		svc:        NewFuelService(store, sqlite.NewFuelRepository(store), driverRepo),
		driverRepo: driverRepo,
	}
}

func (f fuelFixture) driver(t *testing.T, name, unit string) driver.Driver {
	t.Helper()
	d, err := f.driverRepo.Create(context.Background(), driver.Driver{
		Name:          name,
		TruckUnit:     unit,
		DriverPercent: decimal.NewFromInt(75),
		DriverType:    driver.DriverTypeCompanyDriver,
		Status:        driver.StatusActive,
	})
	require.NoError(t, err)
	return d
}

func row(invoice, date, name, unit, amount string) fuel.CreateFuelTransactionRequest {
	return fuel.CreateFuelTransactionRequest{
		TranDate:     date,
		Invoice:      invoice,
		DriverName:   name,
		Unit:         unit,
		LocationName: "Pilot #12",
		Amount:       validator.Amount(amount),
	}
}

func TestFuelService_Import(t *testing.T) {
	ctx := context.Background()
	f := newFuelFixture(t)
	john := f.driver(t, "John Smith", "T-101")

	resp, err := f.svc.Import(ctx, fuel.ImportFuelRequest{Transactions: []fuel.CreateFuelTransactionRequest{
		row("INV-1", "2024-03-05", "JOHN SMITH", "t-101", "200.00"),
		row("INV-2", "2024-03-06", "Unknown Driver", "T-999", "80.00"),
		row("inv-1", "2024-03-05", "John Smith", "T-101", "200.004"),
	}})

	require.NoError(t, err)
	assert.Equal(t, fuel.ImportFuelResponse{Imported: 2, Duplicates: 1, Linked: 1, Unassigned: 1}, resp)

	linked, err := f.svc.List(ctx, fuel.ListFuelRequest{DriverID: &john.ID})
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "USD", linked[0].Currency)

	unassigned, err := f.svc.List(ctx, fuel.ListFuelRequest{UnassignedOnly: true})
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "INV-2", unassigned[0].Invoice)
}

func TestFuelService_Import_MatchesActiveDriversOnly(t *testing.T) {
	ctx := context.Background()
	f := newFuelFixture(t)
	f.driver(t, "John Smith", "T-101")
	other := f.driver(t, "Jane Doe", "T-101")
	_, err := f.driverRepo.Update(ctx, driver.Driver{
		ID:            other.ID,
		Name:          "john smith ",
		TruckUnit:     "T-101",
		DriverPercent: other.DriverPercent,
		DriverType:    other.DriverType,
		Status:        driver.StatusOnLeave,
	})
	require.NoError(t, err)

	resp, err := f.svc.Import(ctx, fuel.ImportFuelRequest{Transactions: []fuel.CreateFuelTransactionRequest{
		row("INV-1", "2024-03-05", "John Smith", "T-101", "50"),
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Linked)
	assert.Equal(t, 0, resp.Unassigned)
}

func TestFuelService_Create_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFuelFixture(t)

	_, err := f.svc.Create(ctx, row("INV-1", "2024-03-05", "Someone", "T-1", "99.99"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, row(" INV-1", "2024-03-05", "Someone", "T-1", "99.990"))
	assert.ErrorIs(t, err, fuel.ErrDuplicateFuelTransaction)
}

func TestFuelService_AssignDriver(t *testing.T) {
	ctx := context.Background()
	f := newFuelFixture(t)
	john := f.driver(t, "John Smith", "T-101")
	created, err := f.svc.Create(ctx, row("INV-1", "2024-03-05", "J. Smith", "T-101", "120"))
	require.NoError(t, err)
	require.Nil(t, created.DriverID)

	assigned, err := f.svc.AssignDriver(ctx, fuel.AssignDriverRequest{ID: created.ID, DriverID: &john.ID})
	require.NoError(t, err)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, john.ID, *assigned.DriverID)

	cleared, err := f.svc.AssignDriver(ctx, fuel.AssignDriverRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Nil(t, cleared.DriverID)

	missing := "0190a6f0-0000-7000-8000-000000000000"
	_, err = f.svc.AssignDriver(ctx, fuel.AssignDriverRequest{ID: created.ID, DriverID: &missing})
	assert.ErrorIs(t, err, driver.ErrDriverNotFound)
}
