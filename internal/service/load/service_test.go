package load

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoadService(t *testing.T) load.LoadService {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewLoadService(store, sqlite.NewLoadRepository(store))
}

func strPtr(s string) *string { return &s }

func TestLoadService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestLoadService(t)

	created, err := svc.Create(ctx, load.CreateLoadRequest{
		LoadNumber:   " L-100 ",
		Customer:     "Acme Freight",
		GrossAmount:  validator.Amount("2500.50"),
		DeliveryDate: strPtr("2024-03-06"),
	})
	require.NoError(t, err)
	assert.Equal(t, "L-100", created.LoadNumber)
	assert.Equal(t, "BOOKED", created.Status)
	require.NotNil(t, created.DeliveryDate)
	assert.Equal(t, "2024-03-06", *created.DeliveryDate)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2500.5", got.GrossAmount.String())
}

func TestLoadService_Create_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	svc := newTestLoadService(t)
	_, err := svc.Create(ctx, load.CreateLoadRequest{LoadNumber: "L-100", Customer: "Acme", GrossAmount: validator.Amount("100")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, load.CreateLoadRequest{LoadNumber: "L-100", Customer: "Other", GrossAmount: validator.Amount("200")})
	assert.ErrorIs(t, err, load.ErrLoadNumberExists)
}

func TestLoadService_Create_DuplicateNumberIgnoresCase(t *testing.T) {
	ctx := context.Background()
	svc := newTestLoadService(t)
	_, err := svc.Create(ctx, load.CreateLoadRequest{LoadNumber: "ABC-1", Customer: "Acme", GrossAmount: validator.Amount("100")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, load.CreateLoadRequest{LoadNumber: "abc-1", Customer: "Other", GrossAmount: validator.Amount("200")})
	assert.ErrorIs(t, err, load.ErrLoadNumberExists)
}

func TestLoadService_Create_RejectsMalformedAmount(t *testing.T) {
	svc := newTestLoadService(t)

	_, err := svc.Create(context.Background(), load.CreateLoadRequest{LoadNumber: "L-1", Customer: "Acme", GrossAmount: validator.Amount("1,000")})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "gross_amount")
}

func TestLoadService_UpdateAndStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestLoadService(t)
	a, err := svc.Create(ctx, load.CreateLoadRequest{LoadNumber: "L-1", Customer: "Acme", GrossAmount: validator.Amount("100")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, load.CreateLoadRequest{LoadNumber: "L-2", Customer: "Acme", GrossAmount: validator.Amount("100")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, load.UpdateLoadRequest{ID: a.ID, LoadNumber: strPtr("L-2")})
	assert.ErrorIs(t, err, load.ErrLoadNumberExists)

	amount := validator.Amount("150")
	updated, err := svc.Update(ctx, load.UpdateLoadRequest{ID: a.ID, GrossAmount: &amount, DeliveryDate: strPtr("2024-03-08")})
	require.NoError(t, err)
	assert.Equal(t, "150", updated.GrossAmount.String())

	require.NoError(t, svc.UpdateStatus(ctx, load.UpdateLoadStatusRequest{ID: a.ID, Status: "DELIVERED"}))
	delivered := "DELIVERED"
	list, err := svc.List(ctx, load.ListLoadsRequest{Status: &delivered})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestLoadService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestLoadService(t)
	created, err := svc.Create(ctx, load.CreateLoadRequest{LoadNumber: "L-1", Customer: "Acme", GrossAmount: validator.Amount("100")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, load.ErrLoadNotFound)
}
