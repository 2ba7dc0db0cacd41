package fuel

import "context"

type FuelService interface {
	Create(ctx context.Context, req CreateFuelTransactionRequest) (FuelTransactionResponse, error)
	Import(ctx context.Context, req ImportFuelRequest) (ImportFuelResponse, error)
	List(ctx context.Context, req ListFuelRequest) ([]FuelTransactionResponse, error)
	AssignDriver(ctx context.Context, req AssignDriverRequest) (FuelTransactionResponse, error)
	Delete(ctx context.Context, id string) error
}
