package deduction

import "context"

type DeductionService interface {
	// Fees
	CreateFee(ctx context.Context, req CreateFeeRequest) (FeeResponse, error)
	GetFee(ctx context.Context, id string) (FeeResponse, error)
	ListFees(ctx context.Context, req ListFeesRequest) ([]FeeResponse, error)
	UpdateFee(ctx context.Context, req UpdateFeeRequest) (FeeResponse, error)
	DeleteFee(ctx context.Context, id string) error

	// Cash advances
	CreateAdvance(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetAdvance(ctx context.Context, id string) (AdvanceResponse, error)
	ListAdvances(ctx context.Context, req ListAdvancesRequest) ([]AdvanceResponse, error)
	UpdateAdvance(ctx context.Context, req UpdateAdvanceRequest) (AdvanceResponse, error)
	DeleteAdvance(ctx context.Context, id string) error
}
