package load

import "context"

type LoadService interface {
	Create(ctx context.Context, req CreateLoadRequest) (LoadResponse, error)
	GetByID(ctx context.Context, id string) (LoadResponse, error)
	List(ctx context.Context, req ListLoadsRequest) ([]LoadResponse, error)
	Update(ctx context.Context, req UpdateLoadRequest) (LoadResponse, error)
	UpdateStatus(ctx context.Context, req UpdateLoadStatusRequest) error
	Delete(ctx context.Context, id string) error
}
