package load

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
)

type LoadServiceImpl struct {
	tx       database.Transactor
	loadRepo load.LoadRepository
}

func NewLoadService(tx database.Transactor, loadRepo load.LoadRepository) load.LoadService {
	return &LoadServiceImpl{tx: tx, loadRepo: loadRepo}
}

// Create implements load.LoadService.
func (s *LoadServiceImpl) Create(ctx context.Context, req load.CreateLoadRequest) (load.LoadResponse, error) {
	if err := req.Validate(); err != nil {
		return load.LoadResponse{}, err
	}
	l := req.ToEntity()
	l.LoadNumber = strings.TrimSpace(l.LoadNumber)

	var created load.Load
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		exists, err := s.loadRepo.ExistsByLoadNumber(txCtx, l.LoadNumber, "")
		if err != nil {
			return err
		}
		if exists {
			return load.ErrLoadNumberExists
		}
		created, err = s.loadRepo.Create(txCtx, l)
		return err
	})
	if err != nil {
		return load.LoadResponse{}, err
	}
	return load.NewLoadResponse(created), nil
}

// GetByID implements load.LoadService.
func (s *LoadServiceImpl) GetByID(ctx context.Context, id string) (load.LoadResponse, error) {
	l, err := s.loadRepo.GetByID(ctx, id)
	if err != nil {
		return load.LoadResponse{}, err
	}
	return load.NewLoadResponse(l), nil
}

// List implements load.LoadService.
func (s *LoadServiceImpl) List(ctx context.Context, req load.ListLoadsRequest) ([]load.LoadResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loads, err := s.loadRepo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	return load.NewLoadResponses(loads), nil
}

// Update implements load.LoadService.
func (s *LoadServiceImpl) Update(ctx context.Context, req load.UpdateLoadRequest) (load.LoadResponse, error) {
	if err := req.Validate(); err != nil {
		return load.LoadResponse{}, err
	}

	var updated load.Load
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		l, err := s.loadRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		req.Apply(&l)
		l.LoadNumber = strings.TrimSpace(l.LoadNumber)

		exists, err := s.loadRepo.ExistsByLoadNumber(txCtx, l.LoadNumber, l.ID)
		if err != nil {
			return err
		}
		if exists {
			return load.ErrLoadNumberExists
		}
		updated, err = s.loadRepo.Update(txCtx, l)
		return err
	})
	if err != nil {
		return load.LoadResponse{}, err
	}
	return load.NewLoadResponse(updated), nil
}

// UpdateStatus implements load.LoadService.
func (s *LoadServiceImpl) UpdateStatus(ctx context.Context, req load.UpdateLoadStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.loadRepo.UpdateStatus(ctx, req.ID, load.Status(req.Status))
}

// Delete implements load.LoadService.
func (s *LoadServiceImpl) Delete(ctx context.Context, id string) error {
	return s.loadRepo.Delete(ctx, id)
}
