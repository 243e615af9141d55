package catalog

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

// Service manages the clinic's service catalog.
type Service struct {
	repo repository.ServiceRepository
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if req.DurationMinutes <= 0 {
		return nil, apperrors.Validation("duration must be positive")
	}
	if req.BasePrice <= 0 {
		return nil, apperrors.Validation("price must be positive")
	}

	svc := &model.Service{
		Name:            name,
		DurationMinutes: req.DurationMinutes,
		BasePrice:       req.BasePrice,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*model.Service, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateService(ctx context.Context, id int64, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		svc.Name = name
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, apperrors.Validation("duration must be positive")
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.BasePrice != nil {
		if *req.BasePrice <= 0 {
			return nil, apperrors.Validation("price must be positive")
		}
		svc.BasePrice = *req.BasePrice
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
