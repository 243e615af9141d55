package equipment

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

type Service struct {
	repo repository.EquipmentRepository
}

func NewService(repo repository.EquipmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateEquipment(ctx context.Context, req *model.CreateEquipmentRequest) (*model.EquipmentResource, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}

	eq := &model.EquipmentResource{Name: name}
	if err := s.repo.Create(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (s *Service) GetEquipment(ctx context.Context, id int64) (*model.EquipmentResource, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListEquipment(ctx context.Context) ([]*model.EquipmentResource, error) {
	return s.repo.List(ctx)
}

// DeactivateEquipment retires a piece of equipment from new bookings.
// Existing bindings are left in place.
func (s *Service) DeactivateEquipment(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) ListBindings(ctx context.Context, equipmentID int64) ([]*model.ResourceBinding, error) {
	if _, err := s.repo.Get(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.repo.ListBindings(ctx, equipmentID)
}
