package equipment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

type fakeRepo struct {
	nextID    int64
	equipment map[int64]*model.EquipmentResource
	bindings  map[int64][]*model.ResourceBinding
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		equipment: make(map[int64]*model.EquipmentResource),
		bindings:  make(map[int64][]*model.ResourceBinding),
	}
}

func (r *fakeRepo) Create(_ context.Context, eq *model.EquipmentResource) error {
	for _, existing := range r.equipment {
		if existing.Name == eq.Name {
			return apperrors.Conflict("equipment named %q already exists", eq.Name)
		}
	}
	r.nextID++
	eq.ID = r.nextID
	eq.Active = true
	r.equipment[eq.ID] = eq
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*model.EquipmentResource, error) {
	eq, ok := r.equipment[id]
	if !ok {
		return nil, apperrors.NotFound("equipment", id)
	}
	cp := *eq
	return &cp, nil
}

func (r *fakeRepo) List(context.Context) ([]*model.EquipmentResource, error) { return nil, nil }

func (r *fakeRepo) Deactivate(_ context.Context, id int64) error {
	eq, ok := r.equipment[id]
	if !ok {
		return apperrors.NotFound("equipment", id)
	}
	eq.Active = false
	return nil
}

func (r *fakeRepo) ListBindings(_ context.Context, equipmentID int64) ([]*model.ResourceBinding, error) {
	return r.bindings[equipmentID], nil
}

func TestCreateEquipment(t *testing.T) {
	svc := NewService(newFakeRepo())

	eq, err := svc.CreateEquipment(context.Background(), &model.CreateEquipmentRequest{
		Name: "  Laser Unit A ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Laser Unit A", eq.Name)
	assert.True(t, eq.Active)
	assert.NotZero(t, eq.ID)
}

func TestCreateEquipmentValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateEquipment(context.Background(), &model.CreateEquipmentRequest{Name: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateEquipmentDuplicateName(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateEquipment(context.Background(), &model.CreateEquipmentRequest{Name: "Steamer"})
	require.NoError(t, err)

	_, err = svc.CreateEquipment(context.Background(), &model.CreateEquipmentRequest{Name: "Steamer"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestDeactivateEquipment(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	eq, err := svc.CreateEquipment(context.Background(), &model.CreateEquipmentRequest{Name: "Steamer"})
	require.NoError(t, err)

	// Existing bindings survive deactivation; only new bookings are blocked.
	repo.bindings[eq.ID] = []*model.ResourceBinding{
		{ID: 1, AppointmentID: 1, EquipmentID: eq.ID, StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)},
	}

	require.NoError(t, svc.DeactivateEquipment(context.Background(), eq.ID))
	assert.False(t, repo.equipment[eq.ID].Active)

	bindings, err := svc.ListBindings(context.Background(), eq.ID)
	require.NoError(t, err)
	assert.Len(t, bindings, 1)

	err = svc.DeactivateEquipment(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListBindingsUnknownEquipment(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.ListBindings(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
