package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

type fakeRepo struct {
	nextID   int64
	services map[int64]*model.Service
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{services: make(map[int64]*model.Service)}
}

func (r *fakeRepo) Create(_ context.Context, s *model.Service) error {
	r.nextID++
	s.ID = r.nextID
	r.services[s.ID] = s
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*model.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", id)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, s *model.Service) error {
	r.services[s.ID] = s
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(r.services, id)
	return nil
}

func (r *fakeRepo) List(context.Context) ([]*model.Service, error) { return nil, nil }

func TestCreateService(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		Name:            "  Hot Stone Massage ",
		DurationMinutes: 90,
		BasePrice:       150,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hot Stone Massage", created.Name)
	assert.NotZero(t, created.ID)
}

func TestCreateServiceValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	tests := []struct {
		name string
		req  model.CreateServiceRequest
	}{
		{"blank name", model.CreateServiceRequest{Name: "  ", DurationMinutes: 60, BasePrice: 100}},
		{"zero duration", model.CreateServiceRequest{Name: "Facial", DurationMinutes: 0, BasePrice: 100}},
		{"negative price", model.CreateServiceRequest{Name: "Facial", DurationMinutes: 60, BasePrice: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateService(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		})
	}
}

func TestUpdateServiceNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.UpdateService(context.Background(), 42, &model.UpdateServiceRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
