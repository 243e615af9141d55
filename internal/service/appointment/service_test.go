package appointment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/scheduling"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	nextID       int64
	appointments map[int64]*model.Appointment
	bindings     map[int64][]*model.ResourceBinding
	events       []*model.OutboxEvent
	afterGet     func()
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[int64]*model.Appointment),
		bindings:     make(map[int64][]*model.ResourceBinding),
	}
}

func (r *fakeAppointmentRepo) CreateWithBindings(_ context.Context, apt *model.Appointment, bindings []*model.ResourceBinding, event *model.OutboxEvent) error {
	for _, b := range bindings {
		proposed := scheduling.Interval{Start: b.StartTime, End: b.EndTime}
		var existing []scheduling.Interval
		for _, e := range r.bindings[b.EquipmentID] {
			existing = append(existing, scheduling.Interval{Start: e.StartTime, End: e.EndTime})
		}
		if c := scheduling.FindConflict(b.EquipmentID, proposed, existing); c != nil {
			return apperrors.Conflict("equipment %d is already reserved", b.EquipmentID)
		}
	}

	r.nextID++
	apt.ID = r.nextID
	apt.Status = model.AppointmentStatusScheduled
	r.appointments[apt.ID] = apt
	for _, b := range bindings {
		b.AppointmentID = apt.ID
		r.bindings[b.EquipmentID] = append(r.bindings[b.EquipmentID], b)
	}
	if event != nil {
		payload, err := json.Marshal(apt)
		if err != nil {
			return err
		}
		event.Payload = payload
		r.events = append(r.events, event)
	}
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id int64) (*model.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", id)
	}
	cp := *apt
	if r.afterGet != nil {
		r.afterGet()
	}
	return &cp, nil
}

func (r *fakeAppointmentRepo) ListWithDetails(_ context.Context, _ *model.AppointmentFilters) ([]*model.AppointmentDetails, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, from, to model.AppointmentStatus, event *model.OutboxEvent) error {
	apt, ok := r.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", id)
	}
	if apt.Status != from {
		return apperrors.InvalidTransition(string(apt.Status), string(to))
	}
	apt.Status = to
	if event != nil {
		r.events = append(r.events, event)
	}
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id int64, event *model.OutboxEvent) error {
	if _, ok := r.appointments[id]; !ok {
		return apperrors.NotFound("appointment", id)
	}
	delete(r.appointments, id)
	for equipmentID, bs := range r.bindings {
		kept := bs[:0]
		for _, b := range bs {
			if b.AppointmentID != id {
				kept = append(kept, b)
			}
		}
		r.bindings[equipmentID] = kept
	}
	if event != nil {
		r.events = append(r.events, event)
	}
	return nil
}

func (r *fakeAppointmentRepo) CountScheduledBetween(context.Context, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (r *fakeAppointmentRepo) SumScheduledRevenueBetween(context.Context, time.Time, time.Time) (float64, error) {
	return 0, nil
}

func (r *fakeAppointmentRepo) NextScheduled(context.Context, time.Time) (*model.AppointmentDetails, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) bindingCount() int {
	n := 0
	for _, bs := range r.bindings {
		n += len(bs)
	}
	return n
}

type fakePatientRepo struct {
	patients map[int64]*model.Patient
}

func (r *fakePatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(_ context.Context, id int64) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", id)
	}
	return p, nil
}
func (r *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (r *fakePatientRepo) Delete(context.Context, int64) error          { return nil }
func (r *fakePatientRepo) List(context.Context) ([]*model.Patient, error) {
	return nil, nil
}

type fakeServiceRepo struct {
	services map[int64]*model.Service
}

func (r *fakeServiceRepo) Create(context.Context, *model.Service) error { return nil }
func (r *fakeServiceRepo) Get(_ context.Context, id int64) (*model.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", id)
	}
	return s, nil
}
func (r *fakeServiceRepo) Update(context.Context, *model.Service) error { return nil }
func (r *fakeServiceRepo) Delete(context.Context, int64) error          { return nil }
func (r *fakeServiceRepo) List(context.Context) ([]*model.Service, error) {
	return nil, nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func newTestService() (*Service, *fakeAppointmentRepo, *recordingMailer) {
	email := "alice@example.com"
	repo := newFakeAppointmentRepo()
	mailer := &recordingMailer{}
	svc := NewService(
		repo,
		&fakePatientRepo{patients: map[int64]*model.Patient{
			1: {ID: 1, FirstName: "Alice", LastName: "Smith", Phone: "+14155550100", Email: &email},
		}},
		&fakeServiceRepo{services: map[int64]*model.Service{
			1: {ID: 1, Name: "Deep Tissue Massage", DurationMinutes: 60, BasePrice: 120},
		}},
		mailer,
	)
	return svc, repo, mailer
}

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestCreateAppointment(t *testing.T) {
	svc, repo, mailer := newTestService()

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1,
		ServiceID: 1,
		StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(10, 0), EndTime: at(11, 0)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.NotZero(t, apt.ID)
	assert.Equal(t, 1, repo.bindingCount())
	require.Len(t, repo.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, repo.events[0].EventType)
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
}

func TestCreateAppointmentEventPayload(t *testing.T) {
	svc, repo, _ := newTestService()

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
	})
	require.NoError(t, err)
	require.Len(t, repo.events, 1)

	// The persisted event must describe the stored row, not the pre-insert
	// request.
	var got model.Appointment
	require.NoError(t, json.Unmarshal(repo.events[0].Payload, &got))
	assert.Equal(t, apt.ID, got.ID)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)
}

func TestCreateAppointmentTouchingIntervals(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(10, 0), EndTime: at(11, 0)},
		},
	})
	require.NoError(t, err)

	// A booking starting exactly where the previous one ends is allowed.
	_, err = svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(11, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(11, 0), EndTime: at(12, 0)},
		},
	})
	assert.NoError(t, err)
}

func TestCreateAppointmentConflictRejectsWholeBooking(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(10, 0), EndTime: at(11, 0)},
		},
	})
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 30),
		Bindings: []model.BindingRequest{
			{EquipmentID: 9, StartTime: at(10, 30), EndTime: at(11, 30)},
			{EquipmentID: 7, StartTime: at(10, 30), EndTime: at(11, 30)},
		},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Len(t, repo.appointments, 1)
	assert.Equal(t, 1, repo.bindingCount())
}

func TestCreateAppointmentIntraRequestOverlap(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(10, 0), EndTime: at(11, 0)},
			{EquipmentID: 7, StartTime: at(10, 30), EndTime: at(11, 30)},
		},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Empty(t, repo.appointments)
}

func TestCreateAppointmentInvalidInterval(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(11, 0), EndTime: at(11, 0)},
		},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateAppointmentUnknownReferences(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 42, ServiceID: 1, StartTime: at(10, 0),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindReferenceNotFound))

	_, err = svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 42, StartTime: at(10, 0),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindReferenceNotFound))
}

func TestSetStatusLifecycle(t *testing.T) {
	svc, repo, _ := newTestService()

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
	})
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

	// Terminal states reject every transition, including a repeat.
	_, err = svc.SetStatus(context.Background(), apt.ID, model.AppointmentStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	_, err = svc.SetStatus(context.Background(), apt.ID, model.AppointmentStatusCanceled)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	require.Len(t, repo.events, 2)
	assert.Equal(t, model.EventAppointmentStatusChanged, repo.events[1].EventType)
}

func TestSetStatusCancelKeepsBindings(t *testing.T) {
	svc, repo, _ := newTestService()

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(10, 0), EndTime: at(11, 0)},
		},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), apt.ID, model.AppointmentStatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.bindingCount())
}

func TestSetStatusLostUpdate(t *testing.T) {
	svc, repo, _ := newTestService()

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
	})
	require.NoError(t, err)

	// Another writer completes the appointment between this caller's read
	// and its update. The stale transition must not overwrite the terminal
	// status.
	repo.afterGet = func() {
		repo.appointments[apt.ID].Status = model.AppointmentStatusCompleted
		repo.afterGet = nil
	}

	_, err = svc.SetStatus(context.Background(), apt.ID, model.AppointmentStatusCanceled)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
	assert.Equal(t, model.AppointmentStatusCompleted, repo.appointments[apt.ID].Status)
}

func TestSetStatusValidation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SetStatus(context.Background(), 1, "rescheduled")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.SetStatus(context.Background(), 99, model.AppointmentStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDeleteAppointmentReleasesBindings(t *testing.T) {
	svc, repo, _ := newTestService()

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(10, 0), EndTime: at(11, 0)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAppointment(context.Background(), apt.ID))
	assert.Empty(t, repo.appointments)
	assert.Equal(t, 0, repo.bindingCount())
	require.Len(t, repo.events, 2)
	assert.Equal(t, model.EventAppointmentDeleted, repo.events[1].EventType)

	// The slot is reusable once the appointment is gone.
	_, err = svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, ServiceID: 1, StartTime: at(10, 0),
		Bindings: []model.BindingRequest{
			{EquipmentID: 7, StartTime: at(10, 0), EndTime: at(11, 0)},
		},
	})
	assert.NoError(t, err)
}

func TestListAppointmentsRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListAppointments(context.Background(), &model.AppointmentFilters{Status: "pending"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
