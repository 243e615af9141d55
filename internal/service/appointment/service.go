package appointment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-ops-api/internal/email"
	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/repository"
	"github.com/jwalitptl/clinic-ops-api/internal/scheduling"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	serviceRepo repository.ServiceRepository
	mailer      email.Sender
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	serviceRepo repository.ServiceRepository,
	mailer email.Sender,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		serviceRepo: serviceRepo,
		mailer:      mailer,
	}
}

// CreateAppointment books an appointment and, when the request carries
// resource bindings, reserves the equipment atomically with it. Any
// conflict on any proposed binding rejects the whole booking.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	patient, err := s.resolvePatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	svc, err := s.resolveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		PatientID:      req.PatientID,
		ServiceID:      req.ServiceID,
		StartTime:      req.StartTime,
		TreatmentNotes: req.Notes,
	}

	bindings := make([]*model.ResourceBinding, len(req.Bindings))
	for i, b := range req.Bindings {
		bindings[i] = &model.ResourceBinding{
			EquipmentID: b.EquipmentID,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
		}
	}

	// The event payload is filled in by the repository once the appointment
	// ID has been assigned, so consumers see the persisted row.
	event := &model.OutboxEvent{EventType: model.EventAppointmentCreated}

	if err := s.repo.CreateWithBindings(ctx, apt, bindings, event); err != nil {
		return nil, err
	}

	s.sendConfirmation(patient, svc, apt)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetails, error) {
	if filters != nil && filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.Validation("unknown status %q", filters.Status)
	}
	return s.repo.ListWithDetails(ctx, filters)
}

// SetStatus drives the appointment through its lifecycle. Transitions out
// of a terminal state fail, including repeats of the same status. The
// status value is the only thing that changes: canceling does not release
// equipment bindings, deleting the appointment does.
func (s *Service) SetStatus(ctx context.Context, id int64, target model.AppointmentStatus) (*model.Appointment, error) {
	if !target.Valid() {
		return nil, apperrors.Validation("unknown status %q", target)
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkTransition(apt.Status, target); err != nil {
		return nil, err
	}

	from := apt.Status
	apt.Status = target
	event, err := buildEvent(model.EventAppointmentStatusChanged, apt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, from, target, event); err != nil {
		return nil, err
	}
	return apt, nil
}

// DeleteAppointment is the administrative removal path: it drops the
// appointment and every resource binding it holds, freeing the equipment.
func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	event, err := buildEvent(model.EventAppointmentDeleted, apt)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, id, event)
}

func (s *Service) validateRequest(req *model.CreateAppointmentRequest) error {
	if req.PatientID <= 0 {
		return apperrors.Validation("patient_id is required")
	}
	if req.ServiceID <= 0 {
		return apperrors.Validation("service_id is required")
	}
	if req.StartTime.IsZero() {
		return apperrors.Validation("start_time is required")
	}

	// Intervals are validated and cross-checked against each other before
	// the store is touched; overlap with committed bindings is re-checked
	// inside the booking transaction.
	seen := make(map[int64][]scheduling.Interval)
	for _, b := range req.Bindings {
		iv := scheduling.Interval{Start: b.StartTime, End: b.EndTime}
		if err := iv.Validate(); err != nil {
			return err
		}
		if c := scheduling.FindConflict(b.EquipmentID, iv, seen[b.EquipmentID]); c != nil {
			return apperrors.Conflict(
				"request reserves equipment %d twice for overlapping intervals", b.EquipmentID,
			)
		}
		seen[b.EquipmentID] = append(seen[b.EquipmentID], iv)
	}
	return nil
}

func (s *Service) resolvePatient(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.patientRepo.Get(ctx, id)
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, apperrors.ReferenceNotFound("patient", id)
	}
	if err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) resolveService(ctx context.Context, id int64) (*model.Service, error) {
	svc, err := s.serviceRepo.Get(ctx, id)
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, apperrors.ReferenceNotFound("service", id)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// sendConfirmation emails the patient when an address is on file. Delivery
// is best-effort and never fails the booking.
func (s *Service) sendConfirmation(patient *model.Patient, svc *model.Service, apt *model.Appointment) {
	if s.mailer == nil || patient.Email == nil {
		return
	}

	subject := "Appointment confirmation"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour %s appointment is confirmed for %s.\r\n",
		patient.DisplayName(), svc.Name, apt.StartTime.Format("Monday, Jan 2 2006 at 3:04 PM"),
	)
	if err := s.mailer.Send(*patient.Email, subject, body); err != nil {
		log.Warn().Err(err).
			Int64("appointment_id", apt.ID).
			Str("email", *patient.Email).
			Msg("failed to send confirmation email")
	}
}

func buildEvent(eventType string, apt *model.Appointment) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(apt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &model.OutboxEvent{EventType: eventType, Payload: payload}, nil
}
