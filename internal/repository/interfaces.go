package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository owns appointment rows and their resource
	// bindings. Mutations that emit a domain event accept the event so it
	// is persisted in the same transaction as the change.
	AppointmentRepository interface {
		// CreateWithBindings persists the appointment and its equipment
		// bindings as one atomic unit. The conflict check against existing
		// bindings runs inside the same transaction; on any overlap the
		// whole booking is rejected and nothing is written. The event's
		// payload is populated from the persisted appointment, after its ID
		// has been assigned.
		CreateWithBindings(ctx context.Context, apt *model.Appointment, bindings []*model.ResourceBinding, event *model.OutboxEvent) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		ListWithDetails(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetails, error)
		// UpdateStatus is compare-and-set on the expected current status, so
		// a transition racing another writer can never overwrite a terminal
		// status. A mismatch reports the stored status as the offending
		// transition source.
		UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus, event *model.OutboxEvent) error
		// Delete removes the appointment and all of its bindings.
		Delete(ctx context.Context, id int64, event *model.OutboxEvent) error

		CountScheduledBetween(ctx context.Context, from, to time.Time) (int, error)
		SumScheduledRevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
		// NextScheduled returns the earliest scheduled appointment starting
		// at or after now, joined with display fields; nil when none exists.
		NextScheduled(ctx context.Context, now time.Time) (*model.AppointmentDetails, error)
	}

	EquipmentRepository interface {
		Create(ctx context.Context, eq *model.EquipmentResource) error
		Get(ctx context.Context, id int64) (*model.EquipmentResource, error)
		List(ctx context.Context) ([]*model.EquipmentResource, error)
		Deactivate(ctx context.Context, id int64) error
		ListBindings(ctx context.Context, equipmentID int64) ([]*model.ResourceBinding, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Patient, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, svc *model.Service) error
		Get(ctx context.Context, id int64) (*model.Service, error)
		Update(ctx context.Context, svc *model.Service) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Service, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByUsername(ctx context.Context, username string) (*model.User, error)
	}

	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
