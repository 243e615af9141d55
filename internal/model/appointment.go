package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

// Terminal reports whether no further status transition is permitted.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCanceled
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	}
	return false
}

type Appointment struct {
	ID             int64             `db:"id" json:"id"`
	PatientID      int64             `db:"patient_id" json:"patient_id"`
	ServiceID      int64             `db:"service_id" json:"service_id"`
	StartTime      time.Time         `db:"start_time" json:"start_time"`
	Status         AppointmentStatus `db:"status" json:"status"`
	TreatmentNotes string            `db:"treatment_notes" json:"treatment_notes,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentDetails is an appointment row joined with patient and service
// display fields, as returned by list queries.
type AppointmentDetails struct {
	Appointment
	PatientName     string  `db:"patient_name" json:"patient_name"`
	PatientPhone    string  `db:"patient_phone" json:"patient_phone"`
	SkinType        *string `db:"skin_type" json:"skin_type,omitempty"`
	Sensitivities   *string `db:"sensitivities" json:"sensitivities,omitempty"`
	ServiceName     string  `db:"service_name" json:"service_name"`
	DurationMinutes int     `db:"duration_minutes" json:"duration_minutes"`
	BasePrice       float64 `db:"base_price" json:"base_price"`
}

type CreateAppointmentRequest struct {
	PatientID int64            `json:"patient_id" binding:"required"`
	ServiceID int64            `json:"service_id" binding:"required"`
	StartTime time.Time        `json:"start_time" binding:"required"`
	Notes     string           `json:"treatment_notes" binding:"max=2000"`
	Bindings  []BindingRequest `json:"resource_bindings"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

type AppointmentFilters struct {
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
