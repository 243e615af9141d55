package model

import (
	"time"
)

type EquipmentResource struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ResourceBinding reserves one piece of equipment for an appointment over
// the half-open interval [StartTime, EndTime).
type ResourceBinding struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id"`
	EquipmentID   int64     `db:"equipment_id" json:"equipment_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type BindingRequest struct {
	EquipmentID int64     `json:"equipment_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
}

type CreateEquipmentRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}
