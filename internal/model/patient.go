package model

import (
	"time"
)

type Patient struct {
	ID            int64      `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Phone         string     `db:"phone" json:"phone"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Address       *string    `db:"address" json:"address,omitempty"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	SkinType      *string    `db:"skin_type" json:"skin_type,omitempty"`
	Sensitivities *string    `db:"sensitivities" json:"sensitivities,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName is the patient's name as shown on the dashboard and in
// appointment listings.
func (p *Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	FirstName     string     `json:"first_name" binding:"required,max=100"`
	LastName      string     `json:"last_name" binding:"required,max=100"`
	Phone         string     `json:"phone" binding:"required,phone"`
	Email         *string    `json:"email" binding:"omitempty,email"`
	Address       *string    `json:"address"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	SkinType      *string    `json:"skin_type"`
	Sensitivities *string    `json:"sensitivities"`
}

type UpdatePatientRequest struct {
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	Phone         *string    `json:"phone" binding:"omitempty,phone"`
	Email         *string    `json:"email" binding:"omitempty,email"`
	Address       *string    `json:"address"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	SkinType      *string    `json:"skin_type"`
	Sensitivities *string    `json:"sensitivities"`
}
