package model

import (
	"time"
)

type Service struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	BasePrice       float64   `db:"base_price" json:"base_price"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required,max=255"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0"`
	BasePrice       float64 `json:"base_price" binding:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	BasePrice       *float64 `json:"base_price" binding:"omitempty,gt=0"`
}
