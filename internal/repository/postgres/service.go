package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = svc.CreatedAt

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO services (name, duration_minutes, base_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, svc.Name, svc.DurationMinutes, svc.BasePrice, svc.CreatedAt, svc.UpdatedAt).Scan(&svc.ID)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `
		SELECT id, name, duration_minutes, base_price, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("service", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	svc.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE services
		SET name = $1, duration_minutes = $2, base_price = $3, updated_at = $4
		WHERE id = $5
	`, svc.Name, svc.DurationMinutes, svc.BasePrice, svc.UpdatedAt, svc.ID)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("service", svc.ID)
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("service", id)
	}
	return nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	var services []*model.Service
	err := r.db.SelectContext(ctx, &services, `
		SELECT id, name, duration_minutes, base_price, created_at, updated_at
		FROM services
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
