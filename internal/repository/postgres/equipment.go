package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

func (r *equipmentRepository) Create(ctx context.Context, eq *model.EquipmentResource) error {
	eq.Active = true
	eq.CreatedAt = time.Now()
	eq.UpdatedAt = eq.CreatedAt

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO equipment_resources (name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, eq.Name, eq.Active, eq.CreatedAt, eq.UpdatedAt).Scan(&eq.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.Conflict("equipment named %q already exists", eq.Name)
		}
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

func (r *equipmentRepository) Get(ctx context.Context, id int64) (*model.EquipmentResource, error) {
	var eq model.EquipmentResource
	err := r.db.GetContext(ctx, &eq, `
		SELECT id, name, active, created_at, updated_at
		FROM equipment_resources
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("equipment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return &eq, nil
}

func (r *equipmentRepository) List(ctx context.Context) ([]*model.EquipmentResource, error) {
	var equipment []*model.EquipmentResource
	err := r.db.SelectContext(ctx, &equipment, `
		SELECT id, name, active, created_at, updated_at
		FROM equipment_resources
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipment, nil
}

func (r *equipmentRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE equipment_resources
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate equipment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("equipment", id)
	}
	return nil
}

func (r *equipmentRepository) ListBindings(ctx context.Context, equipmentID int64) ([]*model.ResourceBinding, error) {
	var bindings []*model.ResourceBinding
	err := r.db.SelectContext(ctx, &bindings, `
		SELECT id, appointment_id, equipment_id, start_time, end_time, created_at
		FROM resource_bindings
		WHERE equipment_id = $1
		ORDER BY start_time ASC
	`, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	return bindings, nil
}
