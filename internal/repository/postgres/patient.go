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

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO patients (
			first_name, last_name, phone, email, address,
			date_of_birth, skin_type, sensitivities, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		patient.FirstName,
		patient.LastName,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.DateOfBirth,
		patient.SkinType,
		patient.Sensitivities,
		patient.CreatedAt,
		patient.UpdatedAt,
	).Scan(&patient.ID)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, `
		SELECT id, first_name, last_name, phone, email, address,
			   date_of_birth, skin_type, sensitivities, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET first_name = $1, last_name = $2, phone = $3, email = $4,
			address = $5, date_of_birth = $6, skin_type = $7,
			sensitivities = $8, updated_at = $9
		WHERE id = $10
	`,
		patient.FirstName,
		patient.LastName,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.DateOfBirth,
		patient.SkinType,
		patient.Sensitivities,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", patient.ID)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", id)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, `
		SELECT id, first_name, last_name, phone, email, address,
			   date_of_birth, skin_type, sensitivities, created_at, updated_at
		FROM patients
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
