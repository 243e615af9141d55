package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/scheduling"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

const uniqueViolation = "23505"

func (r *appointmentRepository) CreateWithBindings(ctx context.Context, apt *model.Appointment, bindings []*model.ResourceBinding, event *model.OutboxEvent) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now()
		apt.Status = model.AppointmentStatusScheduled
		apt.CreatedAt = now
		apt.UpdatedAt = now

		query := `
			INSERT INTO appointments (
				patient_id, service_id, start_time, status,
				treatment_notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		if err := tx.QueryRowxContext(ctx, query,
			apt.PatientID,
			apt.ServiceID,
			apt.StartTime,
			apt.Status,
			apt.TreatmentNotes,
			apt.CreatedAt,
			apt.UpdatedAt,
		).Scan(&apt.ID); err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		if len(bindings) > 0 {
			if err := r.reserveBindings(ctx, tx, apt.ID, bindings); err != nil {
				return err
			}
		}

		if event != nil {
			payload, err := json.Marshal(apt)
			if err != nil {
				return fmt.Errorf("failed to marshal event payload: %w", err)
			}
			event.Payload = payload
			if err := insertOutboxTx(ctx, tx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// reserveBindings locks each referenced equipment row, re-checks interval
// overlap against committed bindings and inserts the new ones. Equipment
// rows are locked in ascending id order so two concurrent bookings can
// never deadlock on each other.
func (r *appointmentRepository) reserveBindings(ctx context.Context, tx *sqlx.Tx, appointmentID int64, bindings []*model.ResourceBinding) error {
	byEquipment := make(map[int64][]*model.ResourceBinding)
	for _, b := range bindings {
		byEquipment[b.EquipmentID] = append(byEquipment[b.EquipmentID], b)
	}

	equipmentIDs := make([]int64, 0, len(byEquipment))
	for id := range byEquipment {
		equipmentIDs = append(equipmentIDs, id)
	}
	sort.Slice(equipmentIDs, func(i, j int) bool { return equipmentIDs[i] < equipmentIDs[j] })

	for _, eqID := range equipmentIDs {
		var eq model.EquipmentResource
		err := tx.GetContext(ctx, &eq, `
			SELECT id, name, active, created_at, updated_at
			FROM equipment_resources
			WHERE id = $1
			FOR UPDATE
		`, eqID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ReferenceNotFound("equipment", eqID)
		}
		if err != nil {
			return fmt.Errorf("failed to lock equipment %d: %w", eqID, err)
		}
		if !eq.Active {
			return apperrors.Validation("equipment %q (%d) is not active", eq.Name, eq.ID)
		}

		var existing []*model.ResourceBinding
		err = tx.SelectContext(ctx, &existing, `
			SELECT id, appointment_id, equipment_id, start_time, end_time, created_at
			FROM resource_bindings
			WHERE equipment_id = $1
		`, eqID)
		if err != nil {
			return fmt.Errorf("failed to load bindings for equipment %d: %w", eqID, err)
		}

		intervals := make([]scheduling.Interval, len(existing))
		for i, b := range existing {
			intervals[i] = scheduling.Interval{Start: b.StartTime, End: b.EndTime}
		}

		for _, proposed := range byEquipment[eqID] {
			iv := scheduling.Interval{Start: proposed.StartTime, End: proposed.EndTime}
			if c := scheduling.FindConflict(eqID, iv, intervals); c != nil {
				return apperrors.Conflict(
					"equipment %q (%d) is already booked from %s to %s",
					eq.Name, c.EquipmentID,
					c.Existing.Start.Format(time.RFC3339),
					c.Existing.End.Format(time.RFC3339),
				)
			}
		}
	}

	for _, b := range bindings {
		b.AppointmentID = appointmentID
		b.CreatedAt = time.Now()
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO resource_bindings (
				appointment_id, equipment_id, start_time, end_time, created_at
			) VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, b.AppointmentID, b.EquipmentID, b.StartTime, b.EndTime, b.CreatedAt).Scan(&b.ID)
		if err != nil {
			// Unique constraint on (equipment_id, start_time, end_time) is
			// a backstop for exact duplicates; the overlap check above is
			// the authoritative guard.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return apperrors.Conflict(
					"equipment %d is already booked for exactly this interval", b.EquipmentID,
				)
			}
			return fmt.Errorf("failed to create resource binding: %w", err)
		}
	}

	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, service_id, start_time, status,
			   treatment_notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) ListWithDetails(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetails, error) {
	query := `
		SELECT a.id, a.patient_id, a.service_id, a.start_time, a.status,
			   a.treatment_notes, a.created_at, a.updated_at,
			   p.first_name || ' ' || p.last_name AS patient_name,
			   p.phone AS patient_phone,
			   s.name AS service_name,
			   s.duration_minutes,
			   s.base_price
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN services s ON a.service_id = s.id
	`
	var conds []string
	var args []interface{}

	if filters != nil {
		if filters.Status != "" {
			args = append(args, filters.Status)
			conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
		}
		if !filters.StartDate.IsZero() {
			args = append(args, filters.StartDate)
			conds = append(conds, fmt.Sprintf("a.start_time >= $%d", len(args)))
		}
		if !filters.EndDate.IsZero() {
			args = append(args, filters.EndDate)
			conds = append(conds, fmt.Sprintf("a.start_time < $%d", len(args)))
		}
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	// The id tie-break keeps ordering stable for equal start times; the
	// dashboard's next-client pick relies on it.
	query += " ORDER BY a.start_time ASC, a.id ASC"

	var appointments []*model.AppointmentDetails
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus, event *model.OutboxEvent) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE appointments
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
		`, to, time.Now(), id, from)
		if err != nil {
			return fmt.Errorf("failed to update appointment status: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			// Either the row is gone or a concurrent transition moved it
			// past the status we read.
			var current model.AppointmentStatus
			err := tx.GetContext(ctx, &current, `SELECT status FROM appointments WHERE id = $1`, id)
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("appointment", id)
			}
			if err != nil {
				return fmt.Errorf("failed to read appointment status: %w", err)
			}
			return apperrors.InvalidTransition(string(current), string(to))
		}

		if event != nil {
			if err := insertOutboxTx(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64, event *model.OutboxEvent) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM resource_bindings WHERE appointment_id = $1
		`, id); err != nil {
			return fmt.Errorf("failed to delete resource bindings: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("appointment", id)
		}

		if event != nil {
			if err := insertOutboxTx(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *appointmentRepository) CountScheduledBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM appointments
		WHERE start_time >= $1 AND start_time < $2 AND status = $3
	`, from, to, model.AppointmentStatusScheduled)
	if err != nil {
		return 0, fmt.Errorf("failed to count scheduled appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) SumScheduledRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(s.base_price), 0)
		FROM appointments a
		JOIN services s ON a.service_id = s.id
		WHERE a.start_time >= $1 AND a.start_time < $2 AND a.status = $3
	`, from, to, model.AppointmentStatusScheduled)
	if err != nil {
		return 0, fmt.Errorf("failed to sum projected revenue: %w", err)
	}
	return total, nil
}

func (r *appointmentRepository) NextScheduled(ctx context.Context, now time.Time) (*model.AppointmentDetails, error) {
	query := `
		SELECT a.id, a.patient_id, a.service_id, a.start_time, a.status,
			   a.treatment_notes, a.created_at, a.updated_at,
			   p.first_name || ' ' || p.last_name AS patient_name,
			   p.phone AS patient_phone,
			   p.skin_type,
			   p.sensitivities,
			   s.name AS service_name,
			   s.duration_minutes,
			   s.base_price
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN services s ON a.service_id = s.id
		WHERE a.start_time >= $1 AND a.status = $2
		ORDER BY a.start_time ASC, a.id ASC
		LIMIT 1
	`
	var next model.AppointmentDetails
	err := r.db.GetContext(ctx, &next, query, now, model.AppointmentStatusScheduled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next scheduled appointment: %w", err)
	}
	return &next, nil
}
