package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shifts (
			id,
			shift_request_id,
			participant_user_id,
			trainer_id,
			scheduled_start,
			scheduled_end,
			scheduled_duration_minutes,
			actual_clock_in,
			planned_clock_out,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, version
	`

	args := []any{
		shift.ID,
		shift.ShiftRequestID,
		shift.ParticipantUserID,
		shift.TrainerID,
		shift.ScheduledStart,
		shift.ScheduledEnd,
		shift.ScheduledDurationMinutes,
		shift.ActualClockIn,
		shift.PlannedClockOut,
		shift.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftByID(id string) (*domain.Shift, error) {
	query := `
		SELECT
			shift_request_id,
			participant_user_id,
			trainer_id,
			scheduled_start,
			scheduled_end,
			scheduled_duration_minutes,
			actual_clock_in,
			planned_clock_out,
			actual_clock_out,
			status,
			report,
			billing,
			created_at,
			version
		FROM shifts
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift := &domain.Shift{
		ID: id,
	}

	var report, billing []byte
	dst := []any{
		&shift.ShiftRequestID,
		&shift.ParticipantUserID,
		&shift.TrainerID,
		&shift.ScheduledStart,
		&shift.ScheduledEnd,
		&shift.ScheduledDurationMinutes,
		&shift.ActualClockIn,
		&shift.PlannedClockOut,
		&shift.ActualClockOut,
		&shift.Status,
		&report,
		&billing,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if report != nil {
		if err := json.Unmarshal(report, &shift.Report); err != nil {
			return nil, err
		}
	}
	if billing != nil {
		if err := json.Unmarshal(billing, &shift.Billing); err != nil {
			return nil, err
		}
	}

	return shift, nil
}

// GetInProgressShiftByRequestID returns the single running shift for a
// request, or sql.ErrNoRows. The partial unique index guarantees at most one.
func (r *Repository) GetInProgressShiftByRequestID(requestID string) (*domain.Shift, error) {
	query := `
		SELECT id FROM shifts WHERE shift_request_id = $1 AND status = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id string
	if err := r.dbpool.QueryRowContext(ctx, query, requestID, domain.ShiftStatusInProgress).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetShiftByID(id)
}

func (r *Repository) GetActiveShiftByTrainerID(trainerID string) (*domain.Shift, error) {
	query := `
		SELECT id FROM shifts
		WHERE trainer_id = $1 AND status = $2
		ORDER BY actual_clock_in DESC
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id string
	if err := r.dbpool.QueryRowContext(ctx, query, trainerID, domain.ShiftStatusInProgress).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetShiftByID(id)
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	report, err := json.Marshal(shift.Report)
	if err != nil {
		return err
	}
	billing, err := json.Marshal(shift.Billing)
	if err != nil {
		return err
	}

	query := `
		UPDATE shifts
		SET
			actual_clock_out = $1,
			status = $2,
			report = $3,
			billing = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{shift.ActualClockOut, shift.Status, report, billing, shift.ID, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		return err
	}

	return nil
}

// CountShiftsCompletedBetween returns how many shifts completed inside the
// window and the sum of their billable minutes.
func (r *Repository) CountShiftsCompletedBetween(from, to time.Time) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM((billing->>'billableMinutes')::bigint), 0)
		FROM shifts
		WHERE status = $1 AND actual_clock_out >= $2 AND actual_clock_out < $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count, minutes int64
	if err := r.dbpool.QueryRowContext(ctx, query, domain.ShiftStatusCompleted, from, to).Scan(&count, &minutes); err != nil {
		return 0, 0, err
	}

	return count, minutes, nil
}
