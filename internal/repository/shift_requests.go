package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

// shiftRequestSortColumns is the sort allow-list; anything else falls back to
// created_at so a sort key can never inject into the query.
var shiftRequestSortColumns = map[string]string{
	"createdAt": "created_at",
	"start":     "start_time",
}

type ShiftRequestFilter struct {
	ParticipantUserID *string
	AssignedTrainerID *string
	Status            *domain.ShiftRequestStatus
	SortKey           string
	SortDesc          bool
	Page              int
	Limit             int
}

func (r *Repository) CreateShiftRequest(req *domain.ShiftRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	preferred, err := json.Marshal(req.PreferredTrainerIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO shift_requests (
			id,
			participant_user_id,
			requested_by,
			service,
			start_time,
			end_time,
			notes,
			preferred_trainer_ids,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, version
	`

	args := []any{
		req.ID,
		req.ParticipantUserID,
		req.RequestedBy,
		req.Service,
		req.StartTime,
		req.EndTime,
		req.Notes,
		preferred,
		req.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.CreatedAt, &req.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftRequestByID(id string) (*domain.ShiftRequest, error) {
	query := `
		SELECT
			participant_user_id,
			requested_by,
			service,
			start_time,
			end_time,
			notes,
			preferred_trainer_ids,
			status,
			assigned_trainer_id,
			linked_shift_id,
			admin_comment,
			approved_by,
			approved_at,
			created_at,
			version
		FROM shift_requests
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	req := &domain.ShiftRequest{
		ID: id,
	}

	var preferred []byte
	dst := []any{
		&req.ParticipantUserID,
		&req.RequestedBy,
		&req.Service,
		&req.StartTime,
		&req.EndTime,
		&req.Notes,
		&preferred,
		&req.Status,
		&req.AssignedTrainerID,
		&req.LinkedShiftID,
		&req.AdminComment,
		&req.ApprovedBy,
		&req.ApprovedAt,
		&req.CreatedAt,
		&req.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(preferred, &req.PreferredTrainerIDs); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *Repository) UpdateShiftRequest(req *domain.ShiftRequest) error {
	query := `
		UPDATE shift_requests
		SET
			status = $1,
			assigned_trainer_id = $2,
			linked_shift_id = $3,
			admin_comment = $4,
			approved_by = $5,
			approved_at = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		req.Status,
		req.AssignedTrainerID,
		req.LinkedShiftID,
		req.AdminComment,
		req.ApprovedBy,
		req.ApprovedAt,
		req.ID,
		req.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListShiftRequests(filter ShiftRequestFilter) ([]*domain.ShiftRequest, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if filter.ParticipantUserID != nil {
		args = append(args, *filter.ParticipantUserID)
		where = append(where, fmt.Sprintf("participant_user_id = $%d", len(args)))
	}
	if filter.AssignedTrainerID != nil {
		args = append(args, *filter.AssignedTrainerID)
		where = append(where, fmt.Sprintf("assigned_trainer_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM shift_requests WHERE %s", whereClause)
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := shiftRequestSortColumns[filter.SortKey]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT
			id,
			participant_user_id,
			requested_by,
			service,
			start_time,
			end_time,
			notes,
			preferred_trainer_ids,
			status,
			assigned_trainer_id,
			linked_shift_id,
			admin_comment,
			approved_by,
			approved_at,
			created_at,
			version
		FROM shift_requests
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortColumn, direction, len(args)-1, len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]*domain.ShiftRequest, 0)
	for rows.Next() {
		req := &domain.ShiftRequest{}
		var preferred []byte
		dst := []any{
			&req.ID,
			&req.ParticipantUserID,
			&req.RequestedBy,
			&req.Service,
			&req.StartTime,
			&req.EndTime,
			&req.Notes,
			&preferred,
			&req.Status,
			&req.AssignedTrainerID,
			&req.LinkedShiftID,
			&req.AdminComment,
			&req.ApprovedBy,
			&req.ApprovedAt,
			&req.CreatedAt,
			&req.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(preferred, &req.PreferredTrainerIDs); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// CountShiftRequestsByStatus groups request counts by status, optionally
// scoped to one participant or one assigned trainer.
func (r *Repository) CountShiftRequestsByStatus(participantUserID, trainerID *string) (map[domain.ShiftRequestStatus]int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if participantUserID != nil {
		args = append(args, *participantUserID)
		where = append(where, fmt.Sprintf("participant_user_id = $%d", len(args)))
	}
	if trainerID != nil {
		args = append(args, *trainerID)
		where = append(where, fmt.Sprintf("assigned_trainer_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT status, COUNT(*) FROM shift_requests WHERE %s GROUP BY status
	`, strings.Join(where, " AND "))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ShiftRequestStatus]int64)
	for rows.Next() {
		var status domain.ShiftRequestStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *Repository) ListUpcomingApprovedByTrainer(trainerID string, after time.Time, limit int) ([]*domain.ShiftRequest, error) {
	query := `
		SELECT
			id,
			participant_user_id,
			requested_by,
			service,
			start_time,
			end_time,
			notes,
			preferred_trainer_ids,
			status,
			assigned_trainer_id,
			linked_shift_id,
			admin_comment,
			approved_by,
			approved_at,
			created_at,
			version
		FROM shift_requests
		WHERE assigned_trainer_id = $1 AND status = $2 AND start_time > $3
		ORDER BY start_time
		LIMIT $4
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, trainerID, domain.ShiftRequestStatusApproved, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.ShiftRequest, 0)
	for rows.Next() {
		req := &domain.ShiftRequest{}
		var preferred []byte
		dst := []any{
			&req.ID,
			&req.ParticipantUserID,
			&req.RequestedBy,
			&req.Service,
			&req.StartTime,
			&req.EndTime,
			&req.Notes,
			&preferred,
			&req.Status,
			&req.AssignedTrainerID,
			&req.LinkedShiftID,
			&req.AdminComment,
			&req.ApprovedBy,
			&req.ApprovedAt,
			&req.CreatedAt,
			&req.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(preferred, &req.PreferredTrainerIDs); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) CountShiftRequestsCreatedBetween(from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM shift_requests WHERE created_at >= $1 AND created_at < $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count int64
	if err := r.dbpool.QueryRowContext(ctx, query, from, to).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
