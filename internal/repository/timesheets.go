package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

type TimesheetFilter struct {
	TrainerID *string
	Status    *domain.TimesheetStatus
	Page      int
	Limit     int
}

// InsertTimesheetIfAbsent creates the weekly timesheet unless one already
// exists for (trainer, week). ON CONFLICT DO NOTHING keeps concurrent
// clock-outs for the same trainer and week race-safe; the caller reloads on
// a lost race. Returns whether this call inserted the row.
func (r *Repository) InsertTimesheetIfAbsent(ts *domain.Timesheet) (bool, error) {
	items, err := json.Marshal(ts.Items)
	if err != nil {
		return false, err
	}
	totals, err := json.Marshal(ts.Totals)
	if err != nil {
		return false, err
	}
	auditLog, err := json.Marshal(ts.AuditLog)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO timesheets (id, trainer_id, week_start, week_end, status, items, totals, audit_log)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (trainer_id, week_start) DO NOTHING
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{ts.ID, ts.TrainerID, ts.WeekStart, ts.WeekEnd, ts.Status, items, totals, auditLog}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ts.CreatedAt, &ts.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// conflict: another writer created the row first
			return false, nil
		}
		return false, err
	}

	return true, nil
}

const timesheetColumns = `id, trainer_id, week_start, week_end, status, items, totals, audit_log, created_at, version`

func (r *Repository) GetTimesheetByID(id string) (*domain.Timesheet, error) {
	query := fmt.Sprintf(`SELECT %s FROM timesheets WHERE id = $1`, timesheetColumns)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanTimesheet(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *Repository) GetTimesheetByTrainerAndWeek(trainerID string, weekStart time.Time) (*domain.Timesheet, error) {
	query := fmt.Sprintf(`SELECT %s FROM timesheets WHERE trainer_id = $1 AND week_start = $2`, timesheetColumns)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanTimesheet(r.dbpool.QueryRowContext(ctx, query, trainerID, weekStart).Scan)
}

// scanTimesheet decodes one row selected with timesheetColumns.
func scanTimesheet(scan func(...any) error) (*domain.Timesheet, error) {
	ts := &domain.Timesheet{}
	var items, totals, auditLog []byte

	dst := []any{&ts.ID, &ts.TrainerID, &ts.WeekStart, &ts.WeekEnd, &ts.Status, &items, &totals, &auditLog, &ts.CreatedAt, &ts.Version}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &ts.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(totals, &ts.Totals); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(auditLog, &ts.AuditLog); err != nil {
		return nil, err
	}

	return ts, nil
}

// UpdateTimesheet rewrites the whole document (items, totals, audit log, week
// end) under the optimistic version check. Items and totals always travel
// together so the totals can never drift from the items.
func (r *Repository) UpdateTimesheet(ts *domain.Timesheet) error {
	items, err := json.Marshal(ts.Items)
	if err != nil {
		return err
	}
	totals, err := json.Marshal(ts.Totals)
	if err != nil {
		return err
	}
	auditLog, err := json.Marshal(ts.AuditLog)
	if err != nil {
		return err
	}

	query := `
		UPDATE timesheets
		SET
			status = $1,
			items = $2,
			totals = $3,
			audit_log = $4,
			week_end = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{ts.Status, items, totals, auditLog, ts.WeekEnd, ts.ID, ts.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ts.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListTimesheets(filter TimesheetFilter) ([]*domain.Timesheet, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if filter.TrainerID != nil {
		args = append(args, *filter.TrainerID)
		where = append(where, fmt.Sprintf("trainer_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM timesheets WHERE %s", whereClause)
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM timesheets
		WHERE %s
		ORDER BY week_start DESC
		LIMIT $%d OFFSET $%d
	`, timesheetColumns, whereClause, len(args)-1, len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	timesheets := make([]*domain.Timesheet, 0)
	for rows.Next() {
		ts, err := scanTimesheet(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		timesheets = append(timesheets, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return timesheets, total, nil
}
