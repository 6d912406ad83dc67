package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/billing"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
	"github.com/Naveedahmedtech/OLO-Backend/internal/repository"
	"github.com/Naveedahmedtech/OLO-Backend/internal/workflow"
)

// timesheetWriteRetries bounds the reload-and-reapply loop for the timesheet
// upsert at clock-out.
const timesheetWriteRetries = 3

// upsertItemForShift records a completed shift onto the trainer's weekly
// timesheet: resolve the week from the shift's scheduled end, create the
// timesheet if the week has none yet, replace-or-append the line keyed by
// shift id, and recompute the totals.
//
// The shift and its request are already COMPLETED by the time this runs, so
// losing the line here would be irrecoverable. A version conflict against a
// concurrent clock-out in the same week is therefore resolved by reloading the
// document and re-applying the line; the upsert is keyed by shift id, so
// re-applying it is idempotent.
func (h *Handler) upsertItemForShift(shift *domain.Shift, service string, km float64, rates billing.Rates) (*domain.Timesheet, error) {
	weekStart, weekEnd := billing.WeekBounds(shift.ScheduledEnd)

	ts, err := h.loadOrCreateTimesheet(shift.TrainerID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	item := billing.BuildItem(shift, service, shift.Billing.BillableMinutes, km, rates)

	for attempt := 0; ; attempt++ {
		billing.UpsertItem(ts, item)
		billing.RecomputeTotals(ts)
		ts.WeekEnd = weekEnd

		err := h.repository.UpdateTimesheet(ts)
		if err == nil {
			return ts, nil
		}
		if !errors.Is(err, sql.ErrNoRows) || attempt+1 >= timesheetWriteRetries {
			return nil, err
		}

		// lost the version race; reload and re-apply
		ts, err = h.repository.GetTimesheetByTrainerAndWeek(shift.TrainerID, weekStart)
		if err != nil {
			return nil, err
		}
	}
}

func (h *Handler) loadOrCreateTimesheet(trainerID string, weekStart, weekEnd time.Time) (*domain.Timesheet, error) {
	ts, err := h.repository.GetTimesheetByTrainerAndWeek(trainerID, weekStart)
	if err == nil {
		return ts, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	ts = &domain.Timesheet{
		ID:        uuid.NewString(),
		TrainerID: trainerID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Status:    domain.TimesheetStatusDraft,
		Items:     []domain.TimesheetItem{},
		AuditLog:  []domain.TimesheetAuditEntry{},
	}
	inserted, err := h.repository.InsertTimesheetIfAbsent(ts)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// lost the race against a concurrent clock-out for the same week
		return h.repository.GetTimesheetByTrainerAndWeek(trainerID, weekStart)
	}

	return ts, nil
}

// canViewTimesheet reports whether the caller may read the timesheet. Admins
// see everything; trainers only their own.
func (h *Handler) canViewTimesheet(myInfo *domain.User, ts *domain.Timesheet) bool {
	if myInfo.Role == domain.RoleAdmin {
		return true
	}
	if myInfo.Role != domain.RoleTrainer {
		return false
	}

	trainer, err := h.repository.GetTrainerByUserID(myInfo.ID)
	if err != nil {
		return false
	}
	return trainer.ID == ts.TrainerID
}

func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	page, limit := parsePagination(r)
	filter := repository.TimesheetFilter{
		Page:  page,
		Limit: limit,
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.TimesheetStatus(statusParam)
		filter.Status = &status
	}

	switch myInfo.Role {
	case domain.RoleAdmin:
		if trainerID := r.URL.Query().Get("trainerID"); trainerID != "" {
			filter.TrainerID = &trainerID
		}
	case domain.RoleTrainer:
		trainer, err := h.repository.GetTrainerByUserID(myInfo.ID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.appError(w, r, apperrors.New(apperrors.KindNotFound, "trainer profile not found"))
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		filter.TrainerID = &trainer.ID
	default:
		h.appError(w, r, apperrors.New(apperrors.KindForbidden, "insufficient permissions"))
		return
	}

	timesheets, total, err := h.repository.ListTimesheets(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", newListResult(timesheets, page, limit, total))
}

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if !h.canViewTimesheet(myInfo, ts) {
		h.appError(w, r, apperrors.New(apperrors.KindForbidden, "not your timesheet"))
		return
	}

	h.successResponse(w, r, "ok", ts)
}

func (h *Handler) SubmitTimesheet(w http.ResponseWriter, r *http.Request) {
	trainer := r.Context().Value(TrainerProfileCtx).(*domain.Trainer)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if err := workflow.SubmitTimesheet(ts, trainer); err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.updateTimesheet(w, r, ts); err != nil {
		return
	}

	h.successResponse(w, r, "timesheet submitted", ts)
}

func (h *Handler) ApproveTimesheet(w http.ResponseWriter, r *http.Request) {
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if err := workflow.ApproveTimesheet(ts); err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.updateTimesheet(w, r, ts); err != nil {
		return
	}

	h.successResponse(w, r, "timesheet approved", ts)
}

func (h *Handler) ReopenTimesheet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if err := workflow.ReopenTimesheet(ts, myInfo, req.Reason, time.Now()); err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.updateTimesheet(w, r, ts); err != nil {
		return
	}

	if trainer, err := h.repository.GetTrainerByID(ts.TrainerID); err == nil {
		if trainerUser, err := h.repository.GetUserByID(trainer.UserID); err == nil {
			h.publishMail(domain.MailMessage{
				Type: "timesheet_reopened",
				To:   trainerUser.Email,
				Data: domain.TimesheetReopenedMailData{
					FullName:  trainerUser.FullName,
					WeekStart: ts.WeekStart.Format("2006-01-02"),
					Reason:    req.Reason,
				},
			})
		}
	}

	h.successResponse(w, r, "timesheet reopened", ts)
}

func (h *Handler) MarkTimesheetPaid(w http.ResponseWriter, r *http.Request) {
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if err := workflow.MarkTimesheetPaid(ts); err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.updateTimesheet(w, r, ts); err != nil {
		return
	}

	h.successResponse(w, r, "timesheet marked paid", ts)
}

func (h *Handler) ExportTimesheet(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	ts := r.Context().Value(TimesheetCtx).(*domain.Timesheet)

	if !h.canViewTimesheet(myInfo, ts) {
		h.appError(w, r, apperrors.New(apperrors.KindForbidden, "not your timesheet"))
		return
	}

	// a missing trainer document must not break the export
	trainerName := ""
	if trainer, err := h.repository.GetTrainerByID(ts.TrainerID); err == nil {
		if trainerUser, err := h.repository.GetUserByID(trainer.UserID); err == nil {
			trainerName = trainerUser.FullName
		}
	}

	export, err := workflow.BuildTimesheetExport(ts, trainerName, r.URL.Query().Get("format"))
	if err != nil {
		h.appError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", export)
}

// updateTimesheet persists ts and writes the error response itself when the
// save fails; callers bail out on a non-nil return.
func (h *Handler) updateTimesheet(w http.ResponseWriter, r *http.Request, ts *domain.Timesheet) error {
	if err := h.repository.UpdateTimesheet(ts); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindConflict, "timesheet was modified concurrently, please retry"))
		default:
			h.internalServerError(w, r, err)
		}
		return err
	}
	return nil
}
