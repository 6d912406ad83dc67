package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
	"github.com/Naveedahmedtech/OLO-Backend/internal/repository"
	"github.com/Naveedahmedtech/OLO-Backend/internal/workflow"
)

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftRequestID string `json:"shiftRequestID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	trainer := r.Context().Value(TrainerProfileCtx).(*domain.Trainer)

	shiftRequest, err := h.repository.GetShiftRequestByID(req.ShiftRequestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindNotFound, "shift request not found"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// friendly duplicate check; the partial unique index is what holds under
	// concurrent clock-ins
	if _, err := h.repository.GetInProgressShiftByRequestID(shiftRequest.ID); err == nil {
		h.appError(w, r, apperrors.New(apperrors.KindConflict, "a shift is already in progress for this request"))
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	shift, err := workflow.ClockIn(shiftRequest, trainer, time.Now())
	if err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.repository.CreateShift(shift); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintOneInProgressShift) {
			h.appError(w, r, apperrors.New(apperrors.KindConflict, "a shift is already in progress for this request"))
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	// link the shift back onto the request; the request stays APPROVED until
	// completion
	shiftRequest.LinkedShiftID = &shift.ID
	if err := h.repository.UpdateShiftRequest(shiftRequest); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "clocked in", shift)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftRequestID string `json:"shiftRequestID" validate:"required"`
		Report         struct {
			Activities string  `json:"activities"`
			Progress   string  `json:"progress"`
			Incidents  string  `json:"incidents"`
			Km         float64 `json:"km" validate:"gte=0"`
		} `json:"report"`
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
	trainer := r.Context().Value(TrainerProfileCtx).(*domain.Trainer)

	shiftRequest, err := h.repository.GetShiftRequestByID(req.ShiftRequestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindNotFound, "shift request not found"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if shiftRequest.LinkedShiftID == nil {
		h.appError(w, r, apperrors.New(apperrors.KindNotFound, "no shift has been started for this request"))
		return
	}

	shift, err := h.repository.GetShiftByID(*shiftRequest.LinkedShiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindNotFound, "shift not found"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	rates, source, err := h.pricing.Resolve(shift)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	err = workflow.ClockOut(shiftRequest, shift, trainer, workflow.ClockOutInput{
		Activities: req.Report.Activities,
		Progress:   req.Report.Progress,
		Incidents:  req.Report.Incidents,
		Km:         req.Report.Km,
	}, rates, source, time.Now())
	if err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindConflict, "shift was modified concurrently, please retry"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.UpdateShiftRequest(shiftRequest); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ts, err := h.upsertItemForShift(shift, shiftRequest.Service, req.Report.Km, rates)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.publishMail(domain.MailMessage{
		Type: "timesheet_item_recorded",
		To:   myInfo.Email,
		Data: domain.TimesheetItemRecordedMailData{
			FullName:  myInfo.FullName,
			Service:   shiftRequest.Service,
			Minutes:   shift.Billing.BillableMinutes,
			WeekStart: ts.WeekStart.Format("2006-01-02"),
		},
	})

	h.successResponse(w, r, "clocked out", shift)
}

func (h *Handler) GetActiveShift(w http.ResponseWriter, r *http.Request) {
	trainer := r.Context().Value(TrainerProfileCtx).(*domain.Trainer)

	shift, err := h.repository.GetActiveShiftByTrainerID(trainer.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "no active shift", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "ok", shift)
}
