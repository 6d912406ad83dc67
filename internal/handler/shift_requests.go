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

func (h *Handler) CreateShiftRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParticipantID       string    `json:"participantID" validate:"required"`
		Service             string    `json:"service" validate:"required"`
		StartTime           time.Time `json:"startTime" validate:"required"`
		EndTime             time.Time `json:"endTime" validate:"required"`
		Notes               string    `json:"notes"`
		PreferredTrainerIDs []string  `json:"preferredTrainerIDs"`
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

	participant, err := h.repository.GetUserByID(req.ParticipantID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindValidation, "participant does not exist").
				WithField("participantID", "no such user"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	shiftRequest, err := workflow.NewShiftRequest(workflow.CreateShiftRequestInput{
		Service:             req.Service,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Notes:               req.Notes,
		PreferredTrainerIDs: req.PreferredTrainerIDs,
	}, myInfo, participant, time.Now())
	if err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.repository.CreateShiftRequest(shiftRequest); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift request created", shiftRequest)
}

func (h *Handler) ApproveShiftRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrainerID string `json:"trainerID" validate:"required"`
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
	shiftRequest := r.Context().Value(ShiftRequestCtx).(*domain.ShiftRequest)

	trainer, err := h.repository.GetTrainerByID(req.TrainerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindValidation, "trainer does not exist and is not eligible for assignment").
				WithField("trainerID", "no such trainer"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	trainerUser, err := h.repository.GetUserByID(trainer.UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := workflow.ApproveAndAssign(shiftRequest, trainer, trainerUser, myInfo, time.Now()); err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftRequest(shiftRequest); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindConflict, "shift request was modified concurrently, please retry"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// best-effort notifications, never rolled into the transition
	start := shiftRequest.StartTime.Format(time.RFC1123)
	end := shiftRequest.EndTime.Format(time.RFC1123)

	h.publishMail(domain.MailMessage{
		Type: "shift_request_approved",
		To:   trainerUser.Email,
		Data: domain.ShiftRequestApprovedMailData{
			FullName:    trainerUser.FullName,
			Service:     shiftRequest.Service,
			StartTime:   start,
			EndTime:     end,
			TrainerName: trainerUser.FullName,
		},
	})

	if participant, err := h.repository.GetUserByID(shiftRequest.ParticipantUserID); err == nil {
		h.publishMail(domain.MailMessage{
			Type: "shift_request_approved",
			To:   participant.Email,
			Data: domain.ShiftRequestApprovedMailData{
				FullName:    participant.FullName,
				Service:     shiftRequest.Service,
				StartTime:   start,
				EndTime:     end,
				TrainerName: trainerUser.FullName,
			},
		})
	}

	h.successResponse(w, r, "shift request approved", shiftRequest)
}

func (h *Handler) DeclineShiftRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shiftRequest := r.Context().Value(ShiftRequestCtx).(*domain.ShiftRequest)

	if err := workflow.Decline(shiftRequest, myInfo, req.Reason, time.Now()); err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftRequest(shiftRequest); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindConflict, "shift request was modified concurrently, please retry"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if participant, err := h.repository.GetUserByID(shiftRequest.ParticipantUserID); err == nil {
		h.publishMail(domain.MailMessage{
			Type: "shift_request_declined",
			To:   participant.Email,
			Data: domain.ShiftRequestDeclinedMailData{
				FullName:  participant.FullName,
				Service:   shiftRequest.Service,
				StartTime: shiftRequest.StartTime.Format(time.RFC1123),
				Reason:    req.Reason,
			},
		})
	}

	h.successResponse(w, r, "shift request declined", shiftRequest)
}

func (h *Handler) CancelShiftRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comment string `json:"comment"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shiftRequest := r.Context().Value(ShiftRequestCtx).(*domain.ShiftRequest)

	if err := workflow.Cancel(shiftRequest, myInfo, req.Comment, time.Now()); err != nil {
		h.appError(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftRequest(shiftRequest); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindConflict, "shift request was modified concurrently, please retry"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "shift request cancelled", shiftRequest)
}

func (h *Handler) GetShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shiftRequest := r.Context().Value(ShiftRequestCtx).(*domain.ShiftRequest)

	switch myInfo.Role {
	case domain.RoleAdmin:
	case domain.RoleParticipant:
		if shiftRequest.ParticipantUserID != myInfo.ID {
			h.appError(w, r, apperrors.New(apperrors.KindForbidden, "not your shift request"))
			return
		}
	case domain.RoleTrainer:
		trainer, err := h.repository.GetTrainerByUserID(myInfo.ID)
		if err != nil || shiftRequest.AssignedTrainerID == nil || *shiftRequest.AssignedTrainerID != trainer.ID {
			h.appError(w, r, apperrors.New(apperrors.KindForbidden, "not your shift request"))
			return
		}
	}

	h.successResponse(w, r, "ok", shiftRequest)
}

func (h *Handler) ListShiftRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	page, limit := parsePagination(r)

	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = "createdAt"
	}
	if sortKey != "createdAt" && sortKey != "start" {
		h.appError(w, r, apperrors.New(apperrors.KindValidation, "sort must be createdAt or start").
			WithField("sort", "must be createdAt or start"))
		return
	}

	filter := repository.ShiftRequestFilter{
		SortKey:  sortKey,
		SortDesc: r.URL.Query().Get("order") != "asc",
		Page:     page,
		Limit:    limit,
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.ShiftRequestStatus(statusParam)
		filter.Status = &status
	}

	switch myInfo.Role {
	case domain.RoleAdmin:
		if participantID := r.URL.Query().Get("participantID"); participantID != "" {
			filter.ParticipantUserID = &participantID
		}
		if trainerID := r.URL.Query().Get("trainerID"); trainerID != "" {
			filter.AssignedTrainerID = &trainerID
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
		filter.AssignedTrainerID = &trainer.ID
	default:
		filter.ParticipantUserID = &myInfo.ID
	}

	requests, total, err := h.repository.ListShiftRequests(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", newListResult(requests, page, limit, total))
}
