package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
	"github.com/Naveedahmedtech/OLO-Backend/internal/workflow"
)

// TrainerWithEligibility decorates a trainer profile with its user document
// and whether it can currently be assigned work.
type TrainerWithEligibility struct {
	*domain.Trainer
	User     *domain.User `json:"user"`
	Eligible bool         `json:"eligible"`
}

func (h *Handler) GetAllTrainers(w http.ResponseWriter, r *http.Request) {
	trainers, err := h.repository.GetAllTrainers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result := make([]TrainerWithEligibility, 0, len(trainers))
	for _, trainer := range trainers {
		entry := TrainerWithEligibility{Trainer: trainer}

		// tolerate a missing user document instead of failing the roster
		if user, err := h.repository.GetUserByID(trainer.UserID); err == nil {
			entry.User = user
			entry.Eligible = workflow.TrainerEligible(trainer, user) == nil
		}

		result = append(result, entry)
	}

	h.successResponse(w, r, "ok", result)
}

func (h *Handler) ApproveTrainerOnboarding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trainer, err := h.repository.GetTrainerByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindNotFound, "trainer not found"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if trainer.Status != domain.TrainerStatusPending {
		h.appError(w, r, apperrors.Newf(apperrors.KindConflict, "only trainers in status %s can be approved, current status is %s",
			domain.TrainerStatusPending, trainer.Status))
		return
	}

	trainer.Status = domain.TrainerStatusApproved
	if err := h.repository.UpdateTrainer(trainer); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.appError(w, r, apperrors.New(apperrors.KindConflict, "trainer was modified concurrently, please retry"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "trainer onboarding approved", trainer)
}
