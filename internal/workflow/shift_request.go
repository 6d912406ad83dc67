// Package workflow is the state-machine core of the shift lifecycle: request
// creation and admin decisions, trainer clock-in/out, and the timesheet
// submit/approve/reopen flow. Every function here works on already-loaded
// documents and returns typed errors; persistence stays with the caller.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

const MinShiftRequestDuration = 30 * time.Minute

type CreateShiftRequestInput struct {
	Service             string
	StartTime           time.Time
	EndTime             time.Time
	Notes               string
	PreferredTrainerIDs []string
}

// ValidateRequestWindow enforces the creation-time invariants on a requested
// window: start before end, end not in the past, at least 30 minutes long.
func ValidateRequestWindow(start, end, now time.Time) error {
	if !start.Before(end) {
		return apperrors.New(apperrors.KindValidation, "start time must be before end time").
			WithField("startTime", "must be before end time")
	}
	if end.Before(now) {
		return apperrors.New(apperrors.KindValidation, "end time must not be in the past").
			WithField("endTime", "must not be in the past")
	}
	if end.Sub(start) < MinShiftRequestDuration {
		return apperrors.New(apperrors.KindValidation, "shift must be at least 30 minutes long").
			WithField("endTime", "window shorter than 30 minutes")
	}
	return nil
}

// NewShiftRequest builds a PENDING_ADMIN request. Admins may create on behalf
// of any participant; any other requester must be the participant themselves.
func NewShiftRequest(in CreateShiftRequestInput, requestedBy *domain.User, participant *domain.User, now time.Time) (*domain.ShiftRequest, error) {
	if requestedBy.Role != domain.RoleAdmin && requestedBy.ID != participant.ID {
		return nil, apperrors.New(apperrors.KindForbidden, "cannot create a shift request for another participant")
	}
	if err := ValidateRequestWindow(in.StartTime, in.EndTime, now); err != nil {
		return nil, err
	}

	return &domain.ShiftRequest{
		ID:                  uuid.NewString(),
		ParticipantUserID:   participant.ID,
		RequestedBy:         requestedBy.ID,
		Service:             in.Service,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		Notes:               in.Notes,
		PreferredTrainerIDs: in.PreferredTrainerIDs,
		Status:              domain.ShiftRequestStatusPendingAdmin,
		CreatedAt:           now,
	}, nil
}

// TrainerEligible checks that the trainer may be assigned work: role TRAINER,
// user not blocked, onboarding not pending.
func TrainerEligible(trainer *domain.Trainer, trainerUser *domain.User) error {
	if trainerUser.Role != domain.RoleTrainer {
		return apperrors.New(apperrors.KindValidation, "user is not a trainer and not eligible for assignment")
	}
	if trainerUser.Status == domain.UserStatusBlocked {
		return apperrors.New(apperrors.KindValidation, "trainer is blocked and not eligible for assignment")
	}
	if trainer.Status == domain.TrainerStatusPending {
		return apperrors.New(apperrors.KindValidation, "trainer onboarding is pending, not eligible for assignment")
	}
	return nil
}

// ApproveAndAssign moves a request PENDING_ADMIN -> APPROVED and assigns the
// trainer.
func ApproveAndAssign(req *domain.ShiftRequest, trainer *domain.Trainer, trainerUser *domain.User, admin *domain.User, now time.Time) error {
	if req.Status != domain.ShiftRequestStatusPendingAdmin {
		return apperrors.Newf(apperrors.KindConflict, "only requests in status %s can be approved, current status is %s",
			domain.ShiftRequestStatusPendingAdmin, req.Status)
	}
	if err := TrainerEligible(trainer, trainerUser); err != nil {
		return err
	}

	req.Status = domain.ShiftRequestStatusApproved
	req.AssignedTrainerID = &trainer.ID
	req.ApprovedBy = &admin.ID
	req.ApprovedAt = &now

	return nil
}

// Decline moves a request PENDING_ADMIN -> DECLINED with the admin's reason.
func Decline(req *domain.ShiftRequest, admin *domain.User, reason string, now time.Time) error {
	if req.Status != domain.ShiftRequestStatusPendingAdmin {
		return apperrors.Newf(apperrors.KindConflict, "only requests in status %s can be declined, current status is %s",
			domain.ShiftRequestStatusPendingAdmin, req.Status)
	}

	req.Status = domain.ShiftRequestStatusDeclined
	req.ApprovedBy = &admin.ID
	req.ApprovedAt = &now
	if reason != "" {
		req.AdminComment = &reason
	}

	return nil
}

// Cancel is the administrative cancellation path. It is legal from
// PENDING_ADMIN, or from APPROVED as long as no shift has started.
func Cancel(req *domain.ShiftRequest, admin *domain.User, comment string, now time.Time) error {
	switch req.Status {
	case domain.ShiftRequestStatusPendingAdmin:
	case domain.ShiftRequestStatusApproved:
		if req.LinkedShiftID != nil {
			return apperrors.New(apperrors.KindConflict, "cannot cancel a request whose shift has already started")
		}
	default:
		return apperrors.Newf(apperrors.KindConflict, "only requests in status %s or %s can be cancelled, current status is %s",
			domain.ShiftRequestStatusPendingAdmin, domain.ShiftRequestStatusApproved, req.Status)
	}

	req.Status = domain.ShiftRequestStatusCancelled
	req.ApprovedBy = &admin.ID
	req.ApprovedAt = &now
	if comment != "" {
		req.AdminComment = &comment
	}

	return nil
}
