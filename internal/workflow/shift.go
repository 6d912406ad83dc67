package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/billing"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

// ClockIn builds the IN_PROGRESS shift for an approved request. A request
// whose linked shift is already running is rejected here; the storage layer
// additionally enforces single-running-shift with a partial unique index.
//
// PlannedClockOut is ActualClockIn plus the scheduled duration, so a late
// start never shortens the paid window.
func ClockIn(req *domain.ShiftRequest, trainer *domain.Trainer, now time.Time) (*domain.Shift, error) {
	if req.AssignedTrainerID == nil || *req.AssignedTrainerID != trainer.ID {
		return nil, apperrors.New(apperrors.KindForbidden, "shift request is not assigned to this trainer")
	}
	if req.Status != domain.ShiftRequestStatusApproved {
		return nil, apperrors.Newf(apperrors.KindConflict, "only approved requests can be started, current status is %s", req.Status)
	}
	if req.LinkedShiftID != nil {
		return nil, apperrors.New(apperrors.KindConflict, "a shift is already in progress for this request")
	}

	duration := billing.BillableMinutes(req.StartTime, req.EndTime)
	if duration <= 0 {
		// create-time validation makes this unreachable; guard anyway
		return nil, apperrors.New(apperrors.KindInternal, "shift request has a degenerate scheduled window")
	}

	return &domain.Shift{
		ID:                       uuid.NewString(),
		ShiftRequestID:           req.ID,
		ParticipantUserID:        req.ParticipantUserID,
		TrainerID:                trainer.ID,
		ScheduledStart:           req.StartTime,
		ScheduledEnd:             req.EndTime,
		ScheduledDurationMinutes: duration,
		ActualClockIn:            now,
		PlannedClockOut:          now.Add(time.Duration(duration) * time.Minute),
		Status:                   domain.ShiftStatusInProgress,
		CreatedAt:                now,
	}, nil
}

type ClockOutInput struct {
	Activities string
	Progress   string
	Incidents  string
	Km         float64
}

// ClockOut finalizes a running shift: the audited clock-out is capped to the
// scheduled end, billable minutes come strictly from the scheduled window,
// and the resolved rates are frozen onto the shift. Both the shift and its
// originating request move to COMPLETED.
func ClockOut(req *domain.ShiftRequest, shift *domain.Shift, trainer *domain.Trainer, in ClockOutInput, rates billing.Rates, source string, now time.Time) error {
	if req.AssignedTrainerID == nil || *req.AssignedTrainerID != trainer.ID {
		return apperrors.New(apperrors.KindForbidden, "shift request is not assigned to this trainer")
	}
	if shift.Status != domain.ShiftStatusInProgress {
		return apperrors.Newf(apperrors.KindConflict, "only shifts in status %s can be clocked out, current status is %s",
			domain.ShiftStatusInProgress, shift.Status)
	}

	actualClockOut := billing.CapClockOut(now, shift.ScheduledEnd)
	billableMinutes := billing.BillableMinutes(req.StartTime, req.EndTime)

	shift.ActualClockOut = &actualClockOut
	shift.Report = &domain.ShiftReport{
		Activities: in.Activities,
		Progress:   in.Progress,
		Incidents:  in.Incidents,
		Km:         in.Km,
	}
	shift.Billing = &domain.BillingSnapshot{
		BillableMinutes: billableMinutes,
		HourlyRateCents: rates.HourlyRateCents,
		KmRateCents:     rates.KmRateCents,
		Source:          source,
		ScheduledStart:  shift.ScheduledStart,
		ScheduledEnd:    shift.ScheduledEnd,
	}
	shift.Status = domain.ShiftStatusCompleted
	req.Status = domain.ShiftRequestStatusCompleted

	return nil
}

// NextShift resolves a trainer's next engagement: the soonest APPROVED future
// request, falling back to a live in-progress shift when nothing is upcoming.
// Either return value may be nil.
func NextShift(upcoming []*domain.ShiftRequest, active *domain.Shift, now time.Time) (*domain.ShiftRequest, *domain.Shift) {
	var next *domain.ShiftRequest
	for _, req := range upcoming {
		if req.Status != domain.ShiftRequestStatusApproved || !req.StartTime.After(now) {
			continue
		}
		if next == nil || req.StartTime.Before(next.StartTime) {
			next = req
		}
	}

	if next != nil {
		return next, nil
	}
	return nil, active
}
