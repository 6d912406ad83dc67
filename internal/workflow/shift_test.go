package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/billing"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

func approvedRequest(t *testing.T, start, end time.Time) *domain.ShiftRequest {
	t.Helper()

	req, err := NewShiftRequest(CreateShiftRequestInput{
		Service:   "ambulatory support",
		StartTime: start,
		EndTime:   end,
	}, participantUser, participantUser, start.Add(-24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, ApproveAndAssign(req, trainerProfile, trainerUser, adminUser, start.Add(-time.Hour)))

	return req
}

func TestClockIn(t *testing.T) {
	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	t.Run("assigned trainer starts the shift", func(t *testing.T) {
		req := approvedRequest(t, start, end)
		clockIn := start.Add(15 * time.Minute)

		shift, err := ClockIn(req, trainerProfile, clockIn)
		require.NoError(t, err)

		assert.Equal(t, domain.ShiftStatusInProgress, shift.Status)
		assert.Equal(t, req.ID, shift.ShiftRequestID)
		assert.Equal(t, req.ParticipantUserID, shift.ParticipantUserID)
		assert.Equal(t, start, shift.ScheduledStart)
		assert.Equal(t, end, shift.ScheduledEnd)
		assert.Equal(t, int32(120), shift.ScheduledDurationMinutes)
		assert.Equal(t, clockIn, shift.ActualClockIn)
		// a late start keeps the full paid window
		assert.Equal(t, clockIn.Add(2*time.Hour), shift.PlannedClockOut)
	})

	t.Run("unassigned trainer is forbidden", func(t *testing.T) {
		req := approvedRequest(t, start, end)
		other := &domain.Trainer{ID: "trainer-9", UserID: "trainer-user-9", Status: domain.TrainerStatusApproved}

		_, err := ClockIn(req, other, start)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("second clock-in while a shift is running conflicts", func(t *testing.T) {
		req := approvedRequest(t, start, end)
		shift, err := ClockIn(req, trainerProfile, start)
		require.NoError(t, err)
		req.LinkedShiftID = &shift.ID

		_, err = ClockIn(req, trainerProfile, start.Add(5*time.Minute))
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("pending request cannot be started", func(t *testing.T) {
		req := approvedRequest(t, start, end)
		req.Status = domain.ShiftRequestStatusPendingAdmin

		_, err := ClockIn(req, trainerProfile, start)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("completed request cannot be restarted", func(t *testing.T) {
		req := approvedRequest(t, start, end)
		req.Status = domain.ShiftRequestStatusCompleted

		_, err := ClockIn(req, trainerProfile, start)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestClockOut(t *testing.T) {
	rates := billing.Rates{HourlyRateCents: 4500, KmRateCents: 35}

	t.Run("full scheduled lifecycle", func(t *testing.T) {
		// scheduled 09:00-11:00, clock-in 09:15, clock-out attempt 11:20
		start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
		end := time.Date(2026, 1, 7, 11, 0, 0, 0, time.UTC)
		req := approvedRequest(t, start, end)

		shift, err := ClockIn(req, trainerProfile, start.Add(15*time.Minute))
		require.NoError(t, err)

		clockOut := end.Add(20 * time.Minute)
		require.NoError(t, ClockOut(req, shift, trainerProfile, ClockOutInput{
			Activities: "walk in the park",
			Km:         12,
		}, rates, "fixed", clockOut))

		assert.Equal(t, domain.ShiftStatusCompleted, shift.Status)
		assert.Equal(t, domain.ShiftRequestStatusCompleted, req.Status)

		// late clock-out is capped to the scheduled end
		require.NotNil(t, shift.ActualClockOut)
		assert.Equal(t, end, *shift.ActualClockOut)

		// pay comes from the scheduled window, not the actual times
		require.NotNil(t, shift.Billing)
		assert.Equal(t, int32(120), shift.Billing.BillableMinutes)
		assert.Equal(t, int64(4500), shift.Billing.HourlyRateCents)
		assert.Equal(t, int64(35), shift.Billing.KmRateCents)
		assert.Equal(t, "fixed", shift.Billing.Source)

		require.NotNil(t, shift.Report)
		assert.Equal(t, 12.0, shift.Report.Km)

		// the timesheet line derived from this shift
		item := billing.BuildItem(shift, req.Service, shift.Billing.BillableMinutes, shift.Report.Km, rates)
		assert.Equal(t, 2.0, item.Hours)
		assert.Equal(t, int64(9000), item.AmountCents)
		assert.Equal(t, int64(420), item.MileageCents)
		assert.Equal(t, int64(9420), item.TotalCents)
	})

	t.Run("early clock-out keeps the actual time but full pay", func(t *testing.T) {
		start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
		end := start.Add(time.Hour)
		req := approvedRequest(t, start, end)

		shift, err := ClockIn(req, trainerProfile, start)
		require.NoError(t, err)

		early := end.Add(-15 * time.Minute)
		require.NoError(t, ClockOut(req, shift, trainerProfile, ClockOutInput{}, rates, "fixed", early))

		assert.Equal(t, early, *shift.ActualClockOut)
		assert.Equal(t, int32(60), shift.Billing.BillableMinutes)
	})

	t.Run("unassigned trainer is forbidden", func(t *testing.T) {
		start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
		req := approvedRequest(t, start, start.Add(time.Hour))
		shift, err := ClockIn(req, trainerProfile, start)
		require.NoError(t, err)

		other := &domain.Trainer{ID: "trainer-9", UserID: "trainer-user-9", Status: domain.TrainerStatusApproved}
		err = ClockOut(req, shift, other, ClockOutInput{}, rates, "fixed", start.Add(time.Hour))
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("double clock-out conflicts", func(t *testing.T) {
		start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
		req := approvedRequest(t, start, start.Add(time.Hour))
		shift, err := ClockIn(req, trainerProfile, start)
		require.NoError(t, err)

		require.NoError(t, ClockOut(req, shift, trainerProfile, ClockOutInput{}, rates, "fixed", start.Add(time.Hour)))
		err = ClockOut(req, shift, trainerProfile, ClockOutInput{}, rates, "fixed", start.Add(time.Hour))
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestNextShift(t *testing.T) {
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	active := &domain.Shift{ID: "shift-active", Status: domain.ShiftStatusInProgress}

	t.Run("soonest future approved request wins", func(t *testing.T) {
		later := &domain.ShiftRequest{ID: "r1", Status: domain.ShiftRequestStatusApproved, StartTime: now.Add(48 * time.Hour)}
		sooner := &domain.ShiftRequest{ID: "r2", Status: domain.ShiftRequestStatusApproved, StartTime: now.Add(2 * time.Hour)}

		next, shift := NextShift([]*domain.ShiftRequest{later, sooner}, active, now)
		require.NotNil(t, next)
		assert.Equal(t, "r2", next.ID)
		assert.Nil(t, shift)
	})

	t.Run("falls back to the active shift", func(t *testing.T) {
		past := &domain.ShiftRequest{ID: "r1", Status: domain.ShiftRequestStatusApproved, StartTime: now.Add(-time.Hour)}

		next, shift := NextShift([]*domain.ShiftRequest{past}, active, now)
		assert.Nil(t, next)
		require.NotNil(t, shift)
		assert.Equal(t, "shift-active", shift.ID)
	})

	t.Run("nothing upcoming and nothing active", func(t *testing.T) {
		next, shift := NextShift(nil, nil, now)
		assert.Nil(t, next)
		assert.Nil(t, shift)
	})
}
