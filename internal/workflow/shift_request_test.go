package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

var (
	testNow = time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC)

	adminUser       = &domain.User{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.UserStatusActive}
	participantUser = &domain.User{ID: "participant-1", Role: domain.RoleParticipant, Status: domain.UserStatusActive}
	trainerUser     = &domain.User{ID: "trainer-user-1", Role: domain.RoleTrainer, Status: domain.UserStatusActive}
	trainerProfile  = &domain.Trainer{ID: "trainer-1", UserID: "trainer-user-1", Status: domain.TrainerStatusApproved}
)

func validInput() CreateShiftRequestInput {
	return CreateShiftRequestInput{
		Service:   "ambulatory support",
		StartTime: testNow.Add(24 * time.Hour),
		EndTime:   testNow.Add(26 * time.Hour),
	}
}

func TestNewShiftRequest(t *testing.T) {
	t.Run("participant creates own request", func(t *testing.T) {
		req, err := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		require.NoError(t, err)

		assert.NotEmpty(t, req.ID)
		assert.Equal(t, domain.ShiftRequestStatusPendingAdmin, req.Status)
		assert.Equal(t, participantUser.ID, req.ParticipantUserID)
		assert.Equal(t, participantUser.ID, req.RequestedBy)
		assert.Nil(t, req.AssignedTrainerID)
	})

	t.Run("admin creates on behalf of a participant", func(t *testing.T) {
		req, err := NewShiftRequest(validInput(), adminUser, participantUser, testNow)
		require.NoError(t, err)
		assert.Equal(t, participantUser.ID, req.ParticipantUserID)
		assert.Equal(t, adminUser.ID, req.RequestedBy)
	})

	t.Run("participant cannot create for someone else", func(t *testing.T) {
		other := &domain.User{ID: "participant-2", Role: domain.RoleParticipant}
		_, err := NewShiftRequest(validInput(), participantUser, other, testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestValidateRequestWindow(t *testing.T) {
	t.Run("start must be before end", func(t *testing.T) {
		err := ValidateRequestWindow(testNow.Add(2*time.Hour), testNow.Add(time.Hour), testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("equal start and end is rejected", func(t *testing.T) {
		at := testNow.Add(time.Hour)
		err := ValidateRequestWindow(at, at, testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("end must not be in the past", func(t *testing.T) {
		err := ValidateRequestWindow(testNow.Add(-2*time.Hour), testNow.Add(-time.Hour), testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("window shorter than 30 minutes is rejected", func(t *testing.T) {
		err := ValidateRequestWindow(testNow.Add(time.Hour), testNow.Add(time.Hour+20*time.Minute), testNow)
		require.Error(t, err)

		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "endTime")
	})

	t.Run("exactly 30 minutes is accepted", func(t *testing.T) {
		err := ValidateRequestWindow(testNow.Add(time.Hour), testNow.Add(time.Hour+30*time.Minute), testNow)
		assert.NoError(t, err)
	})
}

func TestApproveAndAssign(t *testing.T) {
	t.Run("pending request is approved and assigned", func(t *testing.T) {
		req, err := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		require.NoError(t, err)

		require.NoError(t, ApproveAndAssign(req, trainerProfile, trainerUser, adminUser, testNow))

		assert.Equal(t, domain.ShiftRequestStatusApproved, req.Status)
		require.NotNil(t, req.AssignedTrainerID)
		assert.Equal(t, trainerProfile.ID, *req.AssignedTrainerID)
		require.NotNil(t, req.ApprovedBy)
		assert.Equal(t, adminUser.ID, *req.ApprovedBy)
		require.NotNil(t, req.ApprovedAt)
	})

	t.Run("second approval conflicts", func(t *testing.T) {
		req, _ := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		require.NoError(t, ApproveAndAssign(req, trainerProfile, trainerUser, adminUser, testNow))

		err := ApproveAndAssign(req, trainerProfile, trainerUser, adminUser, testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestTrainerEligible(t *testing.T) {
	t.Run("approved active trainer is eligible", func(t *testing.T) {
		assert.NoError(t, TrainerEligible(trainerProfile, trainerUser))
	})

	t.Run("non-trainer user", func(t *testing.T) {
		err := TrainerEligible(trainerProfile, participantUser)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("blocked user", func(t *testing.T) {
		blocked := &domain.User{ID: "trainer-user-1", Role: domain.RoleTrainer, Status: domain.UserStatusBlocked}
		err := TrainerEligible(trainerProfile, blocked)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("pending onboarding", func(t *testing.T) {
		pending := &domain.Trainer{ID: "trainer-2", UserID: "trainer-user-1", Status: domain.TrainerStatusPending}
		err := TrainerEligible(pending, trainerUser)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestDecline(t *testing.T) {
	t.Run("pending request is declined with reason", func(t *testing.T) {
		req, _ := NewShiftRequest(validInput(), participantUser, participantUser, testNow)

		require.NoError(t, Decline(req, adminUser, "no trainer available", testNow))

		assert.Equal(t, domain.ShiftRequestStatusDeclined, req.Status)
		require.NotNil(t, req.AdminComment)
		assert.Equal(t, "no trainer available", *req.AdminComment)
	})

	t.Run("approved request cannot be declined", func(t *testing.T) {
		req, _ := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		require.NoError(t, ApproveAndAssign(req, trainerProfile, trainerUser, adminUser, testNow))

		err := Decline(req, adminUser, "", testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestCancel(t *testing.T) {
	t.Run("pending request can be cancelled", func(t *testing.T) {
		req, _ := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		require.NoError(t, Cancel(req, adminUser, "participant sick", testNow))
		assert.Equal(t, domain.ShiftRequestStatusCancelled, req.Status)
	})

	t.Run("approved request can be cancelled before any shift starts", func(t *testing.T) {
		req, _ := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		require.NoError(t, ApproveAndAssign(req, trainerProfile, trainerUser, adminUser, testNow))

		require.NoError(t, Cancel(req, adminUser, "", testNow))
		assert.Equal(t, domain.ShiftRequestStatusCancelled, req.Status)
	})

	t.Run("approved request with a running shift cannot be cancelled", func(t *testing.T) {
		req, _ := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		require.NoError(t, ApproveAndAssign(req, trainerProfile, trainerUser, adminUser, testNow))
		shiftID := "shift-1"
		req.LinkedShiftID = &shiftID

		err := Cancel(req, adminUser, "", testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("completed request cannot be cancelled", func(t *testing.T) {
		req, _ := NewShiftRequest(validInput(), participantUser, participantUser, testNow)
		req.Status = domain.ShiftRequestStatusCompleted

		err := Cancel(req, adminUser, "", testNow)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}
