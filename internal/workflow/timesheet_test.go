package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

func draftTimesheet() *domain.Timesheet {
	return &domain.Timesheet{
		ID:        "ts-1",
		TrainerID: trainerProfile.ID,
		WeekStart: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2026, 1, 11, 23, 59, 59, 999000000, time.UTC),
		Status:    domain.TimesheetStatusDraft,
	}
}

func TestSubmitTimesheet(t *testing.T) {
	t.Run("draft is submitted", func(t *testing.T) {
		ts := draftTimesheet()
		require.NoError(t, SubmitTimesheet(ts, trainerProfile))
		assert.Equal(t, domain.TimesheetStatusSubmitted, ts.Status)
	})

	t.Run("reopened timesheet can be resubmitted", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusReopened
		require.NoError(t, SubmitTimesheet(ts, trainerProfile))
		assert.Equal(t, domain.TimesheetStatusSubmitted, ts.Status)
	})

	t.Run("another trainer's timesheet is forbidden", func(t *testing.T) {
		ts := draftTimesheet()
		other := &domain.Trainer{ID: "trainer-9"}
		err := SubmitTimesheet(ts, other)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("approved timesheet cannot be submitted again", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusApproved
		err := SubmitTimesheet(ts, trainerProfile)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestApproveTimesheet(t *testing.T) {
	t.Run("submitted is approved", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusSubmitted
		require.NoError(t, ApproveTimesheet(ts))
		assert.Equal(t, domain.TimesheetStatusApproved, ts.Status)
	})

	t.Run("draft cannot be approved directly", func(t *testing.T) {
		ts := draftTimesheet()
		err := ApproveTimesheet(ts)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestReopenTimesheet(t *testing.T) {
	now := time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)

	t.Run("submitted reopen appends exactly one audit entry", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusSubmitted

		require.NoError(t, ReopenTimesheet(ts, adminUser, "km missing on Tuesday", now))

		assert.Equal(t, domain.TimesheetStatusReopened, ts.Status)
		require.Len(t, ts.AuditLog, 1)
		assert.Equal(t, adminUser.ID, ts.AuditLog[0].By)
		assert.Equal(t, now, ts.AuditLog[0].At)
		assert.Equal(t, "km missing on Tuesday", ts.AuditLog[0].Reason)
	})

	t.Run("approved timesheet can be reopened", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusApproved
		require.NoError(t, ReopenTimesheet(ts, adminUser, "rate correction", now))
		assert.Equal(t, domain.TimesheetStatusReopened, ts.Status)
	})

	t.Run("audit log grows across reopen cycles", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusSubmitted

		require.NoError(t, ReopenTimesheet(ts, adminUser, "first", now))
		require.NoError(t, SubmitTimesheet(ts, trainerProfile))
		require.NoError(t, ReopenTimesheet(ts, adminUser, "second", now.Add(time.Hour)))

		require.Len(t, ts.AuditLog, 2)
		assert.Equal(t, "first", ts.AuditLog[0].Reason)
		assert.Equal(t, "second", ts.AuditLog[1].Reason)
	})

	t.Run("draft cannot be reopened", func(t *testing.T) {
		ts := draftTimesheet()
		err := ReopenTimesheet(ts, adminUser, "nope", now)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestMarkTimesheetPaid(t *testing.T) {
	t.Run("approved is paid", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusApproved
		require.NoError(t, MarkTimesheetPaid(ts))
		assert.Equal(t, domain.TimesheetStatusPaid, ts.Status)
	})

	t.Run("submitted cannot be paid", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Status = domain.TimesheetStatusSubmitted
		err := MarkTimesheetPaid(ts)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestBuildTimesheetExport(t *testing.T) {
	t.Run("csv export", func(t *testing.T) {
		ts := draftTimesheet()
		ts.Items = []domain.TimesheetItem{{ShiftID: "shift-1", Minutes: 120}}
		ts.Totals = domain.TimesheetTotals{Hours: 2}

		export, err := BuildTimesheetExport(ts, "Lena de Vries", "csv")
		require.NoError(t, err)

		assert.Equal(t, "csv", export.Format)
		assert.Equal(t, "ts-1", export.TimesheetID)
		assert.Equal(t, "Lena de Vries", export.TrainerName)
		assert.Equal(t, "2026-01-05", export.WeekStart)
		assert.Equal(t, "2026-01-11", export.WeekEnd)
		require.Len(t, export.Items, 1)
		assert.Equal(t, 2.0, export.Totals.Hours)
	})

	t.Run("nil items become an empty slice", func(t *testing.T) {
		export, err := BuildTimesheetExport(draftTimesheet(), "", "pdf")
		require.NoError(t, err)
		assert.NotNil(t, export.Items)
		assert.Empty(t, export.Items)
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		_, err := BuildTimesheetExport(draftTimesheet(), "", "xlsx")
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("empty format is rejected", func(t *testing.T) {
		_, err := BuildTimesheetExport(draftTimesheet(), "", "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}
