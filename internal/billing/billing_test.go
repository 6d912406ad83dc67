package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

func TestWeekBounds(t *testing.T) {
	t.Run("mid-week", func(t *testing.T) {
		// Wednesday 2026-01-07
		start, end := WeekBounds(time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 1, 11, 23, 59, 59, 999000000, time.UTC), end)
	})

	t.Run("monday midnight stays in its own week", func(t *testing.T) {
		monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		start, _ := WeekBounds(monday)
		assert.Equal(t, monday, start)
	})

	t.Run("sunday belongs to the preceding monday", func(t *testing.T) {
		start, end := WeekBounds(time.Date(2026, 1, 11, 23, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), start)
		assert.True(t, end.After(time.Date(2026, 1, 11, 23, 0, 0, 0, time.UTC)))
	})

	t.Run("non-UTC input is bucketed in UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		// Monday 01:00 UTC+2 is Sunday 23:00 UTC
		start, _ := WeekBounds(time.Date(2026, 1, 5, 1, 0, 0, 0, loc))
		assert.Equal(t, time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), start)
	})
}

func TestBillableMinutes(t *testing.T) {
	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, int32(120), BillableMinutes(start, start.Add(2*time.Hour)))
	assert.Equal(t, int32(90), BillableMinutes(start, start.Add(90*time.Minute)))
	// partial minutes truncate
	assert.Equal(t, int32(30), BillableMinutes(start, start.Add(30*time.Minute+45*time.Second)))
}

func TestCapClockOut(t *testing.T) {
	scheduledEnd := time.Date(2026, 1, 7, 11, 0, 0, 0, time.UTC)

	t.Run("late clock-out is capped to the scheduled end", func(t *testing.T) {
		late := scheduledEnd.Add(20 * time.Minute)
		assert.Equal(t, scheduledEnd, CapClockOut(late, scheduledEnd))
	})

	t.Run("early clock-out is kept as-is", func(t *testing.T) {
		early := scheduledEnd.Add(-10 * time.Minute)
		assert.Equal(t, early, CapClockOut(early, scheduledEnd))
	})
}

func TestAmountCents(t *testing.T) {
	assert.Equal(t, int64(9000), AmountCents(120, 4500))
	assert.Equal(t, int64(6750), AmountCents(90, 4500))
	// 100 minutes at 45.00/h is 7500.0 exactly
	assert.Equal(t, int64(7500), AmountCents(100, 4500))
	// 50 minutes at 47.50/h is 3958.33..., rounds down
	assert.Equal(t, int64(3958), AmountCents(50, 4750))
	// 70 minutes at 47.50/h is 5541.66..., rounds up
	assert.Equal(t, int64(5542), AmountCents(70, 4750))
}

func TestMileageCents(t *testing.T) {
	assert.Equal(t, int64(420), MileageCents(12, 35))
	assert.Equal(t, int64(0), MileageCents(0, 35))
	// 12.3 km at 0.35/km is 430.5, rounds half away from zero
	assert.Equal(t, int64(431), MileageCents(12.3, 35))
}

func TestBuildItem(t *testing.T) {
	shift := &domain.Shift{
		ID:                "shift-1",
		ParticipantUserID: "participant-1",
		ScheduledStart:    time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC),
		ScheduledEnd:      time.Date(2026, 1, 7, 11, 0, 0, 0, time.UTC),
	}
	rates := Rates{HourlyRateCents: 4500, KmRateCents: 35}

	item := BuildItem(shift, "ambulatory support", 120, 12, rates)

	assert.Equal(t, "shift-1", item.ShiftID)
	assert.Equal(t, "participant-1", item.ParticipantUserID)
	assert.Equal(t, shift.ScheduledEnd, item.Date)
	assert.Equal(t, int32(120), item.Minutes)
	assert.Equal(t, 2.0, item.Hours)
	assert.Equal(t, int64(9000), item.AmountCents)
	assert.Equal(t, int64(420), item.MileageCents)
	assert.Equal(t, int64(9420), item.TotalCents)
}

func TestUpsertItem(t *testing.T) {
	ts := &domain.Timesheet{}

	UpsertItem(ts, domain.TimesheetItem{ShiftID: "a", Minutes: 60})
	UpsertItem(ts, domain.TimesheetItem{ShiftID: "b", Minutes: 90})
	require.Len(t, ts.Items, 2)

	// re-upserting the same shift replaces the line instead of duplicating it
	UpsertItem(ts, domain.TimesheetItem{ShiftID: "a", Minutes: 120})
	require.Len(t, ts.Items, 2)
	assert.Equal(t, int32(120), ts.Items[0].Minutes)
	assert.Equal(t, "b", ts.Items[1].ShiftID)
}

func TestUpsertItemAfterReload(t *testing.T) {
	// a clock-out that loses the version race re-applies its line onto the
	// freshly loaded document; the line must land exactly once and the totals
	// must cover both writers
	item := domain.TimesheetItem{ShiftID: "a", Minutes: 120, Hours: 2, AmountCents: 9000, TotalCents: 9000}

	ts := &domain.Timesheet{}
	UpsertItem(ts, item)
	RecomputeTotals(ts)
	require.Len(t, ts.Items, 1)

	reloaded := &domain.Timesheet{
		Items: []domain.TimesheetItem{
			{ShiftID: "b", Minutes: 60, Hours: 1, AmountCents: 4500, TotalCents: 4500},
		},
	}
	UpsertItem(reloaded, item)
	RecomputeTotals(reloaded)

	require.Len(t, reloaded.Items, 2)
	assert.Equal(t, 3.0, reloaded.Totals.Hours)
	assert.Equal(t, int64(13500), reloaded.Totals.TotalCents)

	// re-applying a second time changes nothing
	UpsertItem(reloaded, item)
	RecomputeTotals(reloaded)
	require.Len(t, reloaded.Items, 2)
	assert.Equal(t, int64(13500), reloaded.Totals.TotalCents)
}

func TestRecomputeTotals(t *testing.T) {
	t.Run("totals are the exact sum of the items", func(t *testing.T) {
		ts := &domain.Timesheet{
			Items: []domain.TimesheetItem{
				{ShiftID: "a", Minutes: 120, Hours: 2, Km: 12, AmountCents: 9000, MileageCents: 420, TotalCents: 9420},
				{ShiftID: "b", Minutes: 90, Hours: 1.5, Km: 0, AmountCents: 6750, MileageCents: 0, TotalCents: 6750},
			},
		}

		RecomputeTotals(ts)

		assert.Equal(t, 3.5, ts.Totals.Hours)
		assert.Equal(t, 12.0, ts.Totals.Km)
		assert.Equal(t, int64(15750), ts.Totals.AmountCents)
		assert.Equal(t, int64(420), ts.Totals.MileageCents)
		assert.Equal(t, int64(16170), ts.Totals.TotalCents)
	})

	t.Run("legacy items missing hours are backfilled from minutes", func(t *testing.T) {
		ts := &domain.Timesheet{
			Items: []domain.TimesheetItem{
				{ShiftID: "a", Minutes: 90},
			},
		}

		RecomputeTotals(ts)

		assert.Equal(t, 1.5, ts.Items[0].Hours)
		assert.Equal(t, 1.5, ts.Totals.Hours)
	})

	t.Run("recompute after upsert keeps totals in sync", func(t *testing.T) {
		ts := &domain.Timesheet{}

		UpsertItem(ts, domain.TimesheetItem{ShiftID: "a", Hours: 2, AmountCents: 9000, TotalCents: 9000})
		RecomputeTotals(ts)
		assert.Equal(t, int64(9000), ts.Totals.TotalCents)

		UpsertItem(ts, domain.TimesheetItem{ShiftID: "a", Hours: 1, AmountCents: 4500, TotalCents: 4500})
		RecomputeTotals(ts)
		assert.Equal(t, int64(4500), ts.Totals.TotalCents)
		assert.Equal(t, 1.0, ts.Totals.Hours)
	})

	t.Run("empty timesheet gets zero totals", func(t *testing.T) {
		ts := &domain.Timesheet{Totals: domain.TimesheetTotals{TotalCents: 999}}
		RecomputeTotals(ts)
		assert.Equal(t, domain.TimesheetTotals{}, ts.Totals)
	})
}
