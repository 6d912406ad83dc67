// Package billing is the pure computation core behind timesheets: week
// bucketing, billable-minute derivation, cents rounding, item construction
// and totals recomputation. Nothing here touches storage.
package billing

import (
	"math"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

// WeekBounds returns the billing week containing t: Monday 00:00:00 UTC
// through Sunday 23:59:59.999 UTC.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()

	// time.Weekday counts Sunday as 0; shift so Monday is day 0.
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)

	return start, end
}

// BillableMinutes derives the paid duration from the scheduled window. Pay
// reflects what was scheduled and approved, not what was actually worked.
func BillableMinutes(scheduledStart, scheduledEnd time.Time) int32 {
	return int32(scheduledEnd.Sub(scheduledStart) / time.Minute)
}

// CapClockOut caps the audited clock-out time to the scheduled end so late
// clock-outs never inflate the audited duration.
func CapClockOut(now, scheduledEnd time.Time) time.Time {
	if now.After(scheduledEnd) {
		return scheduledEnd
	}
	return now
}

// AmountCents is round(minutes/60 × hourlyRateCents).
func AmountCents(minutes int32, hourlyRateCents int64) int64 {
	return int64(math.Round(float64(minutes) / 60 * float64(hourlyRateCents)))
}

// MileageCents is round(km × kmRateCents).
func MileageCents(km float64, kmRateCents int64) int64 {
	return int64(math.Round(km * float64(kmRateCents)))
}

// BuildItem computes a full timesheet line for one shift. The date anchors
// the line to the day the service was rendered, i.e. the scheduled end.
func BuildItem(shift *domain.Shift, service string, minutes int32, km float64, rates Rates) domain.TimesheetItem {
	amount := AmountCents(minutes, rates.HourlyRateCents)
	mileage := MileageCents(km, rates.KmRateCents)

	return domain.TimesheetItem{
		ShiftID:           shift.ID,
		ParticipantUserID: shift.ParticipantUserID,
		Service:           service,
		Date:              shift.ScheduledEnd,
		Minutes:           minutes,
		Hours:             float64(minutes) / 60,
		Km:                km,
		HourlyRateCents:   rates.HourlyRateCents,
		KmRateCents:       rates.KmRateCents,
		AmountCents:       amount,
		MileageCents:      mileage,
		TotalCents:        amount + mileage,
	}
}

// UpsertItem replaces the line keyed by the item's shift id, or appends it if
// no such line exists. Re-running a clock-out for the same shift therefore
// never duplicates a line.
func UpsertItem(ts *domain.Timesheet, item domain.TimesheetItem) {
	for i := range ts.Items {
		if ts.Items[i].ShiftID == item.ShiftID {
			ts.Items[i] = item
			return
		}
	}
	ts.Items = append(ts.Items, item)
}

// RecomputeTotals backfills legacy items missing Hours and rewrites the totals
// as an exact sum over the current items.
func RecomputeTotals(ts *domain.Timesheet) {
	totals := domain.TimesheetTotals{}

	for i := range ts.Items {
		item := &ts.Items[i]
		if item.Hours == 0 && item.Minutes != 0 {
			item.Hours = float64(item.Minutes) / 60
		}

		totals.Hours += item.Hours
		totals.Km += item.Km
		totals.AmountCents += item.AmountCents
		totals.MileageCents += item.MileageCents
		totals.TotalCents += item.TotalCents
	}

	ts.Totals = totals
}
