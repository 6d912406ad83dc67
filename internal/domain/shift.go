package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusInProgress ShiftStatus = "IN_PROGRESS"
	ShiftStatusCompleted  ShiftStatus = "COMPLETED"
	ShiftStatusCancelled  ShiftStatus = "CANCELLED"
)

// ShiftReport is the trainer's free-text account of the session, recorded at
// clock-out.
type ShiftReport struct {
	Activities string  `json:"activities"`
	Progress   string  `json:"progress"`
	Incidents  string  `json:"incidents"`
	Km         float64 `json:"km"`
}

// BillingSnapshot freezes the rates and the scheduled window onto a shift at
// clock-out so later rate changes never alter historical billing.
type BillingSnapshot struct {
	BillableMinutes int32     `json:"billableMinutes"`
	HourlyRateCents int64     `json:"hourlyRateCents"`
	KmRateCents     int64     `json:"kmRateCents"`
	Source          string    `json:"source"`
	ScheduledStart  time.Time `json:"scheduledStart"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
}

// Shift is one actual work session. The scheduled window is copied from the
// originating request at clock-in time; billing is computed from that window,
// not from the actual clock timestamps.
type Shift struct {
	ID                       string           `json:"id"`
	ShiftRequestID           string           `json:"shiftRequestID"`
	ParticipantUserID        string           `json:"participantUserID"`
	TrainerID                string           `json:"trainerID"`
	ScheduledStart           time.Time        `json:"scheduledStart"`
	ScheduledEnd             time.Time        `json:"scheduledEnd"`
	ScheduledDurationMinutes int32            `json:"scheduledDurationMinutes"`
	ActualClockIn            time.Time        `json:"actualClockIn"`
	PlannedClockOut          time.Time        `json:"plannedClockOut"`
	ActualClockOut           *time.Time       `json:"actualClockOut"`
	Status                   ShiftStatus      `json:"status"`
	Report                   *ShiftReport     `json:"report"`
	Billing                  *BillingSnapshot `json:"billing"`
	CreatedAt                time.Time        `json:"createdAt"`
	Version                  int32            `json:"-"`
}
