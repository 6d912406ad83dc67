package domain

import "time"

type TimesheetStatus string

const (
	TimesheetStatusDraft     TimesheetStatus = "DRAFT"
	TimesheetStatusSubmitted TimesheetStatus = "SUBMITTED"
	TimesheetStatusApproved  TimesheetStatus = "APPROVED"
	TimesheetStatusPaid      TimesheetStatus = "PAID"
	TimesheetStatusReopened  TimesheetStatus = "REOPENED"
)

// TimesheetItem is one billable line, keyed by ShiftID so that re-running a
// clock-out replaces the line instead of duplicating it. Hours is stored
// redundantly alongside Minutes for schema compatibility; older records may
// carry Minutes only.
type TimesheetItem struct {
	ShiftID           string    `json:"shiftID"`
	ParticipantUserID string    `json:"participantUserID"`
	Service           string    `json:"service"`
	Date              time.Time `json:"date"`
	Minutes           int32     `json:"minutes"`
	Hours             float64   `json:"hours"`
	Km                float64   `json:"km"`
	HourlyRateCents   int64     `json:"hourlyRateCents"`
	KmRateCents       int64     `json:"kmRateCents"`
	AmountCents       int64     `json:"amountCents"`
	MileageCents      int64     `json:"mileageCents"`
	TotalCents        int64     `json:"totalCents"`
}

// TimesheetTotals is always a pure function of the current items; it is never
// mutated independently.
type TimesheetTotals struct {
	Hours        float64 `json:"hours"`
	Km           float64 `json:"km"`
	AmountCents  int64   `json:"amountCents"`
	MileageCents int64   `json:"mileageCents"`
	TotalCents   int64   `json:"totalCents"`
}

type TimesheetAuditEntry struct {
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}

// Timesheet is the weekly aggregate of a trainer's billable shifts, one per
// (trainer, ISO week). The week runs Monday 00:00 UTC through Sunday
// 23:59:59.999 UTC.
type Timesheet struct {
	ID        string                `json:"id"`
	TrainerID string                `json:"trainerID"`
	WeekStart time.Time             `json:"weekStart"`
	WeekEnd   time.Time             `json:"weekEnd"`
	Status    TimesheetStatus       `json:"status"`
	Items     []TimesheetItem       `json:"items"`
	Totals    TimesheetTotals       `json:"totals"`
	AuditLog  []TimesheetAuditEntry `json:"auditLog"`
	CreatedAt time.Time             `json:"createdAt"`
	Version   int32                 `json:"-"`
}
