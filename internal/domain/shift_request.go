package domain

import "time"

type ShiftRequestStatus string

const (
	ShiftRequestStatusPendingAdmin ShiftRequestStatus = "PENDING_ADMIN"
	ShiftRequestStatusApproved     ShiftRequestStatus = "APPROVED"
	ShiftRequestStatusDeclined     ShiftRequestStatus = "DECLINED"
	ShiftRequestStatusInProgress   ShiftRequestStatus = "IN_PROGRESS"
	ShiftRequestStatusCompleted    ShiftRequestStatus = "COMPLETED"
	ShiftRequestStatusCancelled    ShiftRequestStatus = "CANCELLED"
)

// ShiftRequest is a participant's ask for care service during a time window.
// It stays APPROVED while the linked shift is running; LinkedShiftID is the
// signal that work has started.
type ShiftRequest struct {
	ID                  string             `json:"id"`
	ParticipantUserID   string             `json:"participantUserID"`
	RequestedBy         string             `json:"requestedBy"`
	Service             string             `json:"service"`
	StartTime           time.Time          `json:"startTime"`
	EndTime             time.Time          `json:"endTime"`
	Notes               string             `json:"notes"`
	PreferredTrainerIDs []string           `json:"preferredTrainerIDs"`
	Status              ShiftRequestStatus `json:"status"`
	AssignedTrainerID   *string            `json:"assignedTrainerID"`
	LinkedShiftID       *string            `json:"linkedShiftID"`
	AdminComment        *string            `json:"adminComment"`
	ApprovedBy          *string            `json:"approvedBy"`
	ApprovedAt          *time.Time         `json:"approvedAt"`
	CreatedAt           time.Time          `json:"createdAt"`
	Version             int32              `json:"-"`
}
