package domain

import "time"

// Participant is the care-recipient profile attached to a user with RoleParticipant.
type Participant struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userID"`
	CareNotes string    `json:"careNotes"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
