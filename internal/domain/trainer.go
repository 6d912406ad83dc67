package domain

import "time"

type TrainerStatus string

const (
	TrainerStatusPending  TrainerStatus = "PENDING"
	TrainerStatusApproved TrainerStatus = "APPROVED"
	TrainerStatusRejected TrainerStatus = "REJECTED"
)

// Trainer is the care-worker profile attached to a user with RoleTrainer.
// A trainer is assignable only after onboarding has been approved.
type Trainer struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userID"`
	Status    TrainerStatus `json:"status"`
	Bio       string        `json:"bio"`
	CreatedAt time.Time     `json:"createdAt"`
	Version   int32         `json:"-"`
}
