package domain

import (
	"time"
)

type Role string

const (
	RoleParticipant Role = "PARTICIPANT"
	RoleTrainer     Role = "TRAINER"
	RoleAdmin       Role = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"fullName"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	Version      int32      `json:"-"`
}
