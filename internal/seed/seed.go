package seed

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
	"github.com/Naveedahmedtech/OLO-Backend/internal/repository"
)

type demoUser struct {
	email    string
	fullName string
	role     domain.Role
	status   domain.UserStatus

	// trainer-only
	trainerStatus domain.TrainerStatus
	bio           string

	// participant-only
	careNotes string
}

var demoUsers = []demoUser{
	{
		email:         "lena.trainer@example.com",
		fullName:      "Lena de Vries",
		role:          domain.RoleTrainer,
		status:        domain.UserStatusActive,
		trainerStatus: domain.TrainerStatusApproved,
		bio:           "Senior care trainer, ambulatory support and job coaching.",
	},
	{
		email:         "marco.trainer@example.com",
		fullName:      "Marco Jansen",
		role:          domain.RoleTrainer,
		status:        domain.UserStatusActive,
		trainerStatus: domain.TrainerStatusApproved,
		bio:           "Daytime activities and sports coaching.",
	},
	{
		email:         "yusuf.trainer@example.com",
		fullName:      "Yusuf Demir",
		role:          domain.RoleTrainer,
		status:        domain.UserStatusActive,
		trainerStatus: domain.TrainerStatusPending,
		bio:           "New hire, onboarding in progress.",
	},
	{
		email:     "sofia.participant@example.com",
		fullName:  "Sofia Bakker",
		role:      domain.RoleParticipant,
		status:    domain.UserStatusActive,
		careNotes: "Prefers morning appointments.",
	},
	{
		email:     "tim.participant@example.com",
		fullName:  "Tim van Dijk",
		role:      domain.RoleParticipant,
		status:    domain.UserStatusActive,
		careNotes: "Needs pickup from the day center.",
	},
}

// SeedDemoUsers inserts a fixed set of demo trainers and participants, with
// their profile documents. Existing emails are skipped so the seeder can be
// re-run.
func SeedDemoUsers(repo *repository.Repository, password string) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		return
	}

	inserted := 0
	for _, du := range demoUsers {
		user := &domain.User{
			ID:           uuid.NewString(),
			Email:        du.email,
			PasswordHash: string(passwordHash),
			FullName:     du.fullName,
			Role:         du.role,
			Status:       du.status,
		}
		if err := repo.CreateUser(user); err != nil {
			if repository.IsUniqueViolation(err, repository.ConstraintUsersEmail) {
				slog.Info("user already seeded, skipping", "email", du.email)
				continue
			}
			slog.Error("failed to insert user", "email", du.email, "error", err)
			continue
		}

		switch du.role {
		case domain.RoleTrainer:
			trainer := &domain.Trainer{
				ID:     uuid.NewString(),
				UserID: user.ID,
				Status: du.trainerStatus,
				Bio:    du.bio,
			}
			if err := repo.CreateTrainer(trainer); err != nil {
				slog.Error("failed to insert trainer profile", "email", du.email, "error", err)
				continue
			}
		case domain.RoleParticipant:
			participant := &domain.Participant{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				CareNotes: du.careNotes,
			}
			if err := repo.CreateParticipant(participant); err != nil {
				slog.Error("failed to insert participant profile", "email", du.email, "error", err)
				continue
			}
		}

		inserted++
	}

	slog.Info("demo users seeded", "count", inserted)
}

// SeedDemoShiftRequests inserts n pending requests for the seeded
// participants, spread over the next two weeks.
func SeedDemoShiftRequests(repo *repository.Repository, n int) {
	participants := make([]*domain.User, 0)
	for _, du := range demoUsers {
		if du.role != domain.RoleParticipant {
			continue
		}
		user, err := repo.GetUserByEmail(du.email)
		if err != nil {
			slog.Error("seeded participant not found, run the user seeder first", "email", du.email, "error", err)
			return
		}
		participants = append(participants, user)
	}
	if len(participants) == 0 {
		slog.Error("no seeded participants found")
		return
	}

	services := []string{"ambulatory support", "day activities", "sports coaching"}

	inserted := 0
	for i := 0; i < n; i++ {
		participant := participants[i%len(participants)]
		start := time.Now().Truncate(time.Hour).Add(time.Duration(24+i*12) * time.Hour)

		req := &domain.ShiftRequest{
			ID:                  uuid.NewString(),
			ParticipantUserID:   participant.ID,
			RequestedBy:         participant.ID,
			Service:             services[i%len(services)],
			StartTime:           start,
			EndTime:             start.Add(2 * time.Hour),
			Notes:               fmt.Sprintf("demo request %d", i+1),
			PreferredTrainerIDs: []string{},
			Status:              domain.ShiftRequestStatusPendingAdmin,
		}
		if err := repo.CreateShiftRequest(req); err != nil {
			slog.Error("failed to insert shift request", "error", err)
			continue
		}
		inserted++
	}

	slog.Info("demo shift requests seeded", "count", inserted)
}
