package repository

import (
	"context"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

func (r *Repository) CreateParticipant(participant *domain.Participant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO participants (id, user_id, care_notes)
		VALUES ($1, $2, $3)
		RETURNING created_at, version
	`

	args := []any{participant.ID, participant.UserID, participant.CareNotes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&participant.CreatedAt, &participant.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetParticipantByUserID(userID string) (*domain.Participant, error) {
	query := `
		SELECT id, care_notes, created_at, version
		FROM participants WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	participant := &domain.Participant{
		UserID: userID,
	}

	dst := []any{&participant.ID, &participant.CareNotes, &participant.CreatedAt, &participant.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return participant, nil
}
