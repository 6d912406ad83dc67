package repository

import (
	"context"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

func (r *Repository) CreateTrainer(trainer *domain.Trainer) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO trainers (id, user_id, status, bio)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, version
	`

	args := []any{trainer.ID, trainer.UserID, trainer.Status, trainer.Bio}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&trainer.CreatedAt, &trainer.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTrainerByID(id string) (*domain.Trainer, error) {
	query := `
		SELECT user_id, status, bio, created_at, version
		FROM trainers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	trainer := &domain.Trainer{
		ID: id,
	}

	dst := []any{&trainer.UserID, &trainer.Status, &trainer.Bio, &trainer.CreatedAt, &trainer.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return trainer, nil
}

func (r *Repository) GetTrainerByUserID(userID string) (*domain.Trainer, error) {
	query := `
		SELECT id, status, bio, created_at, version
		FROM trainers WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	trainer := &domain.Trainer{
		UserID: userID,
	}

	dst := []any{&trainer.ID, &trainer.Status, &trainer.Bio, &trainer.CreatedAt, &trainer.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return trainer, nil
}

func (r *Repository) GetAllTrainers() ([]*domain.Trainer, error) {
	query := `
		SELECT id, user_id, status, bio, created_at, version
		FROM trainers
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers := make([]*domain.Trainer, 0)
	for rows.Next() {
		trainer := &domain.Trainer{}
		dst := []any{&trainer.ID, &trainer.UserID, &trainer.Status, &trainer.Bio, &trainer.CreatedAt, &trainer.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		trainers = append(trainers, trainer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trainers, nil
}

func (r *Repository) UpdateTrainer(trainer *domain.Trainer) error {
	query := `
		UPDATE trainers
		SET
			status = $1,
			bio = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{trainer.Status, trainer.Bio, trainer.ID, trainer.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&trainer.Version); err != nil {
		return err
	}

	return nil
}
