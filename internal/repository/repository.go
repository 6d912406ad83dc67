package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Naveedahmedtech/OLO-Backend/internal/config"
)

// Constraint names the database enforces for the race-sensitive invariants.
// Pre-checks in the handlers give friendly errors on the common path; the
// constraints are what actually hold under concurrent requests.
const (
	ConstraintUsersEmail           = "users_email_key"
	ConstraintOneInProgressShift   = "shifts_one_in_progress_per_request"
	ConstraintTimesheetTrainerWeek = "timesheets_trainer_week_key"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// IsUniqueViolation reports whether err is a unique violation on the named
// constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
