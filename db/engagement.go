package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ticketing/entity"
)

type EngagementPostgresRepository struct {
	db *sqlx.DB
}

func NewEngagementPostgresRepository(db *sqlx.DB) *EngagementPostgresRepository {
	return &EngagementPostgresRepository{db: db}
}

func (r *EngagementPostgresRepository) AddInterest(ctx context.Context, eventID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interests (user_id, event_id) VALUES ($1, $2)
	`, userID, eventID)
	if isUniqueViolation(err) {
		return entity.ErrAlreadyExists
	}
	if isForeignKeyViolation(err) {
		return entity.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("could not save interest: %w", err)
	}
	return nil
}

func (r *EngagementPostgresRepository) AddRating(ctx context.Context, eventID, userID string, value int) error {
	if value < 1 || value > 5 {
		return entity.NewValidationError("rating must be between 1 and 5")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ratings (user_id, event_id, value) VALUES ($1, $2, $3)
	`, userID, eventID, value)
	if isUniqueViolation(err) {
		return entity.ErrAlreadyExists
	}
	if isForeignKeyViolation(err) {
		return entity.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("could not save rating: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
