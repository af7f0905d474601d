package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ticketing/entity"
)

type EventsPostgresRepository struct {
	db *sqlx.DB
}

func NewEventsPostgresRepository(db *sqlx.DB) *EventsPostgresRepository {
	return &EventsPostgresRepository{db: db}
}

func (r *EventsPostgresRepository) Store(ctx context.Context, event entity.Event) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO
		    events (event_id, organizer_id, organizer_name, title, description, starts_at, venue_name, venue_location, venue_capacity, vip_price, common_price, created_at)
		VALUES (:event_id, :organizer_id, :organizer_name, :title, :description, :starts_at, :venue_name, :venue_location, :venue_capacity, :vip_price, :common_price, :created_at)
		`, event)
	if err != nil {
		return fmt.Errorf("could not save event: %w", err)
	}
	return nil
}

func (r *EventsPostgresRepository) Get(ctx context.Context, eventID string) (entity.Event, error) {
	var event entity.Event
	err := r.db.GetContext(ctx, &event, `
		SELECT event_id, organizer_id, organizer_name, title, description, starts_at, venue_name, venue_location, venue_capacity, vip_price, common_price, created_at
		FROM events
		WHERE event_id = $1
	`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Event{}, entity.ErrEventNotFound
	}
	return event, err
}

func (r *EventsPostgresRepository) FindAll(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.SelectContext(ctx, &events, `
		SELECT event_id, organizer_id, organizer_name, title, description, starts_at, venue_name, venue_location, venue_capacity, vip_price, common_price, created_at
		FROM events
		ORDER BY starts_at
	`)
	return events, err
}
