package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ticketing/entity"
	"ticketing/pubsub"
)

type TicketsPostgresRepository struct {
	db *sqlx.DB
}

func NewTicketsPostgresRepository(db *sqlx.DB) *TicketsPostgresRepository {
	return &TicketsPostgresRepository{db: db}
}

// StoreBatch inserts every ticket of one purchase in a single transaction and
// publishes TicketsPurchased through the outbox within the same transaction.
// A failure on any row rolls back the whole batch; no partial batch is ever
// visible.
func (r *TicketsPostgresRepository) StoreBatch(ctx context.Context, event entity.Event, tickets []entity.Ticket) (err error) {
	if len(tickets) == 0 {
		return errors.New("empty ticket batch")
	}

	for _, t := range tickets {
		if len(t.QRCode) == 0 {
			return fmt.Errorf("ticket %s has no scannable artifact", t.TicketID)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	for _, t := range tickets {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO
			    tickets (ticket_id, event_id, user_id, user_email, user_name, ticket_type, status, qr_code, purchased_at)
			VALUES (:ticket_id, :event_id, :user_id, :user_email, :user_name, :ticket_type, :status, :qr_code, :purchased_at)
			`, t)
		if err != nil {
			return fmt.Errorf("could not add ticket: %w", err)
		}
	}

	outboxPublisher, err := pubsub.NewPublisherForTx(ctx, tx)
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}

	eventBus, err := pubsub.NewEventBus(outboxPublisher)
	if err != nil {
		return err
	}

	first := tickets[0]
	ticketIDs := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ticketIDs = append(ticketIDs, t.TicketID)
	}

	err = eventBus.Publish(ctx, entity.TicketsPurchased{
		Header:     entity.NewEventHeader(),
		EventID:    event.EventID,
		UserID:     first.UserID,
		UserEmail:  first.UserEmail,
		UserName:   first.UserName,
		TicketType: first.TicketType,
		TicketIDs:  ticketIDs,
	})
	if err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

func (r *TicketsPostgresRepository) Get(ctx context.Context, ticketID string) (entity.Ticket, error) {
	if _, err := uuid.Parse(ticketID); err != nil {
		return entity.Ticket{}, entity.ErrTicketNotFound
	}

	var ticket entity.Ticket
	err := r.db.GetContext(ctx, &ticket, `
		SELECT ticket_id, event_id, user_id, user_email, user_name, ticket_type, status, qr_code, purchased_at, validated_at
		FROM tickets
		WHERE ticket_id = $1
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Ticket{}, entity.ErrTicketNotFound
	}
	return ticket, err
}

func (r *TicketsPostgresRepository) FindByUser(ctx context.Context, userID string) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT ticket_id, event_id, user_id, user_email, user_name, ticket_type, status, qr_code, purchased_at, validated_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY purchased_at DESC
	`, userID)
	return tickets, err
}

func (r *TicketsPostgresRepository) FindByIDs(ctx context.Context, ticketIDs []string) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT ticket_id, event_id, user_id, user_email, user_name, ticket_type, status, qr_code, purchased_at, validated_at
		FROM tickets
		WHERE ticket_id = ANY($1)
		ORDER BY purchased_at
	`, pq.Array(ticketIDs))
	return tickets, err
}

type ticketForValidation struct {
	TicketID    string `db:"ticket_id"`
	Status      string `db:"status"`
	UserEmail   string `db:"user_email"`
	EventTitle  string `db:"event_title"`
	OrganizerID string `db:"organizer_id"`
}

// Validate consumes a ticket exactly once. The row is locked for the duration
// of the transaction, so of two concurrent validations one observes the
// issued status and wins; the other sees the validated status and gets a
// conflict. The row is kept in its terminal state for audit.
func (r *TicketsPostgresRepository) Validate(ctx context.Context, ticketID string, requester entity.User) (_ entity.TicketValidation, err error) {
	if _, err := uuid.Parse(ticketID); err != nil {
		return entity.TicketValidation{}, entity.ErrTicketNotFound
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.TicketValidation{}, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	var row ticketForValidation
	err = tx.GetContext(ctx, &row, `
		SELECT t.ticket_id, t.status, t.user_email, e.title AS event_title, e.organizer_id
		FROM tickets t
		JOIN events e ON e.event_id = t.event_id
		WHERE t.ticket_id = $1
		FOR UPDATE OF t
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TicketValidation{}, entity.ErrTicketNotFound
	}
	if err != nil {
		return entity.TicketValidation{}, fmt.Errorf("could not load ticket: %w", err)
	}

	if row.OrganizerID != requester.ID {
		return entity.TicketValidation{}, entity.ErrPermission
	}

	if row.Status != entity.TicketStatusIssued {
		return entity.TicketValidation{}, entity.ErrTicketAlreadyValidated
	}

	var validation entity.TicketValidation
	err = tx.GetContext(ctx, &validation.ValidatedAt, `
		UPDATE tickets
		SET status = $2, validated_at = NOW()
		WHERE ticket_id = $1 AND status = $3
		RETURNING validated_at
	`, ticketID, entity.TicketStatusValidated, entity.TicketStatusIssued)
	if errors.Is(err, sql.ErrNoRows) {
		// unreachable while the row lock is held, kept as a guard
		return entity.TicketValidation{}, entity.ErrTicketAlreadyValidated
	}
	if err != nil {
		return entity.TicketValidation{}, fmt.Errorf("could not validate ticket: %w", err)
	}

	validation.TicketID = row.TicketID
	validation.EventTitle = row.EventTitle
	validation.Attendee = row.UserEmail

	return validation, nil
}
