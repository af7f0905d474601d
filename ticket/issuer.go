// Package ticket implements ticket issuance and validation on top of the
// persistence layer.
package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ticketing/entity"
	"ticketing/metrics"
	"ticketing/qr"
)

type EventsRepository interface {
	Get(ctx context.Context, eventID string) (entity.Event, error)
}

type TicketsRepository interface {
	StoreBatch(ctx context.Context, event entity.Event, tickets []entity.Ticket) error
	FindByUser(ctx context.Context, userID string) ([]entity.Ticket, error)
}

type Issuer struct {
	events  EventsRepository
	tickets TicketsRepository
}

func NewIssuer(events EventsRepository, tickets TicketsRepository) *Issuer {
	return &Issuer{events: events, tickets: tickets}
}

// Purchase creates quantity independent tickets for one buyer in a single
// transaction. Each ticket carries its own scannable artifact; either every
// ticket of the batch exists afterwards or none does.
func (i *Issuer) Purchase(ctx context.Context, purchaser entity.User, eventID, ticketType string, quantity int) ([]entity.Ticket, error) {
	if !purchaser.Allows(entity.CapabilityAttendee) {
		return nil, entity.ErrPermission
	}
	if !entity.IsValidTicketType(ticketType) {
		return nil, entity.NewValidationError("unknown ticket type %q", ticketType)
	}
	if quantity < 1 {
		return nil, entity.NewValidationError("quantity must be at least 1")
	}

	event, err := i.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	tickets := make([]entity.Ticket, 0, quantity)
	for n := 0; n < quantity; n++ {
		ticket := entity.Ticket{
			TicketID:    uuid.NewString(),
			EventID:     event.EventID,
			UserID:      purchaser.ID,
			UserEmail:   purchaser.Email,
			UserName:    purchaser.Name,
			TicketType:  ticketType,
			Status:      entity.TicketStatusIssued,
			PurchasedAt: time.Now().UTC(),
		}

		ticket.QRCode, err = qr.Encode(qr.Payload{
			TicketID:   ticket.TicketID,
			EventTitle: event.Title,
			UserEmail:  ticket.UserEmail,
			TicketType: ticket.TicketType,
		})
		if err != nil {
			return nil, fmt.Errorf("could not encode ticket artifact: %w", err)
		}

		tickets = append(tickets, ticket)
	}

	if err := i.tickets.StoreBatch(ctx, event, tickets); err != nil {
		return nil, err
	}

	metrics.TicketsIssued.WithLabelValues(ticketType).Add(float64(quantity))

	return tickets, nil
}

func (i *Issuer) FindByUser(ctx context.Context, userID string) ([]entity.Ticket, error) {
	return i.tickets.FindByUser(ctx, userID)
}
