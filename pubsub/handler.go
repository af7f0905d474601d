package pubsub

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"ticketing/entity"
)

type EventsRepository interface {
	Get(ctx context.Context, eventID string) (entity.Event, error)
}

type TicketsRepository interface {
	FindByIDs(ctx context.Context, ticketIDs []string) ([]entity.Ticket, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event entity.Event, tickets []entity.Ticket) error
}

type Handler struct {
	events     EventsRepository
	tickets    TicketsRepository
	dispatcher Dispatcher
}

func NewHandler(events EventsRepository, tickets TicketsRepository, dispatcher Dispatcher) Handler {
	return Handler{
		events:     events,
		tickets:    tickets,
		dispatcher: dispatcher,
	}
}

// DeliverTicketsHandler emails the confirmation with the rendered ticket
// document once a purchase has committed. It reloads the tickets by id so
// the document is built from stored state, not from the event payload.
func (h Handler) DeliverTicketsHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"DeliverTickets",
		func(ctx context.Context, e *entity.TicketsPurchased) error {
			event, err := h.events.Get(ctx, e.EventID)
			if err != nil {
				return fmt.Errorf("could not load event %s: %w", e.EventID, err)
			}

			tickets, err := h.tickets.FindByIDs(ctx, e.TicketIDs)
			if err != nil {
				return fmt.Errorf("could not load tickets: %w", err)
			}
			if len(tickets) != len(e.TicketIDs) {
				return fmt.Errorf("expected %d tickets, found %d", len(e.TicketIDs), len(tickets))
			}

			return h.dispatcher.Dispatch(ctx, event, tickets)
		},
	)
}
