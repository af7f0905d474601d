package ticket

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ticketing/entity"
)

type eventsRepoMock struct {
	events map[string]entity.Event
}

func (m *eventsRepoMock) Get(_ context.Context, eventID string) (entity.Event, error) {
	event, ok := m.events[eventID]
	if !ok {
		return entity.Event{}, entity.ErrEventNotFound
	}
	return event, nil
}

type ticketsRepoMock struct {
	lock     sync.Mutex
	storeErr error
	batches  [][]entity.Ticket
}

func (m *ticketsRepoMock) StoreBatch(_ context.Context, _ entity.Event, tickets []entity.Ticket) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.storeErr != nil {
		return m.storeErr
	}
	m.batches = append(m.batches, tickets)
	return nil
}

func (m *ticketsRepoMock) FindByUser(_ context.Context, userID string) ([]entity.Ticket, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	var tickets []entity.Ticket
	for _, batch := range m.batches {
		for _, t := range batch {
			if t.UserID == userID {
				tickets = append(tickets, t)
			}
		}
	}
	return tickets, nil
}

func attendee() entity.User {
	return entity.User{
		ID:         uuid.NewString(),
		Email:      "attendee@example.com",
		Name:       "Pat Attendee",
		Capability: entity.CapabilityAttendee,
	}
}

func TestIssuer_Purchase(t *testing.T) {
	ctx := context.Background()
	event := entity.Event{EventID: uuid.NewString(), Title: "Jazz Night"}
	events := &eventsRepoMock{events: map[string]entity.Event{event.EventID: event}}
	tickets := &ticketsRepoMock{}
	issuer := NewIssuer(events, tickets)

	issued, err := issuer.Purchase(ctx, attendee(), event.EventID, entity.TicketTypeVIP, 3)
	require.NoError(t, err)
	require.Len(t, issued, 3)

	seen := map[string]bool{}
	for _, ticket := range issued {
		require.False(t, seen[ticket.TicketID], "every ticket gets its own identifier")
		seen[ticket.TicketID] = true

		require.Equal(t, entity.TicketStatusIssued, ticket.Status)
		require.Equal(t, entity.TicketTypeVIP, ticket.TicketType)
		require.NotEmpty(t, ticket.QRCode)
	}

	require.Len(t, tickets.batches, 1, "all tickets of a purchase go through one batch")
}

func TestIssuer_Purchase_rejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	event := entity.Event{EventID: uuid.NewString(), Title: "Jazz Night"}
	events := &eventsRepoMock{events: map[string]entity.Event{event.EventID: event}}
	issuer := NewIssuer(events, &ticketsRepoMock{})

	var validationErr entity.ValidationError

	_, err := issuer.Purchase(ctx, attendee(), event.EventID, "PLATINUM", 1)
	require.ErrorAs(t, err, &validationErr)

	_, err = issuer.Purchase(ctx, attendee(), event.EventID, entity.TicketTypeCommon, 0)
	require.ErrorAs(t, err, &validationErr)

	_, err = issuer.Purchase(ctx, attendee(), uuid.NewString(), entity.TicketTypeCommon, 1)
	require.ErrorIs(t, err, entity.ErrEventNotFound)
}

func TestIssuer_Purchase_requiresAttendeeCapability(t *testing.T) {
	ctx := context.Background()
	event := entity.Event{EventID: uuid.NewString()}
	events := &eventsRepoMock{events: map[string]entity.Event{event.EventID: event}}
	issuer := NewIssuer(events, &ticketsRepoMock{})

	organizer := entity.User{ID: uuid.NewString(), Capability: entity.CapabilityOrganizer}
	_, err := issuer.Purchase(ctx, organizer, event.EventID, entity.TicketTypeCommon, 1)
	require.ErrorIs(t, err, entity.ErrPermission)

	admin := entity.User{ID: uuid.NewString(), Capability: entity.CapabilityAdmin}
	_, err = issuer.Purchase(ctx, admin, event.EventID, entity.TicketTypeCommon, 1)
	require.NoError(t, err, "admin passes every capability check")
}
