package notification

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ticketing/document"
	"ticketing/entity"
	"ticketing/gateway"
	"ticketing/qr"
)

func testEvent() entity.Event {
	return entity.Event{
		EventID:       uuid.NewString(),
		OrganizerName: "Metro Concerts",
		Title:         "Jazz Night",
		StartsAt:      time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		VenueName:     "City Hall",
	}
}

func testTicket(t *testing.T, event entity.Event, userID string) entity.Ticket {
	t.Helper()

	ticket := entity.Ticket{
		TicketID:   uuid.NewString(),
		EventID:    event.EventID,
		UserID:     userID,
		UserEmail:  "attendee@example.com",
		UserName:   "Pat Attendee",
		TicketType: entity.TicketTypeCommon,
	}

	code, err := qr.Encode(qr.Payload{
		TicketID:   ticket.TicketID,
		EventTitle: event.Title,
		UserEmail:  ticket.UserEmail,
		TicketType: ticket.TicketType,
	})
	require.NoError(t, err)
	ticket.QRCode = code

	return ticket
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	mail := &gateway.MailMock{}
	dispatcher := NewDispatcher(mail, document.NewBuilder())

	event := testEvent()
	userID := uuid.NewString()
	tickets := []entity.Ticket{
		testTicket(t, event, userID),
		testTicket(t, event, userID),
	}

	err := dispatcher.Dispatch(ctx, event, tickets)
	require.NoError(t, err)

	sent := mail.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "attendee@example.com", sent[0].To)
	require.Equal(t, "Your 2 Ticket(s) for Jazz Night", sent[0].Subject)
	require.Contains(t, sent[0].Body, "Hello Pat Attendee,")
	require.Contains(t, sent[0].Body, "Event: Jazz Night")
	require.Contains(t, sent[0].Body, "Venue: City Hall")
	require.Equal(t, "tickets_"+event.EventID+".pdf", sent[0].AttachmentName)
	require.True(t, bytes.HasPrefix(sent[0].Attachment, []byte("%PDF")))
}

func TestDispatcher_Dispatch_rejectsMixedBatch(t *testing.T) {
	ctx := context.Background()
	mail := &gateway.MailMock{}
	dispatcher := NewDispatcher(mail, document.NewBuilder())

	event := testEvent()
	tickets := []entity.Ticket{
		testTicket(t, event, uuid.NewString()),
		testTicket(t, event, uuid.NewString()),
	}

	err := dispatcher.Dispatch(ctx, event, tickets)
	require.Error(t, err)
	require.Empty(t, mail.Sent())
}
