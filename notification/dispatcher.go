// Package notification turns a completed purchase into the confirmation
// email with the printable ticket document attached.
package notification

import (
	"context"
	"fmt"

	"ticketing/document"
	"ticketing/entity"
	"ticketing/gateway"
)

const dateLayout = "Monday, January 2, 2006 at 3:04 PM"

type Dispatcher struct {
	mail    gateway.MailClient
	builder *document.Builder
}

func NewDispatcher(mail gateway.MailClient, builder *document.Builder) *Dispatcher {
	return &Dispatcher{mail: mail, builder: builder}
}

// Dispatch sends one email covering the whole batch. The batch must be
// homogeneous: every ticket belongs to the same purchaser and event, because
// the message addresses a single recipient about a single event.
func (d *Dispatcher) Dispatch(ctx context.Context, event entity.Event, tickets []entity.Ticket) error {
	if len(tickets) == 0 {
		return fmt.Errorf("nothing to dispatch")
	}

	first := tickets[0]
	for _, t := range tickets {
		if t.UserID != first.UserID || t.EventID != event.EventID {
			return fmt.Errorf("mixed batch: ticket %s does not belong to %s/%s", t.TicketID, first.UserID, event.EventID)
		}
	}

	pdf, err := d.builder.Build(event, tickets)
	if err != nil {
		return err
	}

	return d.mail.Send(ctx, gateway.Email{
		To:      first.UserEmail,
		Subject: fmt.Sprintf("Your %d Ticket(s) for %s", len(tickets), event.Title),
		Body: fmt.Sprintf(
			"Hello %s,\n\nAttached are your %d ticket(s) for:\nEvent: %s\nDate: %s\nVenue: %s\n\nThank you for your purchase!",
			first.UserName, len(tickets), event.Title, event.StartsAt.Format(dateLayout), event.VenueName,
		),
		AttachmentName: fmt.Sprintf("tickets_%s.pdf", event.EventID),
		Attachment:     pdf,
	})
}
