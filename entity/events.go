package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

// TicketsPurchased is published from inside the purchase transaction once a
// batch of tickets is committed. Delivery (PDF + email) hangs off this event
// so it can be retried without touching the tickets themselves.
type TicketsPurchased struct {
	Header     EventHeader `json:"header"`
	EventID    string      `json:"event_id"`
	UserID     string      `json:"user_id"`
	UserEmail  string      `json:"user_email"`
	UserName   string      `json:"user_name"`
	TicketType string      `json:"ticket_type"`
	TicketIDs  []string    `json:"ticket_ids"`
}
