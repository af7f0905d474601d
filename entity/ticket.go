package entity

import "time"

const (
	TicketTypeVIP    = "VIP"
	TicketTypeCommon = "COMMON"
)

const (
	TicketStatusIssued    = "issued"
	TicketStatusValidated = "validated"
)

type Ticket struct {
	TicketID    string     `json:"ticket_id" db:"ticket_id"`
	EventID     string     `json:"event_id" db:"event_id"`
	UserID      string     `json:"user_id" db:"user_id"`
	UserEmail   string     `json:"user_email" db:"user_email"`
	UserName    string     `json:"user_name" db:"user_name"`
	TicketType  string     `json:"ticket_type" db:"ticket_type"`
	Status      string     `json:"status" db:"status"`
	QRCode      []byte     `json:"-" db:"qr_code"`
	PurchasedAt time.Time  `json:"purchased_at" db:"purchased_at"`
	ValidatedAt *time.Time `json:"validated_at,omitempty" db:"validated_at"`
}

func IsValidTicketType(ticketType string) bool {
	return ticketType == TicketTypeVIP || ticketType == TicketTypeCommon
}

// TicketValidation is what the validation gate reports back for a consumed
// ticket: the descriptive fields are captured before the row reaches its
// terminal state so the scanning client can display them.
type TicketValidation struct {
	TicketID    string    `json:"ticket_id"`
	EventTitle  string    `json:"event_title"`
	Attendee    string    `json:"attendee"`
	ValidatedAt time.Time `json:"validated_at"`
}
