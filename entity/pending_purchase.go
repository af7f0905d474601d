package entity

import "time"

const (
	PendingPurchaseStatusPending   = "pending"
	PendingPurchaseStatusCompleted = "completed"
)

// PendingPurchase correlates a gateway transaction with the purchase it is
// supposed to finalize. It is written at payment initiation and consumed
// exactly once when the gateway confirms the transaction; consumed rows are
// kept with a completed status for audit.
type PendingPurchase struct {
	TransactionRef string     `json:"transaction_ref" db:"transaction_ref"`
	OrderRef       string     `json:"order_ref" db:"order_ref"`
	EventID        string     `json:"event_id" db:"event_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	UserEmail      string     `json:"user_email" db:"user_email"`
	UserName       string     `json:"user_name" db:"user_name"`
	TicketType     string     `json:"ticket_type" db:"ticket_type"`
	Quantity       int        `json:"quantity" db:"quantity"`
	AmountMinor    int64      `json:"amount_minor" db:"amount_minor"`
	Status         string     `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
