// Package payment bridges the HTTP surface to the external payment provider
// and finalizes purchases confirmed by it.
package payment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/shopspring/decimal"

	"ticketing/entity"
	"ticketing/gateway"
	"ticketing/metrics"
	"ticketing/ticket"
)

type PendingPurchasesRepository interface {
	Store(ctx context.Context, purchase entity.PendingPurchase) error
	Get(ctx context.Context, transactionRef string) (entity.PendingPurchase, error)
	Consume(ctx context.Context, transactionRef string) (entity.PendingPurchase, error)
	Reopen(ctx context.Context, transactionRef string) error
}

type Purchaser interface {
	Purchase(ctx context.Context, purchaser entity.User, eventID, ticketType string, quantity int) ([]entity.Ticket, error)
}

type InitiateRequest struct {
	EventID    string `json:"event_id"`
	Amount     string `json:"amount"`
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`
}

type Bridge struct {
	gateway   gateway.PaymentGateway
	events    ticket.EventsRepository
	pending   PendingPurchasesRepository
	purchaser Purchaser
	returnURL string
}

func NewBridge(
	gw gateway.PaymentGateway,
	events ticket.EventsRepository,
	pending PendingPurchasesRepository,
	purchaser Purchaser,
	returnURL string,
) *Bridge {
	return &Bridge{
		gateway:   gw,
		events:    events,
		pending:   pending,
		purchaser: purchaser,
		returnURL: returnURL,
	}
}

// Initiate starts a gateway transaction for the requested tickets and
// persists a pending purchase keyed by the gateway's transaction reference.
// Nothing is issued yet; issuance happens when the gateway confirms the
// transaction through the callback.
func (b *Bridge) Initiate(ctx context.Context, purchaser entity.User, req InitiateRequest) (string, error) {
	if !purchaser.Allows(entity.CapabilityAttendee) {
		return "", entity.ErrPermission
	}
	if !entity.IsValidTicketType(req.TicketType) {
		return "", entity.NewValidationError("unknown ticket type %q", req.TicketType)
	}
	if req.Quantity < 1 {
		return "", entity.NewValidationError("quantity must be at least 1")
	}

	amountMinor, err := majorToMinor(req.Amount)
	if err != nil {
		return "", err
	}

	event, err := b.events.Get(ctx, req.EventID)
	if err != nil {
		return "", err
	}

	orderRef := shortuuid.New()
	resp, err := b.gateway.Initiate(ctx, gateway.InitiateRequest{
		ReturnURL:   b.returnURL,
		Amount:      amountMinor,
		OrderRef:    orderRef,
		OrderName:   event.Title,
		CustomerRef: purchaser.ID,
	})
	if err != nil {
		return "", err
	}

	err = b.pending.Store(ctx, entity.PendingPurchase{
		TransactionRef: resp.TransactionRef,
		OrderRef:       orderRef,
		EventID:        event.EventID,
		UserID:         purchaser.ID,
		UserEmail:      purchaser.Email,
		UserName:       purchaser.Name,
		TicketType:     req.TicketType,
		Quantity:       req.Quantity,
		AmountMinor:    amountMinor,
		Status:         entity.PendingPurchaseStatusPending,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	metrics.PaymentsInitiated.Inc()

	return resp.PaymentURL, nil
}

// HandleCallback finalizes a purchase after the gateway redirects the buyer
// back. The callback parameters are never trusted: the transaction status
// is re-verified against the gateway, and the amounts must agree with what
// was initiated. A replayed callback finds its pending purchase already
// consumed and succeeds without issuing anything.
func (b *Bridge) HandleCallback(ctx context.Context, transactionRef, amount string) error {
	if transactionRef == "" {
		return entity.NewValidationError("missing transaction reference")
	}
	amountMinor, err := strconv.ParseInt(amount, 10, 64)
	if err != nil {
		return entity.NewValidationError("malformed amount %q", amount)
	}

	lookup, err := b.gateway.Lookup(ctx, transactionRef)
	if err != nil {
		return err
	}
	if lookup.Status != gateway.StatusCompleted {
		return entity.NewValidationError("transaction %s is %s, not %s", transactionRef, lookup.Status, gateway.StatusCompleted)
	}

	pending, err := b.pending.Get(ctx, transactionRef)
	if errors.Is(err, entity.ErrPendingPurchaseNotFound) {
		return entity.NewValidationError("unknown transaction %s", transactionRef)
	}
	if err != nil {
		return err
	}

	if amountMinor != pending.AmountMinor || lookup.TotalAmount != pending.AmountMinor {
		return entity.NewValidationError(
			"amount mismatch for transaction %s: initiated %d, callback %d, gateway %d",
			transactionRef, pending.AmountMinor, amountMinor, lookup.TotalAmount,
		)
	}

	consumed, err := b.pending.Consume(ctx, transactionRef)
	if errors.Is(err, entity.ErrPendingPurchaseCompleted) {
		// replayed callback, already finalized
		return nil
	}
	if err != nil {
		return err
	}

	buyer := entity.User{
		ID:         consumed.UserID,
		Email:      consumed.UserEmail,
		Name:       consumed.UserName,
		Capability: entity.CapabilityAttendee,
	}
	if _, err := b.purchaser.Purchase(ctx, buyer, consumed.EventID, consumed.TicketType, consumed.Quantity); err != nil {
		// put the purchase back so a retried callback can finalize it,
		// instead of the retry no-oping against a consumed row
		reopenErr := b.pending.Reopen(ctx, transactionRef)
		return errors.Join(err, reopenErr)
	}

	metrics.PaymentsConfirmed.Inc()

	return nil
}

// majorToMinor converts a decimal amount in major currency units to minor
// units. The conversion must be exact: an amount with sub-minor precision
// is a client error, not something to round.
func majorToMinor(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, entity.NewValidationError("malformed amount %q", amount)
	}
	if !d.IsPositive() {
		return 0, entity.NewValidationError("amount must be positive")
	}

	minor := d.Mul(decimal.NewFromInt(100))
	if !minor.IsInteger() {
		return 0, entity.NewValidationError("amount %s has sub-minor-unit precision", amount)
	}
	return minor.IntPart(), nil
}
