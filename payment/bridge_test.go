package payment

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ticketing/entity"
	"ticketing/gateway"
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

type pendingRepoMock struct {
	lock      sync.Mutex
	purchases map[string]entity.PendingPurchase
}

func (m *pendingRepoMock) Store(_ context.Context, purchase entity.PendingPurchase) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.purchases == nil {
		m.purchases = map[string]entity.PendingPurchase{}
	}
	m.purchases[purchase.TransactionRef] = purchase
	return nil
}

func (m *pendingRepoMock) Get(_ context.Context, transactionRef string) (entity.PendingPurchase, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	purchase, ok := m.purchases[transactionRef]
	if !ok {
		return entity.PendingPurchase{}, entity.ErrPendingPurchaseNotFound
	}
	return purchase, nil
}

func (m *pendingRepoMock) Reopen(_ context.Context, transactionRef string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	purchase, ok := m.purchases[transactionRef]
	if !ok || purchase.Status != entity.PendingPurchaseStatusCompleted {
		return entity.ErrPendingPurchaseNotFound
	}
	purchase.Status = entity.PendingPurchaseStatusPending
	m.purchases[transactionRef] = purchase
	return nil
}

func (m *pendingRepoMock) Consume(_ context.Context, transactionRef string) (entity.PendingPurchase, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	purchase, ok := m.purchases[transactionRef]
	if !ok {
		return entity.PendingPurchase{}, entity.ErrPendingPurchaseNotFound
	}
	if purchase.Status == entity.PendingPurchaseStatusCompleted {
		return entity.PendingPurchase{}, entity.ErrPendingPurchaseCompleted
	}
	purchase.Status = entity.PendingPurchaseStatusCompleted
	m.purchases[transactionRef] = purchase
	return purchase, nil
}

type purchaserMock struct {
	lock     sync.Mutex
	calls    int
	failures int
}

func (m *purchaserMock) Purchase(_ context.Context, _ entity.User, _ string, ticketType string, quantity int) ([]entity.Ticket, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, errors.New("storage unavailable")
	}
	tickets := make([]entity.Ticket, quantity)
	for i := range tickets {
		tickets[i] = entity.Ticket{TicketID: uuid.NewString(), TicketType: ticketType}
	}
	return tickets, nil
}

func newTestBridge() (*Bridge, *gateway.PaymentMock, *pendingRepoMock, *purchaserMock, entity.Event) {
	event := entity.Event{EventID: uuid.NewString(), Title: "Jazz Night"}
	gw := &gateway.PaymentMock{}
	pending := &pendingRepoMock{}
	purchaser := &purchaserMock{}
	bridge := NewBridge(
		gw,
		&eventsRepoMock{events: map[string]entity.Event{event.EventID: event}},
		pending,
		purchaser,
		"https://tickets.example.com/payments/callback",
	)
	return bridge, gw, pending, purchaser, event
}

func buyer() entity.User {
	return entity.User{
		ID:         uuid.NewString(),
		Email:      "buyer@example.com",
		Name:       "Sam Buyer",
		Capability: entity.CapabilityAttendee,
	}
}

func TestBridge_Initiate(t *testing.T) {
	ctx := context.Background()
	bridge, gw, pending, _, event := newTestBridge()

	paymentURL, err := bridge.Initiate(ctx, buyer(), InitiateRequest{
		EventID:    event.EventID,
		Amount:     "100.00",
		TicketType: entity.TicketTypeVIP,
		Quantity:   2,
	})
	require.NoError(t, err)
	require.NotEmpty(t, paymentURL)

	reqs := gw.InitiatedRequests()
	require.Len(t, reqs, 1)
	require.Equal(t, int64(10000), reqs[0].Amount, "100.00 major units are 10000 minor units")
	require.Equal(t, "Jazz Night", reqs[0].OrderName)
	require.NotEmpty(t, reqs[0].OrderRef)

	require.Len(t, pending.purchases, 1)
	for _, p := range pending.purchases {
		require.Equal(t, entity.PendingPurchaseStatusPending, p.Status)
		require.Equal(t, int64(10000), p.AmountMinor)
		require.Equal(t, 2, p.Quantity)
	}
}

func TestBridge_Initiate_rejectsInexactAmount(t *testing.T) {
	ctx := context.Background()
	bridge, _, _, _, event := newTestBridge()

	var validationErr entity.ValidationError

	_, err := bridge.Initiate(ctx, buyer(), InitiateRequest{
		EventID:    event.EventID,
		Amount:     "100.005",
		TicketType: entity.TicketTypeVIP,
		Quantity:   1,
	})
	require.ErrorAs(t, err, &validationErr)

	_, err = bridge.Initiate(ctx, buyer(), InitiateRequest{
		EventID:    event.EventID,
		Amount:     "-5",
		TicketType: entity.TicketTypeVIP,
		Quantity:   1,
	})
	require.ErrorAs(t, err, &validationErr)
}

func initiatedTransactionRef(t *testing.T, gw *gateway.PaymentMock, pending *pendingRepoMock) string {
	t.Helper()
	require.Len(t, pending.purchases, 1)
	for ref := range pending.purchases {
		return ref
	}
	return ""
}

func TestBridge_HandleCallback(t *testing.T) {
	ctx := context.Background()
	bridge, gw, pending, purchaser, event := newTestBridge()

	_, err := bridge.Initiate(ctx, buyer(), InitiateRequest{
		EventID:    event.EventID,
		Amount:     "50.00",
		TicketType: entity.TicketTypeCommon,
		Quantity:   3,
	})
	require.NoError(t, err)

	ref := initiatedTransactionRef(t, gw, pending)

	err = bridge.HandleCallback(ctx, ref, "5000")
	require.NoError(t, err)
	require.Equal(t, 1, purchaser.calls)

	// replay is a no-op, not a second batch
	err = bridge.HandleCallback(ctx, ref, "5000")
	require.NoError(t, err)
	require.Equal(t, 1, purchaser.calls)
}

func TestBridge_HandleCallback_retryAfterIssuanceFailure(t *testing.T) {
	ctx := context.Background()
	bridge, gw, pending, purchaser, event := newTestBridge()

	_, err := bridge.Initiate(ctx, buyer(), InitiateRequest{
		EventID:    event.EventID,
		Amount:     "50.00",
		TicketType: entity.TicketTypeCommon,
		Quantity:   2,
	})
	require.NoError(t, err)
	ref := initiatedTransactionRef(t, gw, pending)

	// issuance fails transiently after the pending purchase was consumed
	purchaser.failures = 1
	err = bridge.HandleCallback(ctx, ref, "5000")
	require.Error(t, err)

	stored, err := pending.Get(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, entity.PendingPurchaseStatusPending, stored.Status,
		"a failed finalization must not leave the purchase consumed")

	// the gateway retries and the purchase is finalized this time
	err = bridge.HandleCallback(ctx, ref, "5000")
	require.NoError(t, err)
	require.Equal(t, 2, purchaser.calls)

	// further replays are still no-ops
	err = bridge.HandleCallback(ctx, ref, "5000")
	require.NoError(t, err)
	require.Equal(t, 2, purchaser.calls)
}

func TestBridge_HandleCallback_verification(t *testing.T) {
	ctx := context.Background()
	bridge, gw, pending, purchaser, event := newTestBridge()

	_, err := bridge.Initiate(ctx, buyer(), InitiateRequest{
		EventID:    event.EventID,
		Amount:     "50.00",
		TicketType: entity.TicketTypeCommon,
		Quantity:   1,
	})
	require.NoError(t, err)
	ref := initiatedTransactionRef(t, gw, pending)

	var validationErr entity.ValidationError

	// the gateway has not confirmed the transaction
	gw.LookupStatus = "Pending"
	err = bridge.HandleCallback(ctx, ref, "5000")
	require.ErrorAs(t, err, &validationErr)
	gw.LookupStatus = ""

	// the callback amount disagrees with what was initiated
	err = bridge.HandleCallback(ctx, ref, strconv.Itoa(9999))
	require.ErrorAs(t, err, &validationErr)

	// a transaction this service never initiated
	err = bridge.HandleCallback(ctx, uuid.NewString(), "5000")
	require.Error(t, err)

	require.Zero(t, purchaser.calls, "nothing may be issued before verification passes")
}

func TestBridge_HandleCallback_missingParams(t *testing.T) {
	ctx := context.Background()
	bridge, _, _, _, _ := newTestBridge()

	var validationErr entity.ValidationError

	err := bridge.HandleCallback(ctx, "", "5000")
	require.ErrorAs(t, err, &validationErr)

	err = bridge.HandleCallback(ctx, uuid.NewString(), "not-a-number")
	require.ErrorAs(t, err, &validationErr)
}
