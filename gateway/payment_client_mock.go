package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ticketing/entity"
)

// PaymentMock stands in for the provider in tests. Initiate records the
// request and returns a generated transaction ref; Lookup answers from the
// recorded transactions so verification sees what was really initiated.
type PaymentMock struct {
	lock sync.Mutex

	InitiateErr error
	LookupErr   error

	// LookupStatus overrides the status Lookup reports. Empty means
	// StatusCompleted.
	LookupStatus string

	initiated map[string]InitiateRequest
}

func (m *PaymentMock) Initiate(_ context.Context, req InitiateRequest) (InitiateResponse, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.InitiateErr != nil {
		return InitiateResponse{}, m.InitiateErr
	}

	if m.initiated == nil {
		m.initiated = map[string]InitiateRequest{}
	}

	transactionRef := uuid.NewString()
	m.initiated[transactionRef] = req

	return InitiateResponse{
		TransactionRef: transactionRef,
		PaymentURL:     "https://pay.example.com/" + transactionRef,
	}, nil
}

func (m *PaymentMock) Lookup(_ context.Context, transactionRef string) (LookupResponse, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.LookupErr != nil {
		return LookupResponse{}, m.LookupErr
	}

	req, ok := m.initiated[transactionRef]
	if !ok {
		return LookupResponse{}, entity.ExternalServiceError{
			Service:    "payment gateway",
			StatusCode: 404,
			Body:       "transaction not found",
		}
	}

	status := m.LookupStatus
	if status == "" {
		status = StatusCompleted
	}

	return LookupResponse{
		TransactionRef: transactionRef,
		Status:         status,
		TotalAmount:    req.Amount,
	}, nil
}

func (m *PaymentMock) InitiatedRequests() []InitiateRequest {
	m.lock.Lock()
	defer m.lock.Unlock()

	reqs := make([]InitiateRequest, 0, len(m.initiated))
	for _, req := range m.initiated {
		reqs = append(reqs, req)
	}
	return reqs
}
