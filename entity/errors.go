package entity

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrTicketNotFound = errors.New("ticket not found")

	ErrTicketAlreadyValidated = errors.New("ticket already validated")
	ErrAlreadyExists          = errors.New("already exists")

	ErrPermission = errors.New("permission denied")

	ErrPendingPurchaseNotFound  = errors.New("pending purchase not found")
	ErrPendingPurchaseCompleted = errors.New("pending purchase already completed")

	ErrGatewayTimeout = errors.New("payment gateway timed out")
)

// ValidationError marks malformed client input.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...any) ValidationError {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ExternalServiceError carries a non-success response from an external
// collaborator so callers can pass the upstream status and body through.
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e ExternalServiceError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}
