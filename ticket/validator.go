package ticket

import (
	"context"

	"ticketing/entity"
	"ticketing/metrics"
)

type ValidationsRepository interface {
	Validate(ctx context.Context, ticketID string, requester entity.User) (entity.TicketValidation, error)
}

type Validator struct {
	tickets ValidationsRepository
}

func NewValidator(tickets ValidationsRepository) *Validator {
	return &Validator{tickets: tickets}
}

// Validate consumes a ticket at the venue gate. Only the organizer of the
// ticket's event may consume it, and a ticket can be consumed once.
func (v *Validator) Validate(ctx context.Context, ticketID string, requester entity.User) (entity.TicketValidation, error) {
	if !requester.Allows(entity.CapabilityOrganizer) {
		return entity.TicketValidation{}, entity.ErrPermission
	}

	validation, err := v.tickets.Validate(ctx, ticketID, requester)
	if err != nil {
		return entity.TicketValidation{}, err
	}

	metrics.TicketsValidated.Inc()

	return validation, nil
}
