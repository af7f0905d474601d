package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"ticketing/entity"
)

type postTicketsRequest struct {
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`
}

type issuedTicketResponse struct {
	TicketID   string `json:"ticket_id"`
	TicketType string `json:"ticket_type"`
}

type postTicketsResponse struct {
	Tickets []issuedTicketResponse `json:"tickets"`
}

func (s Server) PostTickets(c echo.Context) error {
	var request postTicketsRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	tickets, err := s.issuer.Purchase(
		c.Request().Context(),
		userFromContext(c),
		c.Param("event_id"),
		request.TicketType,
		request.Quantity,
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, postTicketsResponse{
		Tickets: lo.Map(tickets, func(t entity.Ticket, _ int) issuedTicketResponse {
			return issuedTicketResponse{TicketID: t.TicketID, TicketType: t.TicketType}
		}),
	})
}

func (s Server) GetMyTickets(c echo.Context) error {
	tickets, err := s.issuer.FindByUser(c.Request().Context(), userFromContext(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

type ticketValidationResponse struct {
	Status      string `json:"status"`
	TicketID    string `json:"ticket_id"`
	EventTitle  string `json:"event_title"`
	Attendee    string `json:"attendee"`
	ValidatedAt string `json:"validated_at"`
}

func (s Server) PostTicketValidation(c echo.Context) error {
	validation, err := s.validator.Validate(
		c.Request().Context(),
		c.Param("ticket_id"),
		userFromContext(c),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ticketValidationResponse{
		Status:      entity.TicketStatusValidated,
		TicketID:    validation.TicketID,
		EventTitle:  validation.EventTitle,
		Attendee:    validation.Attendee,
		ValidatedAt: validation.ValidatedAt.UTC().Format(time.RFC3339),
	})
}
