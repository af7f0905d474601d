package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ticketing/entity"
)

type postEventRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	StartsAt      time.Time       `json:"starts_at"`
	VenueName     string          `json:"venue_name"`
	VenueLocation string          `json:"venue_location"`
	VenueCapacity int             `json:"venue_capacity"`
	VIPPrice      decimal.Decimal `json:"vip_price"`
	CommonPrice   decimal.Decimal `json:"common_price"`
}

func (s Server) PostEvents(c echo.Context) error {
	var request postEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Title == "" {
		return entity.NewValidationError("title is required")
	}
	if request.StartsAt.IsZero() {
		return entity.NewValidationError("starts_at is required")
	}

	organizer := userFromContext(c)
	event := entity.Event{
		EventID:       uuid.NewString(),
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.Name,
		Title:         request.Title,
		Description:   request.Description,
		StartsAt:      request.StartsAt,
		VenueName:     request.VenueName,
		VenueLocation: request.VenueLocation,
		VenueCapacity: request.VenueCapacity,
		VIPPrice:      request.VIPPrice,
		CommonPrice:   request.CommonPrice,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.eventsRepo.Store(c.Request().Context(), event); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, event)
}

func (s Server) GetEvents(c echo.Context) error {
	events, err := s.eventsRepo.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func (s Server) GetEvent(c echo.Context) error {
	event, err := s.eventsRepo.Get(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}
