package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type postRatingRequest struct {
	Value int `json:"value"`
}

func (s Server) PostInterest(c echo.Context) error {
	err := s.engagementRepo.AddInterest(
		c.Request().Context(),
		c.Param("event_id"),
		userFromContext(c).ID,
	)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (s Server) PostRating(c echo.Context) error {
	var request postRatingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	err := s.engagementRepo.AddRating(
		c.Request().Context(),
		c.Param("event_id"),
		userFromContext(c).ID,
		request.Value,
	)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}
