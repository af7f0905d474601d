package http

import (
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"ticketing/entity"
)

// httpErrorHandler centralizes the mapping from domain errors to HTTP
// status codes so handlers can return errors as-is.
func httpErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var validationErr entity.ValidationError
		var externalErr entity.ExternalServiceError
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &httpErr):
			// already shaped by a handler or middleware
		case errors.As(err, &validationErr):
			httpErr = echo.NewHTTPError(http.StatusBadRequest, validationErr.Reason)
		case errors.Is(err, entity.ErrPermission):
			httpErr = echo.NewHTTPError(http.StatusForbidden, "permission denied")
		case errors.Is(err, entity.ErrEventNotFound),
			errors.Is(err, entity.ErrTicketNotFound),
			errors.Is(err, entity.ErrPendingPurchaseNotFound):
			httpErr = echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, entity.ErrAlreadyExists),
			errors.Is(err, entity.ErrTicketAlreadyValidated):
			httpErr = echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, entity.ErrGatewayTimeout):
			httpErr = echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
		case errors.As(err, &externalErr):
			// pass the upstream status and body through
			httpErr = echo.NewHTTPError(externalErr.StatusCode, externalErr.Body)
		default:
			log.FromContext(c.Request().Context()).WithError(err).Error("unhandled error")
			httpErr = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}

		e.DefaultHTTPErrorHandler(httpErr, c)
	}
}
