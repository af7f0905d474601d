package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketing/entity"
	"ticketing/payment"
)

type postPaymentsResponse struct {
	PaymentURL string `json:"payment_url"`
}

func (s Server) PostPayments(c echo.Context) error {
	var request payment.InitiateRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	paymentURL, err := s.paymentBridge.Initiate(c.Request().Context(), userFromContext(c), request)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, postPaymentsResponse{PaymentURL: paymentURL})
}

// GetPaymentCallback is where the gateway redirects the buyer after payment.
// It is unauthenticated; everything it needs is re-verified server side.
func (s Server) GetPaymentCallback(c echo.Context) error {
	transactionRef := c.QueryParam("transaction_ref")
	amount := c.QueryParam("amount")
	if transactionRef == "" || amount == "" {
		return entity.NewValidationError("transaction_ref and amount are required")
	}

	err := s.paymentBridge.HandleCallback(c.Request().Context(), transactionRef, amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
