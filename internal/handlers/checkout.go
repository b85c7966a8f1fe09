package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rollshouse/storefront/internal/checkout"
	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/pkg/orderclient"
)

type CheckoutHandler struct {
	Flow *checkout.Flow
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	var req struct {
		Phone   string `json:"phone"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	result, err := h.Flow.Submit(ctx, req.Phone, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrAddressRequired):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"message": err.Error(),
				"reason":  "address_required",
			})
		case errors.Is(err, checkout.ErrPhoneRequired):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"message": err.Error(),
				"reason":  "phone_required",
			})
		case errors.Is(err, checkout.ErrPhoneInvalid):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"message": err.Error(),
				"reason":  "phone_invalid",
			})
		case errors.Is(err, checkout.ErrSubmitInFlight):
			return c.JSON(http.StatusConflict, map[string]string{"message": err.Error()})
		}

		var apiErr *orderclient.APIError
		if errors.As(err, &apiErr) {
			l.Error("checkout_error", "status", 502, "upstream_status", apiErr.Status)
			return c.JSON(http.StatusBadGateway, map[string]string{"message": apiErr.Error()})
		}

		l.Error("checkout_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}

	l.Info("order placed successfully")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "заказ успешно оформлен",
		"id":      result.ID,
	})
}
