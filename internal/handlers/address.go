package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rollshouse/storefront/internal/address"
	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/internal/models"
)

type AddressHandler struct {
	Book *address.Book
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Book.Addresses())
}

func (h *AddressHandler) AddAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.add")

	var req models.Address
	if err := c.Bind(&req); err != nil {
		l.Warn("add_address_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	req.ID = uuid.NewString()
	if err := h.Book.Add(ctx, req); err != nil {
		if errors.Is(err, address.ErrValidation) {
			l.Warn("add_address_error", "status", 422, "error", err)
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": "name, street and house required"})
		}
		l.Error("add_address_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}

	l.Info("address added successfully")
	return c.JSON(http.StatusCreated, req)
}

func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	var req models.AddressPatch
	if err := c.Bind(&req); err != nil {
		l.Warn("update_address_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	h.Book.Update(ctx, c.Param("id"), req)
	return c.JSON(http.StatusOK, h.Book.Addresses())
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	h.Book.Delete(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *AddressHandler) SetDefaultAddress(c echo.Context) error {
	h.Book.SetDefault(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, h.Book.Addresses())
}

func (h *AddressHandler) GetDefaultAddress(c echo.Context) error {
	addr, ok := h.Book.Default()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "адрес не указан"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"address":   addr,
		"formatted": address.Format(addr),
	})
}
