package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rollshouse/storefront/internal/cart"
	"github.com/rollshouse/storefront/internal/events"
	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/internal/models"
)

type CartHandler struct {
	Cart     *cart.Store
	Producer events.Publisher
}

type cartResponse struct {
	Items      []models.CartItem `json:"items"`
	Count      int64             `json:"count"`
	TotalPrice int64             `json:"totalPrice"`
}

func (h *CartHandler) cartState() cartResponse {
	return cartResponse{
		Items:      h.Cart.Items(),
		Count:      h.Cart.Count(),
		TotalPrice: h.Cart.TotalPrice(),
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cartState())
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req struct {
		Item     models.CartItem `json:"item"`
		Quantity int64           `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	if err := h.Cart.Add(ctx, req.Item, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrValidation) {
			l.Warn("add_to_cart_error", "status", 422, "error", err)
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": "quantity must be > 0"})
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}

	event := map[string]interface{}{
		"type":      "item_added",
		"productID": req.Item.ID,
		"quantity":  req.Quantity,
	}
	if err := h.Producer.PublishEvent(ctx, events.TopicCartEvents, strconv.FormatInt(req.Item.ID, 10), event); err != nil {
		l.Warn("cart_event_error", "error", err)
	}

	l.Info("item added successfully to cart")
	return c.JSON(http.StatusCreated, h.cartState())
}

func (h *CartHandler) IncreaseItem(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid item id"})
	}
	h.Cart.Increase(c.Request().Context(), id)
	return c.JSON(http.StatusOK, h.cartState())
}

func (h *CartHandler) DecreaseItem(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid item id"})
	}
	h.Cart.Decrease(c.Request().Context(), id)
	return c.JSON(http.StatusOK, h.cartState())
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	h.Cart.Clear(ctx)

	event := map[string]interface{}{"type": "cart_cleared"}
	if err := h.Producer.PublishEvent(ctx, events.TopicCartEvents, "cart", event); err != nil {
		l.Warn("cart_event_error", "error", err)
	}

	l.Info("cart successfully cleared")
	return c.JSON(http.StatusOK, map[string]string{"message": "cart successfully cleared"})
}

func itemID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
