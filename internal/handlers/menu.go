package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/pkg/menuclient"
)

type MenuHandler struct {
	Menu *menuclient.Client
}

func (h *MenuHandler) GetItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.items")

	var (
		items []menuclient.Item
		err   error
	)
	if category := c.QueryParam("category"); category != "" {
		items, err = h.Menu.ItemsByCategory(ctx, category)
	} else {
		items, err = h.Menu.Items(ctx)
	}
	if err != nil {
		l.Error("menu_items_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "не удалось загрузить товары"})
	}

	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.categories")

	categories, err := h.Menu.Categories(ctx)
	if err != nil {
		l.Error("menu_categories_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "не удалось загрузить категории"})
	}

	return c.JSON(http.StatusOK, categories)
}
