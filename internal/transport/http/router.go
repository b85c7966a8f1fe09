package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/rollshouse/storefront/internal/address"
	"github.com/rollshouse/storefront/internal/cart"
	"github.com/rollshouse/storefront/internal/handlers"
	"github.com/rollshouse/storefront/internal/session"
)

type Deps struct {
	Session *session.Store
	Book    *address.Book
	Cart    *cart.Store

	SessionHandler  *handlers.SessionHandler
	AddressHandler  *handlers.AddressHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	MenuHandler     *handlers.MenuHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error {
		if !d.Session.IsReady() || !d.Book.IsReady() || !d.Cart.IsReady() {
			return c.NoContent(503)
		}
		return c.NoContent(200)
	})

	api := e.Group("/api")

	api.GET("/session", d.SessionHandler.GetSession)
	api.POST("/session/login", d.SessionHandler.Login)
	api.POST("/session/logout", d.SessionHandler.Logout)

	api.GET("/addresses", d.AddressHandler.ListAddresses)
	api.POST("/addresses", d.AddressHandler.AddAddress)
	api.GET("/addresses/default", d.AddressHandler.GetDefaultAddress)
	api.PATCH("/addresses/:id", d.AddressHandler.UpdateAddress)
	api.DELETE("/addresses/:id", d.AddressHandler.DeleteAddress)
	api.POST("/addresses/:id/default", d.AddressHandler.SetDefaultAddress)

	api.GET("/cart", d.CartHandler.GetCart)
	api.POST("/cart", d.CartHandler.AddToCart)
	api.POST("/cart/items/:id/increase", d.CartHandler.IncreaseItem)
	api.POST("/cart/items/:id/decrease", d.CartHandler.DecreaseItem)
	api.DELETE("/cart", d.CartHandler.ClearCart)

	api.POST("/checkout", d.CheckoutHandler.Submit)

	api.GET("/menu", d.MenuHandler.GetItems)
	api.GET("/menu/categories", d.MenuHandler.GetCategories)
}
