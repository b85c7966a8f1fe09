package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rollshouse/storefront/internal/cart"
	"github.com/rollshouse/storefront/internal/events"
	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/internal/session"
	"github.com/rollshouse/storefront/pkg/authclient"
)

type SessionHandler struct {
	Session  *session.Store
	Cart     *cart.Store
	Auth     *authclient.Client
	Producer events.Publisher
}

func (h *SessionHandler) GetSession(c echo.Context) error {
	h.Session.Restore(c.Request().Context())
	user := h.Session.User()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"email":           user.Email,
		"name":            user.Name,
		"isAuthenticated": h.Session.IsAuthenticated(),
		"isReady":         h.Session.IsReady(),
	})
}

func (h *SessionHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Register bool   `json:"register"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	if req.Email == "" || req.Password == "" || (req.Register && req.Name == "") {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "пожалуйста, заполните все поля"})
	}
	if !authclient.ValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "введите корректный email"})
	}
	if !authclient.ValidPassword(req.Password) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "пароль должен быть не менее 6 символов"})
	}

	var (
		user *authclient.User
		err  error
	)
	if req.Register {
		user, err = h.Auth.Register(ctx, req.Email, req.Password, req.Name)
	} else {
		user, err = h.Auth.Login(ctx, req.Email, req.Password)
	}
	if err != nil {
		var apiErr *authclient.APIError
		if errors.As(err, &apiErr) {
			l.Warn("login_rejected", "status", apiErr.Status, "error", err)
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": apiErr.Error()})
		}
		l.Error("login_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "не удалось подключиться к серверу"})
	}

	h.Session.Login(ctx, user.Email, user.Name)

	event := map[string]interface{}{
		"type":  "user_logged_in",
		"email": user.Email,
	}
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, user.Email, event); err != nil {
		l.Warn("user_event_error", "error", err)
	}

	l.Info("user logged in successfully")
	return c.JSON(http.StatusOK, map[string]string{
		"email": user.Email,
		"name":  user.Name,
	})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.logout")

	email := h.Session.User().Email
	h.Session.Logout(ctx)
	h.Cart.Clear(ctx)

	event := map[string]interface{}{
		"type":  "user_logged_out",
		"email": email,
	}
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, email, event); err != nil {
		l.Warn("user_event_error", "error", err)
	}

	l.Info("user logged out")
	return c.JSON(http.StatusOK, map[string]string{"message": "loged out"})
}
