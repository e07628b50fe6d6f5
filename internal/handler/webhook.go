package handler

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/procedure-booking-bot/internal/dispatch"
)

// WebhookHandler receives inbound conversation updates from the transport
// and hands them to the dispatcher. The transport authenticates with a
// shared token in the X-Webhook-Token header.
type WebhookHandler struct {
	Token      string
	Dispatcher *dispatch.Dispatcher
}

func NewWebhookHandler(token string, d *dispatch.Dispatcher) *WebhookHandler {
	if d == nil {
		panic("nil dispatcher passed to NewWebhookHandler")
	}
	return &WebhookHandler{Token: token, Dispatcher: d}
}

// Receive handles POST /v1/updates. A bad token gets 401, a malformed body
// 400. Dispatch failures are logged and answered with 500 so the transport
// retries delivery.
func (h *WebhookHandler) Receive(c echo.Context) error {
	got := c.Request().Header.Get("X-Webhook-Token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid webhook token"})
	}

	var u dispatch.Update
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if u.ActorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "actor_id required"})
	}

	if err := h.Dispatcher.Handle(c.Request().Context(), u); err != nil {
		log.Printf("webhook: dispatch for actor %d failed: %v", u.ActorID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "dispatch failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
