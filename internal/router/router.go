package router // route registration for the HTTP surface

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/procedure-booking-bot/internal/handler"
	"github.com/iliyamo/procedure-booking-bot/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterWebhook registers the transport webhook. It authenticates with
// the shared X-Webhook-Token header inside the handler rather than JWT.
func RegisterWebhook(e *echo.Echo, w *handler.WebhookHandler) {
	e.POST("/v1/updates", w.Receive)
}

// RegisterAdmin registers the admin login endpoint and the JWT-protected
// operations group. Unauthenticated operations live under /v1/auth, while
// protected endpoints live under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AuthHandler, adm *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)

	// Everything under /v1/admin requires a valid access token.
	auth := e.Group("/v1/admin")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/events", adm.ListEvents)
	auth.GET("/events/:id/applications", adm.ListApplications)
	auth.POST("/events/:id/close", adm.CloseEvent)
	auth.POST("/users/:id/block", adm.BlockUser)
}
