package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
)

func SetupWebhookRouter(e *echo.Echo, rateLimit *middleware.RateLimitMiddleware) {
	webhookHandler := handler.GetWebhookHandler()

	// Authenticated by signature, not bearer token.
	e.POST("/v1/webhooks/identity", webhookHandler.HandleIdentityEvent,
		rateLimit.Limit("identity_webhook"))
}
