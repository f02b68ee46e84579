package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	ws "github.com/Tzla1/medsearch-sub000/internal/infrastructure/websocket"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	wsManager *ws.Manager,
) {
	SetupAuthRouter(e, authMiddleware, rateLimit)
	SetupUserRouter(e, authMiddleware)
	SetupCustomerRouter(e, authMiddleware)
	SetupDoctorRouter(e, authMiddleware)
	SetupSpecialtyRouter(e, authMiddleware)
	SetupAppointmentRouter(e, authMiddleware, rateLimit)
	SetupReviewRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware)
	SetupWebhookRouter(e, rateLimit)
	SetupWebSocketRouter(e, wsManager, authMiddleware)
	SetupHealthRouter(e)
}
