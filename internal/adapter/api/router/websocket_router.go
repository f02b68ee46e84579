package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	ws "github.com/Tzla1/medsearch-sub000/internal/infrastructure/websocket"
)

func SetupWebSocketRouter(e *echo.Echo, wsManager *ws.Manager, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.NewWebSocketHandler(wsManager)

	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
}
