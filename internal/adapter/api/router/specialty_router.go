package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
)

func SetupSpecialtyRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	specialtyHandler := handler.GetSpecialtyHandler()

	public := e.Group("/v1/specialties")
	public.GET("", specialtyHandler.List)
	public.GET("/:id", specialtyHandler.GetByID)
	public.GET("/:id/children", specialtyHandler.ListChildren)
	public.GET("/slug/:slug", specialtyHandler.GetBySlug)

	admin := e.Group("/v1/admin/specialties")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.AdminOnly)
	admin.POST("", specialtyHandler.Create)
	admin.PATCH("/:id", specialtyHandler.Update)
	admin.DELETE("/:id", specialtyHandler.Archive)
	admin.POST("/:id/refresh-stats", specialtyHandler.RefreshStats)
}
