package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()
	authHandler := handler.GetAuthHandler()

	admin := e.Group("/v1/admin/users")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.AdminOnly)

	admin.GET("", userHandler.List)
	admin.GET("/:id", userHandler.GetByID)
	admin.PATCH("/:id/active", userHandler.SetActive)

	superAdmin := e.Group("/v1/admin/users")
	superAdmin.Use(authMiddleware.Authenticate)
	superAdmin.Use(authMiddleware.RequireRoles(entity.RoleSuperAdmin))
	superAdmin.PATCH("/:id/role", authHandler.SetRole)
}
