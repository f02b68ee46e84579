package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admins := e.Group("/v1/admin/admins")
	admins.Use(authMiddleware.Authenticate)
	admins.Use(authMiddleware.AdminOnly)

	admins.GET("", adminHandler.List)
	admins.GET("/me", adminHandler.GetProfile)
	admins.GET("/:id", adminHandler.GetByID)
	admins.GET("/:id/activity", adminHandler.ActivityLog)

	superAdmin := e.Group("/v1/admin/admins")
	superAdmin.Use(authMiddleware.Authenticate)
	superAdmin.Use(authMiddleware.RequireRoles(entity.RoleSuperAdmin))
	superAdmin.POST("", adminHandler.Create)
	superAdmin.PUT("/:id/permissions", adminHandler.SetPermissions)
	superAdmin.PUT("/:id/supervisor", adminHandler.AssignSupervisor)
}
