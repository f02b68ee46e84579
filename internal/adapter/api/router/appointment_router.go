package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

func SetupAppointmentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	appointmentHandler := handler.GetAppointmentHandler()

	appointments := e.Group("/v1/appointments")
	appointments.Use(authMiddleware.Authenticate)

	appointments.POST("", appointmentHandler.Book,
		authMiddleware.RequireRoles(entity.RoleCustomer),
		rateLimit.Limit("book_appointment"))
	appointments.GET("", appointmentHandler.ListMine)
	appointments.GET("/history", appointmentHandler.History,
		authMiddleware.RequireRoles(entity.RoleCustomer))
	appointments.GET("/:id", appointmentHandler.GetByID)
	appointments.PATCH("/:id", appointmentHandler.Update)
	appointments.POST("/:id/cancel", appointmentHandler.Cancel)
	appointments.POST("/:id/reschedule", appointmentHandler.Reschedule)

	admin := e.Group("/v1/admin/appointments")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.AdminOnly)
	admin.GET("", appointmentHandler.ListAll)
}
