package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	public := e.Group("/v1/reviews")
	public.GET("/:id", reviewHandler.GetByID)

	authenticated := e.Group("")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("/v1/appointments/:appointmentId/review", reviewHandler.Create,
		authMiddleware.RequireRoles(entity.RoleCustomer))
	authenticated.GET("/v1/reviews/mine", reviewHandler.ListMine,
		authMiddleware.RequireRoles(entity.RoleCustomer))
	authenticated.PATCH("/v1/reviews/:id", reviewHandler.Edit,
		authMiddleware.RequireRoles(entity.RoleCustomer))
	authenticated.POST("/v1/reviews/:id/flag", reviewHandler.Flag)
	authenticated.POST("/v1/reviews/:id/vote", reviewHandler.Vote)
	authenticated.POST("/v1/reviews/:id/response", reviewHandler.Respond,
		authMiddleware.RequireRoles(entity.RoleDoctor))

	admin := e.Group("/v1/admin/reviews")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.AdminOnly)
	admin.GET("/queue", reviewHandler.ModerationQueue)
	admin.POST("/:id/approve", reviewHandler.Approve)
	admin.POST("/:id/reject", reviewHandler.Reject)
}
