package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

func SetupDoctorRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	doctorHandler := handler.GetDoctorHandler()
	reviewHandler := handler.GetReviewHandler()
	fileHandler := handler.GetFileHandler()

	// Public directory; OptionalAuthenticate lets signed-in customers get
	// their searches recorded.
	public := e.Group("/v1/doctors")
	public.Use(authMiddleware.OptionalAuthenticate)
	public.GET("", doctorHandler.List)
	public.GET("/search", doctorHandler.Search)
	public.GET("/:id", doctorHandler.GetByID)
	public.GET("/:doctorId/reviews", reviewHandler.ListForDoctor)

	// Doctor self-service
	me := e.Group("/v1/doctors")
	me.Use(authMiddleware.Authenticate)
	me.Use(authMiddleware.RequireRoles(entity.RoleDoctor))
	me.POST("", doctorHandler.CreateProfile)
	me.GET("/me/profile", doctorHandler.GetProfile)
	me.PATCH("/me/profile", doctorHandler.UpdateProfile)
	me.POST("/me/profile-image", fileHandler.UploadProfileImage)
	me.POST("/me/license-document", fileHandler.UploadLicenseDocument)

	// Verification workflow
	admin := e.Group("/v1/admin/doctors")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.AdminOnly)
	admin.GET("/pending", doctorHandler.ListPendingVerification)
	admin.PATCH("/:id/verification", doctorHandler.SetVerificationStatus)
}
