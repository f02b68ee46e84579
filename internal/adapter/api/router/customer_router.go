package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

func SetupCustomerRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	customerHandler := handler.GetCustomerHandler()

	customers := e.Group("/v1/customers")
	customers.Use(authMiddleware.Authenticate)
	customers.Use(authMiddleware.RequireRoles(entity.RoleCustomer))

	customers.GET("/me", customerHandler.GetProfile)
	customers.PATCH("/me", customerHandler.UpdateProfile)
	customers.GET("/me/favorites", customerHandler.ListFavorites)
	customers.POST("/me/favorites/:doctorId", customerHandler.AddFavorite)
	customers.DELETE("/me/favorites/:doctorId", customerHandler.RemoveFavorite)
	customers.GET("/me/search-history", customerHandler.SearchHistory)
}
