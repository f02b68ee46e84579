package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) List(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.List(
		c.Request().Context(),
		middleware.CurrentUser(c),
		c.QueryParam("role"),
		p.Page,
		p.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, users, total, p.Page, p.PageSize)
}

func (h *UserHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	user, err := h.userUseCase.GetByID(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *UserHandler) SetActive(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.SetActive(c.Request().Context(), middleware.CurrentUser(c), id, *req.Active)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
