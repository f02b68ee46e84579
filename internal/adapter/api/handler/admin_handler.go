package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

type createAdminRequest struct {
	UserID       string   `json:"user_id" validate:"required"`
	FullName     string   `json:"full_name" validate:"required,min=2"`
	Permissions  []string `json:"permissions" validate:"required"`
	SupervisorID string   `json:"supervisor_id"`
}

func (h *AdminHandler) Create(c echo.Context) error {
	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	admin, err := h.adminUseCase.Create(c.Request().Context(), middleware.CurrentUser(c), usecase.CreateAdminInput{
		UserID:       req.UserID,
		FullName:     req.FullName,
		Permissions:  req.Permissions,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, admin)
}

func (h *AdminHandler) GetProfile(c echo.Context) error {
	admin, err := h.adminUseCase.GetProfile(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, admin)
}

func (h *AdminHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Admin ID is required", nil))
	}

	admin, err := h.adminUseCase.GetByID(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, admin)
}

func (h *AdminHandler) List(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	admins, total, err := h.adminUseCase.List(c.Request().Context(), middleware.CurrentUser(c), p.Page, p.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, admins, total, p.Page, p.PageSize)
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

func (h *AdminHandler) SetPermissions(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Admin ID is required", nil))
	}

	var req setPermissionsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	admin, err := h.adminUseCase.SetPermissions(c.Request().Context(), middleware.CurrentUser(c), id, req.Permissions)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, admin)
}

type assignSupervisorRequest struct {
	SupervisorID string `json:"supervisor_id"`
}

func (h *AdminHandler) AssignSupervisor(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Admin ID is required", nil))
	}

	var req assignSupervisorRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	admin, err := h.adminUseCase.AssignSupervisor(c.Request().Context(), middleware.CurrentUser(c), id, req.SupervisorID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, admin)
}

func (h *AdminHandler) ActivityLog(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Admin ID is required", nil))
	}

	log, err := h.adminUseCase.ActivityLog(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, log)
}
