package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type SpecialtyHandler struct {
	specialtyUseCase *usecase.SpecialtyUseCase
}

func NewSpecialtyHandler(specialtyUseCase *usecase.SpecialtyUseCase) *SpecialtyHandler {
	return &SpecialtyHandler{
		specialtyUseCase: specialtyUseCase,
	}
}

type createSpecialtyRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
}

func (h *SpecialtyHandler) Create(c echo.Context) error {
	var req createSpecialtyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	specialty, err := h.specialtyUseCase.Create(c.Request().Context(), usecase.CreateSpecialtyInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, specialty)
}

func (h *SpecialtyHandler) List(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	includeArchived := c.QueryParam("include_archived") == "true"

	specialties, total, err := h.specialtyUseCase.List(c.Request().Context(), includeArchived, p.Page, p.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, specialties, total, p.Page, p.PageSize)
}

func (h *SpecialtyHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Specialty ID is required", nil))
	}

	specialty, err := h.specialtyUseCase.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, specialty)
}

func (h *SpecialtyHandler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return response.Error(c, errors.BadRequest("Specialty slug is required", nil))
	}

	specialty, err := h.specialtyUseCase.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, specialty)
}

func (h *SpecialtyHandler) ListChildren(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Specialty ID is required", nil))
	}

	children, err := h.specialtyUseCase.ListChildren(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, children)
}

type updateSpecialtyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

func (h *SpecialtyHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Specialty ID is required", nil))
	}

	var req updateSpecialtyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	specialty, err := h.specialtyUseCase.Update(c.Request().Context(), id, usecase.UpdateSpecialtyInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, specialty)
}

func (h *SpecialtyHandler) Archive(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Specialty ID is required", nil))
	}

	specialty, err := h.specialtyUseCase.Archive(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, specialty)
}

func (h *SpecialtyHandler) RefreshStats(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Specialty ID is required", nil))
	}

	specialty, err := h.specialtyUseCase.RefreshStats(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, specialty)
}
