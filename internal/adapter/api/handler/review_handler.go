package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type aspectRatingsRequest struct {
	WaitTime          int `json:"wait_time" validate:"omitempty,min=1,max=5"`
	BedsideManner     int `json:"bedside_manner" validate:"omitempty,min=1,max=5"`
	Communication     int `json:"communication" validate:"omitempty,min=1,max=5"`
	Thoroughness      int `json:"thoroughness" validate:"omitempty,min=1,max=5"`
	OfficeEnvironment int `json:"office_environment" validate:"omitempty,min=1,max=5"`
}

type createReviewRequest struct {
	Rating  int                  `json:"rating" validate:"required,min=1,max=5"`
	Aspects aspectRatingsRequest `json:"aspects"`
	Comment string               `json:"comment" validate:"required,min=10"`
}

func (h *ReviewHandler) Create(c echo.Context) error {
	appointmentID := c.Param("appointmentId")
	if appointmentID == "" {
		return response.Error(c, errors.BadRequest("Appointment ID is required", nil))
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.Create(c.Request().Context(), middleware.CurrentUser(c), usecase.CreateReviewInput{
		AppointmentID: appointmentID,
		Rating:        req.Rating,
		Aspects: entity.AspectRatings{
			WaitTime:          req.Aspects.WaitTime,
			BedsideManner:     req.Aspects.BedsideManner,
			Communication:     req.Aspects.Communication,
			Thoroughness:      req.Aspects.Thoroughness,
			OfficeEnvironment: req.Aspects.OfficeEnvironment,
		},
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, review)
}

func (h *ReviewHandler) ListForDoctor(c echo.Context) error {
	doctorID := c.Param("doctorId")
	if doctorID == "" {
		return response.Error(c, errors.BadRequest("Doctor ID is required", nil))
	}

	p := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewUseCase.ListForDoctor(c.Request().Context(), doctorID, p.Page, p.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, reviews, total, p.Page, p.PageSize)
}

func (h *ReviewHandler) ListMine(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewUseCase.ListForCustomer(c.Request().Context(), middleware.CurrentUser(c), p.Page, p.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, reviews, total, p.Page, p.PageSize)
}

func (h *ReviewHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	review, err := h.reviewUseCase.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

type editReviewRequest struct {
	Comment string `json:"comment" validate:"required,min=10"`
}

func (h *ReviewHandler) Edit(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	var req editReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.Edit(c.Request().Context(), middleware.CurrentUser(c), id, req.Comment)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

type flagReviewRequest struct {
	Reason string `json:"reason" validate:"required,oneof=inappropriate spam fake offensive other"`
}

func (h *ReviewHandler) Flag(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	var req flagReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.Flag(c.Request().Context(), middleware.CurrentUser(c), id, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

type voteReviewRequest struct {
	Helpful *bool `json:"helpful" validate:"required"`
}

func (h *ReviewHandler) Vote(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	var req voteReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.Vote(c.Request().Context(), middleware.CurrentUser(c), id, *req.Helpful)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

type respondReviewRequest struct {
	Comment string `json:"comment" validate:"required,min=2"`
}

func (h *ReviewHandler) Respond(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	var req respondReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.Respond(c.Request().Context(), middleware.CurrentUser(c), id, req.Comment)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

func (h *ReviewHandler) ModerationQueue(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewUseCase.ModerationQueue(
		c.Request().Context(),
		middleware.CurrentUser(c),
		c.QueryParam("status"),
		p.Page,
		p.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, reviews, total, p.Page, p.PageSize)
}

type moderationRequest struct {
	Notes string `json:"notes"`
}

// Rejection always carries notes; approval notes stay optional.
type rejectReviewRequest struct {
	Notes string `json:"notes" validate:"required"`
}

func (h *ReviewHandler) Approve(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	var req moderationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	review, err := h.reviewUseCase.Approve(c.Request().Context(), middleware.CurrentUser(c), id, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

func (h *ReviewHandler) Reject(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	var req rejectReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.Reject(c.Request().Context(), middleware.CurrentUser(c), id, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}
