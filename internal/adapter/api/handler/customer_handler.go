package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
)

type CustomerHandler struct {
	customerUseCase *usecase.CustomerUseCase
}

func NewCustomerHandler(customerUseCase *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{
		customerUseCase: customerUseCase,
	}
}

func (h *CustomerHandler) GetProfile(c echo.Context) error {
	customer, err := h.customerUseCase.GetProfile(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, customer)
}

type updateCustomerRequest struct {
	FullName    *string   `json:"full_name" validate:"omitempty,min=2"`
	Phone       *string   `json:"phone"`
	Gender      *string   `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth *string   `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	City        *string   `json:"city"`
	State       *string   `json:"state"`
	Address     *string   `json:"address"`
	Allergies   *[]string `json:"allergies"`
	Conditions  *[]string `json:"conditions"`
	Medications *[]string `json:"medications"`
}

func (h *CustomerHandler) UpdateProfile(c echo.Context) error {
	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.UpdateCustomerInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Gender:      req.Gender,
		City:        req.City,
		State:       req.State,
		Address:     req.Address,
		Allergies:   req.Allergies,
		Conditions:  req.Conditions,
		Medications: req.Medications,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid date of birth", err))
		}
		input.DateOfBirth = &dob
	}

	customer, err := h.customerUseCase.UpdateProfile(c.Request().Context(), middleware.CurrentUser(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, customer)
}

func (h *CustomerHandler) ListFavorites(c echo.Context) error {
	doctors, err := h.customerUseCase.ListFavorites(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, doctors)
}

func (h *CustomerHandler) AddFavorite(c echo.Context) error {
	doctorID := c.Param("doctorId")
	if doctorID == "" {
		return response.Error(c, errors.BadRequest("Doctor ID is required", nil))
	}

	customer, err := h.customerUseCase.AddFavorite(c.Request().Context(), middleware.CurrentUser(c), doctorID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, customer.FavoriteDoctors)
}

func (h *CustomerHandler) RemoveFavorite(c echo.Context) error {
	doctorID := c.Param("doctorId")
	if doctorID == "" {
		return response.Error(c, errors.BadRequest("Doctor ID is required", nil))
	}

	customer, err := h.customerUseCase.RemoveFavorite(c.Request().Context(), middleware.CurrentUser(c), doctorID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, customer.FavoriteDoctors)
}

func (h *CustomerHandler) SearchHistory(c echo.Context) error {
	history, err := h.customerUseCase.SearchHistory(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, history)
}
