package handler

import (
	"encoding/json"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type DoctorHandler struct {
	doctorUseCase   *usecase.DoctorUseCase
	customerUseCase *usecase.CustomerUseCase
}

func NewDoctorHandler(doctorUseCase *usecase.DoctorUseCase, customerUseCase *usecase.CustomerUseCase) *DoctorHandler {
	return &DoctorHandler{
		doctorUseCase:   doctorUseCase,
		customerUseCase: customerUseCase,
	}
}

type availabilitySlotRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type createDoctorRequest struct {
	FullName          string                    `json:"full_name" validate:"required,min=2"`
	LicenseNumber     string                    `json:"license_number" validate:"required"`
	Bio               string                    `json:"bio"`
	SpecialtyIDs      []string                  `json:"specialty_ids" validate:"required,min=1"`
	ConsultationFee   float64                   `json:"consultation_fee" validate:"required,gt=0"`
	City              string                    `json:"city" validate:"required"`
	State             string                    `json:"state" validate:"required"`
	Address           string                    `json:"address"`
	PracticeStartYear int                       `json:"practice_start_year"`
	Availability      []availabilitySlotRequest `json:"availability" validate:"dive"`
}

func (h *DoctorHandler) CreateProfile(c echo.Context) error {
	var req createDoctorRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	doctor, err := h.doctorUseCase.CreateProfile(c.Request().Context(), middleware.CurrentUser(c), usecase.CreateDoctorInput{
		FullName:          req.FullName,
		LicenseNumber:     req.LicenseNumber,
		Bio:               req.Bio,
		SpecialtyIDs:      req.SpecialtyIDs,
		ConsultationFee:   req.ConsultationFee,
		City:              req.City,
		State:             req.State,
		Address:           req.Address,
		PracticeStartYear: req.PracticeStartYear,
		Availability:      toAvailability(req.Availability),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, doctor)
}

func (h *DoctorHandler) GetProfile(c echo.Context) error {
	doctor, err := h.doctorUseCase.GetProfile(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, doctor)
}

func (h *DoctorHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Doctor ID is required", nil))
	}

	doctor, err := h.doctorUseCase.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, doctor)
}

type updateDoctorRequest struct {
	FullName          *string                    `json:"full_name" validate:"omitempty,min=2"`
	Bio               *string                    `json:"bio"`
	SpecialtyIDs      *[]string                  `json:"specialty_ids" validate:"omitempty,min=1"`
	ConsultationFee   *float64                   `json:"consultation_fee" validate:"omitempty,gt=0"`
	City              *string                    `json:"city"`
	State             *string                    `json:"state"`
	Address           *string                    `json:"address"`
	PracticeStartYear *int                       `json:"practice_start_year"`
	Availability      *[]availabilitySlotRequest `json:"availability" validate:"omitempty,dive"`
}

func (h *DoctorHandler) UpdateProfile(c echo.Context) error {
	var req updateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.UpdateDoctorInput{
		FullName:          req.FullName,
		Bio:               req.Bio,
		SpecialtyIDs:      req.SpecialtyIDs,
		ConsultationFee:   req.ConsultationFee,
		City:              req.City,
		State:             req.State,
		Address:           req.Address,
		PracticeStartYear: req.PracticeStartYear,
	}
	if req.Availability != nil {
		slots := toAvailability(*req.Availability)
		input.Availability = &slots
	}

	doctor, err := h.doctorUseCase.UpdateProfile(c.Request().Context(), middleware.CurrentUser(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, doctor)
}

func (h *DoctorHandler) List(c echo.Context) error {
	input, err := listInputFromQuery(c)
	if err != nil {
		return response.Error(c, err)
	}

	user := middleware.CurrentUser(c)
	includeUnverified := user != nil && user.IsAdmin() && c.QueryParam("include_unverified") == "true"

	doctors, total, err := h.doctorUseCase.List(c.Request().Context(), input, includeUnverified)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, doctors, total, input.Page, input.Limit)
}

// Search is the public full-text lookup. Signed-in customers get the query
// appended to their search history.
func (h *DoctorHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return response.Error(c, errors.BadRequest("Search query is required", nil))
	}

	input, err := listInputFromQuery(c)
	if err != nil {
		return response.Error(c, err)
	}

	doctors, total, err := h.doctorUseCase.Search(c.Request().Context(), query, input)
	if err != nil {
		return response.Error(c, err)
	}

	if user := middleware.CurrentUser(c); user != nil && user.Role == entity.RoleCustomer {
		h.customerUseCase.RecordSearch(c.Request().Context(), user, query, encodeFilters(input))
	}

	return response.Paginated(c, doctors, total, input.Page, input.Limit)
}

func (h *DoctorHandler) ListPendingVerification(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	doctors, total, err := h.doctorUseCase.ListPendingVerification(c.Request().Context(), p.Page, p.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, doctors, total, p.Page, p.PageSize)
}

type verificationRequest struct {
	Status string `json:"status" validate:"required,oneof=verified suspended rejected pending_verification"`
	Notes  string `json:"notes"`
}

func (h *DoctorHandler) SetVerificationStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Doctor ID is required", nil))
	}

	var req verificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	doctor, err := h.doctorUseCase.SetVerificationStatus(c.Request().Context(), middleware.CurrentUser(c), id, req.Status, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, doctor)
}

func listInputFromQuery(c echo.Context) (usecase.ListDoctorsInput, error) {
	p := utils.GetPaginationParams(c)
	input := usecase.ListDoctorsInput{
		SpecialtyID: c.QueryParam("specialty_id"),
		City:        c.QueryParam("city"),
		State:       c.QueryParam("state"),
		SortBy:      c.QueryParam("sort"),
		Page:        p.Page,
		Limit:       p.PageSize,
	}

	if v := c.QueryParam("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > 5 {
			return input, errors.BadRequest("Invalid min_rating value", err)
		}
		input.MinRating = rating
	}
	if v := c.QueryParam("max_fee"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil || fee < 0 {
			return input, errors.BadRequest("Invalid max_fee value", err)
		}
		input.MaxFee = fee
	}

	return input, nil
}

func encodeFilters(input usecase.ListDoctorsInput) string {
	filters := map[string]interface{}{}
	if input.SpecialtyID != "" {
		filters["specialty_id"] = input.SpecialtyID
	}
	if input.City != "" {
		filters["city"] = input.City
	}
	if input.State != "" {
		filters["state"] = input.State
	}
	if input.MinRating > 0 {
		filters["min_rating"] = input.MinRating
	}
	if input.MaxFee > 0 {
		filters["max_fee"] = input.MaxFee
	}
	if len(filters) == 0 {
		return ""
	}

	encoded, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func toAvailability(slots []availabilitySlotRequest) []entity.AvailabilitySlot {
	out := make([]entity.AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, entity.AvailabilitySlot{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	return out
}
