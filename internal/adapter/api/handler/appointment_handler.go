package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type AppointmentHandler struct {
	appointmentUseCase *usecase.AppointmentUseCase
}

func NewAppointmentHandler(appointmentUseCase *usecase.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUseCase: appointmentUseCase,
	}
}

type bookAppointmentRequest struct {
	DoctorID         string    `json:"doctor_id" validate:"required"`
	Type             string    `json:"type" validate:"required,oneof=consultation follow_up checkup"`
	ScheduledDate    time.Time `json:"scheduled_date" validate:"required"`
	ScheduledEndTime time.Time `json:"scheduled_end_time" validate:"required"`
	ReasonForVisit   string    `json:"reason_for_visit" validate:"required"`
	Symptoms         []string  `json:"symptoms"`
	Notes            string    `json:"notes"`
}

func (h *AppointmentHandler) Book(c echo.Context) error {
	var req bookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	appointment, err := h.appointmentUseCase.Book(c.Request().Context(), middleware.CurrentUser(c), usecase.BookAppointmentInput{
		DoctorID:         req.DoctorID,
		Type:             req.Type,
		ScheduledDate:    req.ScheduledDate,
		ScheduledEndTime: req.ScheduledEndTime,
		ReasonForVisit:   req.ReasonForVisit,
		Symptoms:         req.Symptoms,
		Notes:            req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, appointment)
}

func (h *AppointmentHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Appointment ID is required", nil))
	}

	appointment, err := h.appointmentUseCase.GetByID(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, appointment)
}

func (h *AppointmentHandler) ListMine(c echo.Context) error {
	p := utils.GetPaginationParams(c)
	status := entity.AppointmentStatus(c.QueryParam("status"))
	user := middleware.CurrentUser(c)

	var (
		appointments []*entity.Appointment
		total        int64
		err          error
	)
	if user.Role == entity.RoleDoctor {
		appointments, total, err = h.appointmentUseCase.ListForDoctor(c.Request().Context(), user, status, p.Page, p.PageSize)
	} else {
		appointments, total, err = h.appointmentUseCase.ListForCustomer(c.Request().Context(), user, status, p.Page, p.PageSize)
	}
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, appointments, total, p.Page, p.PageSize)
}

func (h *AppointmentHandler) History(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	appointments, total, err := h.appointmentUseCase.HistoryForCustomer(c.Request().Context(), middleware.CurrentUser(c), p.Page, p.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, appointments, total, p.Page, p.PageSize)
}

func (h *AppointmentHandler) ListAll(c echo.Context) error {
	p := utils.GetPaginationParams(c)

	filter := map[string]interface{}{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if doctorID := c.QueryParam("doctor_id"); doctorID != "" {
		filter["doctorId"] = doctorID
	}
	if customerID := c.QueryParam("customer_id"); customerID != "" {
		filter["customerId"] = customerID
	}

	appointments, total, err := h.appointmentUseCase.ListAll(c.Request().Context(), filter, p.Page, p.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, appointments, total, p.Page, p.PageSize)
}

type prescriptionRequest struct {
	Medication string `json:"medication" validate:"required"`
	Dosage     string `json:"dosage"`
	Duration   string `json:"duration"`
}

type updateAppointmentRequest struct {
	Status           *string                `json:"status" validate:"omitempty,oneof=pending confirmed in_progress completed cancelled no_show rescheduled"`
	Type             *string                `json:"type" validate:"omitempty,oneof=consultation follow_up checkup"`
	ScheduledDate    *time.Time             `json:"scheduled_date"`
	ScheduledEndTime *time.Time             `json:"scheduled_end_time"`
	ReasonForVisit   *string                `json:"reason_for_visit"`
	Symptoms         *[]string              `json:"symptoms"`
	Notes            *string                `json:"notes"`
	Diagnosis        *string                `json:"diagnosis"`
	Prescriptions    *[]prescriptionRequest `json:"prescriptions" validate:"omitempty,dive"`
	Vitals           *map[string]string     `json:"vitals"`
	PaymentStatus    *string                `json:"payment_status" validate:"omitempty,oneof=pending paid refunded"`
}

func (h *AppointmentHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Appointment ID is required", nil))
	}

	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.UpdateAppointmentInput{
		Status:           req.Status,
		Type:             req.Type,
		ScheduledDate:    req.ScheduledDate,
		ScheduledEndTime: req.ScheduledEndTime,
		ReasonForVisit:   req.ReasonForVisit,
		Symptoms:         req.Symptoms,
		Notes:            req.Notes,
		Diagnosis:        req.Diagnosis,
		Vitals:           req.Vitals,
		PaymentStatus:    req.PaymentStatus,
	}
	if req.Prescriptions != nil {
		prescriptions := make([]entity.Prescription, 0, len(*req.Prescriptions))
		for _, p := range *req.Prescriptions {
			prescriptions = append(prescriptions, entity.Prescription{
				Medication: p.Medication,
				Dosage:     p.Dosage,
				Duration:   p.Duration,
			})
		}
		input.Prescriptions = &prescriptions
	}

	appointment, err := h.appointmentUseCase.Update(c.Request().Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, appointment)
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *AppointmentHandler) Cancel(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Appointment ID is required", nil))
	}

	var req cancelAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	appointment, err := h.appointmentUseCase.Cancel(c.Request().Context(), middleware.CurrentUser(c), id, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, appointment)
}

type rescheduleRequest struct {
	ScheduledDate    time.Time `json:"scheduled_date" validate:"required"`
	ScheduledEndTime time.Time `json:"scheduled_end_time" validate:"required"`
	Reason           string    `json:"reason"`
}

func (h *AppointmentHandler) Reschedule(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Appointment ID is required", nil))
	}

	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	appointment, err := h.appointmentUseCase.Reschedule(c.Request().Context(), middleware.CurrentUser(c), id, usecase.RescheduleInput{
		ScheduledDate:    req.ScheduledDate,
		ScheduledEndTime: req.ScheduledEndTime,
		Reason:           req.Reason,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, appointment)
}
