package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/websocket"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/logger"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type AppointmentUseCase struct {
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	customerRepo    repository.CustomerRepository
	specialtyRepo   repository.SpecialtyRepository
	notifier        Notifier
}

func NewAppointmentUseCase(
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	customerRepo repository.CustomerRepository,
	specialtyRepo repository.SpecialtyRepository,
	notifier Notifier,
) *AppointmentUseCase {
	return &AppointmentUseCase{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		customerRepo:    customerRepo,
		specialtyRepo:   specialtyRepo,
		notifier:        notifier,
	}
}

type BookAppointmentInput struct {
	DoctorID         string
	Type             string
	ScheduledDate    time.Time
	ScheduledEndTime time.Time
	ReasonForVisit   string
	Symptoms         []string
	Notes            string
}

// AppointmentDetail is an appointment with its references resolved.
type AppointmentDetail struct {
	*entity.Appointment
	CustomerName   string   `json:"customer_name"`
	DoctorName     string   `json:"doctor_name"`
	SpecialtyNames []string `json:"specialty_names,omitempty"`
}

// Book creates an appointment for the acting customer. The doctor must be
// verified, the start strictly in the future, and the slot free; the
// conflict check and the insert are atomic in the repository.
func (uc *AppointmentUseCase) Book(ctx context.Context, actor *entity.User, input BookAppointmentInput) (*AppointmentDetail, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	doctor, err := uc.doctorRepo.GetByID(ctx, input.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsVerified() {
		return nil, errors.BadRequest("Doctor is not accepting appointments", nil)
	}

	now := time.Now()
	if !input.ScheduledDate.After(now) {
		return nil, errors.BadRequest("Appointment must be scheduled in the future", nil)
	}
	if !input.ScheduledEndTime.After(input.ScheduledDate) {
		return nil, errors.BadRequest("Appointment end must be after its start", nil)
	}

	appointment := &entity.Appointment{
		CustomerID:       customer.ID,
		DoctorID:         doctor.ID,
		Type:             input.Type,
		ScheduledDate:    input.ScheduledDate,
		ScheduledEndTime: input.ScheduledEndTime,
		Status:           entity.AppointmentPending,
		ReasonForVisit:   input.ReasonForVisit,
		Symptoms:         input.Symptoms,
		Notes:            input.Notes,
		Payment: entity.Payment{
			Amount: doctor.ConsultationFee,
			Status: entity.PaymentPending,
		},
	}

	if err := uc.appointmentRepo.CreateIfFree(ctx, appointment); err != nil {
		return nil, err
	}

	if err := uc.doctorRepo.IncrementCounter(ctx, doctor.ID, repository.DoctorCounterTotal); err != nil {
		logger.Warn("Failed to increment appointment counter for doctor %s: %v", doctor.ID, err)
	}

	uc.notifyParties(customer, doctor, appointment, "appointment.booked")

	return uc.detail(ctx, appointment, customer, doctor), nil
}

func (uc *AppointmentUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*AppointmentDetail, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := uc.requireParticipantOrAdmin(ctx, actor, appointment); err != nil {
		return nil, err
	}

	return uc.detail(ctx, appointment, nil, nil), nil
}

func (uc *AppointmentUseCase) ListForCustomer(ctx context.Context, actor *entity.User, status entity.AppointmentStatus, page, limit int) ([]*entity.Appointment, int64, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}

	p := utils.NewPaginationParams(page, limit)
	return uc.appointmentRepo.ListByCustomer(ctx, customer.ID, status, p.PageSize, p.Offset)
}

// HistoryForCustomer returns appointments that are no longer on the
// calendar: completed, cancelled or missed.
func (uc *AppointmentUseCase) HistoryForCustomer(ctx context.Context, actor *entity.User, page, limit int) ([]*entity.Appointment, int64, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}

	all, _, err := uc.appointmentRepo.ListByCustomer(ctx, customer.ID, "", 0, 0)
	if err != nil {
		return nil, 0, err
	}

	var history []*entity.Appointment
	for _, a := range all {
		switch a.Status {
		case entity.AppointmentCompleted, entity.AppointmentCancelled, entity.AppointmentNoShow:
			history = append(history, a)
		}
	}

	p := utils.NewPaginationParams(page, limit)
	total := int64(len(history))
	if p.Offset >= len(history) {
		return []*entity.Appointment{}, total, nil
	}
	end := p.Offset + p.PageSize
	if end > len(history) {
		end = len(history)
	}
	return history[p.Offset:end], total, nil
}

func (uc *AppointmentUseCase) ListForDoctor(ctx context.Context, actor *entity.User, status entity.AppointmentStatus, page, limit int) ([]*entity.Appointment, int64, error) {
	doctor, err := uc.doctorRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}

	p := utils.NewPaginationParams(page, limit)
	return uc.appointmentRepo.ListByDoctor(ctx, doctor.ID, status, p.PageSize, p.Offset)
}

func (uc *AppointmentUseCase) ListAll(ctx context.Context, filter map[string]interface{}, page, limit int) ([]*entity.Appointment, int64, error) {
	p := utils.NewPaginationParams(page, limit)
	return uc.appointmentRepo.List(ctx, filter, "", p.PageSize, p.Offset)
}

// UpdateAppointmentInput carries optional changes; nil means untouched.
type UpdateAppointmentInput struct {
	Status           *string
	Type             *string
	ScheduledDate    *time.Time
	ScheduledEndTime *time.Time
	ReasonForVisit   *string
	Symptoms         *[]string
	Notes            *string
	Diagnosis        *string
	Prescriptions    *[]entity.Prescription
	Vitals           *map[string]string
	PaymentStatus    *string
}

// Update applies a role-gated field whitelist: admins may change almost
// anything, doctors clinical fields and status, customers only notes and
// symptoms. Fields outside the actor's whitelist are dropped silently.
func (uc *AppointmentUseCase) Update(ctx context.Context, actor *entity.User, id string, input UpdateAppointmentInput) (*AppointmentDetail, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := uc.requireParticipantOrAdmin(ctx, actor, appointment)
	if err != nil {
		return nil, err
	}

	scheduleChanged := false

	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}
	if input.Symptoms != nil {
		appointment.Symptoms = *input.Symptoms
	}

	if role == entity.RoleDoctor || actor.IsAdmin() {
		if input.Status != nil {
			appointment.Status = entity.AppointmentStatus(*input.Status)
		}
		if input.Diagnosis != nil {
			appointment.Clinical.Diagnosis = *input.Diagnosis
		}
		if input.Prescriptions != nil {
			appointment.Clinical.Prescriptions = *input.Prescriptions
		}
		if input.Vitals != nil {
			appointment.Clinical.Vitals = *input.Vitals
		}
	}

	if actor.IsAdmin() {
		if input.Type != nil {
			appointment.Type = *input.Type
		}
		if input.ReasonForVisit != nil {
			appointment.ReasonForVisit = *input.ReasonForVisit
		}
		if input.PaymentStatus != nil {
			appointment.Payment.Status = *input.PaymentStatus
		}
		if input.ScheduledDate != nil {
			appointment.ScheduledDate = *input.ScheduledDate
			scheduleChanged = true
		}
		if input.ScheduledEndTime != nil {
			appointment.ScheduledEndTime = *input.ScheduledEndTime
			scheduleChanged = true
		}
	}

	if scheduleChanged {
		if !appointment.ScheduledEndTime.After(appointment.ScheduledDate) {
			return nil, errors.BadRequest("Appointment end must be after its start", nil)
		}
		if err := uc.appointmentRepo.UpdateScheduleIfFree(ctx, appointment); err != nil {
			return nil, err
		}
	} else {
		if err := uc.appointmentRepo.Update(ctx, appointment); err != nil {
			return nil, err
		}
	}

	if input.Status != nil && (role == entity.RoleDoctor || actor.IsAdmin()) {
		if appointment.Status == entity.AppointmentCompleted {
			if err := uc.doctorRepo.IncrementCounter(ctx, appointment.DoctorID, repository.DoctorCounterCompleted); err != nil {
				logger.Warn("Failed to increment completed counter for doctor %s: %v", appointment.DoctorID, err)
			}
		}
	}

	return uc.detail(ctx, appointment, nil, nil), nil
}

// Cancel is a status transition, never a delete. Customers may cancel only
// confirmed appointments; doctors their own; admins any. The refund is the
// doctor's tiered amount for the remaining lead time.
func (uc *AppointmentUseCase) Cancel(ctx context.Context, actor *entity.User, id, reason string) (*AppointmentDetail, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := uc.requireParticipantOrAdmin(ctx, actor, appointment)
	if err != nil {
		return nil, err
	}

	if appointment.Status == entity.AppointmentCancelled {
		return nil, errors.Conflict("Appointment is already cancelled", nil)
	}
	switch appointment.Status {
	case entity.AppointmentPending, entity.AppointmentConfirmed, entity.AppointmentRescheduled:
	default:
		return nil, errors.BadRequest("Appointment can no longer be cancelled", nil)
	}

	if role == entity.RoleCustomer && !actor.IsAdmin() && appointment.Status != entity.AppointmentConfirmed {
		return nil, errors.Forbidden("Customers may only cancel confirmed appointments", nil)
	}

	doctor, err := uc.doctorRepo.GetByID(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	hoursBefore := appointment.ScheduledDate.Sub(now).Hours()
	refund := doctor.RefundAmount(hoursBefore)

	appointment.Status = entity.AppointmentCancelled
	appointment.Cancellation = &entity.CancellationRecord{
		CancelledBy:  actor.ID,
		Reason:       reason,
		RefundAmount: refund,
		CancelledAt:  now,
	}
	if refund > 0 && appointment.Payment.Status == entity.PaymentPaid {
		appointment.Payment.Status = entity.PaymentRefunded
	}

	if err := uc.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	if err := uc.doctorRepo.IncrementCounter(ctx, doctor.ID, repository.DoctorCounterCancelled); err != nil {
		logger.Warn("Failed to increment cancelled counter for doctor %s: %v", doctor.ID, err)
	}

	uc.notifyParties(nil, doctor, appointment, "appointment.cancelled")

	return uc.detail(ctx, appointment, nil, doctor), nil
}

type RescheduleInput struct {
	ScheduledDate    time.Time
	ScheduledEndTime time.Time
	Reason           string
}

// Reschedule moves the appointment, preserving the previous slot in the
// audit trail. Eligibility mirrors Cancel; the new interval must be future
// and conflict free (the appointment's own slot excluded).
func (uc *AppointmentUseCase) Reschedule(ctx context.Context, actor *entity.User, id string, input RescheduleInput) (*AppointmentDetail, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := uc.requireParticipantOrAdmin(ctx, actor, appointment)
	if err != nil {
		return nil, err
	}

	switch appointment.Status {
	case entity.AppointmentPending, entity.AppointmentConfirmed, entity.AppointmentRescheduled:
	default:
		return nil, errors.BadRequest("Appointment can no longer be rescheduled", nil)
	}
	if role == entity.RoleCustomer && !actor.IsAdmin() && appointment.Status != entity.AppointmentConfirmed {
		return nil, errors.Forbidden("Customers may only reschedule confirmed appointments", nil)
	}

	now := time.Now()
	if !input.ScheduledDate.After(now) {
		return nil, errors.BadRequest("Appointment must be scheduled in the future", nil)
	}
	if !input.ScheduledEndTime.After(input.ScheduledDate) {
		return nil, errors.BadRequest("Appointment end must be after its start", nil)
	}

	appointment.Reschedules = append(appointment.Reschedules, entity.RescheduleRecord{
		ID:              uuid.New().String(),
		PreviousDate:    appointment.ScheduledDate,
		PreviousEndTime: appointment.ScheduledEndTime,
		RescheduledBy:   actor.ID,
		Reason:          input.Reason,
		RescheduledAt:   now,
	})
	appointment.ScheduledDate = input.ScheduledDate
	appointment.ScheduledEndTime = input.ScheduledEndTime
	appointment.Status = entity.AppointmentRescheduled

	if err := uc.appointmentRepo.UpdateScheduleIfFree(ctx, appointment); err != nil {
		return nil, err
	}

	uc.notifyParties(nil, nil, appointment, "appointment.rescheduled")

	return uc.detail(ctx, appointment, nil, nil), nil
}

// requireParticipantOrAdmin resolves the actor's relation to the
// appointment: its customer, its doctor, or an admin. Anyone else is
// rejected.
func (uc *AppointmentUseCase) requireParticipantOrAdmin(ctx context.Context, actor *entity.User, appointment *entity.Appointment) (string, error) {
	if actor.IsAdmin() {
		return actor.Role, nil
	}

	switch actor.Role {
	case entity.RoleCustomer:
		customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
		if err == nil && customer.ID == appointment.CustomerID {
			return entity.RoleCustomer, nil
		}
	case entity.RoleDoctor:
		doctor, err := uc.doctorRepo.GetByUserID(ctx, actor.ID)
		if err == nil && doctor.ID == appointment.DoctorID {
			return entity.RoleDoctor, nil
		}
	}

	return "", errors.Forbidden("You don't have access to this appointment", nil)
}

func (uc *AppointmentUseCase) detail(ctx context.Context, appointment *entity.Appointment, customer *entity.Customer, doctor *entity.Doctor) *AppointmentDetail {
	detail := &AppointmentDetail{Appointment: appointment}

	if customer == nil {
		if c, err := uc.customerRepo.GetByID(ctx, appointment.CustomerID); err == nil {
			customer = c
		}
	}
	if doctor == nil {
		if d, err := uc.doctorRepo.GetByID(ctx, appointment.DoctorID); err == nil {
			doctor = d
		}
	}

	if customer != nil {
		detail.CustomerName = customer.FullName
	}
	if doctor != nil {
		detail.DoctorName = doctor.FullName
		for _, sid := range doctor.SpecialtyIDs {
			if s, err := uc.specialtyRepo.GetByID(ctx, sid); err == nil {
				detail.SpecialtyNames = append(detail.SpecialtyNames, s.Name)
			}
		}
	}

	return detail
}

func (uc *AppointmentUseCase) notifyParties(customer *entity.Customer, doctor *entity.Doctor, appointment *entity.Appointment, eventType string) {
	if uc.notifier == nil {
		return
	}

	event := websocket.Event{
		Type:          eventType,
		AppointmentID: appointment.ID,
		Status:        string(appointment.Status),
		OccurredAt:    time.Now(),
	}

	ctx := context.Background()
	if customer == nil {
		customer, _ = uc.customerRepo.GetByID(ctx, appointment.CustomerID)
	}
	if doctor == nil {
		doctor, _ = uc.doctorRepo.GetByID(ctx, appointment.DoctorID)
	}

	if customer != nil {
		uc.notifier.Notify(customer.UserID, event)
	}
	if doctor != nil {
		uc.notifier.Notify(doctor.UserID, event)
	}
}
