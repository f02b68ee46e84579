package repository

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

type AppointmentRepository interface {
	// CreateIfFree atomically checks the doctor's calendar for an overlapping
	// pending/confirmed appointment and inserts if the slot is free. Returns
	// a Conflict error on overlap; no partial writes.
	CreateIfFree(ctx context.Context, appointment *entity.Appointment) error

	// UpdateScheduleIfFree persists the appointment after a schedule change,
	// re-running the overlap check (excluding the appointment's own id)
	// against the new interval in the same transaction.
	UpdateScheduleIfFree(ctx context.Context, appointment *entity.Appointment) error

	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Appointment, int64, error)
	ListByCustomer(ctx context.Context, customerID string, status entity.AppointmentStatus, limit, offset int) ([]*entity.Appointment, int64, error)
	ListByDoctor(ctx context.Context, doctorID string, status entity.AppointmentStatus, limit, offset int) ([]*entity.Appointment, int64, error)
}
