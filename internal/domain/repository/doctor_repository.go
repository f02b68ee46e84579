package repository

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

// DoctorCounterField names an appointment counter on the doctor record.
type DoctorCounterField string

const (
	DoctorCounterTotal     DoctorCounterField = "appointments.total"
	DoctorCounterCompleted DoctorCounterField = "appointments.completed"
	DoctorCounterCancelled DoctorCounterField = "appointments.cancelled"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	GetByID(ctx context.Context, id string) (*entity.Doctor, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Doctor, error)
	GetByLicenseNumber(ctx context.Context, license string) (*entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Doctor, int64, error)
	Search(ctx context.Context, query string, filter map[string]interface{}, limit, offset int) ([]*entity.Doctor, int64, error)
	ListVerifiedBySpecialty(ctx context.Context, specialtyID string) ([]*entity.Doctor, error)
	IncrementCounter(ctx context.Context, doctorID string, field DoctorCounterField) error
}
