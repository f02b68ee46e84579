package repository

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

type ReviewRepository interface {
	// CreateForAppointment inserts the review keyed by its appointment id;
	// a second review for the same appointment fails with Conflict.
	CreateForAppointment(ctx context.Context, review *entity.Review) error

	// ApproveAndRecalcRating marks the review approved and folds its rating
	// into the doctor's running average in one transaction. Reviews that
	// were already approved once (flag resolution) do not recount.
	ApproveAndRecalcRating(ctx context.Context, reviewID string) (*entity.Review, error)

	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByAppointmentID(ctx context.Context, appointmentID string) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Review, int64, error)
}
