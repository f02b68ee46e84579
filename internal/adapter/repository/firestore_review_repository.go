package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

// CreateForAppointment keys the review document by appointment id; Create
// fails on an existing document, which enforces one review per appointment
// without a separate existence check.
func (r *firestoreReviewRepository) CreateForAppointment(ctx context.Context, review *entity.Review) error {
	review.ID = review.AppointmentID

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := r.client.Collection("reviews").Doc(review.ID).Create(ctx, review)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("A review for this appointment already exists", err)
		}
		return errors.Internal("Failed to create review", err)
	}
	return nil
}

// ApproveAndRecalcRating flips the review to approved and folds its rating
// into the doctor's running average inside one transaction, so a failure
// between the two writes cannot leave the aggregate out of sync.
func (r *firestoreReviewRepository) ApproveAndRecalcRating(ctx context.Context, reviewID string) (*entity.Review, error) {
	reviewRef := r.client.Collection("reviews").Doc(reviewID)

	var approved entity.Review
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		reviewDoc, err := tx.Get(reviewRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Review", err)
			}
			return err
		}

		var review entity.Review
		if err := reviewDoc.DataTo(&review); err != nil {
			return err
		}

		// Only pending and flagged reviews are approvable; the check runs
		// inside the transaction so a concurrent moderation write cannot
		// slip an illegal transition through.
		if review.Status != entity.ReviewPending && review.Status != entity.ReviewFlagged {
			return errors.Conflict("Only pending or flagged reviews can be approved", nil)
		}

		doctorRef := r.client.Collection("doctors").Doc(review.DoctorID)
		doctorDoc, err := tx.Get(doctorRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Doctor", err)
			}
			return err
		}

		var doctor entity.Doctor
		if err := doctorDoc.DataTo(&doctor); err != nil {
			return err
		}

		now := time.Now()
		review.Status = entity.ReviewApproved
		review.UpdatedAt = now

		if !review.RatingCounted {
			oldSum := doctor.Ratings.Average * float64(doctor.Ratings.Count)
			doctor.Ratings.Count++
			doctor.Ratings.Average = (oldSum + float64(review.Rating)) / float64(doctor.Ratings.Count)
			doctor.UpdatedAt = now
			review.RatingCounted = true

			if err := tx.Set(doctorRef, &doctor); err != nil {
				return err
			}
		}

		if err := tx.Set(reviewRef, &review); err != nil {
			return err
		}

		approved = review
		return nil
	})

	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "CONFLICT") {
			return nil, err
		}
		return nil, errors.Internal("Failed to approve review", err)
	}
	return &approved, nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection("reviews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review", err)
		}
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}
	return &review, nil
}

func (r *firestoreReviewRepository) GetByAppointmentID(ctx context.Context, appointmentID string) (*entity.Review, error) {
	return r.GetByID(ctx, appointmentID)
}

func (r *firestoreReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	review.UpdatedAt = time.Now()

	_, err := r.client.Collection("reviews").Doc(review.ID).Set(ctx, review)
	if err != nil {
		return errors.Internal("Failed to update review", err)
	}
	return nil
}

func (r *firestoreReviewRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Review, int64, error) {
	query := r.client.Collection("reviews").Query

	var from, to time.Time
	if v, ok := filter["createdFrom"].(time.Time); ok {
		from = v
	}
	if v, ok := filter["createdTo"].(time.Time); ok {
		to = v
	}

	for key, value := range filter {
		if key == "createdFrom" || key == "createdTo" {
			continue
		}
		query = query.Where(key, "==", value)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to query reviews", err)
	}

	var reviews []*entity.Review
	for _, doc := range docs {
		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, 0, errors.Internal("Failed to parse review data", err)
		}
		if !from.IsZero() && review.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && review.CreatedAt.After(to) {
			continue
		}
		reviews = append(reviews, &review)
	}

	sortReviewsNewestFirst(reviews)
	total := int64(len(reviews))

	if limit > 0 {
		if offset >= len(reviews) {
			return []*entity.Review{}, total, nil
		}
		end := offset + limit
		if end > len(reviews) {
			end = len(reviews)
		}
		reviews = reviews[offset:end]
	}

	return reviews, total, nil
}

func sortReviewsNewestFirst(reviews []*entity.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}
