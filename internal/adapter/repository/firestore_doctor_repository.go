package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type firestoreDoctorRepository struct {
	client *firestore.Client
}

func NewFirestoreDoctorRepository(client *firestore.Client) repository.DoctorRepository {
	return &firestoreDoctorRepository{
		client: client,
	}
}

func (r *firestoreDoctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if doctor.ID == "" {
		doctor.ID = r.client.Collection("doctors").NewDoc().ID
	}

	now := time.Now()
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = now
	}
	doctor.UpdatedAt = now

	_, err := r.client.Collection("doctors").Doc(doctor.ID).Set(ctx, doctor)
	if err != nil {
		return errors.Internal("Failed to create doctor profile", err)
	}
	return nil
}

func (r *firestoreDoctorRepository) GetByID(ctx context.Context, id string) (*entity.Doctor, error) {
	doc, err := r.client.Collection("doctors").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Doctor", err)
		}
		return nil, errors.Internal("Failed to get doctor", err)
	}

	var doctor entity.Doctor
	if err := doc.DataTo(&doctor); err != nil {
		return nil, errors.Internal("Failed to parse doctor data", err)
	}
	return &doctor, nil
}

func (r *firestoreDoctorRepository) GetByUserID(ctx context.Context, userID string) (*entity.Doctor, error) {
	return r.getByField(ctx, "userId", userID)
}

func (r *firestoreDoctorRepository) GetByLicenseNumber(ctx context.Context, license string) (*entity.Doctor, error) {
	return r.getByField(ctx, "licenseNumber", license)
}

func (r *firestoreDoctorRepository) getByField(ctx context.Context, field, value string) (*entity.Doctor, error) {
	iter := r.client.Collection("doctors").Where(field, "==", value).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Doctor", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query doctor", err)
	}

	var doctor entity.Doctor
	if err := doc.DataTo(&doctor); err != nil {
		return nil, errors.Internal("Failed to parse doctor data", err)
	}
	return &doctor, nil
}

func (r *firestoreDoctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	doctor.UpdatedAt = time.Now()

	_, err := r.client.Collection("doctors").Doc(doctor.ID).Set(ctx, doctor)
	if err != nil {
		return errors.Internal("Failed to update doctor", err)
	}
	return nil
}

// List applies equality filters and a fixed sort mapping. Range filters
// (minimum rating, maximum fee) are applied in memory because the store
// allows at most one inequality field per query.
func (r *firestoreDoctorRepository) List(ctx context.Context, filter map[string]interface{}, sortBy string, limit, offset int) ([]*entity.Doctor, int64, error) {
	query := r.client.Collection("doctors").Query

	minRating, _ := filter["minRating"].(float64)
	maxFee, _ := filter["maxFee"].(float64)

	for key, value := range filter {
		if key == "minRating" || key == "maxFee" {
			continue
		}
		if key == "specialtyId" {
			query = query.Where("specialtyIds", "array-contains", value)
			continue
		}
		query = query.Where(key, "==", value)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to query doctors", err)
	}

	var doctors []*entity.Doctor
	for _, doc := range docs {
		var doctor entity.Doctor
		if err := doc.DataTo(&doctor); err != nil {
			return nil, 0, errors.Internal("Failed to parse doctor data", err)
		}
		if minRating > 0 && doctor.Ratings.Average < minRating {
			continue
		}
		if maxFee > 0 && doctor.ConsultationFee > maxFee {
			continue
		}
		doctors = append(doctors, &doctor)
	}

	sortDoctors(doctors, sortBy)
	total := int64(len(doctors))
	doctors = paginateDoctors(doctors, limit, offset)

	return doctors, total, nil
}

// Search does a case-insensitive contains match over name and bio. The
// store has no full-text search; candidate rows are scanned.
func (r *firestoreDoctorRepository) Search(ctx context.Context, search string, filter map[string]interface{}, limit, offset int) ([]*entity.Doctor, int64, error) {
	search = strings.ToLower(search)

	all, _, err := r.List(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, 0, err
	}

	var matched []*entity.Doctor
	for _, doctor := range all {
		if strings.Contains(strings.ToLower(doctor.FullName), search) ||
			strings.Contains(strings.ToLower(doctor.Bio), search) {
			matched = append(matched, doctor)
		}
	}

	total := int64(len(matched))
	matched = paginateDoctors(matched, limit, offset)

	return matched, total, nil
}

func (r *firestoreDoctorRepository) ListVerifiedBySpecialty(ctx context.Context, specialtyID string) ([]*entity.Doctor, error) {
	query := r.client.Collection("doctors").
		Where("specialtyIds", "array-contains", specialtyID).
		Where("verificationStatus", "==", entity.VerificationVerified)

	iter := query.Documents(ctx)
	var doctors []*entity.Doctor
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate doctors", err)
		}
		var doctor entity.Doctor
		if err := doc.DataTo(&doctor); err != nil {
			return nil, errors.Internal("Failed to parse doctor data", err)
		}
		doctors = append(doctors, &doctor)
	}
	return doctors, nil
}

func (r *firestoreDoctorRepository) IncrementCounter(ctx context.Context, doctorID string, field repository.DoctorCounterField) error {
	_, err := r.client.Collection("doctors").Doc(doctorID).Update(ctx, []firestore.Update{
		{Path: string(field), Value: firestore.Increment(1)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to increment doctor counter", err)
	}
	return nil
}

func sortDoctors(doctors []*entity.Doctor, sortBy string) {
	var less func(a, b *entity.Doctor) bool

	switch sortBy {
	case "rating_desc", "":
		less = func(a, b *entity.Doctor) bool { return a.Ratings.Average > b.Ratings.Average }
	case "fee_asc":
		less = func(a, b *entity.Doctor) bool { return a.ConsultationFee < b.ConsultationFee }
	case "fee_desc":
		less = func(a, b *entity.Doctor) bool { return a.ConsultationFee > b.ConsultationFee }
	case "experience_desc":
		less = func(a, b *entity.Doctor) bool { return a.PracticeStartYear < b.PracticeStartYear }
	case "newest":
		less = func(a, b *entity.Doctor) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		less = func(a, b *entity.Doctor) bool { return a.Ratings.Average > b.Ratings.Average }
	}

	sort.SliceStable(doctors, func(i, j int) bool { return less(doctors[i], doctors[j]) })
}

func paginateDoctors(doctors []*entity.Doctor, limit, offset int) []*entity.Doctor {
	if limit <= 0 {
		return doctors
	}
	if offset >= len(doctors) {
		return []*entity.Doctor{}
	}
	end := offset + limit
	if end > len(doctors) {
		end = len(doctors)
	}
	return doctors[offset:end]
}
