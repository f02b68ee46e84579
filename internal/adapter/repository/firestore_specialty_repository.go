package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type firestoreSpecialtyRepository struct {
	client *firestore.Client
}

func NewFirestoreSpecialtyRepository(client *firestore.Client) repository.SpecialtyRepository {
	return &firestoreSpecialtyRepository{
		client: client,
	}
}

func (r *firestoreSpecialtyRepository) Create(ctx context.Context, specialty *entity.Specialty) error {
	if specialty.ID == "" {
		specialty.ID = r.client.Collection("specialties").NewDoc().ID
	}

	now := time.Now()
	if specialty.CreatedAt.IsZero() {
		specialty.CreatedAt = now
	}
	specialty.UpdatedAt = now

	_, err := r.client.Collection("specialties").Doc(specialty.ID).Set(ctx, specialty)
	if err != nil {
		return errors.Internal("Failed to create specialty", err)
	}
	return nil
}

func (r *firestoreSpecialtyRepository) GetByID(ctx context.Context, id string) (*entity.Specialty, error) {
	doc, err := r.client.Collection("specialties").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Specialty", err)
		}
		return nil, errors.Internal("Failed to get specialty", err)
	}

	var specialty entity.Specialty
	if err := doc.DataTo(&specialty); err != nil {
		return nil, errors.Internal("Failed to parse specialty data", err)
	}
	return &specialty, nil
}

func (r *firestoreSpecialtyRepository) GetBySlug(ctx context.Context, slug string) (*entity.Specialty, error) {
	iter := r.client.Collection("specialties").Where("slug", "==", slug).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Specialty", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query specialty", err)
	}

	var specialty entity.Specialty
	if err := doc.DataTo(&specialty); err != nil {
		return nil, errors.Internal("Failed to parse specialty data", err)
	}
	return &specialty, nil
}

func (r *firestoreSpecialtyRepository) Update(ctx context.Context, specialty *entity.Specialty) error {
	specialty.UpdatedAt = time.Now()

	_, err := r.client.Collection("specialties").Doc(specialty.ID).Set(ctx, specialty)
	if err != nil {
		return errors.Internal("Failed to update specialty", err)
	}
	return nil
}

func (r *firestoreSpecialtyRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Specialty, int64, error) {
	query := r.client.Collection("specialties").Query
	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count specialties", err)
	}
	total := int64(len(allDocs))

	query = query.OrderBy("name", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var specialties []*entity.Specialty
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate specialties", err)
		}
		var specialty entity.Specialty
		if err := doc.DataTo(&specialty); err != nil {
			return nil, 0, errors.Internal("Failed to parse specialty data", err)
		}
		specialties = append(specialties, &specialty)
	}

	return specialties, total, nil
}

func (r *firestoreSpecialtyRepository) ListChildren(ctx context.Context, parentID string) ([]*entity.Specialty, error) {
	iter := r.client.Collection("specialties").Where("parentId", "==", parentID).Documents(ctx)

	var children []*entity.Specialty
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate specialties", err)
		}
		var specialty entity.Specialty
		if err := doc.DataTo(&specialty); err != nil {
			return nil, errors.Internal("Failed to parse specialty data", err)
		}
		children = append(children, &specialty)
	}
	return children, nil
}
