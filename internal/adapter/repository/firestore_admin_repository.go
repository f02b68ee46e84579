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

type firestoreAdminRepository struct {
	client *firestore.Client
}

func NewFirestoreAdminRepository(client *firestore.Client) repository.AdminRepository {
	return &firestoreAdminRepository{
		client: client,
	}
}

func (r *firestoreAdminRepository) Create(ctx context.Context, admin *entity.CompanyAdmin) error {
	if admin.ID == "" {
		admin.ID = r.client.Collection("admins").NewDoc().ID
	}

	now := time.Now()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	_, err := r.client.Collection("admins").Doc(admin.ID).Set(ctx, admin)
	if err != nil {
		return errors.Internal("Failed to create admin profile", err)
	}
	return nil
}

func (r *firestoreAdminRepository) GetByID(ctx context.Context, id string) (*entity.CompanyAdmin, error) {
	doc, err := r.client.Collection("admins").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Admin", err)
		}
		return nil, errors.Internal("Failed to get admin", err)
	}

	var admin entity.CompanyAdmin
	if err := doc.DataTo(&admin); err != nil {
		return nil, errors.Internal("Failed to parse admin data", err)
	}
	return &admin, nil
}

func (r *firestoreAdminRepository) GetByUserID(ctx context.Context, userID string) (*entity.CompanyAdmin, error) {
	iter := r.client.Collection("admins").Where("userId", "==", userID).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Admin", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query admin", err)
	}

	var admin entity.CompanyAdmin
	if err := doc.DataTo(&admin); err != nil {
		return nil, errors.Internal("Failed to parse admin data", err)
	}
	return &admin, nil
}

func (r *firestoreAdminRepository) Update(ctx context.Context, admin *entity.CompanyAdmin) error {
	admin.UpdatedAt = time.Now()

	_, err := r.client.Collection("admins").Doc(admin.ID).Set(ctx, admin)
	if err != nil {
		return errors.Internal("Failed to update admin", err)
	}
	return nil
}

func (r *firestoreAdminRepository) List(ctx context.Context, limit, offset int) ([]*entity.CompanyAdmin, int64, error) {
	query := r.client.Collection("admins").Query

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count admins", err)
	}
	total := int64(len(allDocs))

	query = query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var admins []*entity.CompanyAdmin
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate admins", err)
		}
		var admin entity.CompanyAdmin
		if err := doc.DataTo(&admin); err != nil {
			return nil, 0, errors.Internal("Failed to parse admin data", err)
		}
		admins = append(admins, &admin)
	}

	return admins, total, nil
}
