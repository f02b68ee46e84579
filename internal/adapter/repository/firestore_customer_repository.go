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

type firestoreCustomerRepository struct {
	client *firestore.Client
}

func NewFirestoreCustomerRepository(client *firestore.Client) repository.CustomerRepository {
	return &firestoreCustomerRepository{
		client: client,
	}
}

func (r *firestoreCustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == "" {
		customer.ID = r.client.Collection("customers").NewDoc().ID
	}

	now := time.Now()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now
	if customer.FavoriteDoctors == nil {
		customer.FavoriteDoctors = []string{}
	}

	_, err := r.client.Collection("customers").Doc(customer.ID).Set(ctx, customer)
	if err != nil {
		return errors.Internal("Failed to create customer profile", err)
	}
	return nil
}

func (r *firestoreCustomerRepository) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	doc, err := r.client.Collection("customers").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Customer", err)
		}
		return nil, errors.Internal("Failed to get customer", err)
	}

	var customer entity.Customer
	if err := doc.DataTo(&customer); err != nil {
		return nil, errors.Internal("Failed to parse customer data", err)
	}
	return &customer, nil
}

func (r *firestoreCustomerRepository) GetByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	iter := r.client.Collection("customers").Where("userId", "==", userID).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Customer", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query customer", err)
	}

	var customer entity.Customer
	if err := doc.DataTo(&customer); err != nil {
		return nil, errors.Internal("Failed to parse customer data", err)
	}
	return &customer, nil
}

func (r *firestoreCustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customer.UpdatedAt = time.Now()

	_, err := r.client.Collection("customers").Doc(customer.ID).Set(ctx, customer)
	if err != nil {
		return errors.Internal("Failed to update customer", err)
	}
	return nil
}
