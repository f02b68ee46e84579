package repository

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
}
