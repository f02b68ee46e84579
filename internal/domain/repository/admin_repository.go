package repository

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.CompanyAdmin) error
	GetByID(ctx context.Context, id string) (*entity.CompanyAdmin, error)
	GetByUserID(ctx context.Context, userID string) (*entity.CompanyAdmin, error)
	Update(ctx context.Context, admin *entity.CompanyAdmin) error
	List(ctx context.Context, limit, offset int) ([]*entity.CompanyAdmin, int64, error)
}
