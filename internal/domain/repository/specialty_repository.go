package repository

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
)

type SpecialtyRepository interface {
	Create(ctx context.Context, specialty *entity.Specialty) error
	GetByID(ctx context.Context, id string) (*entity.Specialty, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Specialty, error)
	Update(ctx context.Context, specialty *entity.Specialty) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Specialty, int64, error)
	ListChildren(ctx context.Context, parentID string) ([]*entity.Specialty, error)
}
