package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

type SpecialtyUseCase struct {
	specialtyRepo repository.SpecialtyRepository
	doctorRepo    repository.DoctorRepository
}

func NewSpecialtyUseCase(specialtyRepo repository.SpecialtyRepository, doctorRepo repository.DoctorRepository) *SpecialtyUseCase {
	return &SpecialtyUseCase{
		specialtyRepo: specialtyRepo,
		doctorRepo:    doctorRepo,
	}
}

// GenerateSlug turns a display name into a URL slug.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

type CreateSpecialtyInput struct {
	Name        string
	Description string
	ParentID    string
}

// Create adds a taxonomy node. The slug is derived from the name and must
// be unique; a parent, when given, must exist and be at most one level deep.
func (uc *SpecialtyUseCase) Create(ctx context.Context, input CreateSpecialtyInput) (*entity.Specialty, error) {
	slug := GenerateSlug(input.Name)
	if slug == "" {
		return nil, errors.BadRequest("Specialty name produces an empty slug", nil)
	}

	if _, err := uc.specialtyRepo.GetBySlug(ctx, slug); err == nil {
		return nil, errors.Conflict("Specialty slug already exists: "+slug, nil)
	}

	if input.ParentID != "" {
		parent, err := uc.specialtyRepo.GetByID(ctx, input.ParentID)
		if err != nil {
			return nil, errors.BadRequest("Unknown parent specialty", err)
		}
		if parent.ParentID != "" {
			return nil, errors.BadRequest("Specialties nest at most one level deep", nil)
		}
	}

	specialty := &entity.Specialty{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		ParentID:    input.ParentID,
		Status:      "active",
	}

	if err := uc.specialtyRepo.Create(ctx, specialty); err != nil {
		return nil, err
	}
	return specialty, nil
}

func (uc *SpecialtyUseCase) GetByID(ctx context.Context, id string) (*entity.Specialty, error) {
	return uc.specialtyRepo.GetByID(ctx, id)
}

func (uc *SpecialtyUseCase) GetBySlug(ctx context.Context, slug string) (*entity.Specialty, error) {
	return uc.specialtyRepo.GetBySlug(ctx, slug)
}

type UpdateSpecialtyInput struct {
	Name        *string
	Description *string
	Status      *string
}

// Update renames or archives a node. Renaming regenerates the slug, again
// enforcing uniqueness.
func (uc *SpecialtyUseCase) Update(ctx context.Context, id string, input UpdateSpecialtyInput) (*entity.Specialty, error) {
	specialty, err := uc.specialtyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != specialty.Name {
		slug := GenerateSlug(*input.Name)
		if slug == "" {
			return nil, errors.BadRequest("Specialty name produces an empty slug", nil)
		}
		if existing, err := uc.specialtyRepo.GetBySlug(ctx, slug); err == nil && existing.ID != specialty.ID {
			return nil, errors.Conflict("Specialty slug already exists: "+slug, nil)
		}
		specialty.Name = *input.Name
		specialty.Slug = slug
	}
	if input.Description != nil {
		specialty.Description = *input.Description
	}
	if input.Status != nil {
		switch *input.Status {
		case "active", "archived":
			specialty.Status = *input.Status
		default:
			return nil, errors.BadRequest("Invalid specialty status: "+*input.Status, nil)
		}
	}

	if err := uc.specialtyRepo.Update(ctx, specialty); err != nil {
		return nil, err
	}
	return specialty, nil
}

// Archive retires a node instead of deleting it, so doctors keep their
// historical references.
func (uc *SpecialtyUseCase) Archive(ctx context.Context, id string) (*entity.Specialty, error) {
	status := "archived"
	return uc.Update(ctx, id, UpdateSpecialtyInput{Status: &status})
}

func (uc *SpecialtyUseCase) List(ctx context.Context, includeArchived bool, page, limit int) ([]*entity.Specialty, int64, error) {
	filter := map[string]interface{}{}
	if !includeArchived {
		filter["status"] = "active"
	}

	p := utils.NewPaginationParams(page, limit)
	return uc.specialtyRepo.List(ctx, filter, p.PageSize, p.Offset)
}

func (uc *SpecialtyUseCase) ListChildren(ctx context.Context, parentID string) ([]*entity.Specialty, error) {
	if _, err := uc.specialtyRepo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return uc.specialtyRepo.ListChildren(ctx, parentID)
}

// RefreshStats recomputes the cached doctor count and average rating for a
// specialty from its verified doctors. The cache is advisory, not
// transactional with doctor writes.
func (uc *SpecialtyUseCase) RefreshStats(ctx context.Context, id string) (*entity.Specialty, error) {
	specialty, err := uc.specialtyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doctors, err := uc.doctorRepo.ListVerifiedBySpecialty(ctx, id)
	if err != nil {
		return nil, err
	}

	var ratingSum float64
	var rated int
	for _, d := range doctors {
		if d.Ratings.Count > 0 {
			ratingSum += d.Ratings.Average
			rated++
		}
	}

	specialty.Stats = entity.SpecialtyStats{
		DoctorCount: len(doctors),
		RefreshedAt: time.Now(),
	}
	if rated > 0 {
		specialty.Stats.AverageRating = ratingSum / float64(rated)
	}

	if err := uc.specialtyRepo.Update(ctx, specialty); err != nil {
		return nil, err
	}
	return specialty, nil
}
