package usecase

import (
	"context"
	"time"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/logger"
)

type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	doctorRepo   repository.DoctorRepository
}

func NewCustomerUseCase(customerRepo repository.CustomerRepository, doctorRepo repository.DoctorRepository) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		doctorRepo:   doctorRepo,
	}
}

func (uc *CustomerUseCase) GetProfile(ctx context.Context, actor *entity.User) (*entity.Customer, error) {
	return uc.customerRepo.GetByUserID(ctx, actor.ID)
}

func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

type UpdateCustomerInput struct {
	FullName    *string
	Phone       *string
	Gender      *string
	DateOfBirth *time.Time
	City        *string
	State       *string
	Address     *string
	Allergies   *[]string
	Conditions  *[]string
	Medications *[]string
}

func (uc *CustomerUseCase) UpdateProfile(ctx context.Context, actor *entity.User, input UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		customer.FullName = *input.FullName
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Gender != nil {
		customer.Gender = *input.Gender
	}
	if input.DateOfBirth != nil {
		customer.DateOfBirth = *input.DateOfBirth
	}
	if input.City != nil {
		customer.City = *input.City
	}
	if input.State != nil {
		customer.State = *input.State
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.Allergies != nil {
		customer.Allergies = *input.Allergies
	}
	if input.Conditions != nil {
		customer.Conditions = *input.Conditions
	}
	if input.Medications != nil {
		customer.Medications = *input.Medications
	}

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// AddFavorite marks the doctor as a favorite. Adding a doctor that is
// already favorited is rejected with Conflict.
func (uc *CustomerUseCase) AddFavorite(ctx context.Context, actor *entity.User, doctorID string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}

	if !customer.AddFavorite(doctorID) {
		return nil, errors.Conflict("Doctor is already in favorites", nil)
	}

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (uc *CustomerUseCase) RemoveFavorite(ctx context.Context, actor *entity.User, doctorID string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !customer.RemoveFavorite(doctorID) {
		return nil, errors.NotFound("Doctor is not in favorites", nil)
	}

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListFavorites resolves the favorite ids to doctor records. Doctors that
// no longer resolve are skipped, not errored.
func (uc *CustomerUseCase) ListFavorites(ctx context.Context, actor *entity.User) ([]*entity.Doctor, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	doctors := make([]*entity.Doctor, 0, len(customer.FavoriteDoctors))
	for _, id := range customer.FavoriteDoctors {
		doctor, err := uc.doctorRepo.GetByID(ctx, id)
		if err != nil {
			logger.Warn("Skipping unresolvable favorite doctor %s: %v", id, err)
			continue
		}
		doctors = append(doctors, doctor)
	}
	return doctors, nil
}

// RecordSearch appends to the customer's bounded search history. Failures
// are logged and swallowed so the search itself never fails on them.
func (uc *CustomerUseCase) RecordSearch(ctx context.Context, actor *entity.User, query, filters string) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		logger.Warn("Failed to record search for user %s: %v", actor.ID, err)
		return
	}

	customer.RecordSearch(entity.SearchEntry{
		Query:      query,
		Filters:    filters,
		SearchedAt: time.Now(),
	})

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		logger.Warn("Failed to persist search history for user %s: %v", actor.ID, err)
	}
}

func (uc *CustomerUseCase) SearchHistory(ctx context.Context, actor *entity.User) ([]entity.SearchEntry, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return customer.SearchHistory, nil
}
