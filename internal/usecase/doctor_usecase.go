package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/logger"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type DoctorUseCase struct {
	doctorRepo    repository.DoctorRepository
	specialtyRepo repository.SpecialtyRepository
	adminRepo     repository.AdminRepository
}

func NewDoctorUseCase(
	doctorRepo repository.DoctorRepository,
	specialtyRepo repository.SpecialtyRepository,
	adminRepo repository.AdminRepository,
) *DoctorUseCase {
	return &DoctorUseCase{
		doctorRepo:    doctorRepo,
		specialtyRepo: specialtyRepo,
		adminRepo:     adminRepo,
	}
}

type CreateDoctorInput struct {
	FullName          string
	LicenseNumber     string
	Bio               string
	SpecialtyIDs      []string
	ConsultationFee   float64
	City              string
	State             string
	Address           string
	PracticeStartYear int
	Availability      []entity.AvailabilitySlot
}

// DoctorDetail is a doctor with specialty names and derived fields resolved.
type DoctorDetail struct {
	*entity.Doctor
	SpecialtyNames    []string `json:"specialty_names"`
	YearsOfExperience int      `json:"years_of_experience"`
}

// CreateProfile registers the acting doctor's practice profile. The license
// number must be unique; every new profile starts pending verification.
func (uc *DoctorUseCase) CreateProfile(ctx context.Context, actor *entity.User, input CreateDoctorInput) (*DoctorDetail, error) {
	if _, err := uc.doctorRepo.GetByUserID(ctx, actor.ID); err == nil {
		return nil, errors.Conflict("Doctor profile already exists", nil)
	}

	if _, err := uc.doctorRepo.GetByLicenseNumber(ctx, input.LicenseNumber); err == nil {
		return nil, errors.Conflict("License number is already registered", nil)
	}

	for _, sid := range input.SpecialtyIDs {
		if _, err := uc.specialtyRepo.GetByID(ctx, sid); err != nil {
			return nil, errors.BadRequest("Unknown specialty: "+sid, err)
		}
	}

	doctor := &entity.Doctor{
		UserID:             actor.ID,
		FullName:           input.FullName,
		LicenseNumber:      input.LicenseNumber,
		Bio:                input.Bio,
		SpecialtyIDs:       input.SpecialtyIDs,
		ConsultationFee:    input.ConsultationFee,
		City:               input.City,
		State:              input.State,
		Address:            input.Address,
		PracticeStartYear:  input.PracticeStartYear,
		Availability:       input.Availability,
		VerificationStatus: entity.VerificationPending,
	}

	if err := uc.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	return uc.detail(ctx, doctor), nil
}

func (uc *DoctorUseCase) GetByID(ctx context.Context, id string) (*DoctorDetail, error) {
	doctor, err := uc.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, doctor), nil
}

func (uc *DoctorUseCase) GetProfile(ctx context.Context, actor *entity.User) (*DoctorDetail, error) {
	doctor, err := uc.doctorRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, doctor), nil
}

type UpdateDoctorInput struct {
	FullName          *string
	Bio               *string
	SpecialtyIDs      *[]string
	ConsultationFee   *float64
	City              *string
	State             *string
	Address           *string
	PracticeStartYear *int
	Availability      *[]entity.AvailabilitySlot
}

func (uc *DoctorUseCase) UpdateProfile(ctx context.Context, actor *entity.User, input UpdateDoctorInput) (*DoctorDetail, error) {
	doctor, err := uc.doctorRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		doctor.FullName = *input.FullName
	}
	if input.Bio != nil {
		doctor.Bio = *input.Bio
	}
	if input.SpecialtyIDs != nil {
		for _, sid := range *input.SpecialtyIDs {
			if _, err := uc.specialtyRepo.GetByID(ctx, sid); err != nil {
				return nil, errors.BadRequest("Unknown specialty: "+sid, err)
			}
		}
		doctor.SpecialtyIDs = *input.SpecialtyIDs
	}
	if input.ConsultationFee != nil {
		doctor.ConsultationFee = *input.ConsultationFee
	}
	if input.City != nil {
		doctor.City = *input.City
	}
	if input.State != nil {
		doctor.State = *input.State
	}
	if input.Address != nil {
		doctor.Address = *input.Address
	}
	if input.PracticeStartYear != nil {
		doctor.PracticeStartYear = *input.PracticeStartYear
	}
	if input.Availability != nil {
		doctor.Availability = *input.Availability
	}

	if err := uc.doctorRepo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return uc.detail(ctx, doctor), nil
}

// SetProfileImage stores the uploaded image URL on the doctor's profile and
// returns the previous URL so the caller can delete the stale object.
func (uc *DoctorUseCase) SetProfileImage(ctx context.Context, actor *entity.User, url string) (string, error) {
	doctor, err := uc.doctorRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return "", err
	}

	previous := doctor.ProfileImageURL
	doctor.ProfileImageURL = url
	if err := uc.doctorRepo.Update(ctx, doctor); err != nil {
		return "", err
	}
	return previous, nil
}

// SetLicenseDocument attaches the uploaded license scan and drops the
// doctor back to pending verification so an admin re-reviews it.
func (uc *DoctorUseCase) SetLicenseDocument(ctx context.Context, actor *entity.User, url string) (string, error) {
	doctor, err := uc.doctorRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return "", err
	}

	previous := doctor.LicenseDocumentURL
	doctor.LicenseDocumentURL = url
	if doctor.VerificationStatus != entity.VerificationVerified {
		doctor.VerificationStatus = entity.VerificationPending
	}
	if err := uc.doctorRepo.Update(ctx, doctor); err != nil {
		return "", err
	}
	return previous, nil
}

// ListDoctorsInput narrows the public listing; only verified doctors are
// returned to non-admin callers.
type ListDoctorsInput struct {
	SpecialtyID string
	City        string
	State       string
	MinRating   float64
	MaxFee      float64
	SortBy      string
	Page        int
	Limit       int
}

func (uc *DoctorUseCase) List(ctx context.Context, input ListDoctorsInput, includeUnverified bool) ([]*DoctorDetail, int64, error) {
	filter := map[string]interface{}{}
	if !includeUnverified {
		filter["verificationStatus"] = entity.VerificationVerified
	}
	if input.SpecialtyID != "" {
		filter["specialtyId"] = input.SpecialtyID
	}
	if input.City != "" {
		filter["city"] = input.City
	}
	if input.State != "" {
		filter["state"] = input.State
	}
	if input.MinRating > 0 {
		filter["minRating"] = input.MinRating
	}
	if input.MaxFee > 0 {
		filter["maxFee"] = input.MaxFee
	}

	p := utils.NewPaginationParams(input.Page, input.Limit)
	doctors, total, err := uc.doctorRepo.List(ctx, filter, input.SortBy, p.PageSize, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	return uc.details(ctx, doctors), total, nil
}

func (uc *DoctorUseCase) Search(ctx context.Context, query string, input ListDoctorsInput) ([]*DoctorDetail, int64, error) {
	filter := map[string]interface{}{
		"verificationStatus": entity.VerificationVerified,
	}
	if input.SpecialtyID != "" {
		filter["specialtyId"] = input.SpecialtyID
	}
	if input.City != "" {
		filter["city"] = input.City
	}
	if input.State != "" {
		filter["state"] = input.State
	}
	if input.MinRating > 0 {
		filter["minRating"] = input.MinRating
	}
	if input.MaxFee > 0 {
		filter["maxFee"] = input.MaxFee
	}

	p := utils.NewPaginationParams(input.Page, input.Limit)
	doctors, total, err := uc.doctorRepo.Search(ctx, query, filter, p.PageSize, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	return uc.details(ctx, doctors), total, nil
}

// ListPendingVerification surfaces the admin review queue.
func (uc *DoctorUseCase) ListPendingVerification(ctx context.Context, page, limit int) ([]*entity.Doctor, int64, error) {
	p := utils.NewPaginationParams(page, limit)
	filter := map[string]interface{}{
		"verificationStatus": entity.VerificationPending,
	}
	return uc.doctorRepo.List(ctx, filter, "newest", p.PageSize, p.Offset)
}

// SetVerificationStatus moves a doctor between verification states. The
// acting admin needs the doctor-verification permission; the transition is
// recorded in their activity log.
func (uc *DoctorUseCase) SetVerificationStatus(ctx context.Context, actor *entity.User, doctorID, status, notes string) (*entity.Doctor, error) {
	switch status {
	case entity.VerificationVerified, entity.VerificationSuspended, entity.VerificationRejected, entity.VerificationPending:
	default:
		return nil, errors.BadRequest("Invalid verification status: "+status, nil)
	}

	if err := uc.requirePermission(ctx, actor, entity.PermVerifyDoctors); err != nil {
		return nil, err
	}

	doctor, err := uc.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	doctor.VerificationStatus = status
	if err := uc.doctorRepo.Update(ctx, doctor); err != nil {
		return nil, err
	}

	uc.logAdminActivity(ctx, actor, "doctor.verification."+status, doctor.ID, notes)

	return doctor, nil
}

// requirePermission admits super admins outright and company admins holding
// the named permission.
func (uc *DoctorUseCase) requirePermission(ctx context.Context, actor *entity.User, perm string) error {
	if actor.Role == entity.RoleSuperAdmin {
		return nil
	}
	if actor.Role != entity.RoleCompanyAdmin {
		return errors.Forbidden("Admin access required", nil)
	}

	admin, err := uc.adminRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return errors.Forbidden("Admin profile not found", err)
	}
	if !admin.HasPermission(perm) {
		return errors.Forbidden("Missing permission: "+perm, nil)
	}
	return nil
}

func (uc *DoctorUseCase) logAdminActivity(ctx context.Context, actor *entity.User, action, resourceID, detail string) {
	if actor.Role != entity.RoleCompanyAdmin {
		return
	}

	admin, err := uc.adminRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		logger.Warn("Failed to load admin profile for activity log: %v", err)
		return
	}

	admin.LogActivity(entity.ActivityEntry{
		ID:         uuid.New().String(),
		Action:     action,
		ResourceID: resourceID,
		Detail:     detail,
		OccurredAt: time.Now(),
	})

	if err := uc.adminRepo.Update(ctx, admin); err != nil {
		logger.Warn("Failed to persist admin activity log: %v", err)
	}
}

func (uc *DoctorUseCase) detail(ctx context.Context, doctor *entity.Doctor) *DoctorDetail {
	detail := &DoctorDetail{
		Doctor:            doctor,
		SpecialtyNames:    make([]string, 0, len(doctor.SpecialtyIDs)),
		YearsOfExperience: doctor.YearsOfExperience(time.Now()),
	}
	for _, sid := range doctor.SpecialtyIDs {
		if s, err := uc.specialtyRepo.GetByID(ctx, sid); err == nil {
			detail.SpecialtyNames = append(detail.SpecialtyNames, s.Name)
		}
	}
	return detail
}

func (uc *DoctorUseCase) details(ctx context.Context, doctors []*entity.Doctor) []*DoctorDetail {
	out := make([]*DoctorDetail, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, uc.detail(ctx, d))
	}
	return out
}
