package usecase

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type AdminUseCase struct {
	adminRepo repository.AdminRepository
	userRepo  repository.UserRepository
}

func NewAdminUseCase(adminRepo repository.AdminRepository, userRepo repository.UserRepository) *AdminUseCase {
	return &AdminUseCase{
		adminRepo: adminRepo,
		userRepo:  userRepo,
	}
}

type CreateAdminInput struct {
	UserID       string
	FullName     string
	Permissions  []string
	SupervisorID string
}

// Create provisions a company admin profile for an existing user. Only
// super admins create admins; the target user is promoted to the
// company_admin role.
func (uc *AdminUseCase) Create(ctx context.Context, actor *entity.User, input CreateAdminInput) (*entity.CompanyAdmin, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, errors.Forbidden("Only super admins can create admins", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.adminRepo.GetByUserID(ctx, user.ID); err == nil {
		return nil, errors.Conflict("Admin profile already exists for this user", nil)
	}

	if err := validatePermissions(input.Permissions); err != nil {
		return nil, err
	}

	admin := &entity.CompanyAdmin{
		UserID:      user.ID,
		FullName:    input.FullName,
		Permissions: input.Permissions,
	}

	if input.SupervisorID != "" {
		supervisor, err := uc.adminRepo.GetByID(ctx, input.SupervisorID)
		if err != nil {
			return nil, errors.BadRequest("Unknown supervisor", err)
		}
		admin.SupervisorID = supervisor.ID
	}

	if err := uc.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	if input.SupervisorID != "" {
		if supervisor, err := uc.adminRepo.GetByID(ctx, input.SupervisorID); err == nil {
			supervisor.Subordinates = append(supervisor.Subordinates, admin.ID)
			if err := uc.adminRepo.Update(ctx, supervisor); err != nil {
				return nil, err
			}
		}
	}

	user.Role = entity.RoleCompanyAdmin
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return admin, nil
}

func (uc *AdminUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*entity.CompanyAdmin, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("Admin access required", nil)
	}
	return uc.adminRepo.GetByID(ctx, id)
}

func (uc *AdminUseCase) GetProfile(ctx context.Context, actor *entity.User) (*entity.CompanyAdmin, error) {
	return uc.adminRepo.GetByUserID(ctx, actor.ID)
}

func (uc *AdminUseCase) List(ctx context.Context, actor *entity.User, page, limit int) ([]*entity.CompanyAdmin, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.Forbidden("Admin access required", nil)
	}
	p := utils.NewPaginationParams(page, limit)
	return uc.adminRepo.List(ctx, p.PageSize, p.Offset)
}

// SetPermissions replaces an admin's permission set. Super admin only.
func (uc *AdminUseCase) SetPermissions(ctx context.Context, actor *entity.User, adminID string, permissions []string) (*entity.CompanyAdmin, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, errors.Forbidden("Only super admins can change permissions", nil)
	}

	if err := validatePermissions(permissions); err != nil {
		return nil, err
	}

	admin, err := uc.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	admin.Permissions = permissions
	if err := uc.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// AssignSupervisor rewires the reporting chain. Self-supervision and any
// assignment that would close a cycle in the chain are rejected; an empty
// supervisor id detaches the admin.
func (uc *AdminUseCase) AssignSupervisor(ctx context.Context, actor *entity.User, adminID, supervisorID string) (*entity.CompanyAdmin, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, errors.Forbidden("Only super admins can change the reporting chain", nil)
	}

	admin, err := uc.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if supervisorID == admin.ID {
		return nil, errors.BadRequest("An admin cannot supervise themselves", nil)
	}

	if supervisorID != "" {
		if _, err := uc.adminRepo.GetByID(ctx, supervisorID); err != nil {
			return nil, errors.BadRequest("Unknown supervisor", err)
		}
		if err := uc.checkNoCycle(ctx, admin.ID, supervisorID); err != nil {
			return nil, err
		}
	}

	if admin.SupervisorID != "" && admin.SupervisorID != supervisorID {
		if previous, err := uc.adminRepo.GetByID(ctx, admin.SupervisorID); err == nil {
			previous.Subordinates = removeID(previous.Subordinates, admin.ID)
			if err := uc.adminRepo.Update(ctx, previous); err != nil {
				return nil, err
			}
		}
	}

	admin.SupervisorID = supervisorID
	if err := uc.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}

	if supervisorID != "" {
		supervisor, err := uc.adminRepo.GetByID(ctx, supervisorID)
		if err != nil {
			return nil, err
		}
		supervisor.Subordinates = appendUnique(supervisor.Subordinates, admin.ID)
		if err := uc.adminRepo.Update(ctx, supervisor); err != nil {
			return nil, err
		}
	}

	return admin, nil
}

func (uc *AdminUseCase) ActivityLog(ctx context.Context, actor *entity.User, adminID string) ([]entity.ActivityEntry, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("Admin access required", nil)
	}

	admin, err := uc.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return admin.ActivityLog, nil
}

// checkNoCycle walks the supervisor chain upward from the candidate; if it
// reaches adminID the assignment would make the chain circular.
func (uc *AdminUseCase) checkNoCycle(ctx context.Context, adminID, candidateSupervisorID string) error {
	seen := map[string]bool{}
	current := candidateSupervisorID
	for current != "" {
		if current == adminID {
			return errors.BadRequest("Assignment would create a supervision cycle", nil)
		}
		if seen[current] {
			return errors.Internal("Supervision chain is already circular", nil)
		}
		seen[current] = true

		supervisor, err := uc.adminRepo.GetByID(ctx, current)
		if err != nil {
			return nil
		}
		current = supervisor.SupervisorID
	}
	return nil
}

func validatePermissions(permissions []string) error {
	for _, p := range permissions {
		switch p {
		case entity.PermVerifyDoctors, entity.PermModerateReviews, entity.PermManageUsers, entity.PermManageTaxonomy:
		default:
			return errors.BadRequest("Unknown permission: "+p, nil)
		}
	}
	return nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
