package usecase

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/logger"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type UserUseCase struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
	identity  IdentityClient
}

func NewUserUseCase(userRepo repository.UserRepository, adminRepo repository.AdminRepository, identity IdentityClient) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		identity:  identity,
	}
}

func (uc *UserUseCase) List(ctx context.Context, actor *entity.User, role string, page, limit int) ([]*entity.User, int64, error) {
	if err := uc.requirePermission(ctx, actor, entity.PermManageUsers); err != nil {
		return nil, 0, err
	}

	filter := map[string]interface{}{}
	if role != "" {
		filter["role"] = role
	}

	p := utils.NewPaginationParams(page, limit)
	return uc.userRepo.List(ctx, filter, p.PageSize, p.Offset)
}

func (uc *UserUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*entity.User, error) {
	if actor.ID != id {
		if err := uc.requirePermission(ctx, actor, entity.PermManageUsers); err != nil {
			return nil, err
		}
	}
	return uc.userRepo.GetByID(ctx, id)
}

// SetActive deactivates or reactivates an account. Deactivation disables
// the hosted identity too so stale tokens stop working; the account record
// itself is never deleted.
func (uc *UserUseCase) SetActive(ctx context.Context, actor *entity.User, id string, active bool) (*entity.User, error) {
	if err := uc.requirePermission(ctx, actor, entity.PermManageUsers); err != nil {
		return nil, err
	}

	if actor.ID == id && !active {
		return nil, errors.BadRequest("You cannot deactivate your own account", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Active = active
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if !active {
		if err := uc.identity.DisableUser(ctx, user.AuthID); err != nil {
			logger.Warn("Failed to disable identity for user %s: %v", user.ID, err)
		}
	}

	return user, nil
}

func (uc *UserUseCase) requirePermission(ctx context.Context, actor *entity.User, perm string) error {
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
