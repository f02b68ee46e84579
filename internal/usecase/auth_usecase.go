package usecase

import (
	"context"
	"time"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	identity     IdentityClient
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	identity IdentityClient,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		identity:     identity,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	FullName string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates the provider account, the user record, and an empty
// customer profile. Every self-registered account is a customer; doctor and
// admin roles are granted through separate flows.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use", nil)
	}

	uid, err := uc.identity.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.Internal("Failed to create user at identity provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uid,
		AuthID:    uid,
		Email:     input.Email,
		Username:  input.Username,
		Role:      entity.RoleCustomer,
		Active:    true,
		Verified:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		UserID:   user.ID,
		FullName: input.FullName,
	}
	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	token, err := uc.identity.SignInWithEmailPassword(input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, err := uc.identity.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.identity.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, errors.Forbidden("Account is deactivated", nil)
	}

	user.LastLoginAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Warn("Failed to record login time for user %s: %v", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// IdentityEvent is one lifecycle event from the identity provider webhook.
type IdentityEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// SyncIdentityEvent applies a webhook event to the local user store.
// The role comes from explicit event metadata and may only be customer or
// doctor; privileged roles are granted through the admin role endpoint.
// Deletion deactivates the account, it never removes documents.
func (uc *AuthUseCase) SyncIdentityEvent(ctx context.Context, event IdentityEvent) error {
	switch event.Type {
	case "user.created":
		return uc.syncUserCreated(ctx, event)

	case "user.updated":
		user, err := uc.userRepo.GetByID(ctx, event.UserID)
		if err != nil {
			return err
		}
		if event.Email != "" {
			user.Email = event.Email
		}
		if event.Username != "" {
			user.Username = event.Username
		}
		return uc.userRepo.Update(ctx, user)

	case "user.deleted":
		user, err := uc.userRepo.GetByID(ctx, event.UserID)
		if err != nil {
			return err
		}
		user.Active = false
		return uc.userRepo.Update(ctx, user)

	case "session.created":
		user, err := uc.userRepo.GetByID(ctx, event.UserID)
		if err != nil {
			return err
		}
		user.LastLoginAt = time.Now()
		return uc.userRepo.Update(ctx, user)

	default:
		return errors.BadRequest("Unknown event type", nil)
	}
}

func (uc *AuthUseCase) syncUserCreated(ctx context.Context, event IdentityEvent) error {
	if existing, err := uc.userRepo.GetByID(ctx, event.UserID); err == nil && existing != nil {
		// Replayed event; sync is idempotent.
		return nil
	}

	role := entity.RoleCustomer
	if event.Role == entity.RoleDoctor {
		role = entity.RoleDoctor
	}

	now := time.Now()
	user := &entity.User{
		ID:        event.UserID,
		AuthID:    event.UserID,
		Email:     event.Email,
		Username:  event.Username,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return err
	}

	if role == entity.RoleCustomer {
		customer := &entity.Customer{UserID: user.ID}
		if err := uc.customerRepo.Create(ctx, customer); err != nil {
			return err
		}
	}
	return nil
}

// SetRole grants or changes a role. Only a super admin may do this, and a
// super admin cannot demote themselves past lockout.
func (uc *AuthUseCase) SetRole(ctx context.Context, actor *entity.User, targetID, role string) (*entity.User, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, errors.Forbidden("Only a super admin may assign roles", nil)
	}

	switch role {
	case entity.RoleCustomer, entity.RoleDoctor, entity.RoleCompanyAdmin, entity.RoleSuperAdmin:
	default:
		return nil, errors.BadRequest("Unknown role", nil)
	}

	if actor.ID == targetID && role != entity.RoleSuperAdmin {
		return nil, errors.BadRequest("Cannot remove your own super admin role", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
