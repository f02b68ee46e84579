package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
)

type AuthMiddleware struct {
	identity usecase.IdentityClient
	userRepo repository.UserRepository
}

func NewAuthMiddleware(identity usecase.IdentityClient, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		identity: identity,
		userRepo: userRepo,
	}
}

// Authenticate verifies the bearer token and loads the account onto the
// request context under "uid" and "currentUser". Deactivated accounts are
// rejected even with a valid token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		uid, err := m.identity.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account not found")
		}
		if !user.Active {
			return echo.NewHTTPError(http.StatusForbidden, "Account is deactivated")
		}

		c.Set("uid", user.ID)
		c.Set("currentUser", user)

		return next(c)
	}
}

// OptionalAuthenticate loads the account when a valid token is present and
// continues anonymously otherwise. Used on public endpoints that
// personalize for signed-in callers.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return next(c)
		}

		uid, err := m.identity.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return next(c)
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil || !user.Active {
			return next(c)
		}

		c.Set("uid", user.ID)
		c.Set("currentUser", user)

		return next(c)
	}
}

// RequireRoles gates a route to the named roles. It must run after
// Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient privileges")
		}
	}
}

// AdminOnly admits company and super admins.
func (m *AuthMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireRoles(entity.RoleCompanyAdmin, entity.RoleSuperAdmin)(next)
}

// CurrentUser returns the authenticated account, or nil on anonymous
// requests.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get("currentUser").(*entity.User)
	return user
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
	}

	return parts[1], nil
}
