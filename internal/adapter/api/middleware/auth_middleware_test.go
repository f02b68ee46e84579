package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type stubIdentity struct {
	tokens map[string]string
}

func (s *stubIdentity) CreateUser(_ context.Context, email, password, displayName string) (string, error) {
	return "", errors.Internal("not implemented", nil)
}

func (s *stubIdentity) VerifyToken(_ context.Context, token string) (string, error) {
	uid, ok := s.tokens[token]
	if !ok {
		return "", errors.Unauthorized("Invalid token", nil)
	}
	return uid, nil
}

func (s *stubIdentity) DisableUser(_ context.Context, uid string) error { return nil }

func (s *stubIdentity) SignInWithEmailPassword(email, password string) (string, error) {
	return "", errors.Internal("not implemented", nil)
}

type stubUserRepo struct {
	users map[string]*entity.User
}

func (r *stubUserRepo) Create(_ context.Context, user *entity.User) error { return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return nil, errors.NotFound("User", nil)
}

func (r *stubUserRepo) Update(_ context.Context, user *entity.User) error { return nil }

func (r *stubUserRepo) List(_ context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.User, int64, error) {
	return nil, 0, nil
}

func newAuthTestMiddleware() (*AuthMiddleware, *stubUserRepo) {
	repo := &stubUserRepo{users: map[string]*entity.User{
		"uid-1": {ID: "uid-1", Role: entity.RoleCustomer, Active: true},
		"uid-2": {ID: "uid-2", Role: entity.RoleCustomer, Active: false},
	}}
	identity := &stubIdentity{tokens: map[string]string{
		"good-token":     "uid-1",
		"disabled-token": "uid-2",
	}}
	return NewAuthMiddleware(identity, repo), repo
}

func invoke(m echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	err := m(func(c echo.Context) error { return nil })(c)
	return c, err
}

func TestAuthenticate(t *testing.T) {
	m, _ := newAuthTestMiddleware()

	c, err := invoke(m.Authenticate, "Bearer good-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", c.Get("uid"))
	require.NotNil(t, CurrentUser(c))
	assert.Equal(t, "uid-1", CurrentUser(c).ID)
}

func TestAuthenticateRejections(t *testing.T) {
	m, _ := newAuthTestMiddleware()

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"invalid token", "Bearer bogus", http.StatusUnauthorized},
		{"deactivated account", "Bearer disabled-token", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invoke(m.Authenticate, tc.header)
			require.Error(t, err)
			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tc.status, httpErr.Code)
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	m, _ := newAuthTestMiddleware()

	// anonymous requests pass through with no user on the context
	c, err := invoke(m.OptionalAuthenticate, "")
	require.NoError(t, err)
	assert.Nil(t, CurrentUser(c))

	c, err = invoke(m.OptionalAuthenticate, "Bearer bogus")
	require.NoError(t, err)
	assert.Nil(t, CurrentUser(c))

	c, err = invoke(m.OptionalAuthenticate, "Bearer good-token")
	require.NoError(t, err)
	require.NotNil(t, CurrentUser(c))
	assert.Equal(t, "uid-1", CurrentUser(c).ID)
}

func TestRequireRoles(t *testing.T) {
	m, _ := newAuthTestMiddleware()
	e := echo.New()

	run := func(user *entity.User, mw echo.MiddlewareFunc) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if user != nil {
			c.Set("currentUser", user)
		}
		return mw(func(c echo.Context) error { return nil })(c)
	}

	customer := &entity.User{ID: "u-1", Role: entity.RoleCustomer, Active: true}
	admin := &entity.User{ID: "u-2", Role: entity.RoleCompanyAdmin, Active: true}

	require.NoError(t, run(customer, m.RequireRoles(entity.RoleCustomer)))

	err := run(customer, m.RequireRoles(entity.RoleDoctor))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)

	err = run(nil, m.RequireRoles(entity.RoleCustomer))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	require.NoError(t, run(admin, echo.MiddlewareFunc(func(next echo.HandlerFunc) echo.HandlerFunc {
		return m.AdminOnly(next)
	})))
}
