package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/ratelimit"
)

func TestRateLimitMiddleware(t *testing.T) {
	m := NewRateLimitMiddleware(ratelimit.NewRateLimiter(60))
	e := echo.New()

	handler := m.Limit("auth")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	run := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	// the auth bucket holds 5 tokens
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, run().Code)
	}

	rec := run()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "TOO_MANY_REQUESTS", resp.Error.Code)
}

func TestRateLimitKeysAuthenticatedCallersByUID(t *testing.T) {
	m := NewRateLimitMiddleware(ratelimit.NewRateLimiter(60))
	e := echo.New()

	handler := m.Limit("auth")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	run := func(uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if uid != "" {
			c.Set("uid", uid)
		}
		require.NoError(t, handler(c))
		return rec
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, run("user-a").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, run("user-a").Code)

	// a different user on the same IP has their own bucket
	assert.Equal(t, http.StatusOK, run("user-b").Code)
	// so does the anonymous client
	assert.Equal(t, http.StatusOK, run("").Code)
}
