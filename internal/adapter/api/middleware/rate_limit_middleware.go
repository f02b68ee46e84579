package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/ratelimit"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit throttles the named action. Authenticated callers are keyed by
// account id, anonymous ones by client IP.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, ok := c.Get("uid").(string)
			if !ok || subject == "" {
				subject = c.RealIP()
			}

			allowed, retryAfter := m.limiter.Allow(subject, action)
			if !allowed {
				c.Response().Header().Set("Retry-After", retryAfter.Round(time.Second).String())
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded, slow down"))
			}

			return next(c)
		}
	}
}
