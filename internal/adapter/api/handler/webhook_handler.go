package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
)

type WebhookHandler struct {
	authUseCase *usecase.AuthUseCase
	secret      string
}

var webhookHandler *WebhookHandler

func NewWebhookHandler(authUseCase *usecase.AuthUseCase, secret string) *WebhookHandler {
	return &WebhookHandler{
		authUseCase: authUseCase,
		secret:      secret,
	}
}

func SetupWebhookHandler(authUseCase *usecase.AuthUseCase, secret string) {
	webhookHandler = NewWebhookHandler(authUseCase, secret)
}

func GetWebhookHandler() *WebhookHandler {
	return webhookHandler
}

type identityEventRequest struct {
	Type     string `json:"type" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Metadata struct {
		Role string `json:"role"`
	} `json:"metadata"`
}

// HandleIdentityEvent ingests provider lifecycle events. The payload is
// authenticated with an HMAC-SHA256 signature over the raw body; events are
// idempotent so provider retries are safe.
func (h *WebhookHandler) HandleIdentityEvent(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read request body", err))
	}

	signature := c.Request().Header.Get("X-Webhook-Signature")
	if !h.verifySignature(body, signature) {
		return response.Error(c, errors.Unauthorized("Invalid webhook signature", nil))
	}

	var req identityEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid event payload", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authUseCase.SyncIdentityEvent(c.Request().Context(), usecase.IdentityEvent{
		Type:     req.Type,
		UserID:   req.UserID,
		Email:    req.Email,
		Username: req.Username,
		Role:     req.Metadata.Role,
	}); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "processed"})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
