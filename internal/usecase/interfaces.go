package usecase

import (
	"context"

	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/websocket"
)

// IdentityClient abstracts the hosted identity provider.
type IdentityClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	DisableUser(ctx context.Context, uid string) error
	SignInWithEmailPassword(email, password string) (string, error)
}

// Notifier pushes realtime events to connected users.
type Notifier interface {
	Notify(userID string, event websocket.Event)
}
