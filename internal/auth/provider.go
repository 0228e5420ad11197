// Package auth is the identity provider the data context signs users in
// with. It owns the current session and broadcasts auth state changes.
package auth

import (
	"context"
	"time"
)

// EventType identifies an auth state change.
type EventType string

const (
	SignedIn       EventType = "SIGNED_IN"
	SignedOut      EventType = "SIGNED_OUT"
	TokenRefreshed EventType = "TOKEN_REFRESHED"
)

// SessionUser is the identity behind a session.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated session.
type Session struct {
	User        SessionUser `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// Event is delivered to auth state listeners. For SignedOut, Session is the
// session that ended (nil if there was none).
type Event struct {
	Type    EventType
	Session *Session
}

// Listener receives auth state changes. Listeners are invoked on their own
// goroutine and may call back into the provider.
type Listener func(Event)

// Provider is the identity provider contract.
type Provider interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	RefreshSession(ctx context.Context) (*Session, error)
	// OnAuthStateChange registers l and returns a function that removes it.
	OnAuthStateChange(l Listener) (unsubscribe func())
	// ValidateToken checks an access token issued by this provider.
	ValidateToken(token string) (*SessionUser, error)
}
