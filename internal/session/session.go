// Package session holds an auth token behind a pluggable store.
//
// Single-user processes (the CLI, the consumer) build one Session at start
// and hand it to the backend client. The BFF scopes a Session to each
// visitor and carries it in the request context; the client prefers that
// one, reads its token on every request and clears it on HTTP 401.
package session

import (
	"context"
	"fmt"
)

// TokenKey is the fixed key the auth token is persisted under.
const TokenKey = "auth_token"

// TokenStore persists string values by key. A missing key reads as "".
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Session struct {
	store TokenStore
	id    string
}

func New(store TokenStore) *Session {
	return &Session{store: store}
}

// NewScoped returns the session of one visitor. Its token is kept under
// "<id>:auth_token", so visitors sharing a store never see each other's.
func NewScoped(store TokenStore, id string) *Session {
	return &Session{store: store, id: id}
}

// ID is the visitor id of a scoped session, "" otherwise.
func (s *Session) ID() string { return s.id }

func (s *Session) key() string {
	if s.id == "" {
		return TokenKey
	}
	return s.id + ":" + TokenKey
}

// Token returns the stored token, or "" when no one is logged in.
func (s *Session) Token(ctx context.Context) (string, error) {
	tok, err := s.store.Get(ctx, s.key())
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return tok, nil
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	if err := s.store.Set(ctx, s.key(), token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Clear removes the token. It backs both explicit logout and the 401 policy.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key()); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session carried by ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
