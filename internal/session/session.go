// Package session keeps the backend bearer token on the server side. The
// browser only holds an opaque session id in a cookie.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotFound is returned for unknown and expired sessions.
var ErrNotFound = errors.New("session not found")

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserName  string    `json:"user_name"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
	Flashes   []Flash   `json:"flashes"`
}

// New creates a session with a fresh random id.
func New(token, userName string, isAdmin bool, expiresAt time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserName:  userName,
		IsAdmin:   isAdmin,
		ExpiresAt: expiresAt,
	}
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) AddFlash(kind FlashKind, msg string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: msg})
}

// PopFlashes returns the pending messages and clears them. The caller saves
// the session afterwards.
func (s *Session) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}

func (s *Session) clone() *Session {
	copied := *s
	copied.Flashes = append([]Flash(nil), s.Flashes...)
	return &copied
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}
