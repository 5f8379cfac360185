package web

import (
	"context"

	"go.uber.org/zap"

	"sambo-academy-admin/internal/session"
)

type ctxKey struct{}

func withSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxKey{}).(*session.Session)
	return s
}

// DropSession is the API client's 401 hook: the session whose token was
// rejected is deleted, so the next request lands on the login page.
func DropSession(store session.Store, log *zap.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		s := sessionFrom(ctx)
		if s == nil {
			return
		}
		if err := store.Delete(context.WithoutCancel(ctx), s.ID); err != nil {
			log.Warn("не удалось удалить сессию", zap.String("session", s.ID), zap.Error(err))
		}
	}
}
