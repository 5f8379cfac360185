package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sambo-admin:session:"

type redisStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStore stores each session as a JSON value that expires together
// with the session.
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb, now: time.Now}
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get session")
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	if s.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}

	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(ctx, s.ID)
		}
	}
	return errors.Wrap(r.rdb.Set(ctx, keyPrefix+s.ID, data, ttl).Err(), "save session")
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.rdb.Del(ctx, keyPrefix+id).Err(), "delete session")
}

func (r *redisStore) Close() error {
	return r.rdb.Close()
}
