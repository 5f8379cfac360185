package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const schema = `
	CREATE TABLE IF NOT EXISTS admin_sessions (
		id         TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		user_name  TEXT NOT NULL DEFAULT '',
		is_admin   BOOLEAN NOT NULL DEFAULT FALSE,
		flashes    JSONB NOT NULL DEFAULT '[]',
		expires_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS admin_sessions_expires_at_idx ON admin_sessions (expires_at);
`

type sessionRow struct {
	ID        string    `db:"id"`
	Token     string    `db:"token"`
	UserName  string    `db:"user_name"`
	IsAdmin   bool      `db:"is_admin"`
	Flashes   []byte    `db:"flashes"`
	ExpiresAt time.Time `db:"expires_at"`
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore stores sessions in the admin_sessions table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// EnsureSchema creates the sessions table and drops expired rows.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create admin_sessions")
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= now()`); err != nil {
		return errors.Wrap(err, "purge expired sessions")
	}
	return nil
}

func (p *postgresStore) Get(ctx context.Context, id string) (*Session, error) {
	var row sessionRow
	query := `SELECT id, token, user_name, is_admin, flashes, expires_at
		FROM admin_sessions WHERE id = $1 AND expires_at > now()`
	if err := p.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get session")
	}

	s := &Session{
		ID:        row.ID,
		Token:     row.Token,
		UserName:  row.UserName,
		IsAdmin:   row.IsAdmin,
		ExpiresAt: row.ExpiresAt,
	}
	if err := json.Unmarshal(row.Flashes, &s.Flashes); err != nil {
		return nil, errors.Wrap(err, "decode flashes")
	}
	return s, nil
}

func (p *postgresStore) Save(ctx context.Context, s *Session) error {
	flashes, err := json.Marshal(s.Flashes)
	if err != nil {
		return errors.Wrap(err, "encode flashes")
	}
	if s.Flashes == nil {
		flashes = []byte("[]")
	}

	query := `
		INSERT INTO admin_sessions (id, token, user_name, is_admin, flashes, expires_at)
		VALUES (:id, :token, :user_name, :is_admin, :flashes, :expires_at)
		ON CONFLICT (id)
		DO UPDATE SET
			token = EXCLUDED.token,
			user_name = EXCLUDED.user_name,
			is_admin = EXCLUDED.is_admin,
			flashes = EXCLUDED.flashes,
			expires_at = EXCLUDED.expires_at
	`
	_, err = p.db.NamedExecContext(ctx, query, sessionRow{
		ID:        s.ID,
		Token:     s.Token,
		UserName:  s.UserName,
		IsAdmin:   s.IsAdmin,
		Flashes:   flashes,
		ExpiresAt: s.ExpiresAt,
	})
	return errors.Wrap(err, "save session")
}

func (p *postgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id)
	return errors.Wrap(err, "delete session")
}

func (p *postgresStore) Close() error {
	return p.db.Close()
}
