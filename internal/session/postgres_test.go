package session

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionColumns = []string{"id", "token", "user_name", "is_admin", "flashes", "expires_at"}

func newTestPostgresStore(t *testing.T) (Store, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return NewPostgresStore(sqlxDB), sqlxDB, mock
}

func TestPostgresStore_Get(t *testing.T) {
	store, _, mock := newTestPostgresStore(t)
	expires := time.Date(2026, time.June, 15, 13, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_sessions WHERE id = $1 AND expires_at > now()")).
		WithArgs("sid").
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			"sid", "token-1", "Администратор", true,
			[]byte(`[{"kind":"error","message":"Не удалось сохранить"}]`), expires,
		))

	s, err := store.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-1", s.Token)
	assert.True(t, s.IsAdmin)
	assert.Equal(t, expires, s.ExpiresAt)
	assert.Equal(t, []Flash{{Kind: FlashError, Message: "Не удалось сохранить"}}, s.Flashes)
}

func TestPostgresStore_GetMissing(t *testing.T) {
	store, _, mock := newTestPostgresStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_sessions WHERE id = $1")).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err := store.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_GetBadFlashes(t *testing.T) {
	store, _, mock := newTestPostgresStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_sessions WHERE id = $1")).
		WithArgs("sid").
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			"sid", "token", "", false, []byte(`{`), time.Now().Add(time.Hour),
		))

	_, err := store.Get(context.Background(), "sid")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_Save(t *testing.T) {
	store, _, mock := newTestPostgresStore(t)
	expires := time.Date(2026, time.June, 15, 13, 0, 0, 0, time.UTC)

	s := &Session{ID: "sid", Token: "token-1", UserName: "admin", IsAdmin: true, ExpiresAt: expires}
	s.AddFlash(FlashSuccess, "Группа создана")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admin_sessions")).
		WithArgs("sid", "token-1", "admin", true,
			[]byte(`[{"kind":"success","message":"Группа создана"}]`), expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), s))
}

func TestPostgresStore_SaveWithoutFlashes(t *testing.T) {
	store, _, mock := newTestPostgresStore(t)
	expires := time.Date(2026, time.June, 15, 13, 0, 0, 0, time.UTC)

	// колонка flashes NOT NULL, пустой список пишется как []
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admin_sessions")).
		WithArgs("sid", "token", "", false, []byte("[]"), expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), &Session{ID: "sid", Token: "token", ExpiresAt: expires}))
}

func TestPostgresStore_DeleteAndClose(t *testing.T) {
	store, _, mock := newTestPostgresStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admin_sessions WHERE id = $1")).
		WithArgs("sid").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	require.NoError(t, store.Delete(context.Background(), "sid"))
	require.NoError(t, store.Close())
}

func TestEnsureSchema(t *testing.T) {
	_, db, mock := newTestPostgresStore(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS admin_sessions")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admin_sessions WHERE expires_at <= now()")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, EnsureSchema(context.Background(), db))
}
