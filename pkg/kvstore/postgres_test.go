package kvstore

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectMigrations(mock sqlmock.Sqlmock, currentVersion int) {
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(currentVersion))

	if currentVersion >= 1 {
		return
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE kv_entries")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES ($1)")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
}

func newMockPostgres(t *testing.T, currentVersion int) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	expectMigrations(mock, currentVersion)

	store, err := NewPostgresWithDB(context.Background(), slog.Default(), db)
	require.NoError(t, err)

	return store, mock
}

func TestPostgres_RunsMigrationsOnFreshDatabase(t *testing.T) {
	_, mock := newMockPostgres(t, 0)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SkipsAppliedMigrations(t *testing.T) {
	_, mock := newMockPostgres(t, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_MigrationFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE kv_entries")).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	_, err = NewPostgresWithDB(context.Background(), slog.Default(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Get(t *testing.T) {
	store, mock := newMockPostgres(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs(KeyAPIKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("sk-1"))

	value, err := store.Get(context.Background(), KeyAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-1", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetMissing(t *testing.T) {
	store, mock := newMockPostgres(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetBackendError(t *testing.T) {
	store, mock := newMockPostgres(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs("k").
		WillReturnError(errors.New("connection reset"))

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgres_SetUpserts(t *testing.T) {
	store, mock := newMockPostgres(t, 1)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, NOW())")).
		WithArgs(KeyTemplates, "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), KeyTemplates, "[]"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DeleteAndClose(t *testing.T) {
	store, mock := newMockPostgres(t, 1)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key = $1")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	require.NoError(t, store.Delete(context.Background(), "k"))
	require.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
