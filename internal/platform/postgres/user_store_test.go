package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUserStoreWithMock(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	// Min cost keeps the hashing in tests fast.
	return NewUserStore(db, bcrypt.MinCost, testLogger()), mock
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("user@example.com", "password123")
	require.NoError(t, err)
	return user
}

func TestUserStoreCreate(t *testing.T) {
	s, mock := newUserStoreWithMock(t)
	user := newTestUser(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Email, sqlmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Create(context.Background(), user)
	require.NoError(t, err)

	// The plaintext must be cleared and the hash must verify.
	assert.Empty(t, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("password123")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateDuplicateEmail(t *testing.T) {
	s, mock := newUserStoreWithMock(t)
	user := newTestUser(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolationCode})

	err := s.Create(context.Background(), user)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.True(t, store.IsDuplicateError(err))
}

func TestUserStoreCreateInvalidUser(t *testing.T) {
	s, _ := newUserStoreWithMock(t)

	err := s.Create(context.Background(), &domain.User{ID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrEmptyEmail)
}

func TestUserStoreGetByID(t *testing.T) {
	s, mock := newUserStoreWithMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, email, hashed_password, created_at, updated_at\s+FROM users\s+WHERE id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "hashed_password", "created_at", "updated_at"},
		).AddRow(id, "user@example.com", "hashed", now, now))

	user, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "hashed", user.HashedPassword)
	assert.Empty(t, user.Password)
}

func TestUserStoreGetByIDNotFound(t *testing.T) {
	s, mock := newUserStoreWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "hashed_password", "created_at", "updated_at"},
		))

	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestUserStoreGetByEmail(t *testing.T) {
	s, mock := newUserStoreWithMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email`).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "hashed_password", "created_at", "updated_at"},
		).AddRow(id, "user@example.com", "hashed", now, now))

	user, err := s.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
}

func TestUserStoreGetByEmailNotFound(t *testing.T) {
	s, mock := newUserStoreWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM users`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "hashed_password", "created_at", "updated_at"},
		))

	_, err := s.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
