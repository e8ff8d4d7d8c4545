package repository

import (
	"context"
	"testing"
	"time"

	"task_manager/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "hashed", model.RoleUser).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

	user := &model.User{Email: "alice@example.com", PasswordHash: "hashed", Role: model.RoleUser}
	err = repo.Create(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "hashed", model.RoleUser).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	user := &model.User{Email: "alice@example.com", PasswordHash: "hashed", Role: model.RoleUser}
	err = repo.Create(context.Background(), user)

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow(1, "alice@example.com", "hashed", model.RoleAdmin, now))

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByEmail(context.Background(), "missing@example.com")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow(7, "bob@example.com", "hashed", model.RoleUser, now))

	user, err := repo.FindByID(context.Background(), 7)

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(404).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), 404)

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
