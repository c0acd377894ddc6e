package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziggy-data/investimento/internal/model"
)

func TestFindByUsername(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewUserRepository(db, newTestLogger())

	userID := uuid.New()
	mock.ExpectQuery("FROM usuarios").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "created_at"}).
			AddRow(userID.String(), "admin", "$2a$10$hash", model.RoleAdmin, time.Now()))

	user, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)

	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestFindByUsernameNotFound(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewUserRepository(db, newTestLogger())

	mock.ExpectQuery("FROM usuarios").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "created_at"}))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestUserCreate(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewUserRepository(db, newTestLogger())

	user := &model.User{
		ID:        uuid.New(),
		Username:  "admin",
		Password:  "$2a$10$hash",
		Role:      model.RoleAdmin,
		CreatedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO usuarios").
		WithArgs(user.ID, user.Username, user.Password, user.Role, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewUserRepository(db, newTestLogger())

	mock.ExpectExec("INSERT INTO usuarios").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{ID: uuid.New(), Username: "admin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already exists")
}

func TestUserCount(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewUserRepository(db, newTestLogger())

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
