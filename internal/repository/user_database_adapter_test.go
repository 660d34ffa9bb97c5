package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"quiz-seed/internal/domain"
	"quiz-seed/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "username", "password_hash", "roles", "created_at", "updated_at"}

func TestUserGetByEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmailQuery)).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u1", "admin@example.com", "admin", "$2a$10$hash", `["ROLE_ADMIN","ROLE_USER"]`, now, now))

	user, err := repo.GetByEmail(context.Background(), " Admin@Example.com")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmailQuery)).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUser_InsertAndUpdate(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserDatabaseAdapter(db)

	user := domain.NewUser("admin@example.com", "admin", "$2a$10$hash", []string{"ROLE_ADMIN"})

	mock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).
		WithArgs(sqlmock.AnyArg(), "admin@example.com", "admin", "$2a$10$hash", `["ROLE_ADMIN","ROLE_USER"]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveUser(context.Background(), user))
	require.NotEmpty(t, user.ID)

	user.Username = "root"
	mock.ExpectExec(regexp.QuoteMeta(updateUserQuery)).
		WithArgs("root", "$2a$10$hash", `["ROLE_ADMIN","ROLE_USER"]`, sqlmock.AnyArg(), user.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveUser(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserConverters(t *testing.T) {
	assert.Nil(t, toDomainUser(nil))
	assert.Nil(t, fromDomainUser(nil))

	m := fromDomainUser(&domain.User{ID: "u1", Email: "a@b.c", Roles: []string{"ROLE_USER"}})
	assert.Equal(t, models.StringSlice{"ROLE_USER"}, m.Roles)
	assert.Equal(t, "a@b.c", toDomainUser(m).Email)
}
