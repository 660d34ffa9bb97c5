package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-seed/internal/domain"
	"quiz-seed/internal/repository/models"
	"quiz-seed/internal/util"
)

const (
	selectUserByEmailQuery = `SELECT id "id", email "email", username "username", password_hash "password_hash", roles "roles", created_at "created_at", updated_at "updated_at" FROM users WHERE email = ?`
	insertUserQuery        = `INSERT INTO users (id, email, username, password_hash, roles, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	updateUserQuery        = `UPDATE users SET username = ?, password_hash = ?, roles = ?, updated_at = ? WHERE id = ?`
)

// UserDatabaseAdapter reads and writes seeded users.
type UserDatabaseAdapter struct {
	db DBTX
}

// NewUserDatabaseAdapter creates a new instance of UserDatabaseAdapter.
func NewUserDatabaseAdapter(db DBTX) *UserDatabaseAdapter {
	return &UserDatabaseAdapter{db: db}
}

// GetByEmail retrieves a user by email. Returns nil, nil when not found.
func (r *UserDatabaseAdapter) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(selectUserByEmailQuery), domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomainUser(&user), nil
}

// SaveUser inserts a user without an ID and updates one with an ID.
func (r *UserDatabaseAdapter) SaveUser(ctx context.Context, user *domain.User) error {
	modelUser := fromDomainUser(user)
	if modelUser == nil {
		return fmt.Errorf("cannot save nil user")
	}
	now := time.Now()

	if modelUser.ID != "" {
		result, err := r.db.ExecContext(ctx, r.db.Rebind(updateUserQuery),
			modelUser.Username,
			modelUser.PasswordHash,
			modelUser.Roles,
			now,
			modelUser.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := expectOneRow(result, "user", modelUser.ID); err != nil {
			return err
		}
		user.UpdatedAt = now
		return nil
	}

	modelUser.ID = util.NewULID()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertUserQuery),
		modelUser.ID,
		modelUser.Email,
		modelUser.Username,
		modelUser.PasswordHash,
		modelUser.Roles,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = modelUser.ID
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func toDomainUser(u *models.User) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Roles:        []string(u.Roles),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Roles:        models.StringSlice(u.Roles),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
