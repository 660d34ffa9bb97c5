package models

import "time"

// User maps the users table.
type User struct {
	ID           string      `db:"id"`
	Email        string      `db:"email"`
	Username     string      `db:"username"`
	PasswordHash string      `db:"password_hash"`
	Roles        StringSlice `db:"roles"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
