package models

import (
	"database/sql"
	"time"
)

// Category maps the categories table.
type Category struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Icon        sql.NullString `db:"icon"`
	Color       sql.NullString `db:"color"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// SubCategory maps the sub_categories table.
type SubCategory struct {
	ID          string         `db:"id"`
	CategoryID  string         `db:"category_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (SubCategory) TableName() string {
	return "sub_categories"
}
