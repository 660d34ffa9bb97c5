package domain

import (
	"strings"
	"time"
)

// Category is shared reference data; its name is globally unique.
type Category struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryKey is the natural key of a Category.
type CategoryKey struct {
	Name string
}

// NewCategory creates a new Category instance
func NewCategory(name, description, icon, color string) *Category {
	now := time.Now()
	return &Category{
		Name:        strings.TrimSpace(name),
		Description: description,
		Icon:        icon,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Key returns the natural key of the category.
func (c *Category) Key() CategoryKey {
	return CategoryKey{Name: c.Name}
}

// Validate validates the category
func (c *Category) Validate() error {
	if c.Name == "" {
		return NewValidationError("category name is required")
	}
	return nil
}

// Subcategory names are only unique within their parent category.
type Subcategory struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SubcategoryKey is the natural key of a Subcategory.
type SubcategoryKey struct {
	CategoryID string
	Name       string
}

// NewSubcategory creates a new Subcategory instance
func NewSubcategory(categoryID, name, description string) *Subcategory {
	now := time.Now()
	return &Subcategory{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Key returns the natural key of the subcategory.
func (s *Subcategory) Key() SubcategoryKey {
	return SubcategoryKey{CategoryID: s.CategoryID, Name: s.Name}
}

// Validate validates the subcategory
func (s *Subcategory) Validate() error {
	if s.CategoryID == "" {
		return NewValidationError("subcategory category ID is required")
	}
	if s.Name == "" {
		return NewValidationError("subcategory name is required")
	}
	return nil
}
