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
	selectCategoryByNameQuery = `SELECT id "id", name "name", description "description", icon "icon", color "color", created_at "created_at", updated_at "updated_at" FROM categories WHERE name = ?`
	insertCategoryQuery       = `INSERT INTO categories (id, name, description, icon, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	updateCategoryQuery       = `UPDATE categories SET description = ?, icon = ?, color = ?, updated_at = ? WHERE id = ?`

	selectSubCategoryQuery = `SELECT id "id", category_id "category_id", name "name", description "description", created_at "created_at", updated_at "updated_at" FROM sub_categories WHERE category_id = ? AND name = ?`
	insertSubCategoryQuery = `INSERT INTO sub_categories (id, category_id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	updateSubCategoryQuery = `UPDATE sub_categories SET description = ?, updated_at = ? WHERE id = ?`
)

// CategoryDatabaseAdapter reads and writes categories and sub-categories.
type CategoryDatabaseAdapter struct {
	db DBTX
}

// NewCategoryDatabaseAdapter creates a new instance of CategoryDatabaseAdapter
func NewCategoryDatabaseAdapter(db DBTX) *CategoryDatabaseAdapter {
	return &CategoryDatabaseAdapter{db: db}
}

// GetByName returns the category with the given name, or nil if there is none.
func (r *CategoryDatabaseAdapter) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category, r.db.Rebind(selectCategoryByNameQuery), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by name %q: %w", name, err)
	}
	return convertToDomainCategory(&category), nil
}

// GetByNameAndCategoryID returns the sub-category, or nil if there is none.
func (r *CategoryDatabaseAdapter) GetByNameAndCategoryID(ctx context.Context, name, categoryID string) (*domain.Subcategory, error) {
	var subCategory models.SubCategory
	err := r.db.GetContext(ctx, &subCategory, r.db.Rebind(selectSubCategoryQuery), categoryID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sub-category %q of category %s: %w", name, categoryID, err)
	}
	return convertToDomainSubCategory(&subCategory), nil
}

// SaveCategory inserts a category without an ID and updates one with an ID.
func (r *CategoryDatabaseAdapter) SaveCategory(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return fmt.Errorf("cannot save nil category")
	}
	now := time.Now()
	if category.ID != "" {
		return r.updateCategory(ctx, category, now)
	}

	modelCategory := convertToModelCategory(category)
	modelCategory.ID = util.NewULID()
	modelCategory.CreatedAt = now
	modelCategory.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertCategoryQuery),
		modelCategory.ID,
		modelCategory.Name,
		modelCategory.Description,
		modelCategory.Icon,
		modelCategory.Color,
		modelCategory.CreatedAt,
		modelCategory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category %q: %w", category.Name, err)
	}
	category.ID = modelCategory.ID
	category.CreatedAt = modelCategory.CreatedAt
	category.UpdatedAt = modelCategory.UpdatedAt
	return nil
}

func (r *CategoryDatabaseAdapter) updateCategory(ctx context.Context, category *domain.Category, now time.Time) error {
	modelCategory := convertToModelCategory(category)
	result, err := r.db.ExecContext(ctx, r.db.Rebind(updateCategoryQuery),
		modelCategory.Description,
		modelCategory.Icon,
		modelCategory.Color,
		now,
		modelCategory.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %q: %w", category.Name, err)
	}
	if err := expectOneRow(result, "category", category.ID); err != nil {
		return err
	}
	category.UpdatedAt = now
	return nil
}

// SaveSubCategory inserts a sub-category without an ID and updates one with an ID.
func (r *CategoryDatabaseAdapter) SaveSubCategory(ctx context.Context, subCategory *domain.Subcategory) error {
	if subCategory == nil {
		return fmt.Errorf("cannot save nil sub-category")
	}
	now := time.Now()
	if subCategory.ID != "" {
		result, err := r.db.ExecContext(ctx, r.db.Rebind(updateSubCategoryQuery),
			util.StringToNullString(subCategory.Description),
			now,
			subCategory.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update sub-category %q: %w", subCategory.Name, err)
		}
		if err := expectOneRow(result, "sub-category", subCategory.ID); err != nil {
			return err
		}
		subCategory.UpdatedAt = now
		return nil
	}

	modelSubCategory := convertToModelSubCategory(subCategory)
	modelSubCategory.ID = util.NewULID()
	modelSubCategory.CreatedAt = now
	modelSubCategory.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertSubCategoryQuery),
		modelSubCategory.ID,
		modelSubCategory.CategoryID,
		modelSubCategory.Name,
		modelSubCategory.Description,
		modelSubCategory.CreatedAt,
		modelSubCategory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sub-category %q: %w", subCategory.Name, err)
	}
	subCategory.ID = modelSubCategory.ID
	subCategory.CreatedAt = modelSubCategory.CreatedAt
	subCategory.UpdatedAt = modelSubCategory.UpdatedAt
	return nil
}

func expectOneRow(result sql.Result, entity, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s with ID %s not found or not updated", entity, id)
	}
	return nil
}

// Helper functions for converting between domain and model types
func convertToDomainCategory(category *models.Category) *domain.Category {
	if category == nil {
		return nil
	}
	return &domain.Category{
		ID:          category.ID,
		Name:        category.Name,
		Description: util.NullStringToString(category.Description),
		Icon:        util.NullStringToString(category.Icon),
		Color:       util.NullStringToString(category.Color),
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func convertToModelCategory(category *domain.Category) *models.Category {
	if category == nil {
		return nil
	}
	return &models.Category{
		ID:          category.ID,
		Name:        category.Name,
		Description: util.StringToNullString(category.Description),
		Icon:        util.StringToNullString(category.Icon),
		Color:       util.StringToNullString(category.Color),
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func convertToDomainSubCategory(subCategory *models.SubCategory) *domain.Subcategory {
	if subCategory == nil {
		return nil
	}
	return &domain.Subcategory{
		ID:          subCategory.ID,
		CategoryID:  subCategory.CategoryID,
		Name:        subCategory.Name,
		Description: util.NullStringToString(subCategory.Description),
		CreatedAt:   subCategory.CreatedAt,
		UpdatedAt:   subCategory.UpdatedAt,
	}
}

func convertToModelSubCategory(subCategory *domain.Subcategory) *models.SubCategory {
	if subCategory == nil {
		return nil
	}
	return &models.SubCategory{
		ID:          subCategory.ID,
		CategoryID:  subCategory.CategoryID,
		Name:        subCategory.Name,
		Description: util.StringToNullString(subCategory.Description),
		CreatedAt:   subCategory.CreatedAt,
		UpdatedAt:   subCategory.UpdatedAt,
	}
}
