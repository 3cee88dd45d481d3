package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

// CategoryRepository manages task categories. Deletion is always soft:
// rows are flagged and stamped, never removed.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CategoryTaskCount pairs a category with the number of tasks linked to it.
type CategoryTaskCount struct {
	ID        uint
	Name      string
	TaskCount int64
}

// Create inserts a category. The name must be unused among non-deleted
// categories; names of deleted categories may be reused.
func (r *CategoryRepository) Create(ctx context.Context, cat *model.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategoryName(tx, cat.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(cat).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	return translateStoreErr("create category", err)
}

// FindByID returns a category; soft-deleted rows resolve as not found.
func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var cat model.Category
	err := r.db.WithContext(ctx).Where("is_deleted = ?", false).First(&cat, id).Error
	if err != nil {
		return nil, translateStoreErr("find category", err)
	}
	return &cat, nil
}

// Rename changes a category's name under the same uniqueness rule.
func (r *CategoryRepository) Rename(ctx context.Context, id uint, name string) (*model.Category, error) {
	var cat model.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_deleted = ?", false).First(&cat, id).Error; err != nil {
			return err
		}
		if err := checkCategoryName(tx, name, id); err != nil {
			return err
		}
		if err := tx.Model(&cat).Update("name", name).Error; err != nil {
			return fmt.Errorf("rename category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, translateStoreErr("rename category", err)
	}
	return &cat, nil
}

// SoftDelete flags a category as deleted and stamps the time. The row
// stays in place; default listings stop returning it.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id uint, now time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat model.Category
		if err := tx.Where("is_deleted = ?", false).First(&cat, id).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
		}
		if err := tx.Model(&cat).Updates(updates).Error; err != nil {
			return fmt.Errorf("soft delete category: %w", err)
		}
		return nil
	})
	return translateStoreErr("soft delete category", err)
}

// List returns non-deleted categories ordered by name. When includeDeleted
// is set (administrative access) deleted rows are returned as well.
func (r *CategoryRepository) List(ctx context.Context, includeDeleted bool) ([]model.Category, error) {
	db := r.db.WithContext(ctx)
	if !includeDeleted {
		db = db.Where("is_deleted = ?", false)
	}
	var cats []model.Category
	if err := db.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, translateStoreErr("list categories", err)
	}
	return cats, nil
}

// TaskCounts returns, for each non-deleted category, the number of tasks
// linked to it. Not owner-filtered.
func (r *CategoryRepository) TaskCounts(ctx context.Context) ([]CategoryTaskCount, error) {
	var counts []CategoryTaskCount
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.id, categories.name, COUNT(task_categories.task_id) AS task_count").
		Joins("LEFT JOIN task_categories ON task_categories.category_id = categories.id").
		Where("categories.is_deleted = ?", false).
		Group("categories.id, categories.name").
		Order("categories.name ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, translateStoreErr("category task counts", err)
	}
	return counts, nil
}

// checkCategoryName rejects names already used by another live category.
func checkCategoryName(tx *gorm.DB, name string, excludeID uint) error {
	var count int64
	err := tx.Model(&model.Category{}).
		Where("name = ? AND is_deleted = ? AND id <> ?", name, false, excludeID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check name: %w", err)
	}
	if count > 0 {
		return apperrors.New(apperrors.CodeConflict, "a category with this name already exists")
	}
	return nil
}
