package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

// TaskRepository handles CRUD, filtering and aggregation for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows a task listing. OwnerID, when set, is applied before
// any caller-supplied filter so that owner scoping can never be widened
// by query parameters.
type TaskFilter struct {
	OwnerID        *uint
	Status         *model.Status
	DeadlineOn     *time.Time
	DeadlineBefore *time.Time
	DeadlineAfter  *time.Time
	Search         string
	Weekday        *int // SQLite strftime('%w') value, 0 = Sunday
	OrderAsc       bool
}

// StatusCount is one bucket of the by-status histogram.
type StatusCount struct {
	Status model.Status
	Count  int64
}

// Statistics is a consistent snapshot of task-level aggregates.
type Statistics struct {
	TotalTasks   int64
	ByStatus     []StatusCount
	OverdueTasks int64
}

// Create inserts a task and attaches the given categories. The title
// must be unused and every category must exist and not be deleted.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Task{}).Where("title = ?", task.Title).Count(&count).Error; err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "a task with this title already exists")
		}

		cats, err := loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		task.Categories = cats

		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		return nil
	})
	return translateStoreErr("create task", err)
}

// FindByID loads a task with its live categories and subtasks.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Categories", "is_deleted = ?", false).
		Preload("SubTasks").
		First(&task, id).Error
	if err != nil {
		return nil, translateStoreErr("find task", err)
	}
	return &task, nil
}

// Update persists the mutable fields of a task. Owner and creation time
// are never written here, whatever the caller mutated. When
// replaceCategories is set, the category association is replaced with
// the given set.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, categoryIDs []uint, replaceCategories bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Task{}).
			Where("title = ? AND id <> ?", task.Title, task.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "a task with this title already exists")
		}

		updates := map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"deadline":    task.Deadline,
		}
		if err := tx.Model(&model.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		if replaceCategories {
			cats, err := loadCategories(tx, categoryIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(task).Association("Categories")
			if len(cats) == 0 {
				if err := assoc.Clear(); err != nil {
					return fmt.Errorf("clear categories: %w", err)
				}
			} else if err := assoc.Replace(cats); err != nil {
				return fmt.Errorf("replace categories: %w", err)
			}
		}
		return nil
	})
	return translateStoreErr("update task", err)
}

// Delete removes a task together with its subtasks and category links.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.SubTask{}).Error; err != nil {
			return fmt.Errorf("delete subtasks: %w", err)
		}
		if err := tx.Exec("DELETE FROM task_categories WHERE task_id = ?", id).Error; err != nil {
			return fmt.Errorf("unlink categories: %w", err)
		}
		if err := tx.Delete(&model.Task{}, id).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
	return translateStoreErr("delete task", err)
}

// List returns one page of tasks matching the filter, newest first
// unless ascending order was requested.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter, page Page) ([]model.Task, PageInfo, error) {
	page = page.normalize()

	base := applyTaskFilter(r.db.WithContext(ctx).Model(&model.Task{}), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, PageInfo{}, translateStoreErr("count tasks", err)
	}

	order := "created_at DESC, id DESC"
	if filter.OrderAsc {
		order = "created_at ASC, id ASC"
	}

	var tasks []model.Task
	err := base.Session(&gorm.Session{}).
		Preload("Categories", "is_deleted = ?", false).
		Order(order).
		Limit(page.Size).
		Offset(page.offset()).
		Find(&tasks).Error
	if err != nil {
		return nil, PageInfo{}, translateStoreErr("list tasks", err)
	}
	return tasks, pageInfo(page, total), nil
}

// Statistics computes the task aggregates in a single read transaction
// so that all three numbers reflect the same instant.
func (r *TaskRepository) Statistics(ctx context.Context, now time.Time) (Statistics, error) {
	var stats Statistics
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Count(&stats.TotalTasks).Error; err != nil {
			return fmt.Errorf("count tasks: %w", err)
		}
		if err := tx.Model(&model.Task{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("status ASC").
			Scan(&stats.ByStatus).Error; err != nil {
			return fmt.Errorf("group by status: %w", err)
		}
		if err := tx.Model(&model.Task{}).
			Where("deadline IS NOT NULL AND deadline < ? AND status IN ?", now, model.ActiveStatuses).
			Count(&stats.OverdueTasks).Error; err != nil {
			return fmt.Errorf("count overdue: %w", err)
		}
		return nil
	})
	if err != nil {
		return Statistics{}, translateStoreErr("task statistics", err)
	}
	return stats, nil
}

// ListOverdue returns unfinished tasks past their deadline, grouped by
// owner for digest building.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("deadline IS NOT NULL AND deadline < ? AND status IN ?", now, model.ActiveStatuses).
		Order("owner_id ASC, deadline ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, translateStoreErr("list overdue tasks", err)
	}
	return tasks, nil
}

func applyTaskFilter(db *gorm.DB, f TaskFilter) *gorm.DB {
	// Owner scoping comes first; everything else narrows within it.
	if f.OwnerID != nil {
		db = db.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.DeadlineOn != nil {
		db = db.Where("deadline IS NOT NULL AND date(deadline) = date(?)", *f.DeadlineOn)
	}
	if f.DeadlineBefore != nil {
		db = db.Where("deadline IS NOT NULL AND deadline < ?", *f.DeadlineBefore)
	}
	if f.DeadlineAfter != nil {
		db = db.Where("deadline IS NOT NULL AND deadline > ?", *f.DeadlineAfter)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if f.Weekday != nil {
		db = db.Where("CAST(strftime('%w', created_at) AS INTEGER) = ?", *f.Weekday)
	}
	return db
}

// loadCategories resolves category ids to live rows, rejecting unknown
// or deleted ones.
func loadCategories(tx *gorm.DB, ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cats []model.Category
	if err := tx.Where("id IN ? AND is_deleted = ?", ids, false).Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	found := make(map[uint]bool, len(cats))
	for _, c := range cats {
		found[c.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperrors.Validation("unknown category", map[string]string{
				"categories": fmt.Sprintf("category %d does not exist", id),
			})
		}
	}
	return cats, nil
}

// translateStoreErr maps storage failures onto the error taxonomy.
// Domain errors pass through; gorm's not-found becomes NOT_FOUND;
// anything else is a transient store failure.
func translateStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, "resource not found", err)
	}
	return apperrors.Wrap(apperrors.CodeUnavailable, op, err)
}
