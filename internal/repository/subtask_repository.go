package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

// SubTaskRepository handles CRUD and filtering for subtasks.
type SubTaskRepository struct {
	db *gorm.DB
}

func NewSubTaskRepository(db *gorm.DB) *SubTaskRepository {
	return &SubTaskRepository{db: db}
}

// SubTaskFilter narrows a subtask listing. Status is an exact match;
// StatusContains is an independent case-insensitive substring match and
// the two may be combined. TaskTitle matches the parent task's title as
// a case-insensitive substring.
type SubTaskFilter struct {
	OwnerID        *uint
	TaskID         *uint
	Status         *model.Status
	StatusContains string
	TaskTitle      string
	Search         string
	OrderAsc       bool
}

// Create inserts a subtask. The parent task must exist and the title
// must be unused.
func (r *SubTaskRepository) Create(ctx context.Context, sub *model.SubTask) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent model.Task
		if err := tx.First(&parent, sub.TaskID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.New(apperrors.CodeNotFound, "parent task not found")
			}
			return fmt.Errorf("find parent task: %w", err)
		}

		var count int64
		if err := tx.Model(&model.SubTask{}).Where("title = ?", sub.Title).Count(&count).Error; err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "a subtask with this title already exists")
		}

		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("create subtask: %w", err)
		}
		return nil
	})
	return translateStoreErr("create subtask", err)
}

func (r *SubTaskRepository) FindByID(ctx context.Context, id uint) (*model.SubTask, error) {
	var sub model.SubTask
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, translateStoreErr("find subtask", err)
	}
	return &sub, nil
}

// Update persists the mutable fields of a subtask. Owner, parent task
// and creation time stay untouched.
func (r *SubTaskRepository) Update(ctx context.Context, sub *model.SubTask) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.SubTask{}).
			Where("title = ? AND id <> ?", sub.Title, sub.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "a subtask with this title already exists")
		}

		updates := map[string]interface{}{
			"title":       sub.Title,
			"description": sub.Description,
			"status":      sub.Status,
			"deadline":    sub.Deadline,
		}
		if err := tx.Model(&model.SubTask{}).Where("id = ?", sub.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update subtask: %w", err)
		}
		return nil
	})
	return translateStoreErr("update subtask", err)
}

func (r *SubTaskRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub model.SubTask
		if err := tx.First(&sub, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.SubTask{}, id).Error; err != nil {
			return fmt.Errorf("delete subtask: %w", err)
		}
		return nil
	})
	return translateStoreErr("delete subtask", err)
}

// CountByTask returns how many subtasks reference the given task.
func (r *SubTaskRepository) CountByTask(ctx context.Context, taskID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SubTask{}).Where("task_id = ?", taskID).Count(&count).Error
	if err != nil {
		return 0, translateStoreErr("count subtasks", err)
	}
	return count, nil
}

// List returns one page of subtasks matching the filter.
func (r *SubTaskRepository) List(ctx context.Context, filter SubTaskFilter, page Page) ([]model.SubTask, PageInfo, error) {
	page = page.normalize()

	base := applySubTaskFilter(r.db.WithContext(ctx).Model(&model.SubTask{}), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, PageInfo{}, translateStoreErr("count subtasks", err)
	}

	order := "sub_tasks.created_at DESC, sub_tasks.id DESC"
	if filter.OrderAsc {
		order = "sub_tasks.created_at ASC, sub_tasks.id ASC"
	}

	var subs []model.SubTask
	err := base.Session(&gorm.Session{}).
		Order(order).
		Limit(page.Size).
		Offset(page.offset()).
		Find(&subs).Error
	if err != nil {
		return nil, PageInfo{}, translateStoreErr("list subtasks", err)
	}
	return subs, pageInfo(page, total), nil
}

func applySubTaskFilter(db *gorm.DB, f SubTaskFilter) *gorm.DB {
	if f.OwnerID != nil {
		db = db.Where("sub_tasks.owner_id = ?", *f.OwnerID)
	}
	if f.TaskID != nil {
		db = db.Where("sub_tasks.task_id = ?", *f.TaskID)
	}
	if f.Status != nil {
		db = db.Where("sub_tasks.status = ?", *f.Status)
	}
	if f.StatusContains != "" {
		db = db.Where("LOWER(sub_tasks.status) LIKE ?", "%"+strings.ToLower(f.StatusContains)+"%")
	}
	if f.TaskTitle != "" {
		db = db.Joins("JOIN tasks ON tasks.id = sub_tasks.task_id").
			Where("LOWER(tasks.title) LIKE ?", "%"+strings.ToLower(f.TaskTitle)+"%")
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where("LOWER(sub_tasks.title) LIKE ? OR LOWER(sub_tasks.description) LIKE ?", pattern, pattern)
	}
	return db
}
