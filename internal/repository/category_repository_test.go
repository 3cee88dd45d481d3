package repository

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

func TestCategorySoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	cat := model.Category{Name: "Work"}
	if err := repo.Create(ctx, &cat); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SoftDelete(ctx, cat.ID, now); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// The row survives physically.
	var stored model.Category
	if err := db.First(&stored, cat.ID).Error; err != nil {
		t.Fatalf("raw lookup: %v", err)
	}
	if !stored.IsDeleted || stored.DeletedAt == nil {
		t.Fatalf("expected deleted flag and timestamp, got %+v", stored)
	}

	// Default listing and lookup skip it.
	cats, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("expected empty default listing, got %d", len(cats))
	}
	if _, err := repo.FindByID(ctx, cat.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found for deleted category, got %v", err)
	}

	// The administrative listing still sees it.
	all, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected deleted row in full listing, got %d", len(all))
	}

	// Deleting again resolves as not found.
	if err := repo.SoftDelete(ctx, cat.ID, now); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCategoryNameUniqueAmongLiveOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	first := model.Category{Name: "Health"}
	if err := repo.Create(ctx, &first); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := model.Category{Name: "Health"}
	if err := repo.Create(ctx, &dup); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := repo.SoftDelete(ctx, first.ID, time.Now()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// The name is free again once the holder is deleted.
	reuse := model.Category{Name: "Health"}
	if err := repo.Create(ctx, &reuse); err != nil {
		t.Fatalf("expected name reuse after soft delete, got %v", err)
	}
}

func TestCategoryRenameConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	work := model.Category{Name: "Work"}
	home := model.Category{Name: "Home"}
	for _, cat := range []*model.Category{&work, &home} {
		if err := repo.Create(ctx, cat); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if _, err := repo.Rename(ctx, home.ID, "Work"); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	renamed, err := repo.Rename(ctx, home.ID, "House")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "House" {
		t.Fatalf("expected House, got %q", renamed.Name)
	}
}

func TestCategoryTaskCounts(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	tasks := NewTaskRepository(db)
	owner := newTestUser(t, db, "alice")
	ctx := context.Background()

	work := model.Category{Name: "Work"}
	idle := model.Category{Name: "Idle"}
	for _, cat := range []*model.Category{&work, &idle} {
		if err := categories.Create(ctx, cat); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	for _, title := range []string{"One", "Two"} {
		task := model.Task{Title: title, OwnerID: owner.ID, Status: model.StatusNew}
		if err := tasks.Create(ctx, &task, []uint{work.ID}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	counts, err := categories.TaskCounts(ctx)
	if err != nil {
		t.Fatalf("task counts: %v", err)
	}
	byName := make(map[string]int64)
	for _, c := range counts {
		byName[c.Name] = c.TaskCount
	}
	if byName["Work"] != 2 || byName["Idle"] != 0 {
		t.Fatalf("unexpected counts: %v", byName)
	}
}

func TestDeletingCategoryKeepsTasks(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	tasks := NewTaskRepository(db)
	owner := newTestUser(t, db, "alice")
	ctx := context.Background()

	cat := model.Category{Name: "Work"}
	if err := categories.Create(ctx, &cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	task := model.Task{Title: "Survivor", OwnerID: owner.ID, Status: model.StatusNew}
	if err := tasks.Create(ctx, &task, []uint{cat.ID}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := categories.SoftDelete(ctx, cat.ID, time.Now()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	stored, err := tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected task to survive category deletion, got %v", err)
	}
	// Deleted categories disappear from the task's category list.
	if len(stored.Categories) != 0 {
		t.Fatalf("expected deleted category hidden, got %+v", stored.Categories)
	}
}
