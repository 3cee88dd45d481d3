package service

import (
	"context"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// CategoryService provides business logic around categories. Categories
// carry no owner; any authenticated actor may manage them.
type CategoryService struct {
	categories *repository.CategoryRepository
	now        func() time.Time
}

func NewCategoryService(categories *repository.CategoryRepository, now func() time.Time) *CategoryService {
	if now == nil {
		now = time.Now
	}
	return &CategoryService{categories: categories, now: now}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("invalid category", map[string]string{"name": "name is required"})
	}
	cat := model.Category{Name: name}
	if err := s.categories.Create(ctx, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *CategoryService) Rename(ctx context.Context, id uint, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("invalid category", map[string]string{"name": "name is required"})
	}
	return s.categories.Rename(ctx, id, name)
}

// Delete soft-deletes the category. Linked tasks are unaffected.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.categories.SoftDelete(ctx, id, s.now())
}

func (s *CategoryService) List(ctx context.Context, includeDeleted bool) ([]model.Category, error) {
	return s.categories.List(ctx, includeDeleted)
}

// TaskCounts returns every live category with its task count.
func (s *CategoryService) TaskCounts(ctx context.Context) ([]repository.CategoryTaskCount, error) {
	return s.categories.TaskCounts(ctx)
}
