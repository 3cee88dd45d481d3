package service

import (
	"context"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/authz"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// SubTaskInput represents data required to create a subtask. The owner
// is the creating actor, which may differ from the parent task's owner.
type SubTaskInput struct {
	TaskID      uint
	Title       string
	Description string
	Status      model.Status
	Deadline    *time.Time
}

// SubTaskUpdateInput carries the fields an update may change.
type SubTaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *model.Status
	Deadline    *time.Time
}

// SubTaskListOptions are the caller-supplied list controls. Status is an
// exact match; StatusContains is the independent substring filter and
// both may be supplied at once.
type SubTaskListOptions struct {
	TaskID         *uint
	Status         string
	StatusContains string
	TaskTitle      string
	Search         string
	OrderAsc       bool
	Page           int
}

// SubTaskService wraps subtask-related business logic.
type SubTaskService struct {
	subtasks *repository.SubTaskRepository
	pageSize int
	now      func() time.Time
}

func NewSubTaskService(subtasks *repository.SubTaskRepository, pageSize int, now func() time.Time) *SubTaskService {
	if now == nil {
		now = time.Now
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return &SubTaskService{subtasks: subtasks, pageSize: pageSize, now: now}
}

func (s *SubTaskService) Create(ctx context.Context, actor model.User, input SubTaskInput) (*model.SubTask, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Status == "" {
		input.Status = model.StatusNew
	}
	if err := s.validateFields(input.Title, input.Status, input.Deadline); err != nil {
		return nil, err
	}

	sub := model.SubTask{
		TaskID:      input.TaskID,
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     actor.ID,
		Status:      input.Status,
		Deadline:    input.Deadline,
	}
	if err := s.subtasks.Create(ctx, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubTaskService) Get(ctx context.Context, actor model.User, id uint) (*model.SubTask, error) {
	sub, err := s.subtasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Allowed(authz.OpRead, actor.ID, sub.OwnerID); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns one page of subtasks visible to any authenticated actor.
func (s *SubTaskService) List(ctx context.Context, opts SubTaskListOptions) ([]model.SubTask, repository.PageInfo, error) {
	return s.list(ctx, nil, opts)
}

// ListOwned returns one page of the actor's own subtasks.
func (s *SubTaskService) ListOwned(ctx context.Context, actor model.User, opts SubTaskListOptions) ([]model.SubTask, repository.PageInfo, error) {
	owner := actor.ID
	return s.list(ctx, &owner, opts)
}

func (s *SubTaskService) list(ctx context.Context, ownerID *uint, opts SubTaskListOptions) ([]model.SubTask, repository.PageInfo, error) {
	filter := repository.SubTaskFilter{
		OwnerID:        ownerID,
		TaskID:         opts.TaskID,
		StatusContains: strings.TrimSpace(opts.StatusContains),
		TaskTitle:      strings.TrimSpace(opts.TaskTitle),
		Search:         strings.TrimSpace(opts.Search),
		OrderAsc:       opts.OrderAsc,
	}

	if opts.Status != "" {
		status := model.Status(opts.Status)
		if !status.Valid() {
			return nil, repository.PageInfo{}, apperrors.Validation("invalid status filter", map[string]string{
				"status": "unknown status " + opts.Status,
			})
		}
		filter.Status = &status
	}

	return s.subtasks.List(ctx, filter, repository.Page{Number: opts.Page, Size: s.pageSize})
}

func (s *SubTaskService) Update(ctx context.Context, actor model.User, id uint, input SubTaskUpdateInput) (*model.SubTask, error) {
	sub, err := s.subtasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Allowed(authz.OpUpdate, actor.ID, sub.OwnerID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		sub.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		sub.Description = *input.Description
	}
	if input.Status != nil {
		sub.Status = *input.Status
	}
	if input.Deadline != nil {
		sub.Deadline = input.Deadline
	}
	if err := s.validateFields(sub.Title, sub.Status, input.Deadline); err != nil {
		return nil, err
	}

	if err := s.subtasks.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubTaskService) Delete(ctx context.Context, actor model.User, id uint) error {
	sub, err := s.subtasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Allowed(authz.OpDelete, actor.ID, sub.OwnerID); err != nil {
		return err
	}
	return s.subtasks.Delete(ctx, id)
}

func (s *SubTaskService) validateFields(title string, status model.Status, deadline *time.Time) error {
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "title is required"
	}
	if !status.Valid() {
		fields["status"] = "unknown status " + string(status)
	}
	if deadline != nil && deadline.Before(s.now()) {
		fields["deadline"] = "deadline cannot be in the past"
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid subtask", fields)
	}
	return nil
}
