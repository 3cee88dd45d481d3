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

// StatusNotifier receives the owner notification for one successful
// status-changing update.
type StatusNotifier interface {
	TaskStatusChanged(owner model.User, taskTitle string, oldStatus, newStatus model.Status)
}

// TaskInput represents data required to create a task. There is no owner
// field: the owner always comes from the requesting actor.
type TaskInput struct {
	Title       string
	Description string
	Status      model.Status
	Deadline    *time.Time
	CategoryIDs []uint
}

// TaskUpdateInput carries the fields an update may change. Nil pointers
// leave the stored value untouched. Owner and creation time cannot be
// expressed here at all.
type TaskUpdateInput struct {
	Title         *string
	Description   *string
	Status        *model.Status
	Deadline      *time.Time
	CategoryIDs   []uint
	SetCategories bool
}

// TaskListOptions are the caller-supplied list controls.
type TaskListOptions struct {
	Status         string
	DeadlineOn     *time.Time
	DeadlineBefore *time.Time
	DeadlineAfter  *time.Time
	Search         string
	Weekday        string
	OrderAsc       bool
	Page           int
}

// weekdayNumbers maps English weekday names to the value SQLite's
// strftime('%w') extracts (0 = Sunday), which matches time.Weekday.
var weekdayNumbers = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks    *repository.TaskRepository
	notifier StatusNotifier
	pageSize int
	now      func() time.Time
}

func NewTaskService(tasks *repository.TaskRepository, notifier StatusNotifier, pageSize int, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return &TaskService{tasks: tasks, notifier: notifier, pageSize: pageSize, now: now}
}

// Create stores a new task owned by the actor. Creation never triggers a
// status notification.
func (s *TaskService) Create(ctx context.Context, actor model.User, input TaskInput) (*model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Status == "" {
		input.Status = model.StatusNew
	}
	if err := s.validateFields(input.Title, input.Status, input.Deadline); err != nil {
		return nil, err
	}

	task := model.Task{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     actor.ID,
		Status:      input.Status,
		Deadline:    input.Deadline,
	}
	if err := s.tasks.Create(ctx, &task, input.CategoryIDs); err != nil {
		return nil, err
	}
	return &task, nil
}

// Get returns one task with subtasks and categories. Reads are open to
// any authenticated actor.
func (s *TaskService) Get(ctx context.Context, actor model.User, id uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Allowed(authz.OpRead, actor.ID, task.OwnerID); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns one page of tasks visible to any authenticated actor.
// An unknown weekday name yields an empty page rather than an error;
// the lookup short-circuits before the store is consulted.
func (s *TaskService) List(ctx context.Context, opts TaskListOptions) ([]model.Task, repository.PageInfo, error) {
	return s.list(ctx, nil, opts)
}

// ListOwned returns one page of the actor's own tasks. The owner scope
// is applied before any caller-supplied filter.
func (s *TaskService) ListOwned(ctx context.Context, actor model.User, opts TaskListOptions) ([]model.Task, repository.PageInfo, error) {
	owner := actor.ID
	return s.list(ctx, &owner, opts)
}

func (s *TaskService) list(ctx context.Context, ownerID *uint, opts TaskListOptions) ([]model.Task, repository.PageInfo, error) {
	page := repository.Page{Number: opts.Page, Size: s.pageSize}

	filter := repository.TaskFilter{
		OwnerID:        ownerID,
		DeadlineOn:     opts.DeadlineOn,
		DeadlineBefore: opts.DeadlineBefore,
		DeadlineAfter:  opts.DeadlineAfter,
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

	if opts.Weekday != "" {
		day, ok := weekdayNumbers[strings.ToLower(strings.TrimSpace(opts.Weekday))]
		if !ok {
			// Unrecognized weekday names fail safe to an empty page.
			if page.Number < 1 {
				page.Number = 1
			}
			return []model.Task{}, repository.PageInfo{Page: page.Number, PageSize: page.Size}, nil
		}
		filter.Weekday = &day
	}

	return s.tasks.List(ctx, filter, page)
}

// Update applies the changes and, when the stored status actually
// changed, notifies the owner exactly once. The pre-image is captured
// inside this call, so concurrent updates each compare against their own
// snapshot.
func (s *TaskService) Update(ctx context.Context, actor model.User, id uint, input TaskUpdateInput) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Allowed(authz.OpUpdate, actor.ID, task.OwnerID); err != nil {
		return nil, err
	}

	oldStatus := task.Status

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if err := s.validateFields(task.Title, task.Status, input.Deadline); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task, input.CategoryIDs, input.SetCategories); err != nil {
		return nil, err
	}

	if task.Status != oldStatus && s.notifier != nil {
		// The actor is the owner here; mutation already required ownership.
		s.notifier.TaskStatusChanged(actor, task.Title, oldStatus, task.Status)
	}

	return s.tasks.FindByID(ctx, id)
}

// Delete removes the task and, through the store, all of its subtasks.
func (s *TaskService) Delete(ctx context.Context, actor model.User, id uint) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Allowed(authz.OpDelete, actor.ID, task.OwnerID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

// Statistics returns the global task aggregates as of now.
func (s *TaskService) Statistics(ctx context.Context) (repository.Statistics, error) {
	return s.tasks.Statistics(ctx, s.now())
}

func (s *TaskService) validateFields(title string, status model.Status, deadline *time.Time) error {
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
		return apperrors.Validation("invalid task", fields)
	}
	return nil
}
