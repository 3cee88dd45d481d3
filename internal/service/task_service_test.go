package service

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func newTaskService(t *testing.T) (*TaskService, *fakeNotifier, *repository.TaskRepository, model.User) {
	t.Helper()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	repo := repository.NewTaskRepository(db)
	svc := NewTaskService(repo, notifier, 10, nil)
	owner := newTestUser(t, db, "alice")
	return svc, notifier, repo, owner
}

func TestTaskCreateStampsOwnerFromActor(t *testing.T) {
	svc, notifier, _, owner := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, TaskInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.OwnerID != owner.ID {
		t.Fatalf("expected owner %d, got %d", owner.ID, task.OwnerID)
	}
	if task.Status != model.StatusNew {
		t.Fatalf("expected default status %q, got %q", model.StatusNew, task.Status)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("creation must not notify, got %d calls", len(notifier.calls))
	}
}

func TestTaskStatusChangeNotifiesExactlyOnce(t *testing.T) {
	svc, notifier, _, owner := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, TaskInput{Title: "Ship release"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	updated, err := svc.Update(ctx, owner, task.ID, TaskUpdateInput{Status: statusPtr(model.StatusInProgress)})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.StatusInProgress {
		t.Fatalf("expected status %q, got %q", model.StatusInProgress, updated.Status)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.oldStatus != model.StatusNew || call.newStatus != model.StatusInProgress {
		t.Fatalf("expected transition %q -> %q, got %q -> %q",
			model.StatusNew, model.StatusInProgress, call.oldStatus, call.newStatus)
	}
	if call.owner.ID != owner.ID {
		t.Fatalf("expected owner %d notified, got %d", owner.ID, call.owner.ID)
	}
	if call.taskTitle != "Ship release" {
		t.Fatalf("unexpected title in notification: %q", call.taskTitle)
	}
}

func TestTaskUpdateWithoutStatusChangeStaysSilent(t *testing.T) {
	svc, notifier, _, owner := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, TaskInput{Title: "Quiet task"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := svc.Update(ctx, owner, task.ID, TaskUpdateInput{Description: strPtr("more detail")}); err != nil {
		t.Fatalf("update description: %v", err)
	}
	// Writing the same status back is not a change either.
	if _, err := svc.Update(ctx, owner, task.ID, TaskUpdateInput{Status: statusPtr(model.StatusNew)}); err != nil {
		t.Fatalf("update with same status: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.calls))
	}
}

func TestTaskMutationByNonOwnerRejected(t *testing.T) {
	svc, notifier, repo, owner := newTaskService(t)
	ctx := context.Background()
	stranger := model.User{ID: owner.ID + 100, Username: "mallory"}

	task, err := svc.Create(ctx, owner, TaskInput{Title: "Private task"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Reads stay open to any authenticated actor.
	if _, err := svc.Get(ctx, stranger, task.ID); err != nil {
		t.Fatalf("read by non-owner should succeed: %v", err)
	}

	_, err = svc.Update(ctx, stranger, task.ID, TaskUpdateInput{Status: statusPtr(model.StatusDone)})
	if !apperrors.IsCode(err, apperrors.CodeNotOwner) {
		t.Fatalf("expected NOT_OWNER on update, got %v", err)
	}
	if err := svc.Delete(ctx, stranger, task.ID); !apperrors.IsCode(err, apperrors.CodeNotOwner) {
		t.Fatalf("expected NOT_OWNER on delete, got %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("rejected update must not notify, got %d calls", len(notifier.calls))
	}

	stored, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if stored.Status != model.StatusNew {
		t.Fatalf("rejected update must not change stored status, got %q", stored.Status)
	}
}

func TestTaskUpdateMissingIsNotFound(t *testing.T) {
	svc, _, _, owner := newTaskService(t)

	_, err := svc.Update(context.Background(), owner, 9999, TaskUpdateInput{Title: strPtr("ghost")})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestTaskCreateRejectsPastDeadline(t *testing.T) {
	db := newTestDB(t)
	fixed := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	svc := NewTaskService(repository.NewTaskRepository(db), nil, 10, func() time.Time { return fixed })
	owner := newTestUser(t, db, "alice")

	_, err := svc.Create(context.Background(), owner, TaskInput{
		Title:    "Too late",
		Deadline: timePtr(fixed.Add(-time.Hour)),
	})
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION, got %v", err)
	}

	// A future deadline passes.
	if _, err := svc.Create(context.Background(), owner, TaskInput{
		Title:    "On time",
		Deadline: timePtr(fixed.Add(time.Hour)),
	}); err != nil {
		t.Fatalf("future deadline should be accepted: %v", err)
	}
}

func TestTaskListUnknownWeekdayYieldsEmptyPage(t *testing.T) {
	svc, _, _, owner := newTaskService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner, TaskInput{Title: "Some task"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, info, err := svc.List(ctx, TaskListOptions{Weekday: "blursday"})
	if err != nil {
		t.Fatalf("unknown weekday must not error: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty result, got %d tasks", len(tasks))
	}
	if info.TotalCount != 0 || info.Page != 1 {
		t.Fatalf("unexpected page info: %+v", info)
	}
}

func TestTaskListRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTaskService(t)

	_, _, err := svc.List(context.Background(), TaskListOptions{Status: "Paused"})
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}

func TestTaskListOwnedScopesToActor(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(repository.NewTaskRepository(db), nil, 10, nil)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice, TaskInput{Title: "Alice task"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, bob, TaskInput{Title: "Bob task"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks, _, err := svc.ListOwned(ctx, alice, TaskListOptions{})
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Alice task" {
		t.Fatalf("expected only Alice's task, got %+v", tasks)
	}

	all, _, err := svc.List(ctx, TaskListOptions{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks in shared listing, got %d", len(all))
	}
}
