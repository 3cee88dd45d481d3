package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	user := model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := repository.NewUserRepository(db).Create(context.Background(), &user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func statusPtr(s model.Status) *model.Status {
	return &s
}

func strPtr(s string) *string {
	return &s
}

// fakeNotifier records status notifications synchronously so tests can
// count them.
type fakeNotifier struct {
	calls []statusChange
}

type statusChange struct {
	owner     model.User
	taskTitle string
	oldStatus model.Status
	newStatus model.Status
}

func (f *fakeNotifier) TaskStatusChanged(owner model.User, taskTitle string, oldStatus, newStatus model.Status) {
	f.calls = append(f.calls, statusChange{owner: owner, taskTitle: taskTitle, oldStatus: oldStatus, newStatus: newStatus})
}
