package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	user := model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := NewUserRepository(db).Create(context.Background(), &user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func timePtr(t time.Time) *time.Time {
	return &t
}
