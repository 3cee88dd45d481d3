package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// DigestNotifier delivers a prepared digest to one owner.
type DigestNotifier interface {
	OverdueDigest(owner model.User, body string)
}

// DigestService builds periodic overdue summaries per owner.
type DigestService struct {
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	notifier DigestNotifier
	now      func() time.Time
}

func NewDigestService(tasks *repository.TaskRepository, users *repository.UserRepository, notifier DigestNotifier, now func() time.Time) *DigestService {
	if now == nil {
		now = time.Now
	}
	return &DigestService{tasks: tasks, users: users, notifier: notifier, now: now}
}

// SendOverdueDigests sends each owner with overdue work one summary.
// Owners with nothing overdue receive nothing.
func (s *DigestService) SendOverdueDigests(ctx context.Context) error {
	now := s.now()

	overdue, err := s.tasks.ListOverdue(ctx, now)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	byOwner := make(map[uint][]model.Task)
	ownerIDs := make([]uint, 0)
	for _, task := range overdue {
		if _, seen := byOwner[task.OwnerID]; !seen {
			ownerIDs = append(ownerIDs, task.OwnerID)
		}
		byOwner[task.OwnerID] = append(byOwner[task.OwnerID], task)
	}

	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return err
	}

	for _, id := range ownerIDs {
		owner, ok := owners[id]
		if !ok {
			continue
		}
		s.notifier.OverdueDigest(owner, buildDigest(owner, byOwner[id], now))
	}
	return nil
}

// buildDigest formats one owner's overdue tasks, oldest deadline first.
func buildDigest(owner model.User, tasks []model.Task, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hello, %s!\n\nYou have %d overdue task(s):\n", owner.Username, len(tasks)))
	for _, task := range tasks {
		days := int(now.Sub(*task.Deadline).Hours() / 24)
		sb.WriteString(fmt.Sprintf("- %s (%s), due %s", task.Title, task.Status, task.Deadline.Format("2006-01-02")))
		if days > 0 {
			sb.WriteString(fmt.Sprintf(", %d day(s) overdue", days))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\nBest regards,\nThe Taskboard Team")
	return sb.String()
}
