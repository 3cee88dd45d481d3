// Package notify delivers fire-and-forget notifications to task owners.
// Delivery failures are logged and never surface to the request that
// triggered them.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/utilities"
)

// Recipient is a notification address. Email is always present for
// registered users; TelegramChatID, when set, is preferred by sinks that
// can use it.
type Recipient struct {
	Email          string
	TelegramChatID int64
}

// Sink delivers one message to one recipient.
type Sink interface {
	Send(ctx context.Context, to Recipient, subject, body string) error
}

// Notifier builds and dispatches owner notifications asynchronously.
type Notifier struct {
	sink    Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(sink Sink) *Notifier {
	return &Notifier{sink: sink, timeout: 10 * time.Second}
}

// TaskStatusChanged sends the status-transition notice for one
// successful update. The caller supplies the pre-image status it
// captured for its own write attempt; nothing is shared across requests.
func (n *Notifier) TaskStatusChanged(owner model.User, taskTitle string, oldStatus, newStatus model.Status) {
	if !owner.Reachable() {
		return
	}
	subject := fmt.Sprintf("The status of your task %q has changed", taskTitle)
	body := fmt.Sprintf(
		"Hello, %s!\n\n"+
			"The status of your task %q has been updated.\n"+
			"Previous status: %s\n"+
			"New status: %s\n\n"+
			"Best regards,\nThe Taskboard Team",
		owner.Username, taskTitle, oldStatus, newStatus,
	)
	n.dispatch(owner, subject, body)
}

// OverdueDigest sends a prepared digest body to one owner.
func (n *Notifier) OverdueDigest(owner model.User, body string) {
	if !owner.Reachable() {
		return
	}
	n.dispatch(owner, "You have overdue tasks", body)
}

func (n *Notifier) dispatch(owner model.User, subject, body string) {
	to := Recipient{Email: owner.Email, TelegramChatID: owner.TelegramChatID}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sink.Send(ctx, to, subject, body); err != nil {
			utilities.LogError(err, "notify "+owner.Username)
		}
	}()
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
