package notify

import (
	"context"

	"taskboard/internal/utilities"
)

// LogSink writes notifications to the process log. Used when no real
// delivery channel is configured.
type LogSink struct{}

func (LogSink) Send(_ context.Context, to Recipient, subject, body string) error {
	utilities.LogInfo("notification for %s: %s\n%s", to.Email, subject, body)
	return nil
}
