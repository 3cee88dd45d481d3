package model

// Status tracks the lifecycle of a task or subtask.
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In progress"
	StatusPending    Status = "Pending"
	StatusBlocked    Status = "Blocked"
	StatusDone       Status = "Done"
)

// ActiveStatuses are the statuses that count as unfinished work.
var ActiveStatuses = []Status{StatusNew, StatusInProgress, StatusPending, StatusBlocked}

// Statuses lists every valid status value.
var Statuses = []Status{StatusNew, StatusInProgress, StatusPending, StatusBlocked, StatusDone}

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}
