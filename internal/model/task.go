package model

import "time"

// Task is a single work item. The owner is set once from the creating
// actor and never changes afterwards.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;uniqueIndex"`
	Description string
	OwnerID     uint   `gorm:"index"`
	Status      Status `gorm:"size:20;default:New"`
	Deadline    *time.Time
	Categories  []Category `gorm:"many2many:task_categories"`
	SubTasks    []SubTask  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overdue reports whether the task is past its deadline and still unfinished.
func (t Task) Overdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == StatusDone {
		return false
	}
	return t.Deadline.Before(now)
}
