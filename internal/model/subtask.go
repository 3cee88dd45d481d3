package model

import "time"

// SubTask is a unit of work under a task. It carries its own owner,
// which may differ from the parent task's owner.
type SubTask struct {
	ID          uint   `gorm:"primaryKey"`
	TaskID      uint   `gorm:"index"`
	Title       string `gorm:"size:200;uniqueIndex"`
	Description string
	OwnerID     uint   `gorm:"index"`
	Status      Status `gorm:"size:20;default:New"`
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
