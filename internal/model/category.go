package model

import "time"

// Category groups tasks by area (work, health, study, etc.).
// Categories are never removed physically; deletion flips IsDeleted and
// stamps DeletedAt, and default listings skip deleted rows. Name
// uniqueness is enforced among non-deleted categories only, so a new
// category may reuse the name of a deleted one.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;index"`
	IsDeleted bool   `gorm:"default:false;index"`
	DeletedAt *time.Time
	Tasks     []Task `gorm:"many2many:task_categories"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
