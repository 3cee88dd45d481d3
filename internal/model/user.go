package model

import "time"

// User is an authenticated actor. Email is the notification address;
// TelegramChatID, when set, routes notifications through Telegram instead.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:150;uniqueIndex"`
	Email          string `gorm:"size:254;uniqueIndex"`
	PasswordHash   string
	TelegramChatID int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reachable reports whether the user has any notification address at all.
func (u User) Reachable() bool {
	return u.Email != "" || u.TelegramChatID != 0
}
