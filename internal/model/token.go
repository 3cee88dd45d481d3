package model

import "time"

// RefreshToken records an issued refresh credential so that logout can
// invalidate it. ID is the token's jti claim.
type RefreshToken struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"index"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Usable reports whether the token is neither revoked nor expired.
func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
