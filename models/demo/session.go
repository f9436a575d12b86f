package demo

import (
	"time"
)

// Session represents a server-side demo session keyed by its opaque token.
type Session struct {
	ID                    uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DemoToken             string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"demo_token"`
	ClientIP              string    `gorm:"type:varchar(64);not null;index" json:"client_ip"`
	IsActive              bool      `gorm:"default:true;index" json:"is_active"`
	ExpiresAt             time.Time `gorm:"not null;index" json:"expires_at"`
	LastActivity          time.Time `json:"last_activity"`
	ActivityCount         int       `gorm:"default:0" json:"activity_count"`
	VerificationCompleted bool      `gorm:"default:false" json:"verification_completed"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether the session has reached its expiry. A session is
// already invalid at the exact expiry instant.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// IsUsable reports whether the session token may still be presented.
func (s *Session) IsUsable(now time.Time) bool {
	return s.IsActive && !s.IsExpired(now)
}
