package demo

import (
	"time"
)

// Action classifies a demo access-log entry.
type Action string

const (
	ActionSessionCreated Action = "session_created"
	ActionSMSSent        Action = "sms_sent"
	ActionOTPVerified    Action = "otp_verified"
	ActionSessionExpired Action = "session_expired"
	ActionAccessDenied   Action = "access_denied"
	ActionRateLimited    Action = "rate_limited"
)

// AccessLog records one notable event of the demo flow. Entries are written
// asynchronously and are append-only.
type AccessLog struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DemoToken      string    `gorm:"type:varchar(128);index" json:"demo_token,omitempty"`
	ClientIP       string    `gorm:"type:varchar(64);not null" json:"client_ip"`
	UserAgent      string    `gorm:"type:text" json:"user_agent,omitempty"`
	Action         Action    `gorm:"type:varchar(32);not null;index" json:"action"`
	ResponseStatus int       `gorm:"type:int" json:"response_status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
