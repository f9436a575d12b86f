package demo

import (
	"time"
)

// DiagnosisSession is the downstream application record created once per
// successful verification. Append-only, best-effort.
type DiagnosisSession struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PhoneNumber string    `gorm:"type:varchar(20);not null;index" json:"phone_number"`
	DemoToken   string    `gorm:"type:varchar(128);not null;index" json:"demo_token"`
	SMSVerified bool      `gorm:"column:sms_verified;default:false" json:"sms_verified"`
	SessionData string    `gorm:"type:text" json:"session_data"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
