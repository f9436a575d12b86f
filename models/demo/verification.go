package demo

import (
	"time"

	"gorm.io/gorm"
)

// SmsVerification is a single issued demo OTP bound to a (phone, token)
// pair. Verified records are never deleted; they stay as an audit trail.
// Superseded records are soft-deleted so the send-rate window still sees
// every issuance event.
type SmsVerification struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PhoneNumber string     `gorm:"type:varchar(20);not null;index" json:"phone_number"`
	OTPCode     string     `gorm:"column:otp_code;type:varchar(6);not null" json:"otp_code"`
	DemoToken   string     `gorm:"type:varchar(128);not null;index" json:"demo_token"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	Attempts    int        `gorm:"default:0" json:"attempts"`
	IsVerified  bool       `gorm:"default:false;index" json:"is_verified"`
	RequestIP   string     `gorm:"type:varchar(64)" json:"request_ip"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsExpired reports whether the code is past its validity window. A code at
// the exact expiry instant is still accepted.
func (v *SmsVerification) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// AttemptsExhausted reports whether the record has burned all allowed
// verification attempts and is inert until a new code is issued.
func (v *SmsVerification) AttemptsExhausted(max int) bool {
	return v.Attempts >= max
}
