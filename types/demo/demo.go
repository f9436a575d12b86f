package demo

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SendOTPRequest is the body of POST /demo/send-otp. When RequestDemoAccess
// is true the other fields are ignored and a new demo session is issued.
type SendOTPRequest struct {
	PhoneNumber       string `json:"phoneNumber" validate:"omitempty,max=20"`
	DemoToken         string `json:"demoToken" validate:"omitempty,max=128"`
	RequestDemoAccess bool   `json:"requestDemoAccess"`
}

// Validate checks field shapes only; requiredness depends on the request
// variant and is enforced by the handler.
func (r SendOTPRequest) Validate() error {
	return validate.Struct(r)
}

// VerifyOTPRequest is the body of POST /demo/verify-otp. The code may arrive
// in either the "code" or the "otp" field.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
	Code        string `json:"code" validate:"omitempty,max=6"`
	OTP         string `json:"otp" validate:"omitempty,max=6"`
	DemoToken   string `json:"demoToken" validate:"omitempty,max=128"`
}

func (r VerifyOTPRequest) Validate() error {
	return validate.Struct(r)
}

// OTPCode returns whichever code field the client populated.
func (r VerifyOTPRequest) OTPCode() string {
	if r.Code != "" {
		return r.Code
	}
	return r.OTP
}

// AccessInstructions is the usage guidance returned with a fresh demo token.
// The phone list and OTP code are deliberately public in demo mode.
type AccessInstructions struct {
	PhoneNumbers   []string `json:"phoneNumbers"`
	OTPCode        string   `json:"otpCode"`
	SessionTimeout string   `json:"sessionTimeout"`
}

// AccessGrantResponse is the success body of the access-request variant.
type AccessGrantResponse struct {
	Success      bool               `json:"success"`
	DemoToken    string             `json:"demoToken"`
	Message      string             `json:"message"`
	Instructions AccessInstructions `json:"instructions"`
}

// SendInstructions accompanies a successful OTP send.
type SendInstructions struct {
	OTPCode  string `json:"otpCode"`
	ValidFor string `json:"validFor"`
	Note     string `json:"note"`
}

// SendOTPResponse is the success body of the send-OTP variant.
type SendOTPResponse struct {
	Success          bool             `json:"success"`
	IsDemo           bool             `json:"isDemo"`
	Message          string           `json:"message"`
	DemoInstructions SendInstructions `json:"demoInstructions"`
}

// DemoInfo summarizes a completed verification.
type DemoInfo struct {
	PhoneNumber string `json:"phoneNumber"`
	VerifiedAt  string `json:"verifiedAt"`
	SessionType string `json:"sessionType"`
}

// VerifyOTPResponse is the success body of POST /demo/verify-otp. SessionID
// is null when the diagnosis-session write failed.
type VerifyOTPResponse struct {
	Success   bool     `json:"success"`
	IsDemo    bool     `json:"isDemo"`
	Message   string   `json:"message"`
	SessionID *string  `json:"sessionId"`
	DemoInfo  DemoInfo `json:"demoInfo"`
}

// ErrorResponse is the error body of both demo endpoints.
type ErrorResponse struct {
	Error        string   `json:"error"`
	ValidNumbers []string `json:"validNumbers,omitempty"`
	IsDemo       bool     `json:"isDemo,omitempty"`
	CorrectCode  string   `json:"correctCode,omitempty"`
}

// SessionData is the client-side mirror of an active demo session. It is a
// UI convenience only; the server-side session stays authoritative.
type SessionData struct {
	DemoToken   string    `json:"demoToken"`
	PhoneNumber string    `json:"phoneNumber"`
	IsDemo      bool      `json:"isDemo"`
	SessionID   string    `json:"sessionId,omitempty"`
	SMSVerified bool      `json:"smsVerified"`
	VerifiedAt  string    `json:"verifiedAt,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ClientIP    string    `json:"clientIP,omitempty"`
}

// Statistics aggregates demo usage for the admin endpoint.
type Statistics struct {
	TotalSessions          int64      `json:"totalSessions"`
	ActiveSessions         int64      `json:"activeSessions"`
	CompletedVerifications int64      `json:"completedVerifications"`
	AvgActivityPerSession  float64    `json:"avgActivityPerSession"`
	LastSessionCreated     *time.Time `json:"lastSessionCreated"`
	UniqueIPs              int64      `json:"uniqueIPs"`
	SessionsToday          int64      `json:"sessionsToday"`
}
