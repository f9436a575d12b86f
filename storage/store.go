package storage

import (
	"errors"
	"time"

	"moneyticket-demo/models/demo"
)

// ErrNotFound is returned by lookups when no matching record exists.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the demo flow actually uses.
// Handlers and services depend on this interface, never on a concrete
// database type, so tests can substitute the in-memory implementation.
type Store interface {
	// Session operations
	CreateSession(s *demo.Session) error
	GetSessionByToken(token string) (*demo.Session, error)
	CountActiveSessionsByIP(ip string, now time.Time) (int64, error)
	UpdateSession(s *demo.Session) error
	DeactivateExpiredSessions(now time.Time) (int64, error)

	// SMS verification operations
	CreateVerification(v *demo.SmsVerification) error
	CountVerificationsSince(phone, token string, since time.Time) (int64, error)
	DeleteUnverifiedVerifications(phone, token string) error
	LatestUnverifiedVerification(phone, token string) (*demo.SmsVerification, error)
	UpdateVerification(v *demo.SmsVerification) error

	// Diagnosis session operations
	CreateDiagnosisSession(d *demo.DiagnosisSession) error

	// Access log operations
	CreateAccessLog(l *demo.AccessLog) error

	// Statistics reads
	CountSessions() (int64, error)
	CountActiveSessions(now time.Time) (int64, error)
	CountSessionsCreatedSince(t time.Time) (int64, error)
	CountDistinctSessionIPs() (int64, error)
	CountCompletedVerifications() (int64, error)
	SumSessionActivity() (int64, error)
	LastSessionCreatedAt() (*time.Time, error)
}
