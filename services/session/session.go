package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"moneyticket-demo/config"
	"moneyticket-demo/logger"
	"moneyticket-demo/models/demo"
	"moneyticket-demo/storage"
	demoTypes "moneyticket-demo/types/demo"
	"moneyticket-demo/utils"
)

// ErrSessionLimit is returned when a client IP already holds the maximum
// number of active demo sessions.
var ErrSessionLimit = errors.New("demo session limit reached for this IP")

// Service owns the demo session lifecycle: issuing tokens, validating them
// and tracking activity.
type Service struct {
	store  storage.Store
	cfg    config.DemoConfig
	access *logger.AccessLogger

	// nowFunc is swapped out in tests.
	nowFunc func() time.Time
}

// NewService creates a session service. The access logger may be nil.
func NewService(store storage.Store, cfg config.DemoConfig, access *logger.AccessLogger) *Service {
	return &Service{
		store:   store,
		cfg:     cfg,
		access:  access,
		nowFunc: time.Now,
	}
}

// AccessGrant is the result of a successful demo access request.
type AccessGrant struct {
	DemoToken      string
	PhoneNumbers   []string
	OTPCode        string
	SessionTimeout string
}

// RequestAccess gates demo usage behind the per-IP session cap and issues a
// time-boxed token. No record is written when the cap is hit.
func (s *Service) RequestAccess(clientIP, userAgent string) (*AccessGrant, error) {
	nowT := s.nowFunc()

	active, err := s.store.CountActiveSessionsByIP(clientIP, nowT)
	if err != nil {
		return nil, fmt.Errorf("failed to count active sessions: %w", err)
	}
	if active >= int64(s.cfg.MaxSessionsPerIP) {
		s.logAction(demo.ActionRateLimited, clientIP, userAgent, "", 429)
		return nil, ErrSessionLimit
	}

	token, err := utils.GenerateDemoToken(s.cfg.TokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate demo token: %w", err)
	}

	record := &demo.Session{
		DemoToken:    token,
		ClientIP:     clientIP,
		IsActive:     true,
		ExpiresAt:    nowT.Add(s.cfg.SessionTimeout),
		LastActivity: nowT,
		CreatedAt:    nowT,
	}
	if err := s.store.CreateSession(record); err != nil {
		return nil, fmt.Errorf("failed to persist demo session: %w", err)
	}

	s.logAction(demo.ActionSessionCreated, clientIP, userAgent, token, 200)

	return &AccessGrant{
		DemoToken:      token,
		PhoneNumbers:   utils.FormatPhones(s.cfg.ExamplePhoneNumbers(5)),
		OTPCode:        s.cfg.OTPCode,
		SessionTimeout: fmt.Sprintf("%d分", int(s.cfg.SessionTimeout.Minutes())),
	}, nil
}

// Validate reports whether the token belongs to an active, unexpired
// session. It fails closed: any lookup error reads as invalid.
func (s *Service) Validate(token string) bool {
	if token == "" {
		return false
	}
	record, err := s.store.GetSessionByToken(token)
	if err != nil {
		return false
	}
	return record.IsUsable(s.nowFunc())
}

// TouchActivity bumps the session's last-activity timestamp and counter.
// Best effort: failures are logged and never propagated.
func (s *Service) TouchActivity(token string, verified bool) {
	record, err := s.store.GetSessionByToken(token)
	if err != nil {
		logger.Warning("Could not load session for activity update: " + err.Error())
		return
	}
	record.LastActivity = s.nowFunc()
	record.ActivityCount++
	if verified {
		record.VerificationCompleted = true
	}
	if err := s.store.UpdateSession(record); err != nil {
		logger.Warning("Could not update session activity: " + err.Error())
	}
}

// Cleanup deactivates sessions past their expiry.
func (s *Service) Cleanup() (int64, error) {
	return s.store.DeactivateExpiredSessions(s.nowFunc())
}

// Statistics aggregates demo usage numbers for the admin endpoint.
func (s *Service) Statistics() (*demoTypes.Statistics, error) {
	nowT := s.nowFunc()

	total, err := s.store.CountSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	active, err := s.store.CountActiveSessions(nowT)
	if err != nil {
		return nil, fmt.Errorf("failed to count active sessions: %w", err)
	}
	completed, err := s.store.CountCompletedVerifications()
	if err != nil {
		return nil, fmt.Errorf("failed to count completed verifications: %w", err)
	}
	uniqueIPs, err := s.store.CountDistinctSessionIPs()
	if err != nil {
		return nil, fmt.Errorf("failed to count distinct IPs: %w", err)
	}
	activity, err := s.store.SumSessionActivity()
	if err != nil {
		return nil, fmt.Errorf("failed to sum session activity: %w", err)
	}
	last, err := s.store.LastSessionCreatedAt()
	if err != nil {
		return nil, fmt.Errorf("failed to read last session time: %w", err)
	}
	today, err := s.store.CountSessionsCreatedSince(now.With(nowT).BeginningOfDay())
	if err != nil {
		return nil, fmt.Errorf("failed to count today's sessions: %w", err)
	}

	stats := &demoTypes.Statistics{
		TotalSessions:          total,
		ActiveSessions:         active,
		CompletedVerifications: completed,
		LastSessionCreated:     last,
		UniqueIPs:              uniqueIPs,
		SessionsToday:          today,
	}
	if total > 0 {
		stats.AvgActivityPerSession = float64(activity) / float64(total)
	}
	return stats, nil
}

func (s *Service) logAction(action demo.Action, ip, userAgent, token string, status int) {
	if s.access == nil {
		return
	}
	s.access.Log(demo.AccessLog{
		DemoToken:      token,
		ClientIP:       ip,
		UserAgent:      userAgent,
		Action:         action,
		ResponseStatus: status,
	})
}
