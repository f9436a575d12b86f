package otp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneyticket-demo/config"
	"moneyticket-demo/logger"
	"moneyticket-demo/models/demo"
	"moneyticket-demo/services/session"
	"moneyticket-demo/storage"
	"moneyticket-demo/utils"
)

// Service orchestrates the demo OTP flow: issuing the fixed code for an
// allowlisted phone number and verifying submissions against it.
type Service struct {
	store    storage.Store
	sessions *session.Service
	cfg      config.DemoConfig
	access   *logger.AccessLogger

	nowFunc func() time.Time
}

// NewService creates an OTP service. The access logger may be nil.
func NewService(store storage.Store, sessions *session.Service, cfg config.DemoConfig, access *logger.AccessLogger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		cfg:      cfg,
		access:   access,
		nowFunc:  time.Now,
	}
}

// Send issues the fixed demo code for an allowlisted phone under a valid
// session token. At most one unverified record per (phone, token) pair is
// intended: prior unverified records are deleted before the insert. The
// delete-then-insert pair is not transactional; concurrent sends for the
// same pair can race, which the demo accepts.
func (s *Service) Send(phone, token, clientIP, userAgent string) (*demo.SmsVerification, error) {
	if !s.sessions.Validate(token) {
		s.logAction(demo.ActionAccessDenied, clientIP, userAgent, token, 403)
		return nil, ErrInvalidToken
	}

	normalized := utils.NormalizePhone(phone)
	if !s.cfg.IsDemoPhoneNumber(normalized) {
		return nil, &PhoneNotAllowedError{ValidNumbers: utils.FormatPhones(s.cfg.ExamplePhoneNumbers(5))}
	}

	nowT := s.nowFunc()

	// Only the per-minute cap is enforced; the hourly cap stays a declared
	// parameter.
	oneMinuteAgo := nowT.Add(-time.Minute)
	recent, err := s.store.CountVerificationsSince(normalized, token, oneMinuteAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent verifications: %w", err)
	}
	if !utils.WithinSMSRate(recent, s.cfg.SMSPerMinute) {
		s.logAction(demo.ActionRateLimited, clientIP, userAgent, token, 429)
		return nil, ErrSMSRateLimited
	}

	if err := s.store.DeleteUnverifiedVerifications(normalized, token); err != nil {
		return nil, fmt.Errorf("failed to delete stale verifications: %w", err)
	}

	record := &demo.SmsVerification{
		PhoneNumber: normalized,
		OTPCode:     s.cfg.OTPCode,
		DemoToken:   token,
		ExpiresAt:   nowT.Add(s.cfg.OTPTimeout),
		Attempts:    0,
		IsVerified:  false,
		RequestIP:   clientIP,
		CreatedAt:   nowT,
	}
	if err := s.store.CreateVerification(record); err != nil {
		return nil, fmt.Errorf("failed to persist verification record: %w", err)
	}

	s.sessions.TouchActivity(token, false)
	s.logAction(demo.ActionSMSSent, clientIP, userAgent, token, 200)

	return record, nil
}

// VerifyResult is the outcome of a successful verification.
type VerifyResult struct {
	PhoneNumber string
	VerifiedAt  time.Time

	// DiagnosisSessionID is empty when the best-effort diagnosis-session
	// write failed.
	DiagnosisSessionID string
}

// Verify checks a submitted code against the latest pending record for the
// (phone, token) pair. Guards are applied in order: expiry, exhausted
// attempts, code mismatch. A mismatch counts an attempt before failing.
func (s *Service) Verify(phone, code, token, clientIP, userAgent string) (*VerifyResult, error) {
	if !s.sessions.Validate(token) {
		s.logAction(demo.ActionAccessDenied, clientIP, userAgent, token, 403)
		return nil, ErrInvalidToken
	}

	normalized := utils.NormalizePhone(phone)
	if !s.cfg.IsDemoPhoneNumber(normalized) {
		return nil, &PhoneNotAllowedError{ValidNumbers: utils.FormatPhones(s.cfg.ExamplePhoneNumbers(5))}
	}

	record, err := s.store.LatestUnverifiedVerification(normalized, token)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrNoPendingCode
		}
		return nil, fmt.Errorf("failed to load verification record: %w", err)
	}

	nowT := s.nowFunc()

	if record.IsExpired(nowT) {
		s.logAction(demo.ActionSessionExpired, clientIP, userAgent, token, 400)
		return nil, ErrCodeExpired
	}
	if record.AttemptsExhausted(s.cfg.VerifyMaxAttempts) {
		return nil, ErrAttemptsExhausted
	}
	if code != record.OTPCode {
		record.Attempts++
		if err := s.store.UpdateVerification(record); err != nil {
			return nil, fmt.Errorf("failed to record failed attempt: %w", err)
		}
		return nil, &MismatchError{
			Remaining:   utils.RemainingAttempts(record.Attempts, s.cfg.VerifyMaxAttempts),
			CorrectCode: s.cfg.OTPCode,
		}
	}

	record.IsVerified = true
	verifiedAt := nowT
	record.VerifiedAt = &verifiedAt
	if err := s.store.UpdateVerification(record); err != nil {
		return nil, fmt.Errorf("failed to mark verification complete: %w", err)
	}

	s.sessions.TouchActivity(token, true)
	s.logAction(demo.ActionOTPVerified, clientIP, userAgent, token, 200)

	result := &VerifyResult{
		PhoneNumber: normalized,
		VerifiedAt:  verifiedAt,
	}

	// Best effort: a failed diagnosis-session write is logged but never
	// downgrades the verification outcome.
	if id, err := s.createDiagnosisSession(normalized, token, verifiedAt); err != nil {
		logger.Error("Demo diagnosis session creation failed", err)
	} else {
		result.DiagnosisSessionID = id
	}

	return result, nil
}

func (s *Service) createDiagnosisSession(phone, token string, verifiedAt time.Time) (string, error) {
	sessionData, err := json.Marshal(map[string]interface{}{
		"isDemo":     true,
		"demoPhone":  phone,
		"verifiedAt": verifiedAt.Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	payload := string(sessionData)
	if utils.EncryptionEnabled() {
		if payload, err = utils.EncryptData(payload); err != nil {
			return "", err
		}
	}

	record := &demo.DiagnosisSession{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		DemoToken:   token,
		SMSVerified: true,
		SessionData: payload,
		CreatedAt:   verifiedAt,
	}
	if err := s.store.CreateDiagnosisSession(record); err != nil {
		return "", err
	}
	return record.ID, nil
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
