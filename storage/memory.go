package storage

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"moneyticket-demo/models/demo"
)

// MemoryStore keeps all demo records in process memory. It backs unit tests
// and the USE_MEMORY_STORE development mode.
type MemoryStore struct {
	mu sync.RWMutex

	sessions      map[string]*demo.Session
	verifications []*demo.SmsVerification
	diagnosis     map[string]*demo.DiagnosisSession
	accessLogs    []*demo.AccessLog

	sessionCounter      uint
	verificationCounter uint
	logCounter          uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string]*demo.Session),
		diagnosis: make(map[string]*demo.DiagnosisSession),
	}
}

// Session operations

func (m *MemoryStore) CreateSession(s *demo.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessionCounter++
	s.ID = m.sessionCounter
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = s.CreatedAt

	stored := *s
	m.sessions[s.DemoToken] = &stored
	return nil
}

func (m *MemoryStore) GetSessionByToken(token string) (*demo.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[token]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *MemoryStore) CountActiveSessionsByIP(ip string, now time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, s := range m.sessions {
		if s.ClientIP == ip && s.IsActive && s.ExpiresAt.After(now) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) UpdateSession(s *demo.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.DemoToken]; !exists {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now()
	stored := *s
	m.sessions[s.DemoToken] = &stored
	return nil
}

func (m *MemoryStore) DeactivateExpiredSessions(now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var affected int64
	for _, s := range m.sessions {
		if s.IsActive && !s.ExpiresAt.After(now) {
			s.IsActive = false
			s.UpdatedAt = now
			affected++
		}
	}
	return affected, nil
}

// SMS verification operations

func (m *MemoryStore) CreateVerification(v *demo.SmsVerification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.verificationCounter++
	v.ID = m.verificationCounter
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	v.UpdatedAt = v.CreatedAt

	stored := *v
	m.verifications = append(m.verifications, &stored)
	return nil
}

// CountVerificationsSince counts issuance events in the window, superseded
// records included, matching the unscoped query of the GORM store.
func (m *MemoryStore) CountVerificationsSince(phone, token string, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, v := range m.verifications {
		if v.PhoneNumber == phone && v.DemoToken == token && !v.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) DeleteUnverifiedVerifications(phone, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, v := range m.verifications {
		if v.PhoneNumber == phone && v.DemoToken == token && !v.IsVerified && !v.DeletedAt.Valid {
			v.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
		}
	}
	return nil
}

func (m *MemoryStore) LatestUnverifiedVerification(phone, token string) (*demo.SmsVerification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *demo.SmsVerification
	for _, v := range m.verifications {
		if v.PhoneNumber != phone || v.DemoToken != token || v.IsVerified || v.DeletedAt.Valid {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) ||
			(v.CreatedAt.Equal(latest.CreatedAt) && v.ID > latest.ID) {
			latest = v
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *MemoryStore) UpdateVerification(v *demo.SmsVerification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.verifications {
		if existing.ID == v.ID {
			v.UpdatedAt = time.Now()
			stored := *v
			m.verifications[i] = &stored
			return nil
		}
	}
	return ErrNotFound
}

// Diagnosis session operations

func (m *MemoryStore) CreateDiagnosisSession(d *demo.DiagnosisSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	stored := *d
	m.diagnosis[d.ID] = &stored
	return nil
}

// Access log operations

func (m *MemoryStore) CreateAccessLog(l *demo.AccessLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logCounter++
	l.ID = m.logCounter
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	stored := *l
	m.accessLogs = append(m.accessLogs, &stored)
	return nil
}

// Statistics reads

func (m *MemoryStore) CountSessions() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.sessions)), nil
}

func (m *MemoryStore) CountActiveSessions(now time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, s := range m.sessions {
		if s.IsActive && s.ExpiresAt.After(now) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountSessionsCreatedSince(t time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, s := range m.sessions {
		if !s.CreatedAt.Before(t) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountDistinctSessionIPs() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ips := make(map[string]struct{})
	for _, s := range m.sessions {
		ips[s.ClientIP] = struct{}{}
	}
	return int64(len(ips)), nil
}

func (m *MemoryStore) CountCompletedVerifications() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, v := range m.verifications {
		if v.IsVerified {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) SumSessionActivity() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, s := range m.sessions {
		total += int64(s.ActivityCount)
	}
	return total, nil
}

func (m *MemoryStore) LastSessionCreatedAt() (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *time.Time
	for _, s := range m.sessions {
		created := s.CreatedAt
		if latest == nil || created.After(*latest) {
			latest = &created
		}
	}
	return latest, nil
}

// DiagnosisSessionCount reports how many diagnosis sessions exist. Test helper.
func (m *MemoryStore) DiagnosisSessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.diagnosis)
}

// AccessLogCount reports how many access-log entries exist. Test helper.
func (m *MemoryStore) AccessLogCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accessLogs)
}
