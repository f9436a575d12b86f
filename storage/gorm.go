package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"moneyticket-demo/models/demo"
)

// GormStore is the PostgreSQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Session operations

func (g *GormStore) CreateSession(s *demo.Session) error {
	return g.db.Create(s).Error
}

func (g *GormStore) GetSessionByToken(token string) (*demo.Session, error) {
	var session demo.Session
	err := g.db.Where("demo_token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (g *GormStore) CountActiveSessionsByIP(ip string, now time.Time) (int64, error) {
	var count int64
	err := g.db.Model(&demo.Session{}).
		Where("client_ip = ? AND is_active = true AND expires_at > ?", ip, now).
		Count(&count).Error
	return count, err
}

func (g *GormStore) UpdateSession(s *demo.Session) error {
	return g.db.Save(s).Error
}

func (g *GormStore) DeactivateExpiredSessions(now time.Time) (int64, error) {
	res := g.db.Model(&demo.Session{}).
		Where("is_active = true AND expires_at <= ?", now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// SMS verification operations

func (g *GormStore) CreateVerification(v *demo.SmsVerification) error {
	return g.db.Create(v).Error
}

// CountVerificationsSince counts issuance events in the window, including
// superseded (soft-deleted) records. Supersession must not reset the rate
// limit.
func (g *GormStore) CountVerificationsSince(phone, token string, since time.Time) (int64, error) {
	var count int64
	err := g.db.Unscoped().Model(&demo.SmsVerification{}).
		Where("phone_number = ? AND demo_token = ? AND created_at >= ?", phone, token, since).
		Count(&count).Error
	return count, err
}

func (g *GormStore) DeleteUnverifiedVerifications(phone, token string) error {
	return g.db.
		Where("phone_number = ? AND demo_token = ? AND is_verified = false", phone, token).
		Delete(&demo.SmsVerification{}).Error
}

func (g *GormStore) LatestUnverifiedVerification(phone, token string) (*demo.SmsVerification, error) {
	var record demo.SmsVerification
	err := g.db.
		Where("phone_number = ? AND demo_token = ? AND is_verified = false", phone, token).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (g *GormStore) UpdateVerification(v *demo.SmsVerification) error {
	return g.db.Save(v).Error
}

// Diagnosis session operations

func (g *GormStore) CreateDiagnosisSession(d *demo.DiagnosisSession) error {
	return g.db.Create(d).Error
}

// Access log operations

func (g *GormStore) CreateAccessLog(l *demo.AccessLog) error {
	return g.db.Create(l).Error
}

// Statistics reads

func (g *GormStore) CountSessions() (int64, error) {
	var count int64
	err := g.db.Model(&demo.Session{}).Count(&count).Error
	return count, err
}

func (g *GormStore) CountActiveSessions(now time.Time) (int64, error) {
	var count int64
	err := g.db.Model(&demo.Session{}).
		Where("is_active = true AND expires_at > ?", now).
		Count(&count).Error
	return count, err
}

func (g *GormStore) CountSessionsCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := g.db.Model(&demo.Session{}).
		Where("created_at >= ?", t).
		Count(&count).Error
	return count, err
}

func (g *GormStore) CountDistinctSessionIPs() (int64, error) {
	var count int64
	err := g.db.Model(&demo.Session{}).
		Distinct("client_ip").
		Count(&count).Error
	return count, err
}

func (g *GormStore) CountCompletedVerifications() (int64, error) {
	var count int64
	err := g.db.Model(&demo.SmsVerification{}).
		Where("is_verified = true").
		Count(&count).Error
	return count, err
}

func (g *GormStore) SumSessionActivity() (int64, error) {
	var total int64
	err := g.db.Model(&demo.Session{}).
		Select("COALESCE(SUM(activity_count), 0)").
		Scan(&total).Error
	return total, err
}

func (g *GormStore) LastSessionCreatedAt() (*time.Time, error) {
	var session demo.Session
	err := g.db.Order("created_at DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session.CreatedAt, nil
}
