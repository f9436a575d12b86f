package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyticket-demo/models/demo"
)

func TestSessionRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	record := &demo.Session{
		DemoToken: "token-a",
		ClientIP:  "203.0.113.7",
		IsActive:  true,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.CreateSession(record))
	assert.NotZero(t, record.ID)

	got, err := store.GetSessionByToken("token-a")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", got.ClientIP)

	// Mutating the returned copy does not leak into the store.
	got.ClientIP = "changed"
	again, err := store.GetSessionByToken("token-a")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", again.ClientIP)

	_, err = store.GetSessionByToken("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountActiveSessionsByIPBoundary(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateSession(&demo.Session{
		DemoToken: "live", ClientIP: "203.0.113.7", IsActive: true,
		ExpiresAt: now.Add(time.Minute),
	}))
	require.NoError(t, store.CreateSession(&demo.Session{
		DemoToken: "at-expiry", ClientIP: "203.0.113.7", IsActive: true,
		ExpiresAt: now,
	}))
	require.NoError(t, store.CreateSession(&demo.Session{
		DemoToken: "inactive", ClientIP: "203.0.113.7", IsActive: false,
		ExpiresAt: now.Add(time.Minute),
	}))
	require.NoError(t, store.CreateSession(&demo.Session{
		DemoToken: "other-ip", ClientIP: "198.51.100.2", IsActive: true,
		ExpiresAt: now.Add(time.Minute),
	}))

	count, err := store.CountActiveSessionsByIP("203.0.113.7", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeactivateExpiredSessions(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateSession(&demo.Session{
		DemoToken: "expired", ClientIP: "203.0.113.7", IsActive: true,
		ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, store.CreateSession(&demo.Session{
		DemoToken: "live", ClientIP: "203.0.113.7", IsActive: true,
		ExpiresAt: now.Add(time.Minute),
	}))

	affected, err := store.DeactivateExpiredSessions(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	expired, err := store.GetSessionByToken("expired")
	require.NoError(t, err)
	assert.False(t, expired.IsActive)

	live, err := store.GetSessionByToken("live")
	require.NoError(t, err)
	assert.True(t, live.IsActive)

	// Already-deactivated rows are not counted twice.
	affected, err = store.DeactivateExpiredSessions(now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestSupersededVerificationsStayCountable(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := &demo.SmsVerification{
		PhoneNumber: "09000000001", DemoToken: "token-a",
		OTPCode: "123456", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now,
	}
	require.NoError(t, store.CreateVerification(first))
	require.NoError(t, store.DeleteUnverifiedVerifications("09000000001", "token-a"))

	second := &demo.SmsVerification{
		PhoneNumber: "09000000001", DemoToken: "token-a",
		OTPCode: "123456", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now.Add(10 * time.Second),
	}
	require.NoError(t, store.CreateVerification(second))

	// The superseded record no longer surfaces as pending.
	latest, err := store.LatestUnverifiedVerification("09000000001", "token-a")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	// But it still counts as an issuance event in the rate window.
	count, err := store.CountVerificationsSince("09000000001", "token-a", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLatestUnverifiedVerificationOrdering(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	older := &demo.SmsVerification{
		PhoneNumber: "09000000001", DemoToken: "token-a",
		OTPCode: "123456", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now,
	}
	newer := &demo.SmsVerification{
		PhoneNumber: "09000000001", DemoToken: "token-a",
		OTPCode: "123456", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now.Add(time.Second),
	}
	require.NoError(t, store.CreateVerification(older))
	require.NoError(t, store.CreateVerification(newer))

	latest, err := store.LatestUnverifiedVerification("09000000001", "token-a")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	// Verified records never surface as pending.
	newer.IsVerified = true
	require.NoError(t, store.UpdateVerification(newer))
	latest, err = store.LatestUnverifiedVerification("09000000001", "token-a")
	require.NoError(t, err)
	assert.Equal(t, older.ID, latest.ID)

	_, err = store.LatestUnverifiedVerification("09000000002", "token-a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiagnosisAndAccessLogWrites(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.CreateDiagnosisSession(&demo.DiagnosisSession{
		ID:          "diag-1",
		PhoneNumber: "09000000001",
		DemoToken:   "token-a",
		SMSVerified: true,
		SessionData: `{"isDemo":true}`,
	}))
	assert.Equal(t, 1, store.DiagnosisSessionCount())

	require.NoError(t, store.CreateAccessLog(&demo.AccessLog{
		DemoToken:      "token-a",
		ClientIP:       "203.0.113.7",
		Action:         demo.ActionSMSSent,
		ResponseStatus: 200,
	}))
	assert.Equal(t, 1, store.AccessLogCount())
}
