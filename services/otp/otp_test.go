package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyticket-demo/config"
	"moneyticket-demo/services/session"
	"moneyticket-demo/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryStore, string) {
	t.Helper()
	store := storage.NewMemoryStore()
	cfg := config.Default()
	sessions := session.NewService(store, cfg, nil)

	grant, err := sessions.RequestAccess("203.0.113.7", "test-agent")
	require.NoError(t, err)

	svc := NewService(store, sessions, cfg, nil)
	return svc, store, grant.DemoToken
}

func TestSendIssuesFixedCode(t *testing.T) {
	svc, _, token := newTestService(t)

	record, err := svc.Send("090-0000-0001", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, "09000000001", record.PhoneNumber)
	assert.Equal(t, "123456", record.OTPCode)
	assert.Equal(t, token, record.DemoToken)
	assert.False(t, record.IsVerified)
	assert.Equal(t, 0, record.Attempts)
}

func TestSendRejectsInvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Send("09000000001", "bogus-token", "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Send("09000000001", "", "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSendRejectsUnlistedPhone(t *testing.T) {
	svc, _, token := newTestService(t)

	_, err := svc.Send("09012345678", token, "203.0.113.7", "test-agent")

	var phoneErr *PhoneNotAllowedError
	require.ErrorAs(t, err, &phoneErr)
	assert.Len(t, phoneErr.ValidNumbers, 5)
	assert.Equal(t, "090-0000-0001", phoneErr.ValidNumbers[0])
}

func TestSendRateLimitWindow(t *testing.T) {
	svc, _, token := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc.nowFunc = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		clock = base.Add(time.Duration(i) * 10 * time.Second)
		_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
		require.NoError(t, err)
	}

	// A fourth send inside the same minute is rejected even though earlier
	// records were superseded.
	clock = base.Add(30 * time.Second)
	_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrSMSRateLimited)

	// Once the window has passed the phone can request again.
	clock = base.Add(81 * time.Second)
	_, err = svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	assert.NoError(t, err)
}

func TestSendRateLimitIsPerPhone(t *testing.T) {
	svc, _, token := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
		require.NoError(t, err)
	}
	_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	require.ErrorIs(t, err, ErrSMSRateLimited)

	// A different allowlisted number has its own window.
	_, err = svc.Send("09000000002", token, "203.0.113.7", "test-agent")
	assert.NoError(t, err)
}

func TestVerifySuccess(t *testing.T) {
	svc, store, token := newTestService(t)

	_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)

	result, err := svc.Verify("09000000001", "123456", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, "09000000001", result.PhoneNumber)
	assert.NotEmpty(t, result.DiagnosisSessionID)
	assert.Equal(t, 1, store.DiagnosisSessionCount())

	// The record is consumed: a second verify finds nothing pending.
	_, err = svc.Verify("09000000001", "123456", token, "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestVerifyNoPendingCode(t *testing.T) {
	svc, _, token := newTestService(t)

	_, err := svc.Verify("09000000001", "123456", token, "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestVerifyMismatchCountsAttempts(t *testing.T) {
	svc, _, token := newTestService(t)

	_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, err := svc.Verify("09000000001", "000000", token, "203.0.113.7", "test-agent")
		var mismatch *MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 5-i, mismatch.Remaining)
		assert.Equal(t, "123456", mismatch.CorrectCode)
	}

	// Even the correct code no longer works once attempts are exhausted.
	_, err = svc.Verify("09000000001", "123456", token, "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
}

func TestVerifyFreshRecordResetsAttempts(t *testing.T) {
	svc, _, token := newTestService(t)

	_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.Verify("09000000001", "000000", token, "203.0.113.7", "test-agent")
		require.Error(t, err)
	}
	_, err = svc.Verify("09000000001", "123456", token, "203.0.113.7", "test-agent")
	require.ErrorIs(t, err, ErrAttemptsExhausted)

	// A new send supersedes the exhausted record and starts a fresh count.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)

	result, err := svc.Verify("09000000001", "123456", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, "09000000001", result.PhoneNumber)
}

func TestVerifyExpiredCode(t *testing.T) {
	svc, _, token := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc.nowFunc = func() time.Time { return clock }

	_, err := svc.Send("09000000001", token, "203.0.113.7", "test-agent")
	require.NoError(t, err)

	clock = base.Add(svc.cfg.OTPTimeout + time.Second)
	_, err = svc.Verify("09000000001", "123456", token, "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyRejectsInvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Verify("09000000001", "123456", "bogus-token", "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnlistedPhone(t *testing.T) {
	svc, _, token := newTestService(t)

	_, err := svc.Verify("09012345678", "123456", token, "203.0.113.7", "test-agent")

	var phoneErr *PhoneNotAllowedError
	assert.ErrorAs(t, err, &phoneErr)
}
