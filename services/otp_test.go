package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu    sync.Mutex
	sends []string // "to|subject|body"
	err   error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sends = append(m.sends, to+"|"+subject+"|"+body)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sends)
}

func newTestManager(mailer Mailer) *OTPManager {
	m := NewOTPManager(mailer)
	codes := []string{"123456", "654321", "111111"}
	i := 0
	m.newCode = func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
	return m
}

func TestOTPIssueAndVerify(t *testing.T) {
	mailer := &recordingMailer{}
	m := newTestManager(mailer)

	code, err := m.Issue("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
	assert.Equal(t, 1, mailer.count())

	assert.Equal(t, VerifyMismatch, m.Verify("a@b.com", "000000"))
	assert.Equal(t, VerifyOk, m.Verify("a@b.com", "123456"))
}

func TestOTPIsSingleUse(t *testing.T) {
	m := newTestManager(&recordingMailer{})

	code, err := m.Issue("a@b.com")
	require.NoError(t, err)

	assert.Equal(t, VerifyOk, m.Verify("a@b.com", code))
	assert.Equal(t, VerifyNotFound, m.Verify("a@b.com", code))
}

func TestOTPVerifyUnknownEmail(t *testing.T) {
	m := newTestManager(&recordingMailer{})
	assert.Equal(t, VerifyNotFound, m.Verify("nobody@b.com", "123456"))
}

func TestOTPExpiryDeletesEntry(t *testing.T) {
	m := newTestManager(&recordingMailer{})

	now := time.Now()
	m.now = func() time.Time { return now }

	code, err := m.Issue("a@b.com")
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(otpWindow + time.Second) }
	assert.Equal(t, VerifyExpired, m.Verify("a@b.com", code))
	// expiry detection removed the entry
	assert.Equal(t, VerifyNotFound, m.Verify("a@b.com", code))
}

func TestOTPIssueOverwritesPriorCode(t *testing.T) {
	m := newTestManager(&recordingMailer{})

	first, err := m.Issue("a@b.com")
	require.NoError(t, err)
	second, err := m.Issue("a@b.com")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.Equal(t, VerifyMismatch, m.Verify("a@b.com", first))
	assert.Equal(t, VerifyOk, m.Verify("a@b.com", second))
}

func TestOTPResendRequiresPriorIssue(t *testing.T) {
	m := newTestManager(&recordingMailer{})

	_, err := m.Resend("nobody@b.com")
	assert.True(t, errors.Is(err, ErrNoOTP))
}

func TestOTPResendResetsWindowEvenWhenExpired(t *testing.T) {
	mailer := &recordingMailer{}
	m := newTestManager(mailer)

	now := time.Now()
	m.now = func() time.Time { return now }

	_, err := m.Issue("a@b.com")
	require.NoError(t, err)

	// entry is past expiry but still present; resend does not revalidate it
	m.now = func() time.Time { return now.Add(otpWindow + time.Minute) }
	code, err := m.Resend("a@b.com")
	require.NoError(t, err)

	assert.Equal(t, VerifyOk, m.Verify("a@b.com", code))
	assert.Equal(t, 2, mailer.count())
}

func TestOTPIssueSurfacesMailerFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	m := newTestManager(mailer)

	_, err := m.Issue("a@b.com")
	assert.Error(t, err)
}

func TestOTPRandomCodeShape(t *testing.T) {
	m := NewOTPManager(&recordingMailer{})
	for i := 0; i < 20; i++ {
		code, err := m.newCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}
