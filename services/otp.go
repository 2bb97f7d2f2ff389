package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const otpWindow = 5 * time.Minute

// ErrNoOTP is returned by Resend when no code was ever issued for the email.
var ErrNoOTP = errors.New("no otp requested for this email")

type VerifyResult int

const (
	VerifyOk VerifyResult = iota
	VerifyNotFound
	VerifyExpired
	VerifyMismatch
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// OTPManager keeps at most one live code per email. Codes are single-use:
// a successful Verify consumes the entry. State is process-local and lost
// on restart.
type OTPManager struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	mailer  Mailer
	window  time.Duration

	// overridable in tests
	now     func() time.Time
	newCode func() (string, error)
}

func NewOTPManager(mailer Mailer) *OTPManager {
	return &OTPManager{
		entries: make(map[string]otpEntry),
		mailer:  mailer,
		window:  otpWindow,
		now:     time.Now,
		newCode: randomCode,
	}
}

// randomCode draws a uniform 6-digit code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue generates a fresh code for the email, overwriting any prior entry,
// and mails it. A mailer failure is returned to the caller; the stored
// entry survives so a resend can still succeed.
func (m *OTPManager) Issue(email string) (string, error) {
	code, err := m.newCode()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.entries[email] = otpEntry{code: code, expiresAt: m.now().Add(m.window)}
	m.mu.Unlock()

	if err := m.send(email, code); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the entry on success. Detecting an expired entry deletes
// it, so a later attempt reports NotFound rather than Expired.
func (m *OTPManager) Verify(email, code string) VerifyResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[email]
	if !ok {
		return VerifyNotFound
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, email)
		return VerifyExpired
	}
	if entry.code != code {
		return VerifyMismatch
	}
	delete(m.entries, email)
	return VerifyOk
}

// Resend requires a prior Issue for the email but does not care whether
// that entry has expired; it re-codes, resets the window and mails again.
func (m *OTPManager) Resend(email string) (string, error) {
	code, err := m.newCode()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	if _, ok := m.entries[email]; !ok {
		m.mu.Unlock()
		return "", ErrNoOTP
	}
	m.entries[email] = otpEntry{code: code, expiresAt: m.now().Add(m.window)}
	m.mu.Unlock()

	if err := m.send(email, code); err != nil {
		return "", err
	}
	return code, nil
}

func (m *OTPManager) send(email, code string) error {
	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, int(m.window.Minutes()))
	return m.mailer.Send(email, "Password reset code", body)
}
