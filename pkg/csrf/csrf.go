// Package csrf issues and verifies HMAC-signed tokens for double-submit
// antiforgery protection.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// Errors.
var (
	ErrBadSecret    = errors.New("csrf: secret must be 32+ bytes")
	ErrInvalidToken = errors.New("csrf: invalid token")
)

// MinSecretLen is the minimum accepted secret length in bytes.
const MinSecretLen = 32

const nonceLen = 32

// Manager issues random tokens bound to a server secret. A token is
// base64(nonce).base64(hmac(nonce)) so possession of the cookie alone
// is not enough to forge a valid submission.
type Manager struct {
	secret []byte
}

// New creates a token Manager. The secret must be at least MinSecretLen
// bytes.
func New(secret string) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrBadSecret
	}
	return &Manager{secret: []byte(secret)}, nil
}

// Issue generates a fresh signed token.
func (m *Manager) Issue() (string, error) {
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(nonce) +
		"." + base64.RawURLEncoding.EncodeToString(m.sign(nonce)), nil
}

// Verify checks that the token was issued by this Manager.
func (m *Manager) Verify(token string) error {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return ErrInvalidToken
	}

	nonce, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidToken
	}

	if !hmac.Equal(sig, m.sign(nonce)) {
		return ErrInvalidToken
	}
	return nil
}

// Compare verifies the submitted token and checks it matches the cookie
// token in constant time.
func (m *Manager) Compare(cookieToken, submittedToken string) error {
	if err := m.Verify(submittedToken); err != nil {
		return err
	}
	if subtleEqual(cookieToken, submittedToken) {
		return nil
	}
	return ErrInvalidToken
}

func (m *Manager) sign(nonce []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write(nonce)
	return mac.Sum(nil)
}

func subtleEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
