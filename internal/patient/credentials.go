package patient

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"
)

const (
	passwordLength  = 12
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

	tokenBytes = 32
	tokenTTL   = 7 * 24 * time.Hour
)

// GeneratePassword issues a fresh login password, assigns it to the patient
// and returns it. The password is drawn from a cryptographically secure
// source and carries no relation to patient attributes.
func (p *Patient) GeneratePassword() (string, error) {
	buf := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		buf[i] = passwordCharset[n.Int64()]
	}

	p.Password = string(buf)
	return p.Password, nil
}

// GenerateMagicToken issues a URL-safe magic-link token valid for seven
// days, assigns token and expiry to the patient and returns the token.
func (p *Patient) GenerateMagicToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate magic token: %w", err)
	}

	expires := time.Now().Add(tokenTTL)
	p.MagicToken = base64.RawURLEncoding.EncodeToString(buf)
	p.TokenExpires = &expires
	return p.MagicToken, nil
}

// TokenValid reports whether the magic token grants access at the given
// instant. Token and expiry must both be set, and the instant must be
// strictly before the expiry; the boundary instant counts as expired.
func (p *Patient) TokenValid(now time.Time) bool {
	if p.MagicToken == "" || p.TokenExpires == nil {
		return false
	}
	return now.Before(*p.TokenExpires)
}
