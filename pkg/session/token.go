// Package session generates and validates the anonymous visitor tokens used
// as credit-counting keys. Tokens are not an authentication credential.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// TokenPrefix makes session tokens recognizable in logs and storage.
	TokenPrefix = "sess_"

	tokenRandomBytes = 16
	maxTokenLength   = 128
)

// NewToken returns a fresh opaque session token.
func NewToken() (string, error) {
	buf := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return TokenPrefix + hex.EncodeToString(buf), nil
}

// IsWellFormed reports whether the value looks like a token this system (or a
// legacy client-side generator) could have issued. The check is deliberately
// loose: the token is only a counting key, and rejecting historic formats
// would grant old visitors a fresh credit.
func IsWellFormed(token string) bool {
	if token == "" || len(token) > maxTokenLength {
		return false
	}
	if !strings.HasPrefix(token, TokenPrefix) {
		return false
	}
	return len(token) > len(TokenPrefix)
}
