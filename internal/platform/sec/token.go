// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Opaque Tokens

// GenerateSecureToken returns a URL-safe random token of the given byte length.
//
// Used for refresh tokens, password reset tokens, and email verification
// tokens. The returned string is base64url-encoded, so it is longer than
// byteLength characters.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of an opaque token.
//
// Only the digest is persisted. A database or Redis leak therefore never
// exposes a usable refresh or reset token.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
