// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package auth

import (
	"context"
	"time"

	"github.com/fictora/fictora/internal/platform/rbac"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	// FindByID returns the account with the given ID.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	FindByUsername(context context.Context, username string) (*User, error)

	// Create persists a brand-new user account.
	Create(context context.Context, user *User) error

	// UpdatePassword replaces the stored password hash for a user.
	UpdatePassword(context context.Context, userID, passwordHash string) error

	// MarkVerified flags the account's email address as confirmed.
	MarkVerified(context context.Context, userID string) error

	// RoleOf returns the authoritative, normalized role of the account.
	//
	// Privileged services call this per request instead of trusting the
	// session claim. Returns apperr.NotFound for missing or banned accounts.
	RoleOf(context context.Context, userID string) (rbac.Role, error)
}

// # Session Data Access

// SessionRepository defines the persistence contract for refresh sessions.
type SessionRepository interface {

	// Create persists a new refresh session.
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns the active, unexpired session matching the hash.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	// Revoke marks a single session as revoked.
	Revoke(context context.Context, sessionID string) error

	// RevokeAll revokes every session belonging to a user.
	RevokeAll(context context.Context, userID string) error

	// RevokeOthers revokes all of a user's sessions except the given one.
	RevokeOthers(context context.Context, userID, keepSessionID string) error
}

// # Volatile Token Stores

// ResetTokenRepository stores password-reset tokens with a TTL.
type ResetTokenRepository interface {
	Set(context context.Context, token, userID string, ttl time.Duration) error
	Get(context context.Context, token string) (string, error)
	Delete(context context.Context, token string) error
}

// VerificationTokenRepository stores email-verification tokens with a TTL.
type VerificationTokenRepository interface {
	Set(context context.Context, token, userID string, ttl time.Duration) error
	Get(context context.Context, token string) (string, error)
	Delete(context context.Context, token string) error
}
