// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

/*
Package account handles user profile management and administrative account
control.

It provides self-service functionality (profile edits, account deletion) and
the managed-account surface: privileged actors banning, editing, re-tiering,
and provisioning accounts under the rules of the rbac package.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Authorization: Every administrative operation re-fetches the actor's role
    from the persisted record via [RoleDirectory] — session claims are never
    authoritative here.
  - Targets: Only reader and writer accounts are manageable. Admin, developer,
    and superadmin records are immutable targets for everyone.
*/
package account

import (
	"context"
	"time"

	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/users/auth"
)

// # Field Identifiers

const (
	FieldDisplayName = "display_name"
	FieldBio         = "bio"
	FieldWebsite     = "website"
	FieldRole        = "role"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
)

// # Domain Views

// ManagedAccount is the administrator-facing projection of a user record.
//
// It exposes moderation-relevant fields and omits credentials entirely.
type ManagedAccount struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        rbac.Role `json:"role"`
	IsVerified  bool      `json:"is_verified"`
	IsBanned    bool      `json:"is_banned"`
	CreatedAt   time.Time `json:"created_at"`
}

// ManagedView projects a full user entity into its administrative view.
func ManagedView(user *auth.User) *ManagedAccount {
	return &ManagedAccount{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		IsVerified:  user.IsVerified,
		IsBanned:    user.IsBanned,
		CreatedAt:   user.CreatedAt,
	}
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {

	// FindByID retrieves a user record by its unique ID.
	FindByID(context context.Context, id string) (*auth.User, error)

	// Update modifies the mutable profile fields of an existing user.
	Update(context context.Context, user *auth.User) error

	// Create persists a provisioned account (admin-created, role pre-assigned).
	Create(context context.Context, user *auth.User) error

	// SetRole replaces the stored role of an account.
	SetRole(context context.Context, id string, role rbac.Role) error

	// SetBanned flags or unflags an account as banned.
	SetBanned(context context.Context, id string, banned bool) error

	// SoftDelete flags an account as logically deleted.
	SoftDelete(context context.Context, id string) error

	// List returns a page of accounts plus the total count, newest first.
	List(context context.Context, limit, offset int) ([]*auth.User, int, error)
}

// RoleDirectory resolves the authoritative role of an actor.
//
// Implemented by the auth package's user repository. Declared here so this
// package depends on the capability, not on a concrete store.
type RoleDirectory interface {
	RoleOf(context context.Context, userID string) (rbac.Role, error)
}

// SessionRevoker terminates sessions when an account is banned or deleted.
type SessionRevoker interface {
	RevokeAll(context context.Context, userID string) error
}
