// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

/*
Package rbac is the single source of truth for role-based access control.

Every handler and service that needs a capability answer ("may this actor
moderate content", "may this actor manage that account") imports this package.
No other package is allowed to compare role strings directly — scattering
role checks per route is exactly the failure mode this package exists to
prevent.

Capability Semantics:

  - Normalization: Any raw role value degrades to [RoleReader] if unrecognized.
  - Hierarchy: reader < writer < admin < developer < superadmin.
  - Fail-Closed: Every ambiguous input resolves to the least-privileged answer.

# Purity

All functions in this package are pure. They never touch storage, never
return errors, and never panic. Re-fetching the authoritative role from the
persisted user record before a sensitive mutation is the caller's job.
*/
package rbac

import "strings"

// # Role Enumeration

// Role represents the authorization tier granted to an account.
type Role string

const (
	// Default tier for every registered account; read-only platform access
	RoleReader Role = "reader"

	// Can submit and manage their own novels and episodes
	RoleWriter Role = "writer"

	// Can moderate submissions and manage reader/writer accounts
	RoleAdmin Role = "admin"

	// Internal engineering tier; moderation access plus developer tooling
	RoleDeveloper Role = "developer"

	// Unrestricted access, including account provisioning for every tier
	RoleSuperadmin Role = "superadmin"
)

// All returns the closed set of canonical roles in ascending privilege order.
func All() []Role {
	return []Role{RoleReader, RoleWriter, RoleAdmin, RoleDeveloper, RoleSuperadmin}
}

// IsValid reports whether r is a member of the canonical role set.
func (r Role) IsValid() bool {
	switch r {
	case RoleReader, RoleWriter, RoleAdmin, RoleDeveloper, RoleSuperadmin:
		return true
	}
	return false
}

// # Normalization

// Normalize maps any raw role value onto the canonical role set.
//
// Matching is case-insensitive and whitespace-tolerant. Anything that is not
// an exact case-insensitive member of the set — empty string, misspellings,
// values from stale sessions — resolves to [RoleReader]. An unrecognized role
// must never be granted elevated capability.
func Normalize(raw string) Role {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.IsValid() {
		return candidate
	}
	return RoleReader
}

// # Role Hierarchy

// AtLeast reports whether the current role meets or exceeds the target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-50) allows for future intermediate roles
	switch r {
	case RoleSuperadmin:
		return 50
	case RoleDeveloper:
		return 40
	case RoleAdmin:
		return 30
	case RoleWriter:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}

// # Capability Queries

// IsModerator reports whether the role may review submitted works.
//
// Moderators are admin, developer, and superadmin.
func IsModerator(role Role) bool {
	switch role {
	case RoleAdmin, RoleDeveloper, RoleSuperadmin:
		return true
	}
	return false
}

// CanAuthorContent reports whether the role may submit novels and episodes.
//
// Writers author their own works; moderators retain the manage-all override
// and may author as well. Readers cannot.
func CanAuthorContent(role Role) bool {
	return role == RoleWriter || IsModerator(role)
}

// CanManageAccount reports whether actor may edit or ban the target account.
//
// Only admin and superadmin actors manage accounts, and only reader and
// writer accounts are manageable targets. Accounts holding admin, developer,
// or superadmin are immutable targets for everyone — including other admins
// and the superadmin itself.
func CanManageAccount(actor, target Role) bool {
	if actor != RoleAdmin && actor != RoleSuperadmin {
		return false
	}
	return target == RoleReader || target == RoleWriter
}

// AllowedRolesToCreate returns the set of roles the actor may assign when
// provisioning a new account.
//
// The creation matrix is deliberately narrow:
//
//   - developer  → {developer}
//   - admin      → {admin}
//   - superadmin → every role
//   - all others → nothing (not authorized to provision accounts)
func AllowedRolesToCreate(actor Role) []Role {
	switch actor {
	case RoleSuperadmin:
		return All()
	case RoleDeveloper:
		return []Role{RoleDeveloper}
	case RoleAdmin:
		return []Role{RoleAdmin}
	default:
		return nil
	}
}

// CanCreateRole reports whether actor may provision an account holding target.
//
// An actor can never elevate a new account above its own allowed-creation
// set, so this is a pure membership test over [AllowedRolesToCreate].
func CanCreateRole(actor, target Role) bool {
	for _, allowed := range AllowedRolesToCreate(actor) {
		if allowed == target {
			return true
		}
	}
	return false
}
