// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fictora/fictora/internal/platform/rbac"
)

/*
TestNormalize verifies that any raw role value resolves to a canonical member,
defaulting to reader for everything unrecognized.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want rbac.Role
	}{
		{"canonical_reader", "reader", rbac.RoleReader},
		{"canonical_writer", "writer", rbac.RoleWriter},
		{"canonical_admin", "admin", rbac.RoleAdmin},
		{"canonical_developer", "developer", rbac.RoleDeveloper},
		{"canonical_superadmin", "superadmin", rbac.RoleSuperadmin},
		{"upper_case", "ADMIN", rbac.RoleAdmin},
		{"mixed_case", "SuperAdmin", rbac.RoleSuperadmin},
		{"surrounding_whitespace", "  writer  ", rbac.RoleWriter},
		{"empty_string", "", rbac.RoleReader},
		{"whitespace_only", "   ", rbac.RoleReader},
		{"misspelled", "adminn", rbac.RoleReader},
		{"unknown_role", "owner", rbac.RoleReader},
		{"sql_ish_garbage", "admin'; --", rbac.RoleReader},
		{"plural", "admins", rbac.RoleReader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rbac.Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid(), "Normalize must always return a canonical role")
		})
	}
}

/*
TestCanManageAccount enumerates the full 25-pair actor/target matrix. Only
admin and superadmin actors may manage, and only reader and writer targets
are manageable.
*/
func TestCanManageAccount(t *testing.T) {
	manageableTargets := map[rbac.Role]bool{
		rbac.RoleReader: true,
		rbac.RoleWriter: true,
	}
	managingActors := map[rbac.Role]bool{
		rbac.RoleAdmin:      true,
		rbac.RoleSuperadmin: true,
	}

	pairs := 0
	for _, actor := range rbac.All() {
		for _, target := range rbac.All() {
			pairs++
			want := managingActors[actor] && manageableTargets[target]
			assert.Equal(t, want, rbac.CanManageAccount(actor, target),
				"actor=%s target=%s", actor, target)
		}
	}
	require.Equal(t, 25, pairs)
}

/*
TestCanManageAccount_PeerImmunity spells out the edge cases that tend to be
implemented wrong: admins cannot touch other admins, and even superadmin
cannot manage a developer account.
*/
func TestCanManageAccount_PeerImmunity(t *testing.T) {
	assert.False(t, rbac.CanManageAccount(rbac.RoleAdmin, rbac.RoleAdmin))
	assert.False(t, rbac.CanManageAccount(rbac.RoleAdmin, rbac.RoleDeveloper))
	assert.False(t, rbac.CanManageAccount(rbac.RoleSuperadmin, rbac.RoleDeveloper))
	assert.False(t, rbac.CanManageAccount(rbac.RoleSuperadmin, rbac.RoleSuperadmin))
	assert.False(t, rbac.CanManageAccount(rbac.RoleDeveloper, rbac.RoleReader))
}

/*
TestAllowedRolesToCreate checks the account-provisioning matrix for every
actor tier.
*/
func TestAllowedRolesToCreate(t *testing.T) {
	tests := []struct {
		name  string
		actor rbac.Role
		want  []rbac.Role
	}{
		{"superadmin_creates_all", rbac.RoleSuperadmin, rbac.All()},
		{"admin_creates_admin_only", rbac.RoleAdmin, []rbac.Role{rbac.RoleAdmin}},
		{"developer_creates_developer_only", rbac.RoleDeveloper, []rbac.Role{rbac.RoleDeveloper}},
		{"writer_creates_nothing", rbac.RoleWriter, nil},
		{"reader_creates_nothing", rbac.RoleReader, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rbac.AllowedRolesToCreate(tt.actor)
			assert.Equal(t, tt.want, got)
		})
	}

	// Membership helper must agree with the matrix for every pair.
	for _, actor := range rbac.All() {
		allowed := map[rbac.Role]bool{}
		for _, role := range rbac.AllowedRolesToCreate(actor) {
			allowed[role] = true
		}
		for _, target := range rbac.All() {
			assert.Equal(t, allowed[target], rbac.CanCreateRole(actor, target),
				"actor=%s target=%s", actor, target)
		}
	}
}

/*
TestIsModerator verifies the moderator set is exactly admin, developer,
and superadmin.
*/
func TestIsModerator(t *testing.T) {
	assert.False(t, rbac.IsModerator(rbac.RoleReader))
	assert.False(t, rbac.IsModerator(rbac.RoleWriter))
	assert.True(t, rbac.IsModerator(rbac.RoleAdmin))
	assert.True(t, rbac.IsModerator(rbac.RoleDeveloper))
	assert.True(t, rbac.IsModerator(rbac.RoleSuperadmin))
}

/*
TestCanAuthorContent verifies that every role except reader may submit works.
*/
func TestCanAuthorContent(t *testing.T) {
	assert.False(t, rbac.CanAuthorContent(rbac.RoleReader))
	assert.True(t, rbac.CanAuthorContent(rbac.RoleWriter))
	assert.True(t, rbac.CanAuthorContent(rbac.RoleAdmin))
	assert.True(t, rbac.CanAuthorContent(rbac.RoleDeveloper))
	assert.True(t, rbac.CanAuthorContent(rbac.RoleSuperadmin))
}

/*
TestAtLeast checks the privilege ordering across the hierarchy.
*/
func TestAtLeast(t *testing.T) {
	ordered := rbac.All()
	for i, lower := range ordered {
		for j, higher := range ordered {
			want := j <= i
			assert.Equal(t, want, lower.AtLeast(higher), "%s.AtLeast(%s)", lower, higher)
		}
	}

	// Unrecognized roles sit below reader.
	assert.False(t, rbac.Role("ghost").AtLeast(rbac.RoleReader))
	assert.True(t, rbac.RoleReader.AtLeast(rbac.Role("ghost")))
}
