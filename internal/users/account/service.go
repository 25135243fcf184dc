// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/platform/sec"
	"github.com/fictora/fictora/internal/users/auth"
	"github.com/fictora/fictora/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// Self-service operations act on the caller's own record. Administrative
// operations re-fetch the actor's role from storage and consult the rbac
// capability matrix before touching the target — the session claim alone is
// never enough to mutate somebody else's account.
type Service struct {
	accountRepository AccountRepository
	roleDirectory     RoleDirectory
	sessionRevoker    SessionRevoker
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	roles RoleDirectory,
	sessions SessionRevoker,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		roleDirectory:     roles,
		sessionRevoker:    sessions,
		logger:            logger,
	}
}

// # Profile Management (Self-Service)

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Website     *string
}

/*
UpdateProfile applies a partial set of changes to the caller's own account
metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. Role and ban state are not
reachable through this path.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Website != nil {
		user.Website = *input.Website
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
DeleteAccount performs an idempotent soft-deletion of the caller's own account.

Description: Flags the account as deleted and immediately terminates all
active security sessions to force a global sign-out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {

	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation of sessions for the deleted account
	_ = service.sessionRevoker.RevokeAll(context, userID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Managed Accounts (Administrative)

// requireManagedTarget loads the target and verifies the actor may manage it.
//
// The actor's role comes from the persisted record, not from the caller.
// Returns the actor's authoritative role and the hydrated target.
func (service *Service) requireManagedTarget(context context.Context, actorID, targetID string) (rbac.Role, *auth.User, error) {
	if actorID == "" {
		return rbac.RoleReader, nil, apperr.Unauthorized("Authentication required")
	}

	actorRole, err := service.roleDirectory.RoleOf(context, actorID)
	if err != nil {
		return rbac.RoleReader, nil, err
	}

	target, err := service.accountRepository.FindByID(context, targetID)
	if err != nil {
		return actorRole, nil, err
	}

	if !rbac.CanManageAccount(actorRole, target.Role) {
		return actorRole, nil, apperr.Forbidden("This account cannot be managed by your role")
	}

	return actorRole, target, nil
}

/*
ListAccounts returns a page of all accounts for the admin dashboard.

Description: Restricted to admin and superadmin actors. Developers moderate
content but do not browse the account roster.

Parameters:
  - context: context.Context
  - actorID: string
  - limit, offset: int

Returns:
  - []*ManagedAccount: Administrative projections
  - int: Total account count
  - error: Forbidden or storage failures
*/
func (service *Service) ListAccounts(context context.Context, actorID string, limit, offset int) ([]*ManagedAccount, int, error) {
	if actorID == "" {
		return nil, 0, apperr.Unauthorized("Authentication required")
	}

	actorRole, err := service.roleDirectory.RoleOf(context, actorID)
	if err != nil {
		return nil, 0, err
	}

	if actorRole != rbac.RoleAdmin && actorRole != rbac.RoleSuperadmin {
		return nil, 0, apperr.Forbidden("Account administration requires an admin role")
	}

	users, total, err := service.accountRepository.List(context, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}

	views := make([]*ManagedAccount, 0, len(users))
	for _, user := range users {
		views = append(views, ManagedView(user))
	}

	return views, total, nil
}

/*
UpdateManagedAccount applies profile changes to somebody else's account.

Description: Allowed only when [rbac.CanManageAccount] holds for the actor's
authoritative role and the target's current role — reader and writer targets
only, admin and superadmin actors only.

Parameters:
  - context: context.Context
  - actorID: string
  - targetID: string
  - input: UpdateProfileInput

Returns:
  - *ManagedAccount: Updated administrative view
  - error: Unauthorized, Forbidden, NotFound, or storage failures
*/
func (service *Service) UpdateManagedAccount(context context.Context, actorID, targetID string, input UpdateProfileInput) (*ManagedAccount, error) {
	_, target, err := service.requireManagedTarget(context, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		target.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		target.Bio = *input.Bio
	}
	if input.Website != nil {
		target.Website = *input.Website
	}

	if err := service.accountRepository.Update(context, target); err != nil {
		return nil, fmt.Errorf("account_service_managed_update_failed: %w", err)
	}

	service.logger.Info("managed_account_updated",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
	)

	return ManagedView(target), nil
}

/*
SetBanned bans or unbans a managed account.

Description: Banning revokes every active session so the target is signed out
everywhere immediately. The gate is the same manage matrix as profile edits —
privileged accounts cannot be banned by anyone.

Parameters:
  - context: context.Context
  - actorID: string
  - targetID: string
  - banned: bool

Returns:
  - error: Unauthorized, Forbidden, NotFound, or storage failures
*/
func (service *Service) SetBanned(context context.Context, actorID, targetID string, banned bool) error {
	_, target, err := service.requireManagedTarget(context, actorID, targetID)
	if err != nil {
		return err
	}

	if err := service.accountRepository.SetBanned(context, target.ID, banned); err != nil {
		return fmt.Errorf("account_service_set_banned_failed: %w", err)
	}

	if banned {
		_ = service.sessionRevoker.RevokeAll(context, target.ID)
	}

	service.logger.Warn("managed_account_ban_changed",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.Bool("banned", banned),
	)

	return nil
}

/*
AssignRole changes the role of a managed account.

Description: Two gates apply. The target must be manageable by the actor
(reader/writer targets, admin/superadmin actors), and the new role must not
exceed the ceiling of the actor's allowed-creation set — an admin can promote
a reader to writer or admin, but only a superadmin can mint developers or
superadmins.

Parameters:
  - context: context.Context
  - actorID: string
  - targetID: string
  - newRole: rbac.Role

Returns:
  - *ManagedAccount: Updated administrative view
  - error: Unauthorized, Forbidden, NotFound, or storage failures
*/
func (service *Service) AssignRole(context context.Context, actorID, targetID string, newRole rbac.Role) (*ManagedAccount, error) {
	actorRole, target, err := service.requireManagedTarget(context, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if !newRole.IsValid() {
		return nil, apperr.ValidationError("Unknown role", apperr.FieldError{
			Field:   FieldRole,
			Message: "Must be a recognized role",
		})
	}

	// Elevation ceiling: the highest role in the actor's creation set bounds
	// what it may assign to an existing target.
	ceiling := creationCeiling(actorRole)
	if !ceiling.AtLeast(newRole) {
		return nil, apperr.Forbidden("Cannot assign a role above your provisioning ceiling")
	}

	if err := service.accountRepository.SetRole(context, target.ID, newRole); err != nil {
		return nil, fmt.Errorf("account_service_assign_role_failed: %w", err)
	}

	// Stale access tokens keep the old role until expiry (15m ceiling);
	// revoking sessions forces re-issue on the next refresh.
	_ = service.sessionRevoker.RevokeAll(context, target.ID)

	service.logger.Info("managed_account_role_assigned",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("new_role", string(newRole)),
	)

	target.Role = newRole
	return ManagedView(target), nil
}

/*
CreateAccount provisions a new account with a pre-assigned role.

Description: The creation matrix is strict: developers mint developers,
admins mint admins, superadmin mints anything, everyone else nothing. The
requested role must be an exact member of the actor's creation set.

Parameters:
  - context: context.Context
  - actorID: string
  - input: CreateAccountInput

Returns:
  - *ManagedAccount: The provisioned account
  - error: Unauthorized, Forbidden, Conflict, or storage failures
*/
func (service *Service) CreateAccount(context context.Context, actorID string, input CreateAccountInput) (*ManagedAccount, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	actorRole, err := service.roleDirectory.RoleOf(context, actorID)
	if err != nil {
		return nil, err
	}

	role := rbac.Normalize(string(input.Role))
	if !rbac.CanCreateRole(actorRole, role) {
		return nil, apperr.Forbidden("Your role cannot provision accounts of this tier")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_provision_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         role,
		IsVerified:   true, // Provisioned accounts skip email verification.
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_provision_failed: %w", err)
	}

	service.logger.Info("managed_account_provisioned",
		slog.String("actor_id", actorID),
		slog.String("target_id", user.ID),
		slog.String("role", string(role)),
	)

	return ManagedView(user), nil
}

// CreateAccountInput holds the data for an admin-provisioned account.
type CreateAccountInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Role        rbac.Role
}

// creationCeiling returns the highest role in the actor's creation set, or
// an unprivileged sentinel when the set is empty.
func creationCeiling(actor rbac.Role) rbac.Role {
	allowed := rbac.AllowedRolesToCreate(actor)
	if len(allowed) == 0 {
		return rbac.Role("")
	}

	ceiling := allowed[0]
	for _, role := range allowed[1:] {
		if role.AtLeast(ceiling) {
			ceiling = role
		}
	}
	return ceiling
}
