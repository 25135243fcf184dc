// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package novel

import (
	"context"
	"log/slog"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/platform/validate"
	"github.com/fictora/fictora/pkg/slug"
	"github.com/fictora/fictora/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for the novel catalogue.
//
// Every mutation is double-gated: the caller's authoritative role comes from
// the [RoleDirectory] (never the session claim alone), and every status
// change passes through the moderation state machine.
type Service struct {
	novelRepo NovelRepository
	roles     RoleDirectory
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(novelRepo NovelRepository, roles RoleDirectory, logger *slog.Logger) *Service {
	return &Service{
		novelRepo: novelRepo,
		roles:     roles,
		logger:    logger,
	}
}

// # Discovery

/*
ListPublic retrieves a paginated catalogue page for anonymous readers.

Description: The status filter is forced to the visible set (ongoing,
completed, hiatus) — pending and denied works never leak into public
discovery no matter what the caller requested.

Parameters:
  - context: context.Context
  - filter: Filter (Search, genres, sorting)
  - limit: int
  - offset: int

Returns:
  - []*Novel: Slice of visible novel records
  - int: Total count matching the filter
  - error: Repository failures
*/
func (service *Service) ListPublic(context context.Context, filter Filter, limit, offset int) ([]*Novel, int, error) {
	filter.Status = visibleStatuses()
	filter.AuthorID = ""
	return service.novelRepo.List(context, filter, limit, offset)
}

/*
ListOwn retrieves the caller's own works in every status, pending and denied
included.

Parameters:
  - context: context.Context
  - actorID: string
  - limit, offset: int

Returns:
  - []*Novel: The caller's novels
  - int: Total count
  - error: Unauthorized or repository failures
*/
func (service *Service) ListOwn(context context.Context, actorID string, limit, offset int) ([]*Novel, int, error) {
	if actorID == "" {
		return nil, 0, apperr.Unauthorized("Authentication required")
	}
	return service.novelRepo.List(context, Filter{AuthorID: actorID}, limit, offset)
}

/*
ListReviewQueue retrieves novels awaiting a moderation decision.

Description: Restricted to moderator roles (admin, developer, superadmin) via
the persisted role record.

Parameters:
  - context: context.Context
  - actorID: string
  - limit, offset: int

Returns:
  - []*Novel: Pending submissions, oldest first
  - int: Total queue depth
  - error: Unauthorized, Forbidden, or repository failures
*/
func (service *Service) ListReviewQueue(context context.Context, actorID string, limit, offset int) ([]*Novel, int, error) {
	if _, err := service.requireModerator(context, actorID); err != nil {
		return nil, 0, err
	}

	filter := Filter{
		Status:  []moderation.Status{moderation.StatusPending},
		Sort:    "oldest",
		SortDir: "asc",
	}
	return service.novelRepo.List(context, filter, limit, offset)
}

/*
GetNovel fetches a single novel by UUID or SEO slug.

Description: Hidden works (pending, denied) resolve only for their owner and
for moderators; everyone else receives NotFound so the work's existence is
not disclosed.

Parameters:
  - context: context.Context
  - identifier: string (UUID or Slug)
  - actorID: string (empty for anonymous readers)

Returns:
  - *Novel: The hydrated domain entity
  - error: NotFound if missing or not visible to the caller
*/
func (service *Service) GetNovel(context context.Context, identifier, actorID string) (*Novel, error) {

	// Identity format detection
	var found *Novel
	var err error
	if isUUID(identifier) {
		found, err = service.novelRepo.FindByID(context, identifier)
	} else {
		found, err = service.novelRepo.FindBySlug(context, identifier)
	}
	if err != nil {
		return nil, err
	}

	if moderation.Visible(found.Status) {
		return found, nil
	}

	// Hidden work: owner or moderator only.
	if actorID == "" {
		return nil, apperr.NotFound("Novel")
	}
	if found.AuthorID != actorID {
		role, roleErr := service.roles.RoleOf(context, actorID)
		if roleErr != nil || !rbac.IsModerator(role) {
			return nil, apperr.NotFound("Novel")
		}
	}

	return found, nil
}

// # Submission

/*
Submit creates a new novel on behalf of a writer.

Description: The initial status is always pending approval — any status the
caller supplied on the entity is discarded before persistence, so a
submission can never self-approve. Requires an authoring role (writer or
above) on the persisted record.

Parameters:
  - context: context.Context
  - actorID: string
  - novel: *Novel (Metadata; ownership and status are overwritten)

Returns:
  - error: Unauthorized, Forbidden, validation, or persistence errors
*/
func (service *Service) Submit(context context.Context, actorID string, novel *Novel) error {
	if actorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	actorRole, err := service.roles.RoleOf(context, actorID)
	if err != nil {
		return err
	}
	if !rbac.CanAuthorContent(actorRole) {
		return apperr.Forbidden("A writer role is required to submit novels")
	}

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, novel.Title).MaxLen(FieldTitle, novel.Title, 500)
	validator.MaxLen(FieldSynopsis, novel.Synopsis, 5000)
	if err := validator.Err(); err != nil {
		return err
	}

	// Identity & Slug generation
	if novel.ID == "" {
		novel.ID = uuid.New()
	}
	if novel.Slug == "" {
		novel.Slug = slug.From(novel.Title)
	}

	// Ownership and moderation state are server-assigned, never client input.
	novel.AuthorID = actorID
	novel.Status = moderation.Initial()
	novel.ReviewerID = nil
	novel.ReviewedAt = nil
	novel.ReviewNote = ""

	if err := service.novelRepo.Create(context, novel); err != nil {
		return err
	}

	service.logger.Info("novel_submitted",
		slog.String("novel_id", novel.ID),
		slog.String("author_id", actorID),
		slog.String("title", novel.Title),
	)

	return nil
}

// # Moderation

/*
Review records a moderation decision on a pending novel.

Description: The gate order is fixed: authentication, moderator role
(persisted record), decision validity, target existence, then reviewability.
A novel that is no longer pending — already approved, already denied, or
moved on — rejects the review with an invalid-transition error; a repeated
identical decision is not idempotent. A work deleted while the moderator
deliberated yields NotFound and is never recreated.

Parameters:
  - context: context.Context
  - actorID: string
  - novelID: string (UUID)
  - decision: moderation.Decision ("ongoing" or "denied")
  - note: string (Optional reviewer note)

Returns:
  - *Novel: The novel with its post-decision status
  - error: Unauthorized, Forbidden, InvalidDecision, NotFound, or
    InvalidTransition
*/
func (service *Service) Review(context context.Context, actorID, novelID string, decision moderation.Decision, note string) (*Novel, error) {
	actorRole, err := service.requireModerator(context, actorID)
	if err != nil {
		return nil, err
	}

	if !moderation.ValidDecision(decision) {
		return nil, moderation.ErrInvalidDecision(decision)
	}

	target, err := service.novelRepo.FindByID(context, novelID)
	if err != nil {
		return nil, err
	}

	outcome := moderation.Outcome(decision)
	if !moderation.CanReview(target.Status) {
		return nil, moderation.ErrInvalidTransition(target.Status, outcome)
	}

	if err := service.novelRepo.SetReviewOutcome(context, novelID, outcome, actorID, note); err != nil {
		return nil, err
	}

	service.logger.Info("novel_reviewed",
		slog.String("novel_id", novelID),
		slog.String("reviewer_id", actorID),
		slog.String("reviewer_role", string(actorRole)),
		slog.String("decision", string(decision)),
	)

	target.Status = outcome
	target.ReviewerID = &actorID
	target.ReviewNote = note
	return target, nil
}

// # Management

/*
Edit applies metadata changes to an existing novel.

Description: Allowed for the owning writer and for moderators. The moderation
status is deliberately untouched — an approved novel stays approved after an
edit and does not re-enter the review queue.

Parameters:
  - context: context.Context
  - actorID: string
  - novel: *Novel (Target ID and modified attributes)

Returns:
  - *Novel: The updated entity
  - error: Unauthorized, Forbidden, NotFound, validation, or persistence errors
*/
func (service *Service) Edit(context context.Context, actorID string, novel *Novel) (*Novel, error) {
	target, err := service.requireOwnerOrModerator(context, actorID, novel.ID)
	if err != nil {
		return nil, err
	}

	// Integrity validation for updated fields
	validator := &validate.Validator{}
	if novel.Title != "" {
		validator.MaxLen(FieldTitle, novel.Title, 500)
	}
	if novel.Slug != "" {
		validator.Slug(FieldSlug, novel.Slug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Apply delta updates onto the persisted state
	if novel.Title != "" {
		target.Title = novel.Title
	}
	if novel.Slug != "" {
		target.Slug = novel.Slug
	}
	if novel.Synopsis != "" {
		target.Synopsis = novel.Synopsis
	}
	if novel.CoverURL != "" {
		target.CoverURL = novel.CoverURL
	}
	if novel.GenreIDs != nil {
		target.GenreIDs = novel.GenreIDs
	}

	if err := service.novelRepo.Update(context, target); err != nil {
		return nil, err
	}

	service.logger.Info("novel_updated",
		slog.String("novel_id", target.ID),
		slog.String("actor_id", actorID),
	)

	return target, nil
}

/*
TransitionLifecycle moves an approved novel between its publication states.

Description: The only legal moves are ongoing to completed or hiatus, and
back to ongoing from either. The transition table is the single authority;
pending and denied works have no lifecycle. Allowed for the owning writer
and for moderators.

Parameters:
  - context: context.Context
  - actorID: string
  - novelID: string (UUID)
  - next: moderation.Status (Target state)

Returns:
  - *Novel: The novel in its new state
  - error: Unauthorized, Forbidden, NotFound, or InvalidTransition
*/
func (service *Service) TransitionLifecycle(context context.Context, actorID, novelID string, next moderation.Status) (*Novel, error) {
	target, err := service.requireOwnerOrModerator(context, actorID, novelID)
	if err != nil {
		return nil, err
	}

	if !moderation.CanTransition(target.Status, next) {
		return nil, moderation.ErrInvalidTransition(target.Status, next)
	}

	if err := service.novelRepo.SetStatus(context, novelID, next); err != nil {
		return nil, err
	}

	service.logger.Info("novel_lifecycle_changed",
		slog.String("novel_id", novelID),
		slog.String("actor_id", actorID),
		slog.String("from", string(target.Status)),
		slog.String("to", string(next)),
	)

	target.Status = next
	return target, nil
}

/*
DeleteNovel removes a novel from active discovery.

Description: Implements soft-delete logic. Allowed for the owning writer and
for moderators.

Parameters:
  - context: context.Context
  - actorID: string
  - novelID: string (UUID)

Returns:
  - error: Unauthorized, Forbidden, NotFound, or persistence errors
*/
func (service *Service) DeleteNovel(context context.Context, actorID, novelID string) error {
	if _, err := service.requireOwnerOrModerator(context, actorID, novelID); err != nil {
		return err
	}

	if err := service.novelRepo.SoftDelete(context, novelID); err != nil {
		return err
	}

	service.logger.Warn("novel_deleted",
		slog.String("novel_id", novelID),
		slog.String("actor_id", actorID),
	)

	return nil
}

/*
RecordView increments the novel's view counter.

Parameters:
  - context: context.Context
  - novelID: string (UUID)

Returns:
  - error: Atomic update failure
*/
func (service *Service) RecordView(context context.Context, novelID string) error {
	return service.novelRepo.IncrementViewCount(context, novelID, 1)
}

// # Internal Helpers

// requireModerator resolves the actor's persisted role and verifies it sits
// on the moderation side of the hierarchy.
func (service *Service) requireModerator(context context.Context, actorID string) (rbac.Role, error) {
	if actorID == "" {
		return rbac.RoleReader, apperr.Unauthorized("Authentication required")
	}

	actorRole, err := service.roles.RoleOf(context, actorID)
	if err != nil {
		return rbac.RoleReader, err
	}
	if !rbac.IsModerator(actorRole) {
		return actorRole, apperr.Forbidden("A moderator role is required")
	}

	return actorRole, nil
}

// requireOwnerOrModerator loads the target novel and verifies the actor is
// its owning writer or holds a moderator role. Ownership short-circuits
// before the role lookup.
func (service *Service) requireOwnerOrModerator(context context.Context, actorID, novelID string) (*Novel, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	target, err := service.novelRepo.FindByID(context, novelID)
	if err != nil {
		return nil, err
	}

	if target.AuthorID == actorID {
		return target, nil
	}

	actorRole, err := service.roles.RoleOf(context, actorID)
	if err != nil {
		return nil, err
	}
	if !rbac.IsModerator(actorRole) {
		return nil, apperr.Forbidden("Only the author or a moderator may modify this novel")
	}

	return target, nil
}

// visibleStatuses returns the reader-facing status set.
func visibleStatuses() []moderation.Status {
	return []moderation.Status{
		moderation.StatusOngoing,
		moderation.StatusCompleted,
		moderation.StatusHiatus,
	}
}

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}
