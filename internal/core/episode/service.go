// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package episode

import (
	"context"
	"log/slog"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/platform/validate"
	"github.com/fictora/fictora/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for novel episodes.
//
// The same double gate as the novel service applies: persisted role via
// [RoleDirectory], status changes only through the moderation state machine.
type Service struct {
	episodeRepo EpisodeRepository
	novels      NovelDirectory
	roles       RoleDirectory
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required dependencies.
func NewService(episodeRepo EpisodeRepository, novels NovelDirectory, roles RoleDirectory, logger *slog.Logger) *Service {
	return &Service{
		episodeRepo: episodeRepo,
		novels:      novels,
		roles:       roles,
		logger:      logger,
	}
}

/*
ListByNovel retrieves the episodes of a novel.

Description: Anonymous readers and non-owners see only published episodes.
The novel's owner and moderators see every status, pending and denied
included.

Parameters:
  - context: context.Context
  - novelID: string (UUID)
  - actorID: string (empty for anonymous readers)
  - limit, offset: int

Returns:
  - []*Episode: Episodes ordered by number
  - int: Total count
  - error: NotFound if the parent novel is missing
*/
func (service *Service) ListByNovel(context context.Context, novelID, actorID string, limit, offset int) ([]*Episode, int, error) {
	ownerID, err := service.novels.OwnerOf(context, novelID)
	if err != nil {
		return nil, 0, err
	}

	filter := Filter{
		NovelID: novelID,
		Status:  []moderation.Status{moderation.StatusOngoing},
	}

	// Owners and moderators see the full status spread.
	if actorID != "" {
		if actorID == ownerID {
			filter.Status = nil
		} else if role, roleErr := service.roles.RoleOf(context, actorID); roleErr == nil && rbac.IsModerator(role) {
			filter.Status = nil
		}
	}

	return service.episodeRepo.List(context, filter, limit, offset)
}

/*
GetEpisode fetches a single episode.

Description: Unpublished episodes resolve only for the parent novel's owner
and for moderators; everyone else receives NotFound.
*/
func (service *Service) GetEpisode(context context.Context, episodeID, actorID string) (*Episode, error) {
	found, err := service.episodeRepo.FindByID(context, episodeID)
	if err != nil {
		return nil, err
	}

	if found.Status == moderation.StatusOngoing {
		return found, nil
	}

	if actorID == "" {
		return nil, apperr.NotFound("Episode")
	}

	ownerID, err := service.novels.OwnerOf(context, found.NovelID)
	if err != nil {
		return nil, err
	}
	if ownerID != actorID {
		role, roleErr := service.roles.RoleOf(context, actorID)
		if roleErr != nil || !rbac.IsModerator(role) {
			return nil, apperr.NotFound("Episode")
		}
	}

	return found, nil
}

/*
Submit creates a new episode on a novel the caller owns.

Description: Only the owning writer may add episodes to a novel. The initial
status is always pending approval — caller input never sets it.

Parameters:
  - context: context.Context
  - actorID: string
  - episode: *Episode (Number, title, body; status is overwritten)

Returns:
  - error: Unauthorized, Forbidden, NotFound, validation, or persistence errors
*/
func (service *Service) Submit(context context.Context, actorID string, episode *Episode) error {
	if actorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	actorRole, err := service.roles.RoleOf(context, actorID)
	if err != nil {
		return err
	}
	if !rbac.CanAuthorContent(actorRole) {
		return apperr.Forbidden("A writer role is required to submit episodes")
	}

	ownerID, err := service.novels.OwnerOf(context, episode.NovelID)
	if err != nil {
		return err
	}
	if ownerID != actorID {
		return apperr.Forbidden("Episodes can only be added to your own novels")
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, episode.Title).MaxLen(FieldTitle, episode.Title, 500)
	validator.Required(FieldBody, episode.Body)
	validator.Custom(FieldNumber, episode.Number <= 0, "Must be a positive installment number")
	if err := validator.Err(); err != nil {
		return err
	}

	if episode.ID == "" {
		episode.ID = uuid.New()
	}

	// Server-assigned moderation state, never client input.
	episode.Status = moderation.Initial()
	episode.ReviewerID = nil
	episode.ReviewedAt = nil
	episode.ReviewNote = ""

	if err := service.episodeRepo.Create(context, episode); err != nil {
		return err
	}

	service.logger.Info("episode_submitted",
		slog.String("episode_id", episode.ID),
		slog.String("novel_id", episode.NovelID),
		slog.String("author_id", actorID),
	)

	return nil
}

/*
Review records a moderation decision on a pending episode.

Description: Same gate order as novel review: authentication, moderator role,
decision validity, target existence, reviewability. Episodes approved here
are published immediately; there is no further lifecycle.

Returns:
  - *Episode: The episode with its post-decision status
  - error: Unauthorized, Forbidden, InvalidDecision, NotFound, or
    InvalidTransition
*/
func (service *Service) Review(context context.Context, actorID, episodeID string, decision moderation.Decision, note string) (*Episode, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	actorRole, err := service.roles.RoleOf(context, actorID)
	if err != nil {
		return nil, err
	}
	if !rbac.IsModerator(actorRole) {
		return nil, apperr.Forbidden("A moderator role is required")
	}

	if !moderation.ValidDecision(decision) {
		return nil, moderation.ErrInvalidDecision(decision)
	}

	target, err := service.episodeRepo.FindByID(context, episodeID)
	if err != nil {
		return nil, err
	}

	outcome := moderation.Outcome(decision)
	if !moderation.CanReview(target.Status) {
		return nil, moderation.ErrInvalidTransition(target.Status, outcome)
	}

	if err := service.episodeRepo.SetReviewOutcome(context, episodeID, outcome, actorID, note); err != nil {
		return nil, err
	}

	service.logger.Info("episode_reviewed",
		slog.String("episode_id", episodeID),
		slog.String("reviewer_id", actorID),
		slog.String("decision", string(decision)),
	)

	target.Status = outcome
	target.ReviewerID = &actorID
	target.ReviewNote = note
	return target, nil
}

/*
Edit updates an episode's title and body.

Description: Allowed for the parent novel's owner and for moderators. The
moderation status is untouched — a published episode stays published.
*/
func (service *Service) Edit(context context.Context, actorID string, episode *Episode) (*Episode, error) {
	target, err := service.requireOwnerOrModerator(context, actorID, episode.ID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if episode.Title != "" {
		validator.MaxLen(FieldTitle, episode.Title, 500)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if episode.Title != "" {
		target.Title = episode.Title
	}
	if episode.Body != "" {
		target.Body = episode.Body
	}
	if episode.Number > 0 {
		target.Number = episode.Number
	}

	if err := service.episodeRepo.Update(context, target); err != nil {
		return nil, err
	}

	service.logger.Info("episode_updated",
		slog.String("episode_id", target.ID),
		slog.String("actor_id", actorID),
	)

	return target, nil
}

// DeleteEpisode soft-deletes an episode. Owner or moderator only.
func (service *Service) DeleteEpisode(context context.Context, actorID, episodeID string) error {
	if _, err := service.requireOwnerOrModerator(context, actorID, episodeID); err != nil {
		return err
	}

	if err := service.episodeRepo.SoftDelete(context, episodeID); err != nil {
		return err
	}

	service.logger.Warn("episode_deleted",
		slog.String("episode_id", episodeID),
		slog.String("actor_id", actorID),
	)

	return nil
}

// requireOwnerOrModerator loads the episode and verifies the actor owns the
// parent novel or holds a moderator role.
func (service *Service) requireOwnerOrModerator(context context.Context, actorID, episodeID string) (*Episode, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	target, err := service.episodeRepo.FindByID(context, episodeID)
	if err != nil {
		return nil, err
	}

	ownerID, err := service.novels.OwnerOf(context, target.NovelID)
	if err != nil {
		return nil, err
	}
	if ownerID == actorID {
		return target, nil
	}

	actorRole, err := service.roles.RoleOf(context, actorID)
	if err != nil {
		return nil, err
	}
	if !rbac.IsModerator(actorRole) {
		return nil, apperr.Forbidden("Only the author or a moderator may modify this episode")
	}

	return target, nil
}
