// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package comment

import (
	"context"
	"log/slog"

	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/platform/validate"
	"github.com/fictora/fictora/pkg/uuid"
)

// Service orchestrates the business logic for episode comments.
type Service struct {
	commentRepo CommentRepository
	episodes    EpisodeDirectory
	roles       RoleDirectory
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required dependencies.
func NewService(commentRepo CommentRepository, episodes EpisodeDirectory, roles RoleDirectory, logger *slog.Logger) *Service {
	return &Service{
		commentRepo: commentRepo,
		episodes:    episodes,
		roles:       roles,
		logger:      logger,
	}
}

/*
ListByEpisode returns a page of comments on a published episode.

Parameters:
  - context: context.Context
  - episodeID: string (UUID)
  - limit, offset: int

Returns:
  - []*Comment: Newest first
  - int: Total count
  - error: NotFound if the episode is missing or unpublished
*/
func (service *Service) ListByEpisode(context context.Context, episodeID string, limit, offset int) ([]*Comment, int, error) {
	if _, published, err := service.episodes.IsPublished(context, episodeID); err != nil {
		return nil, 0, err
	} else if !published {
		return nil, 0, apperr.NotFound("Episode")
	}

	return service.commentRepo.ListByEpisode(context, episodeID, limit, offset)
}

/*
Post creates a new comment on a published episode.

Description: Any authenticated account may comment — commenting is a reader
capability, not a writer one. Unpublished episodes reject comments with
NotFound so their existence stays hidden.

Parameters:
  - context: context.Context
  - actorID: string
  - comment: *Comment (EpisodeID, Body, optional ParentID)

Returns:
  - error: Unauthorized, NotFound, validation, or persistence errors
*/
func (service *Service) Post(context context.Context, actorID string, comment *Comment) error {
	if actorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.Required(FieldBody, comment.Body).MaxLen(FieldBody, comment.Body, 5000)
	if err := validator.Err(); err != nil {
		return err
	}

	novelID, published, err := service.episodes.IsPublished(context, comment.EpisodeID)
	if err != nil {
		return err
	}
	if !published {
		return apperr.NotFound("Episode")
	}

	// Replies must anchor to a live comment on the same episode.
	if comment.ParentID != nil {
		parent, err := service.commentRepo.FindByID(context, *comment.ParentID)
		if err != nil {
			return err
		}
		if parent.EpisodeID != comment.EpisodeID || parent.IsDeleted {
			return apperr.ValidationError("Invalid parent comment", apperr.FieldError{
				Field:   FieldParentID,
				Message: "Must reference a live comment on the same episode",
			})
		}
	}

	comment.ID = uuid.New()
	comment.UserID = actorID
	comment.NovelID = novelID
	comment.IsDeleted = false

	if err := service.commentRepo.Create(context, comment); err != nil {
		return err
	}

	service.logger.Info("comment_posted",
		slog.String("comment_id", comment.ID),
		slog.String("episode_id", comment.EpisodeID),
		slog.String("user_id", actorID),
	)

	return nil
}

/*
Delete tombstones a comment.

Description: Allowed for the comment's author and for moderators (persisted
role). The row is kept so replies don't dangle.

Parameters:
  - context: context.Context
  - actorID: string
  - commentID: string (UUID)

Returns:
  - error: Unauthorized, Forbidden, NotFound, or persistence errors
*/
func (service *Service) Delete(context context.Context, actorID, commentID string) error {
	if actorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	target, err := service.commentRepo.FindByID(context, commentID)
	if err != nil {
		return err
	}

	if target.UserID != actorID {
		actorRole, err := service.roles.RoleOf(context, actorID)
		if err != nil {
			return err
		}
		if !rbac.IsModerator(actorRole) {
			return apperr.Forbidden("Only the author or a moderator may delete this comment")
		}
	}

	if err := service.commentRepo.SoftDelete(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.String("comment_id", commentID),
		slog.String("actor_id", actorID),
	)

	return nil
}
