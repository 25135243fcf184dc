// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package review

import (
	"context"
	"log/slog"

	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/platform/validate"
	"github.com/fictora/fictora/pkg/uuid"
)

// Service orchestrates the business logic for novel reviews.
type Service struct {
	reviewRepo ReviewRepository
	novels     NovelDirectory
	roles      RoleDirectory
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its required dependencies.
func NewService(reviewRepo ReviewRepository, novels NovelDirectory, roles RoleDirectory, logger *slog.Logger) *Service {
	return &Service{
		reviewRepo: reviewRepo,
		novels:     novels,
		roles:      roles,
		logger:     logger,
	}
}

/*
ListByNovel returns a page of reviews on a visible novel.

Returns:
  - []*Review: Newest first
  - int: Total count
  - error: NotFound if the novel is missing or hidden
*/
func (service *Service) ListByNovel(context context.Context, novelID string, limit, offset int) ([]*Review, int, error) {
	if err := service.requireVisibleNovel(context, novelID); err != nil {
		return nil, 0, err
	}

	return service.reviewRepo.ListByNovel(context, novelID, limit, offset)
}

/*
Rate submits or replaces the caller's review of a novel.

Description: At most one review per user and novel — a second submission
replaces the first. Scores must lie in [1, 10]. Hidden novels reject reviews
with NotFound.

Parameters:
  - context: context.Context
  - actorID: string
  - review: *Review (NovelID, Score, optional Body)

Returns:
  - error: Unauthorized, NotFound, validation, or persistence errors
*/
func (service *Service) Rate(context context.Context, actorID string, review *Review) error {
	if actorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.Range(FieldScore, review.Score, MinScore, MaxScore)
	validator.MaxLen(FieldBody, review.Body, 10000)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.requireVisibleNovel(context, review.NovelID); err != nil {
		return err
	}

	review.ID = uuid.New()
	review.UserID = actorID

	if err := service.reviewRepo.Upsert(context, review); err != nil {
		return err
	}

	service.logger.Info("novel_rated",
		slog.String("novel_id", review.NovelID),
		slog.String("user_id", actorID),
		slog.Int("score", review.Score),
	)

	return nil
}

/*
Delete removes a review.

Description: Allowed for the review's author and for moderators (persisted
role).

Returns:
  - error: Unauthorized, Forbidden, NotFound, or persistence errors
*/
func (service *Service) Delete(context context.Context, actorID, reviewID string) error {
	if actorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	target, err := service.reviewRepo.FindByID(context, reviewID)
	if err != nil {
		return err
	}

	if target.UserID != actorID {
		actorRole, err := service.roles.RoleOf(context, actorID)
		if err != nil {
			return err
		}
		if !rbac.IsModerator(actorRole) {
			return apperr.Forbidden("Only the author or a moderator may delete this review")
		}
	}

	if err := service.reviewRepo.Delete(context, reviewID); err != nil {
		return err
	}

	service.logger.Info("review_deleted",
		slog.String("review_id", reviewID),
		slog.String("actor_id", actorID),
	)

	return nil
}

// requireVisibleNovel maps hidden and missing novels to the same NotFound.
func (service *Service) requireVisibleNovel(context context.Context, novelID string) error {
	visible, err := service.novels.IsVisible(context, novelID)
	if err != nil {
		return err
	}
	if !visible {
		return apperr.NotFound("Novel")
	}
	return nil
}
