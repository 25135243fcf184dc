// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package comment

import (
	"context"

	"github.com/fictora/fictora/internal/platform/rbac"
)

// CommentRepository defines the data access contract for episode comments.
type CommentRepository interface {

	// ListByEpisode returns a page of non-deleted comments on an episode,
	// newest first, plus the total count.
	ListByEpisode(context context.Context, episodeID string, limit, offset int) ([]*Comment, int, error)

	// FindByID returns the comment with the given ID, or NotFound.
	FindByID(context context.Context, id string) (*Comment, error)

	// Create persists a new comment.
	Create(context context.Context, comment *Comment) error

	// SoftDelete tombstones a comment; the row stays so replies keep their
	// anchor.
	SoftDelete(context context.Context, id string) error
}

// EpisodeDirectory exposes the minimum episode facts the comment service
// needs: existence and public visibility.
type EpisodeDirectory interface {
	IsPublished(context context.Context, episodeID string) (novelID string, published bool, err error)
}

// RoleDirectory resolves the authoritative persisted role of a user.
type RoleDirectory interface {
	RoleOf(context context.Context, userID string) (rbac.Role, error)
}
