// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package episode

import (
	"context"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/rbac"
)

// # Episode Data Access

// EpisodeRepository defines the data access contract for the episode domain.
type EpisodeRepository interface {

	// List returns a filtered, paginated slice of episodes ordered by their
	// number, plus the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Episode, int, error)

	// FindByID returns the episode with the given ID, or NotFound.
	FindByID(context context.Context, id string) (*Episode, error)

	// Create persists a new episode.
	Create(context context.Context, episode *Episode) error

	// Update persists changes to an episode's title and body. The status
	// column is never touched by this method.
	Update(context context.Context, episode *Episode) error

	// SetReviewOutcome records a moderation decision on an episode.
	// Concurrent reviews are last-write-wins; a vanished row maps to NotFound.
	SetReviewOutcome(context context.Context, id string, status moderation.Status, reviewerID, note string) error

	// SoftDelete marks an episode as deleted without physical row removal.
	SoftDelete(context context.Context, id string) error
}

// NovelDirectory resolves ownership of the parent novel without importing
// the novel package wholesale.
type NovelDirectory interface {

	// OwnerOf returns the author ID of the given novel, or NotFound if the
	// novel does not exist or is soft-deleted.
	OwnerOf(context context.Context, novelID string) (string, error)
}

// RoleDirectory resolves the authoritative persisted role of a user.
type RoleDirectory interface {
	RoleOf(context context.Context, userID string) (rbac.Role, error)
}
