// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package novel

import (
	"context"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/rbac"
)

// # Novel Data Access

// NovelRepository defines the data access contract for the novel domain.
type NovelRepository interface {

	/*
		List returns a filtered, paginated slice of novels and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Criteria for status, author, genres, search)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Novel: Slice of matching novel records
		  - int: Total count of records matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Novel, int, error)

	/*
		FindByID returns the novel with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Novel: The hydrated domain entity
		  - error: NotFound if missing or soft-deleted
	*/
	FindByID(context context.Context, id string) (*Novel, error)

	/*
		FindBySlug returns the novel matching the unique SEO identifier.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Novel: The hydrated domain entity
		  - error: NotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Novel, error)

	/*
		Create persists a new novel to the store together with its genre
		junction rows.

		Parameters:
		  - context: context.Context
		  - novel: *Novel (Metadata and initial state)

		Returns:
		  - error: Storage or constraint failures
	*/
	Create(context context.Context, novel *Novel) error

	/*
		Update persists changes to an existing novel's mutable metadata.
		The status column is never touched by this method.

		Parameters:
		  - context: context.Context
		  - novel: *Novel (Target ID and modified attributes)

		Returns:
		  - error: NotFound if the row is gone, storage failures otherwise
	*/
	Update(context context.Context, novel *Novel) error

	/*
		SetReviewOutcome records a moderation decision on a novel: the new
		status plus the reviewer's identity, timestamp, and optional note.
		Concurrent reviews are last-write-wins.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - status: moderation.Status (Review outcome)
		  - reviewerID: string
		  - note: string

		Returns:
		  - error: NotFound if the row vanished mid-flight
	*/
	SetReviewOutcome(context context.Context, id string, status moderation.Status, reviewerID, note string) error

	/*
		SetStatus updates only the lifecycle status column.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - status: moderation.Status

		Returns:
		  - error: NotFound if the row is gone
	*/
	SetStatus(context context.Context, id string, status moderation.Status) error

	/*
		SoftDelete marks a novel as deleted without physical row removal.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: NotFound if already gone
	*/
	SoftDelete(context context.Context, id string) error

	/*
		IncrementViewCount atomically increments the view counter on a novel.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - delta: int64 (Amount to add)

		Returns:
		  - error: Atomic update failure
	*/
	IncrementViewCount(context context.Context, id string, delta int64) error
}

// RoleDirectory resolves the authoritative persisted role of a user.
// Session claims are advisory; moderation gates consult this instead.
type RoleDirectory interface {
	RoleOf(context context.Context, userID string) (rbac.Role, error)
}
