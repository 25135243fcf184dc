// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package review

import (
	"context"

	"github.com/fictora/fictora/internal/platform/rbac"
)

// ReviewRepository defines the data access contract for novel reviews.
type ReviewRepository interface {

	// ListByNovel returns a page of reviews on a novel, newest first, plus
	// the total count.
	ListByNovel(context context.Context, novelID string, limit, offset int) ([]*Review, int, error)

	// FindByID returns the review with the given ID, or NotFound.
	FindByID(context context.Context, id string) (*Review, error)

	// Upsert inserts the caller's review or replaces their existing one —
	// the (user, novel) pair is unique.
	Upsert(context context.Context, review *Review) error

	// Delete removes a review permanently.
	Delete(context context.Context, id string) error
}

// NovelDirectory exposes the minimum novel facts the review service needs.
type NovelDirectory interface {

	// IsVisible reports whether the novel exists and is publicly visible.
	IsVisible(context context.Context, novelID string) (bool, error)
}

// RoleDirectory resolves the authoritative persisted role of a user.
type RoleDirectory interface {
	RoleOf(context context.Context, userID string) (rbac.Role, error)
}
