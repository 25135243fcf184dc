// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

/*
Package novel defines the core domain entities for the Fictora catalogue.

It manages the lifecycle of serialised fiction from writer submission through
moderation review to public visibility.

Core Responsibility:

  - Catalogue: Holds novel metadata, genre associations, and reading metrics.
  - Moderation: Every novel carries a [moderation.Status]; the state machine
    in the moderation package is the only authority for status changes.
  - Ownership: Each novel belongs to exactly one writer (AuthorID).

This package acts as the source of truth for all novel-related data models.
*/
package novel

import (
	"time"

	"github.com/fictora/fictora/internal/core/moderation"
)

// # Core Entities

// Novel is the central aggregate of the Fictora domain.
// It represents a single serialised work of fiction in the catalogue.
type Novel struct {
	ID       string            `json:"id"`
	AuthorID string            `json:"author_id"` // Owning writer; exclusive
	Title    string            `json:"title"`
	Slug     string            `json:"slug"` // URL-safe identifier
	Synopsis string            `json:"synopsis"`
	CoverURL string            `json:"cover_url"`
	Status   moderation.Status `json:"status"`
	Genres   []GenreRef        `json:"genres,omitempty"`

	// # Junction IDs (Input only)
	GenreIDs []int `json:"genre_ids,omitempty"`

	// # Review Trail
	ReviewerID *string    `json:"reviewer_id,omitempty"` // Moderator who decided
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote string     `json:"review_note,omitempty"`

	// # Computed Metrics
	ViewCount int64 `json:"view_count"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // nil = active; non-nil = soft-deleted
}

// GenreRef is a denormalized genre attached to a [Novel].
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered novel list query.
type Filter struct {
	Status   []moderation.Status `json:"status,omitempty"`
	AuthorID string              `json:"author_id,omitempty"`
	GenreIDs []int               `json:"genre_ids,omitempty"`
	Query    string              `json:"q,omitempty"`        // Full-text search term
	Sort     string              `json:"sort,omitempty"`     // latest, popular, az
	SortDir  string              `json:"sort_dir,omitempty"` // "asc" or "desc"
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID       = "id"
	FieldAuthorID = "author_id"
	FieldTitle    = "title"
	FieldSlug     = "slug"
	FieldSynopsis = "synopsis"
	FieldCoverURL = "cover_url"
	FieldStatus   = "status"
	FieldDecision = "decision"
	FieldGenreIDs = "genre_ids"
)
