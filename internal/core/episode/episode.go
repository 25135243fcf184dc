// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

/*
Package episode manages the serialised installments of a novel.

Each episode belongs to exactly one novel and carries its own moderation
status. Unlike novels, approved episodes have no further lifecycle: the
status set is pending approval, ongoing (published), or denied.
*/
package episode

import (
	"time"

	"github.com/fictora/fictora/internal/core/moderation"
)

// Episode is a single installment of a serialised novel.
type Episode struct {
	ID      string            `json:"id"`
	NovelID string            `json:"novel_id"`
	Number  int               `json:"number"` // Position within the novel
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Status  moderation.Status `json:"status"`

	// # Review Trail
	ReviewerID *string    `json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote string     `json:"review_note,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Filter holds the parameters for an episode list query.
type Filter struct {
	NovelID string              `json:"novel_id,omitempty"`
	Status  []moderation.Status `json:"status,omitempty"`
}

// Field identifiers for validation and error reporting.
const (
	FieldID      = "id"
	FieldNovelID = "novel_id"
	FieldNumber  = "number"
	FieldTitle   = "title"
	FieldBody    = "body"
	FieldStatus  = "status"
)
