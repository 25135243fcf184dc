// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

// Package comment implements reader discussion threads on published episodes.
package comment

import "time"

// Comment is a single reader remark on an episode. Replies reference their
// parent through ParentID.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	NovelID   string    `json:"novel_id"`
	EpisodeID string    `json:"episode_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Body      string    `json:"body"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field identifiers for validation and error reporting.
const (
	FieldBody      = "body"
	FieldEpisodeID = "episode_id"
	FieldParentID  = "parent_id"
)
