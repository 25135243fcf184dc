// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

// Package review implements reader ratings on novels: a 1-10 score plus an
// optional prose body, at most one per user and novel.
package review

import "time"

// Review is a single reader rating of a novel.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	NovelID   string    `json:"novel_id"`
	Score     int       `json:"score"` // 1-10
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// Field identifiers for validation and error reporting.
const (
	FieldScore = "score"
	FieldBody  = "body"
)
