// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

/*
Package moderation defines the content-approval state machine for submitted
works.

Every novel and episode enters the platform in pending_approval and can only
leave that state through a moderator decision. The transition table lives
here and nowhere else — services consult [CanReview] and [CanTransition]
instead of comparing status strings locally, so an invalid transition is
rejected identically by every mutating route.

State Graph:

	pending_approval ──approve──▶ ongoing ◀──────┐
	        │                      │  │          │
	        └───deny──▶ denied     │  └──▶ hiatus┘
	                               └──▶ completed ──▶ ongoing

Denied is terminal. Completed and hiatus are reachable only from ongoing,
never from pending_approval directly.
*/
package moderation

import "github.com/fictora/fictora/internal/platform/apperr"

// # Status Enumeration

// Status represents the moderation lifecycle state of a submitted work.
type Status string

const (
	// StatusPending is the initial state of every submitted work.
	StatusPending Status = "pending_approval"

	// StatusOngoing is the approved, actively-publishing state.
	StatusOngoing Status = "ongoing"

	// StatusCompleted indicates a finished serialization. Novels only.
	StatusCompleted Status = "completed"

	// StatusHiatus indicates a paused serialization. Novels only.
	StatusHiatus Status = "hiatus"

	// StatusDenied is the terminal rejected state.
	StatusDenied Status = "denied"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusOngoing, StatusCompleted, StatusHiatus, StatusDenied:
		return true
	}
	return false
}

// Initial returns the status forced onto every new submission, regardless of
// what the caller supplied. A writer must never be able to self-approve by
// passing an approved status in the creation payload.
func Initial() Status {
	return StatusPending
}

// Visible reports whether readers may see a work in this state.
//
// Pending and denied works are visible only to their author and to
// moderators.
func Visible(s Status) bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

// # Review Decisions

// Decision is a moderator's verdict on a pending submission.
type Decision string

const (
	// DecisionApprove moves the work to [StatusOngoing].
	DecisionApprove Decision = "ongoing"

	// DecisionDeny moves the work to the terminal [StatusDenied].
	DecisionDeny Decision = "denied"
)

// ValidDecision reports whether d is a member of the closed decision set.
func ValidDecision(d Decision) bool {
	return d == DecisionApprove || d == DecisionDeny
}

// Outcome returns the status a decision resolves to.
//
// Calling Outcome with an invalid decision returns [StatusPending]; callers
// must gate on [ValidDecision] first.
func Outcome(d Decision) Status {
	switch d {
	case DecisionApprove:
		return StatusOngoing
	case DecisionDeny:
		return StatusDenied
	default:
		return StatusPending
	}
}

// # Transition Table

// CanReview reports whether a work in the given state may receive a review
// decision. Only pending submissions are reviewable — reviewing an already
// decided work is an invalid transition, not an idempotent no-op.
func CanReview(current Status) bool {
	return current == StatusPending
}

// CanTransition reports whether a post-approval lifecycle change from one
// state to another is allowed.
//
// The table covers the publication lifecycle only. Review decisions
// (pending → ongoing/denied) go through [CanReview] and [Outcome], never
// through this function.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusOngoing:
		return to == StatusCompleted || to == StatusHiatus
	case StatusCompleted:
		return to == StatusOngoing
	case StatusHiatus:
		return to == StatusOngoing
	}
	return false
}

// # Error Constructors

// ErrInvalidTransition builds the rejection for a transition that is not
// reachable from the current state.
func ErrInvalidTransition(from, to Status) *apperr.AppError {
	return apperr.InvalidTransition(string(from), string(to))
}

// ErrInvalidDecision builds the rejection for a decision outside the closed
// set.
func ErrInvalidDecision(d Decision) *apperr.AppError {
	return apperr.InvalidDecision(string(d))
}
