// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fictora/fictora/internal/core/moderation"
)

var allStatuses = []moderation.Status{
	moderation.StatusPending,
	moderation.StatusOngoing,
	moderation.StatusCompleted,
	moderation.StatusHiatus,
	moderation.StatusDenied,
}

/*
TestInitial verifies that every submission starts in pending_approval.
*/
func TestInitial(t *testing.T) {
	assert.Equal(t, moderation.StatusPending, moderation.Initial())
}

/*
TestCanReview verifies that only pending works accept a review decision.
*/
func TestCanReview(t *testing.T) {
	for _, status := range allStatuses {
		want := status == moderation.StatusPending
		assert.Equal(t, want, moderation.CanReview(status), "status=%s", status)
	}
}

/*
TestValidDecision verifies the closed decision set.
*/
func TestValidDecision(t *testing.T) {
	assert.True(t, moderation.ValidDecision(moderation.DecisionApprove))
	assert.True(t, moderation.ValidDecision(moderation.DecisionDeny))

	assert.False(t, moderation.ValidDecision(moderation.Decision("")))
	assert.False(t, moderation.ValidDecision(moderation.Decision("approved")))
	assert.False(t, moderation.ValidDecision(moderation.Decision("pending_approval")))
	assert.False(t, moderation.ValidDecision(moderation.Decision("ONGOING")))
}

/*
TestOutcome verifies decisions resolve to their target states.
*/
func TestOutcome(t *testing.T) {
	assert.Equal(t, moderation.StatusOngoing, moderation.Outcome(moderation.DecisionApprove))
	assert.Equal(t, moderation.StatusDenied, moderation.Outcome(moderation.DecisionDeny))
}

/*
TestCanTransition enumerates the full lifecycle transition table. Only the
three post-approval edges (and their returns to ongoing) exist; nothing is
reachable from pending or denied through this function.
*/
func TestCanTransition(t *testing.T) {
	allowed := map[[2]moderation.Status]bool{
		{moderation.StatusOngoing, moderation.StatusCompleted}: true,
		{moderation.StatusOngoing, moderation.StatusHiatus}:    true,
		{moderation.StatusCompleted, moderation.StatusOngoing}: true,
		{moderation.StatusHiatus, moderation.StatusOngoing}:    true,
	}

	checked := 0
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			checked++
			want := allowed[[2]moderation.Status{from, to}]
			assert.Equal(t, want, moderation.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	require.Equal(t, 25, checked)
}

/*
TestVisible verifies reader visibility: pending and denied works stay hidden.
*/
func TestVisible(t *testing.T) {
	assert.False(t, moderation.Visible(moderation.StatusPending))
	assert.False(t, moderation.Visible(moderation.StatusDenied))
	assert.True(t, moderation.Visible(moderation.StatusOngoing))
	assert.True(t, moderation.Visible(moderation.StatusCompleted))
	assert.True(t, moderation.Visible(moderation.StatusHiatus))
}

/*
TestErrorConstructors verifies the moderation errors map to the platform
error taxonomy.
*/
func TestErrorConstructors(t *testing.T) {
	transitionErr := moderation.ErrInvalidTransition(moderation.StatusDenied, moderation.StatusOngoing)
	require.NotNil(t, transitionErr)
	assert.Equal(t, "INVALID_TRANSITION", transitionErr.Code)

	decisionErr := moderation.ErrInvalidDecision(moderation.Decision("maybe"))
	require.NotNil(t, decisionErr)
	assert.Equal(t, "INVALID_DECISION", decisionErr.Code)
}
