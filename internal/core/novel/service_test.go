// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package novel_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/core/novel"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
)

// # In-Memory Fakes

type fakeNovelRepo struct {
	novels map[string]*novel.Novel
}

func newFakeNovelRepo(novels ...*novel.Novel) *fakeNovelRepo {
	repo := &fakeNovelRepo{novels: map[string]*novel.Novel{}}
	for _, entity := range novels {
		repo.novels[entity.ID] = entity
	}
	return repo
}

func (repo *fakeNovelRepo) List(_ context.Context, filter novel.Filter, limit, offset int) ([]*novel.Novel, int, error) {
	var matches []*novel.Novel
	for _, entity := range repo.novels {
		if filter.AuthorID != "" && entity.AuthorID != filter.AuthorID {
			continue
		}
		if len(filter.Status) > 0 && !containsStatus(filter.Status, entity.Status) {
			continue
		}
		clone := *entity
		matches = append(matches, &clone)
	}
	return matches, len(matches), nil
}

func (repo *fakeNovelRepo) FindByID(_ context.Context, id string) (*novel.Novel, error) {
	entity, ok := repo.novels[id]
	if !ok {
		return nil, apperr.NotFound("Novel")
	}
	clone := *entity
	return &clone, nil
}

func (repo *fakeNovelRepo) FindBySlug(_ context.Context, slug string) (*novel.Novel, error) {
	for _, entity := range repo.novels {
		if entity.Slug == slug {
			clone := *entity
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Novel")
}

func (repo *fakeNovelRepo) Create(_ context.Context, entity *novel.Novel) error {
	clone := *entity
	repo.novels[entity.ID] = &clone
	return nil
}

func (repo *fakeNovelRepo) Update(_ context.Context, entity *novel.Novel) error {
	stored, ok := repo.novels[entity.ID]
	if !ok {
		return apperr.NotFound("Novel")
	}
	status := stored.Status // metadata updates never touch status
	clone := *entity
	clone.Status = status
	repo.novels[entity.ID] = &clone
	return nil
}

func (repo *fakeNovelRepo) SetReviewOutcome(_ context.Context, id string, status moderation.Status, reviewerID, note string) error {
	entity, ok := repo.novels[id]
	if !ok {
		return apperr.NotFound("Novel")
	}
	entity.Status = status
	entity.ReviewerID = &reviewerID
	entity.ReviewNote = note
	return nil
}

func (repo *fakeNovelRepo) SetStatus(_ context.Context, id string, status moderation.Status) error {
	entity, ok := repo.novels[id]
	if !ok {
		return apperr.NotFound("Novel")
	}
	entity.Status = status
	return nil
}

func (repo *fakeNovelRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := repo.novels[id]; !ok {
		return apperr.NotFound("Novel")
	}
	delete(repo.novels, id)
	return nil
}

func (repo *fakeNovelRepo) IncrementViewCount(_ context.Context, id string, delta int64) error {
	if entity, ok := repo.novels[id]; ok {
		entity.ViewCount += delta
	}
	return nil
}

type fakeRoleDirectory struct {
	roles map[string]rbac.Role
}

func (directory *fakeRoleDirectory) RoleOf(_ context.Context, userID string) (rbac.Role, error) {
	role, ok := directory.roles[userID]
	if !ok {
		return rbac.RoleReader, apperr.NotFound("User")
	}
	return role, nil
}

func containsStatus(set []moderation.Status, status moderation.Status) bool {
	for _, candidate := range set {
		if candidate == status {
			return true
		}
	}
	return false
}

// # Fixtures

func newTestService(roles map[string]rbac.Role, novels ...*novel.Novel) (*novel.Service, *fakeNovelRepo) {
	repo := newFakeNovelRepo(novels...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return novel.NewService(repo, &fakeRoleDirectory{roles: roles}, logger), repo
}

func pendingNovel(id, authorID string) *novel.Novel {
	return &novel.Novel{
		ID:       id,
		AuthorID: authorID,
		Title:    "Test Novel " + id,
		Slug:     id, // short IDs resolve through the slug path in lookups
		Status:   moderation.StatusPending,
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.Code
}

// # Submission Tests

/*
TestSubmit_ForcesPendingStatus verifies a submission always enters review as
pending, even when the caller pre-set an approved status on the entity.
*/
func TestSubmit_ForcesPendingStatus(t *testing.T) {
	service, repo := newTestService(map[string]rbac.Role{"writer-1": rbac.RoleWriter})

	submission := &novel.Novel{
		Title:  "Self Approved",
		Status: moderation.StatusOngoing, // attacker-controlled input
	}

	err := service.Submit(context.Background(), "writer-1", submission)

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusPending, submission.Status)
	assert.Equal(t, moderation.StatusPending, repo.novels[submission.ID].Status)
	assert.Equal(t, "writer-1", submission.AuthorID)
	assert.NotEmpty(t, submission.Slug)
}

func TestSubmit_RequiresAuthoringRole(t *testing.T) {
	service, repo := newTestService(map[string]rbac.Role{"reader-1": rbac.RoleReader})

	err := service.Submit(context.Background(), "reader-1", &novel.Novel{Title: "Nope"})

	assert.Equal(t, "FORBIDDEN", errCode(t, err))
	assert.Empty(t, repo.novels)
}

func TestSubmit_Unauthenticated(t *testing.T) {
	service, repo := newTestService(nil)

	err := service.Submit(context.Background(), "", &novel.Novel{Title: "Anon"})

	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
	assert.Empty(t, repo.novels, "no state touched before the auth gate")
}

// # Review Tests

func TestReview_ApproveAndDeny(t *testing.T) {
	tests := []struct {
		name       string
		decision   moderation.Decision
		wantStatus moderation.Status
	}{
		{"approve", moderation.DecisionApprove, moderation.StatusOngoing},
		{"deny", moderation.DecisionDeny, moderation.StatusDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := map[string]rbac.Role{"mod-1": rbac.RoleAdmin}
			service, repo := newTestService(roles, pendingNovel("n1", "writer-1"))

			reviewed, err := service.Review(context.Background(), "mod-1", "n1", tt.decision, "note")

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, reviewed.Status)
			assert.Equal(t, tt.wantStatus, repo.novels["n1"].Status)
			require.NotNil(t, repo.novels["n1"].ReviewerID)
			assert.Equal(t, "mod-1", *repo.novels["n1"].ReviewerID)
		})
	}
}

/*
TestReview_ModeratorGate verifies every role against the review gate: admin,
developer, and superadmin may decide; writers (including the work's own
author) and readers may not.
*/
func TestReview_ModeratorGate(t *testing.T) {
	tests := []struct {
		name      string
		actorRole rbac.Role
		wantCode  string
	}{
		{"admin", rbac.RoleAdmin, ""},
		{"developer", rbac.RoleDeveloper, ""},
		{"superadmin", rbac.RoleSuperadmin, ""},
		{"writer", rbac.RoleWriter, "FORBIDDEN"},
		{"reader", rbac.RoleReader, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := map[string]rbac.Role{"actor": tt.actorRole}
			service, repo := newTestService(roles, pendingNovel("n1", "actor"))

			_, err := service.Review(context.Background(), "actor", "n1", moderation.DecisionApprove, "")

			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, errCode(t, err))
				assert.Equal(t, moderation.StatusPending, repo.novels["n1"].Status)
			}
		})
	}
}

func TestReview_InvalidDecision(t *testing.T) {
	roles := map[string]rbac.Role{"mod-1": rbac.RoleAdmin}
	service, repo := newTestService(roles, pendingNovel("n1", "writer-1"))

	_, err := service.Review(context.Background(), "mod-1", "n1", moderation.Decision("maybe"), "")

	assert.Equal(t, "INVALID_DECISION", errCode(t, err))
	assert.Equal(t, moderation.StatusPending, repo.novels["n1"].Status)
}

/*
TestReview_SecondDecisionRejected verifies reviews are not idempotent: once a
work leaves pending, any further decision — identical or not — is an invalid
transition.
*/
func TestReview_SecondDecisionRejected(t *testing.T) {
	roles := map[string]rbac.Role{"mod-1": rbac.RoleAdmin, "mod-2": rbac.RoleSuperadmin}
	service, repo := newTestService(roles, pendingNovel("n1", "writer-1"))

	_, err := service.Review(context.Background(), "mod-1", "n1", moderation.DecisionDeny, "")
	require.NoError(t, err)

	// Same decision, different moderator.
	_, err = service.Review(context.Background(), "mod-2", "n1", moderation.DecisionDeny, "")
	assert.Equal(t, "INVALID_TRANSITION", errCode(t, err))
	assert.Equal(t, moderation.StatusDenied, repo.novels["n1"].Status)
}

func TestReview_TargetDeletedMidFlight(t *testing.T) {
	roles := map[string]rbac.Role{"mod-1": rbac.RoleAdmin}
	service, _ := newTestService(roles)

	_, err := service.Review(context.Background(), "mod-1", "gone", moderation.DecisionApprove, "")

	assert.True(t, apperr.IsNotFound(err), "deleted work is reported missing, never recreated")
}

func TestReview_Unauthenticated(t *testing.T) {
	service, repo := newTestService(nil, pendingNovel("n1", "writer-1"))

	_, err := service.Review(context.Background(), "", "n1", moderation.DecisionApprove, "")

	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
	assert.Equal(t, moderation.StatusPending, repo.novels["n1"].Status)
}

// # Edit Tests

func TestEdit_OwnerAndModerator(t *testing.T) {
	tests := []struct {
		name     string
		actorID  string
		wantCode string
	}{
		{"owner", "writer-1", ""},
		{"moderator", "mod-1", ""},
		{"other_writer", "writer-2", "FORBIDDEN"},
		{"reader", "reader-1", "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := map[string]rbac.Role{
				"writer-1": rbac.RoleWriter,
				"writer-2": rbac.RoleWriter,
				"reader-1": rbac.RoleReader,
				"mod-1":    rbac.RoleDeveloper,
			}
			approved := pendingNovel("n1", "writer-1")
			approved.Status = moderation.StatusOngoing
			service, repo := newTestService(roles, approved)

			updated, err := service.Edit(context.Background(), tt.actorID, &novel.Novel{
				ID:    "n1",
				Title: "Revised Title",
			})

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "Revised Title", updated.Title)
				assert.Equal(t, moderation.StatusOngoing, repo.novels["n1"].Status,
					"edits never re-enter review")
			} else {
				assert.Equal(t, tt.wantCode, errCode(t, err))
				assert.NotEqual(t, "Revised Title", repo.novels["n1"].Title)
			}
		})
	}
}

func TestEdit_Unauthenticated(t *testing.T) {
	service, repo := newTestService(nil, pendingNovel("n1", "writer-1"))

	_, err := service.Edit(context.Background(), "", &novel.Novel{ID: "n1", Title: "X"})

	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
	assert.NotEqual(t, "X", repo.novels["n1"].Title)
}

// # Lifecycle Tests

/*
TestTransitionLifecycle walks the lifecycle table: the only legal moves are
between ongoing and the two parked states.
*/
func TestTransitionLifecycle(t *testing.T) {
	tests := []struct {
		name     string
		from     moderation.Status
		to       moderation.Status
		wantCode string
	}{
		{"ongoing_to_completed", moderation.StatusOngoing, moderation.StatusCompleted, ""},
		{"ongoing_to_hiatus", moderation.StatusOngoing, moderation.StatusHiatus, ""},
		{"completed_to_ongoing", moderation.StatusCompleted, moderation.StatusOngoing, ""},
		{"hiatus_to_ongoing", moderation.StatusHiatus, moderation.StatusOngoing, ""},
		{"pending_to_ongoing", moderation.StatusPending, moderation.StatusOngoing, "INVALID_TRANSITION"},
		{"pending_to_completed", moderation.StatusPending, moderation.StatusCompleted, "INVALID_TRANSITION"},
		{"completed_to_hiatus", moderation.StatusCompleted, moderation.StatusHiatus, "INVALID_TRANSITION"},
		{"ongoing_to_denied", moderation.StatusOngoing, moderation.StatusDenied, "INVALID_TRANSITION"},
		{"denied_to_ongoing", moderation.StatusDenied, moderation.StatusOngoing, "INVALID_TRANSITION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := map[string]rbac.Role{"writer-1": rbac.RoleWriter}
			entity := pendingNovel("n1", "writer-1")
			entity.Status = tt.from
			service, repo := newTestService(roles, entity)

			updated, err := service.TransitionLifecycle(context.Background(), "writer-1", "n1", tt.to)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.to, updated.Status)
				assert.Equal(t, tt.to, repo.novels["n1"].Status)
			} else {
				assert.Equal(t, tt.wantCode, errCode(t, err))
				assert.Equal(t, tt.from, repo.novels["n1"].Status)
			}
		})
	}
}

func TestTransitionLifecycle_OwnershipGate(t *testing.T) {
	roles := map[string]rbac.Role{"writer-2": rbac.RoleWriter, "mod-1": rbac.RoleSuperadmin}
	entity := pendingNovel("n1", "writer-1")
	entity.Status = moderation.StatusOngoing
	service, _ := newTestService(roles, entity)

	_, err := service.TransitionLifecycle(context.Background(), "writer-2", "n1", moderation.StatusCompleted)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	updated, err := service.TransitionLifecycle(context.Background(), "mod-1", "n1", moderation.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, moderation.StatusCompleted, updated.Status)
}

// # Visibility Tests

/*
TestGetNovel_HiddenWorkVisibility verifies pending submissions resolve only
for their owner and moderators; everyone else gets 404 so the work's
existence is not disclosed.
*/
func TestGetNovel_HiddenWorkVisibility(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		wantErr bool
	}{
		{"anonymous", "", true},
		{"other_reader", "reader-1", true},
		{"other_writer", "writer-2", true},
		{"owner", "writer-1", false},
		{"moderator", "mod-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := map[string]rbac.Role{
				"reader-1": rbac.RoleReader,
				"writer-1": rbac.RoleWriter,
				"writer-2": rbac.RoleWriter,
				"mod-1":    rbac.RoleAdmin,
			}
			service, _ := newTestService(roles, pendingNovel("n1", "writer-1"))

			found, err := service.GetNovel(context.Background(), "n1", tt.actorID)

			if tt.wantErr {
				assert.True(t, apperr.IsNotFound(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "n1", found.ID)
			}
		})
	}
}

func TestListPublic_ExcludesHiddenStatuses(t *testing.T) {
	pending := pendingNovel("n1", "writer-1")
	denied := pendingNovel("n2", "writer-1")
	denied.Status = moderation.StatusDenied
	live := pendingNovel("n3", "writer-1")
	live.Status = moderation.StatusOngoing

	service, _ := newTestService(nil, pending, denied, live)

	novels, total, err := service.ListPublic(context.Background(), novel.Filter{
		Status: []moderation.Status{moderation.StatusPending}, // caller tries to peek
	}, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, novels, 1)
	assert.Equal(t, "n3", novels[0].ID)
}

func TestListReviewQueue_ModeratorOnly(t *testing.T) {
	roles := map[string]rbac.Role{"mod-1": rbac.RoleDeveloper, "writer-1": rbac.RoleWriter}
	live := pendingNovel("n2", "writer-1")
	live.Status = moderation.StatusOngoing
	service, _ := newTestService(roles, pendingNovel("n1", "writer-1"), live)

	queue, total, err := service.ListReviewQueue(context.Background(), "mod-1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, queue, 1)
	assert.Equal(t, "n1", queue[0].ID)

	_, _, err = service.ListReviewQueue(context.Background(), "writer-1", 20, 0)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}
