// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package episode_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fictora/fictora/internal/core/episode"
	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
)

// # In-Memory Fakes

type fakeEpisodeRepo struct {
	episodes map[string]*episode.Episode
}

func newFakeEpisodeRepo(episodes ...*episode.Episode) *fakeEpisodeRepo {
	repo := &fakeEpisodeRepo{episodes: map[string]*episode.Episode{}}
	for _, entity := range episodes {
		repo.episodes[entity.ID] = entity
	}
	return repo
}

func (repo *fakeEpisodeRepo) List(_ context.Context, filter episode.Filter, limit, offset int) ([]*episode.Episode, int, error) {
	var matches []*episode.Episode
	for _, entity := range repo.episodes {
		if filter.NovelID != "" && entity.NovelID != filter.NovelID {
			continue
		}
		if len(filter.Status) > 0 {
			visible := false
			for _, status := range filter.Status {
				if entity.Status == status {
					visible = true
				}
			}
			if !visible {
				continue
			}
		}
		clone := *entity
		matches = append(matches, &clone)
	}
	return matches, len(matches), nil
}

func (repo *fakeEpisodeRepo) FindByID(_ context.Context, id string) (*episode.Episode, error) {
	entity, ok := repo.episodes[id]
	if !ok {
		return nil, apperr.NotFound("Episode")
	}
	clone := *entity
	return &clone, nil
}

func (repo *fakeEpisodeRepo) Create(_ context.Context, entity *episode.Episode) error {
	clone := *entity
	repo.episodes[entity.ID] = &clone
	return nil
}

func (repo *fakeEpisodeRepo) Update(_ context.Context, entity *episode.Episode) error {
	stored, ok := repo.episodes[entity.ID]
	if !ok {
		return apperr.NotFound("Episode")
	}
	status := stored.Status
	clone := *entity
	clone.Status = status
	repo.episodes[entity.ID] = &clone
	return nil
}

func (repo *fakeEpisodeRepo) SetReviewOutcome(_ context.Context, id string, status moderation.Status, reviewerID, note string) error {
	entity, ok := repo.episodes[id]
	if !ok {
		return apperr.NotFound("Episode")
	}
	entity.Status = status
	entity.ReviewerID = &reviewerID
	entity.ReviewNote = note
	return nil
}

func (repo *fakeEpisodeRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := repo.episodes[id]; !ok {
		return apperr.NotFound("Episode")
	}
	delete(repo.episodes, id)
	return nil
}

type fakeNovelDirectory struct {
	owners map[string]string // novelID -> authorID
}

func (directory *fakeNovelDirectory) OwnerOf(_ context.Context, novelID string) (string, error) {
	ownerID, ok := directory.owners[novelID]
	if !ok {
		return "", apperr.NotFound("Novel")
	}
	return ownerID, nil
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

// # Fixtures

func newTestService(roles map[string]rbac.Role, owners map[string]string, episodes ...*episode.Episode) (*episode.Service, *fakeEpisodeRepo) {
	repo := newFakeEpisodeRepo(episodes...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return episode.NewService(repo, &fakeNovelDirectory{owners: owners}, &fakeRoleDirectory{roles: roles}, logger), repo
}

func pendingEpisode(id, novelID string) *episode.Episode {
	return &episode.Episode{
		ID:      id,
		NovelID: novelID,
		Number:  1,
		Title:   "Episode " + id,
		Body:    "Body",
		Status:  moderation.StatusPending,
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.Code
}

// # Tests

func TestSubmit_ForcesPendingStatus(t *testing.T) {
	roles := map[string]rbac.Role{"writer-1": rbac.RoleWriter}
	owners := map[string]string{"novel-1": "writer-1"}
	service, repo := newTestService(roles, owners)

	submission := &episode.Episode{
		NovelID: "novel-1",
		Number:  1,
		Title:   "First",
		Body:    "Text",
		Status:  moderation.StatusOngoing, // ignored
	}

	err := service.Submit(context.Background(), "writer-1", submission)

	require.NoError(t, err)
	assert.Equal(t, moderation.StatusPending, submission.Status)
	assert.Equal(t, moderation.StatusPending, repo.episodes[submission.ID].Status)
}

func TestSubmit_OwnershipRequired(t *testing.T) {
	roles := map[string]rbac.Role{"writer-2": rbac.RoleWriter, "mod-1": rbac.RoleAdmin}
	owners := map[string]string{"novel-1": "writer-1"}
	service, repo := newTestService(roles, owners)

	// Another writer cannot post to someone else's novel.
	err := service.Submit(context.Background(), "writer-2", &episode.Episode{
		NovelID: "novel-1", Number: 1, Title: "Hijack", Body: "x",
	})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	// Not even a moderator: episodes are authored, not moderated, into existence.
	err = service.Submit(context.Background(), "mod-1", &episode.Episode{
		NovelID: "novel-1", Number: 1, Title: "Hijack", Body: "x",
	})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	assert.Empty(t, repo.episodes)
}

func TestSubmit_ParentGone(t *testing.T) {
	roles := map[string]rbac.Role{"writer-1": rbac.RoleWriter}
	service, _ := newTestService(roles, map[string]string{})

	err := service.Submit(context.Background(), "writer-1", &episode.Episode{
		NovelID: "vanished", Number: 1, Title: "Orphan", Body: "x",
	})

	assert.True(t, apperr.IsNotFound(err))
}

func TestReview_GateOrder(t *testing.T) {
	roles := map[string]rbac.Role{
		"mod-1":    rbac.RoleDeveloper,
		"writer-1": rbac.RoleWriter,
	}
	owners := map[string]string{"novel-1": "writer-1"}

	t.Run("approve_publishes", func(t *testing.T) {
		service, repo := newTestService(roles, owners, pendingEpisode("e1", "novel-1"))

		reviewed, err := service.Review(context.Background(), "mod-1", "e1", moderation.DecisionApprove, "")

		require.NoError(t, err)
		assert.Equal(t, moderation.StatusOngoing, reviewed.Status)
		assert.Equal(t, moderation.StatusOngoing, repo.episodes["e1"].Status)
	})

	t.Run("writer_forbidden", func(t *testing.T) {
		service, _ := newTestService(roles, owners, pendingEpisode("e1", "novel-1"))

		_, err := service.Review(context.Background(), "writer-1", "e1", moderation.DecisionApprove, "")
		assert.Equal(t, "FORBIDDEN", errCode(t, err))
	})

	t.Run("second_review_invalid", func(t *testing.T) {
		service, _ := newTestService(roles, owners, pendingEpisode("e1", "novel-1"))

		_, err := service.Review(context.Background(), "mod-1", "e1", moderation.DecisionDeny, "")
		require.NoError(t, err)

		_, err = service.Review(context.Background(), "mod-1", "e1", moderation.DecisionDeny, "")
		assert.Equal(t, "INVALID_TRANSITION", errCode(t, err))
	})

	t.Run("invalid_decision", func(t *testing.T) {
		service, _ := newTestService(roles, owners, pendingEpisode("e1", "novel-1"))

		_, err := service.Review(context.Background(), "mod-1", "e1", moderation.Decision("archive"), "")
		assert.Equal(t, "INVALID_DECISION", errCode(t, err))
	})

	t.Run("deleted_mid_flight", func(t *testing.T) {
		service, _ := newTestService(roles, owners)

		_, err := service.Review(context.Background(), "mod-1", "gone", moderation.DecisionApprove, "")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestEdit_KeepsStatus(t *testing.T) {
	roles := map[string]rbac.Role{"writer-1": rbac.RoleWriter}
	owners := map[string]string{"novel-1": "writer-1"}
	published := pendingEpisode("e1", "novel-1")
	published.Status = moderation.StatusOngoing
	service, repo := newTestService(roles, owners, published)

	updated, err := service.Edit(context.Background(), "writer-1", &episode.Episode{
		ID:    "e1",
		Title: "Revised",
	})

	require.NoError(t, err)
	assert.Equal(t, "Revised", updated.Title)
	assert.Equal(t, moderation.StatusOngoing, repo.episodes["e1"].Status,
		"edits never re-enter review")
}

func TestListByNovel_Visibility(t *testing.T) {
	roles := map[string]rbac.Role{
		"writer-1": rbac.RoleWriter,
		"reader-1": rbac.RoleReader,
		"mod-1":    rbac.RoleSuperadmin,
	}
	owners := map[string]string{"novel-1": "writer-1"}
	published := pendingEpisode("e1", "novel-1")
	published.Status = moderation.StatusOngoing
	pending := pendingEpisode("e2", "novel-1")

	tests := []struct {
		name      string
		actorID   string
		wantCount int
	}{
		{"anonymous_sees_published_only", "", 1},
		{"reader_sees_published_only", "reader-1", 1},
		{"owner_sees_all", "writer-1", 2},
		{"moderator_sees_all", "mod-1", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService(roles, owners, published, pending)

			episodes, total, err := service.ListByNovel(context.Background(), "novel-1", tt.actorID, 20, 0)

			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, total)
			assert.Len(t, episodes, tt.wantCount)
		})
	}
}
