// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fictora/fictora/internal/core/comment"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/pkg/pointer"
)

// # In-Memory Fakes

type fakeCommentRepo struct {
	comments map[string]*comment.Comment
}

func newFakeCommentRepo(comments ...*comment.Comment) *fakeCommentRepo {
	repo := &fakeCommentRepo{comments: map[string]*comment.Comment{}}
	for _, entity := range comments {
		repo.comments[entity.ID] = entity
	}
	return repo
}

func (repo *fakeCommentRepo) ListByEpisode(_ context.Context, episodeID string, limit, offset int) ([]*comment.Comment, int, error) {
	var matches []*comment.Comment
	for _, entity := range repo.comments {
		if entity.EpisodeID != episodeID || entity.IsDeleted {
			continue
		}
		clone := *entity
		matches = append(matches, &clone)
	}
	return matches, len(matches), nil
}

func (repo *fakeCommentRepo) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	entity, ok := repo.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	clone := *entity
	return &clone, nil
}

func (repo *fakeCommentRepo) Create(_ context.Context, entity *comment.Comment) error {
	clone := *entity
	repo.comments[entity.ID] = &clone
	return nil
}

func (repo *fakeCommentRepo) SoftDelete(_ context.Context, id string) error {
	entity, ok := repo.comments[id]
	if !ok {
		return apperr.NotFound("Comment")
	}
	entity.IsDeleted = true
	return nil
}

// fakeEpisodeDirectory maps episodeID -> (novelID, published).
type fakeEpisodeDirectory struct {
	episodes map[string]publication
}

type publication struct {
	novelID   string
	published bool
}

func (directory *fakeEpisodeDirectory) IsPublished(_ context.Context, episodeID string) (string, bool, error) {
	state, ok := directory.episodes[episodeID]
	if !ok {
		return "", false, apperr.NotFound("Episode")
	}
	return state.novelID, state.published, nil
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

func newTestService(roles map[string]rbac.Role, episodes map[string]publication, comments ...*comment.Comment) (*comment.Service, *fakeCommentRepo) {
	repo := newFakeCommentRepo(comments...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return comment.NewService(repo, &fakeEpisodeDirectory{episodes: episodes}, &fakeRoleDirectory{roles: roles}, logger), repo
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.Code
}

// # Tests

func TestPost_OnPublishedEpisode(t *testing.T) {
	episodes := map[string]publication{"ep-1": {novelID: "novel-1", published: true}}
	service, repo := newTestService(nil, episodes)

	posted := &comment.Comment{EpisodeID: "ep-1", Body: "Great chapter!"}
	err := service.Post(context.Background(), "reader-1", posted)

	require.NoError(t, err)
	require.NotEmpty(t, posted.ID)
	stored := repo.comments[posted.ID]
	assert.Equal(t, "reader-1", stored.UserID)
	assert.Equal(t, "novel-1", stored.NovelID)
	assert.False(t, stored.IsDeleted)
}

func TestPost_HiddenEpisodeLooksAbsent(t *testing.T) {
	episodes := map[string]publication{
		"ep-pending": {novelID: "novel-1", published: false},
	}
	service, _ := newTestService(nil, episodes)

	err := service.Post(context.Background(), "reader-1", &comment.Comment{EpisodeID: "ep-pending", Body: "First!"})
	assert.True(t, apperr.IsNotFound(err))

	err = service.Post(context.Background(), "reader-1", &comment.Comment{EpisodeID: "ep-missing", Body: "First!"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestPost_Unauthenticated(t *testing.T) {
	episodes := map[string]publication{"ep-1": {novelID: "novel-1", published: true}}
	service, _ := newTestService(nil, episodes)

	err := service.Post(context.Background(), "", &comment.Comment{EpisodeID: "ep-1", Body: "Hi"})
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestPost_ReplyAnchoring(t *testing.T) {
	episodes := map[string]publication{
		"ep-1": {novelID: "novel-1", published: true},
		"ep-2": {novelID: "novel-1", published: true},
	}
	parent := &comment.Comment{ID: "c-parent", EpisodeID: "ep-1", UserID: "reader-1", Body: "Root"}
	tombstone := &comment.Comment{ID: "c-gone", EpisodeID: "ep-1", UserID: "reader-1", Body: "Deleted", IsDeleted: true}
	service, _ := newTestService(nil, episodes, parent, tombstone)

	t.Run("reply to live parent on same episode", func(t *testing.T) {
		err := service.Post(context.Background(), "reader-2", &comment.Comment{EpisodeID: "ep-1", ParentID: pointer.To("c-parent"), Body: "Agreed"})
		assert.NoError(t, err)
	})

	t.Run("reply across episodes rejected", func(t *testing.T) {
		err := service.Post(context.Background(), "reader-2", &comment.Comment{EpisodeID: "ep-2", ParentID: pointer.To("c-parent"), Body: "Agreed"})
		assert.Equal(t, "VALIDATION_ERROR", errCode(t, err))
	})

	t.Run("reply to tombstoned parent rejected", func(t *testing.T) {
		err := service.Post(context.Background(), "reader-2", &comment.Comment{EpisodeID: "ep-1", ParentID: pointer.To("c-gone"), Body: "Agreed"})
		assert.Equal(t, "VALIDATION_ERROR", errCode(t, err))
	})

	t.Run("reply to missing parent rejected", func(t *testing.T) {
		err := service.Post(context.Background(), "reader-2", &comment.Comment{EpisodeID: "ep-1", ParentID: pointer.To("c-nope"), Body: "Agreed"})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDelete_AuthorAndModerator(t *testing.T) {
	roles := map[string]rbac.Role{
		"reader-1": rbac.RoleReader,
		"reader-2": rbac.RoleReader,
		"admin-1":  rbac.RoleAdmin,
	}

	cases := []struct {
		name     string
		actorID  string
		wantCode string
	}{
		{name: "author deletes own comment", actorID: "reader-1"},
		{name: "moderator deletes stranger's comment", actorID: "admin-1"},
		{name: "stranger cannot delete", actorID: "reader-2", wantCode: "FORBIDDEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := &comment.Comment{ID: "c-1", EpisodeID: "ep-1", UserID: "reader-1", Body: "Hi"}
			service, repo := newTestService(roles, nil, target)

			err := service.Delete(context.Background(), tc.actorID, "c-1")

			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errCode(t, err))
				assert.False(t, repo.comments["c-1"].IsDeleted)
				return
			}
			require.NoError(t, err)
			// The row survives as a tombstone so replies keep their anchor.
			assert.True(t, repo.comments["c-1"].IsDeleted)
		})
	}
}

func TestListByEpisode_HiddenEpisodeLooksAbsent(t *testing.T) {
	episodes := map[string]publication{"ep-pending": {novelID: "novel-1", published: false}}
	service, _ := newTestService(nil, episodes)

	_, _, err := service.ListByEpisode(context.Background(), "ep-pending", 20, 0)
	assert.True(t, apperr.IsNotFound(err))
}
