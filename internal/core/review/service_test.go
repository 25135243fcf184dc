// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package review_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fictora/fictora/internal/core/review"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
)

// # In-Memory Fakes

type fakeReviewRepo struct {
	reviews map[string]*review.Review
}

func newFakeReviewRepo(reviews ...*review.Review) *fakeReviewRepo {
	repo := &fakeReviewRepo{reviews: map[string]*review.Review{}}
	for _, entity := range reviews {
		repo.reviews[entity.ID] = entity
	}
	return repo
}

func (repo *fakeReviewRepo) ListByNovel(_ context.Context, novelID string, limit, offset int) ([]*review.Review, int, error) {
	var matches []*review.Review
	for _, entity := range repo.reviews {
		if entity.NovelID != novelID {
			continue
		}
		clone := *entity
		matches = append(matches, &clone)
	}
	return matches, len(matches), nil
}

func (repo *fakeReviewRepo) FindByID(_ context.Context, id string) (*review.Review, error) {
	entity, ok := repo.reviews[id]
	if !ok {
		return nil, apperr.NotFound("Review")
	}
	clone := *entity
	return &clone, nil
}

func (repo *fakeReviewRepo) Upsert(_ context.Context, entity *review.Review) error {
	// Mirrors the (user, novel) uniqueness of the real store.
	for id, existing := range repo.reviews {
		if existing.UserID == entity.UserID && existing.NovelID == entity.NovelID {
			delete(repo.reviews, id)
		}
	}
	clone := *entity
	repo.reviews[entity.ID] = &clone
	return nil
}

func (repo *fakeReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := repo.reviews[id]; !ok {
		return apperr.NotFound("Review")
	}
	delete(repo.reviews, id)
	return nil
}

type fakeNovelDirectory struct {
	visible map[string]bool
}

func (directory *fakeNovelDirectory) IsVisible(_ context.Context, novelID string) (bool, error) {
	visible, ok := directory.visible[novelID]
	if !ok {
		return false, apperr.NotFound("Novel")
	}
	return visible, nil
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

func newTestService(roles map[string]rbac.Role, visible map[string]bool, reviews ...*review.Review) (*review.Service, *fakeReviewRepo) {
	repo := newFakeReviewRepo(reviews...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return review.NewService(repo, &fakeNovelDirectory{visible: visible}, &fakeRoleDirectory{roles: roles}, logger), repo
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.Code
}

// # Tests

func TestRate_CreatesAndReplaces(t *testing.T) {
	visible := map[string]bool{"novel-1": true}
	service, repo := newTestService(nil, visible)

	first := &review.Review{NovelID: "novel-1", Score: 7, Body: "Solid start."}
	require.NoError(t, service.Rate(context.Background(), "reader-1", first))
	assert.Len(t, repo.reviews, 1)

	// A second submission by the same reader replaces the first.
	second := &review.Review{NovelID: "novel-1", Score: 9, Body: "It got better."}
	require.NoError(t, service.Rate(context.Background(), "reader-1", second))

	require.Len(t, repo.reviews, 1)
	stored := repo.reviews[second.ID]
	require.NotNil(t, stored)
	assert.Equal(t, 9, stored.Score)

	// A different reader gets their own row.
	third := &review.Review{NovelID: "novel-1", Score: 4}
	require.NoError(t, service.Rate(context.Background(), "reader-2", third))
	assert.Len(t, repo.reviews, 2)
}

func TestRate_ScoreBounds(t *testing.T) {
	visible := map[string]bool{"novel-1": true}
	service, _ := newTestService(nil, visible)

	for _, score := range []int{0, 11, -3} {
		err := service.Rate(context.Background(), "reader-1", &review.Review{NovelID: "novel-1", Score: score})
		assert.Equal(t, "VALIDATION_ERROR", errCode(t, err), "score %d", score)
	}

	for _, score := range []int{1, 10} {
		err := service.Rate(context.Background(), "reader-1", &review.Review{NovelID: "novel-1", Score: score})
		assert.NoError(t, err, "score %d", score)
	}
}

func TestRate_HiddenNovelLooksAbsent(t *testing.T) {
	visible := map[string]bool{"novel-pending": false}
	service, _ := newTestService(nil, visible)

	err := service.Rate(context.Background(), "reader-1", &review.Review{NovelID: "novel-pending", Score: 8})
	assert.True(t, apperr.IsNotFound(err))

	err = service.Rate(context.Background(), "reader-1", &review.Review{NovelID: "novel-missing", Score: 8})
	assert.True(t, apperr.IsNotFound(err))
}

func TestRate_Unauthenticated(t *testing.T) {
	visible := map[string]bool{"novel-1": true}
	service, _ := newTestService(nil, visible)

	err := service.Rate(context.Background(), "", &review.Review{NovelID: "novel-1", Score: 8})
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestDelete_AuthorAndModerator(t *testing.T) {
	roles := map[string]rbac.Role{
		"reader-1": rbac.RoleReader,
		"reader-2": rbac.RoleReader,
		"dev-1":    rbac.RoleDeveloper,
	}

	cases := []struct {
		name     string
		actorID  string
		wantCode string
	}{
		{name: "author deletes own review", actorID: "reader-1"},
		{name: "moderator deletes stranger's review", actorID: "dev-1"},
		{name: "stranger cannot delete", actorID: "reader-2", wantCode: "FORBIDDEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := &review.Review{ID: "r-1", NovelID: "novel-1", UserID: "reader-1", Score: 6}
			service, repo := newTestService(roles, nil, target)

			err := service.Delete(context.Background(), tc.actorID, "r-1")

			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errCode(t, err))
				assert.Contains(t, repo.reviews, "r-1")
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, repo.reviews, "r-1")
		})
	}
}

func TestListByNovel_HiddenNovelLooksAbsent(t *testing.T) {
	visible := map[string]bool{"novel-denied": false}
	service, _ := newTestService(nil, visible)

	_, _, err := service.ListByNovel(context.Background(), "novel-denied", 20, 0)
	assert.True(t, apperr.IsNotFound(err))
}
