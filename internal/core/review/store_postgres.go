// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/database/schema"
	"github.com/fictora/fictora/internal/platform/dberr"
)

// reviewRepository implements the [ReviewRepository] interface using pgx.
type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository constructs a PostgreSQL backed review store.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (repository *reviewRepository) ListByNovel(context context.Context, novelID string, limit, offset int) ([]*Review, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s,
		       COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.SocialReview.ID,
		schema.SocialReview.UserID,
		schema.SocialReview.NovelID,
		schema.SocialReview.Score,
		schema.SocialReview.Body,
		schema.SocialReview.CreatedAt,
		schema.SocialReview.UpdatedAt,
		schema.SocialReview.Table,
		schema.SocialReview.NovelID,
		schema.SocialReview.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, novelID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	var reviews []*Review
	var total int

	for rows.Next() {
		var entity Review
		if err := rows.Scan(
			&entity.ID, &entity.UserID, &entity.NovelID, &entity.Score,
			&entity.Body, &entity.CreatedAt, &entity.UpdatedAt, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, &entity)
	}

	return reviews, total, rows.Err()
}

func (repository *reviewRepository) FindByID(context context.Context, id string) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.SocialReview.ID,
		schema.SocialReview.UserID,
		schema.SocialReview.NovelID,
		schema.SocialReview.Score,
		schema.SocialReview.Body,
		schema.SocialReview.CreatedAt,
		schema.SocialReview.UpdatedAt,
		schema.SocialReview.Table,
		schema.SocialReview.ID,
	)

	var entity Review
	err := repository.pool.QueryRow(context, query, id).Scan(
		&entity.ID, &entity.UserID, &entity.NovelID, &entity.Score,
		&entity.Body, &entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Review")
		}
		return nil, dberr.Wrap(err, "find_review")
	}

	return &entity, nil
}

// Upsert relies on the unique (userid, novelid) constraint: a second rating
// by the same user replaces the first in place.
func (repository *reviewRepository) Upsert(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s
	`,
		schema.SocialReview.Table,
		schema.SocialReview.ID,
		schema.SocialReview.UserID,
		schema.SocialReview.NovelID,
		schema.SocialReview.Score,
		schema.SocialReview.Body,
		schema.SocialReview.UserID,
		schema.SocialReview.NovelID,
		schema.SocialReview.Score, schema.SocialReview.Score,
		schema.SocialReview.Body, schema.SocialReview.Body,
		schema.SocialReview.UpdatedAt,
		schema.SocialReview.ID,
		schema.SocialReview.CreatedAt,
		schema.SocialReview.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		review.ID, review.UserID, review.NovelID, review.Score, review.Body,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "upsert_review")
	}
	return nil
}

func (repository *reviewRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.SocialReview.Table, schema.SocialReview.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// # Novel Directory

// novelDirectory answers visibility lookups against core.novel directly,
// keeping the review package decoupled from the novel package.
type novelDirectory struct {
	pool *pgxpool.Pool
}

// NewNovelDirectory constructs a PostgreSQL backed [NovelDirectory].
func NewNovelDirectory(pool *pgxpool.Pool) NovelDirectory {
	return &novelDirectory{pool: pool}
}

// IsVisible reports whether the novel exists and is publicly visible.
func (directory *novelDirectory) IsVisible(context context.Context, novelID string) (bool, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		schema.CoreNovel.Status,
		schema.CoreNovel.Table,
		schema.CoreNovel.ID,
		schema.CoreNovel.DeletedAt,
	)

	var status moderation.Status
	if err := directory.pool.QueryRow(context, query, novelID).Scan(&status); err != nil {
		if err == pgx.ErrNoRows {
			return false, apperr.NotFound("Novel")
		}
		return false, dberr.Wrap(err, "novel_visibility_lookup")
	}
	return moderation.Visible(status), nil
}
