// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package comment

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

// commentRepository implements the [CommentRepository] interface using pgx.
type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs a PostgreSQL backed comment store.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (repository *commentRepository) ListByEpisode(context context.Context, episodeID string, limit, offset int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s,
		       COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1 AND %s = FALSE
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.SocialComment.ID,
		schema.SocialComment.UserID,
		schema.SocialComment.NovelID,
		schema.SocialComment.EpisodeID,
		schema.SocialComment.ParentID,
		schema.SocialComment.Body,
		schema.SocialComment.CreatedAt,
		schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table,
		schema.SocialComment.EpisodeID,
		schema.SocialComment.IsDeleted,
		schema.SocialComment.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, episodeID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	var comments []*Comment
	var total int

	for rows.Next() {
		var entity Comment
		if err := rows.Scan(
			&entity.ID, &entity.UserID, &entity.NovelID, &entity.EpisodeID,
			&entity.ParentID, &entity.Body, &entity.CreatedAt, &entity.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, &entity)
	}

	return comments, total, rows.Err()
}

func (repository *commentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.SocialComment.ID,
		schema.SocialComment.UserID,
		schema.SocialComment.NovelID,
		schema.SocialComment.EpisodeID,
		schema.SocialComment.ParentID,
		schema.SocialComment.Body,
		schema.SocialComment.IsDeleted,
		schema.SocialComment.CreatedAt,
		schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table,
		schema.SocialComment.ID,
	)

	var entity Comment
	err := repository.pool.QueryRow(context, query, id).Scan(
		&entity.ID, &entity.UserID, &entity.NovelID, &entity.EpisodeID,
		&entity.ParentID, &entity.Body, &entity.IsDeleted,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Comment")
		}
		return nil, dberr.Wrap(err, "find_comment")
	}

	return &entity, nil
}

func (repository *commentRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s
	`,
		schema.SocialComment.Table,
		schema.SocialComment.ID,
		schema.SocialComment.UserID,
		schema.SocialComment.NovelID,
		schema.SocialComment.EpisodeID,
		schema.SocialComment.ParentID,
		schema.SocialComment.Body,
		schema.SocialComment.CreatedAt,
		schema.SocialComment.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		comment.ID, comment.UserID, comment.NovelID, comment.EpisodeID,
		comment.ParentID, comment.Body,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}
	return nil
}

func (repository *commentRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1 AND %s = FALSE",
		schema.SocialComment.Table,
		schema.SocialComment.IsDeleted,
		schema.SocialComment.UpdatedAt,
		schema.SocialComment.ID,
		schema.SocialComment.IsDeleted,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

// # Episode Directory

// episodeDirectory answers publication lookups against core.episode
// directly, keeping the comment package decoupled from the episode package.
type episodeDirectory struct {
	pool *pgxpool.Pool
}

// NewEpisodeDirectory constructs a PostgreSQL backed [EpisodeDirectory].
func NewEpisodeDirectory(pool *pgxpool.Pool) EpisodeDirectory {
	return &episodeDirectory{pool: pool}
}

// IsPublished reports whether the episode exists and is publicly visible,
// returning its parent novel ID.
func (directory *episodeDirectory) IsPublished(context context.Context, episodeID string) (string, bool, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = $1 AND %s IS NULL",
		schema.CoreEpisode.NovelID,
		schema.CoreEpisode.Status,
		schema.CoreEpisode.Table,
		schema.CoreEpisode.ID,
		schema.CoreEpisode.DeletedAt,
	)

	var novelID string
	var status moderation.Status
	if err := directory.pool.QueryRow(context, query, episodeID).Scan(&novelID, &status); err != nil {
		if err == pgx.ErrNoRows {
			return "", false, apperr.NotFound("Episode")
		}
		return "", false, dberr.Wrap(err, "episode_publication_lookup")
	}
	return novelID, status == moderation.StatusOngoing, nil
}
