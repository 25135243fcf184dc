// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package episode

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/database/schema"
	"github.com/fictora/fictora/internal/platform/dberr"
)

// # PostgreSQL Repository

// episodeRepository implements the [EpisodeRepository] interface using pgx.
type episodeRepository struct {
	pool *pgxpool.Pool
}

// NewEpisodeRepository constructs a PostgreSQL backed episode store.
func NewEpisodeRepository(pool *pgxpool.Pool) EpisodeRepository {
	return &episodeRepository{pool: pool}
}

// episodeColumns is the canonical select list for episode hydration.
func episodeColumns(alias string) string {
	t := schema.CoreEpisode
	columns := []string{
		t.ID, t.NovelID, t.Number, t.Title, t.Body, t.Status,
		t.ReviewerID, t.ReviewedAt, t.ReviewNote, t.CreatedAt, t.UpdatedAt,
	}
	for i, column := range columns {
		columns[i] = alias + "." + column
	}
	return strings.Join(columns, ", ")
}

// scanEpisode hydrates a single row into an [Episode].
func scanEpisode(row pgx.Row, extra ...any) (*Episode, error) {
	var entity Episode
	targets := []any{
		&entity.ID, &entity.NovelID, &entity.Number, &entity.Title,
		&entity.Body, &entity.Status, &entity.ReviewerID, &entity.ReviewedAt,
		&entity.ReviewNote, &entity.CreatedAt, &entity.UpdatedAt,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Episode")
		}
		return nil, dberr.Wrap(err, "scan_episode")
	}
	return &entity, nil
}

// List returns a filtered, paginated slice of episodes ordered by number.
func (repository *episodeRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Episode, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(
		"SELECT %s, COUNT(*) OVER() AS total_count FROM %s e WHERE e.%s IS NULL",
		episodeColumns("e"), schema.CoreEpisode.Table, schema.CoreEpisode.DeletedAt,
	))

	if filter.NovelID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = $%d", schema.CoreEpisode.NovelID, argID))
		args = append(args, filter.NovelID)
		argID++
	}

	if len(filter.Status) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = ANY($%d)", schema.CoreEpisode.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY e.%s ASC LIMIT $%d OFFSET $%d",
		schema.CoreEpisode.Number, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_episodes")
	}
	defer rows.Close()

	var episodes []*Episode
	var total int

	for rows.Next() {
		entity, err := scanEpisode(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		episodes = append(episodes, entity)
	}

	return episodes, total, rows.Err()
}

// FindByID returns the episode with the given ID.
func (repository *episodeRepository) FindByID(context context.Context, id string) (*Episode, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s e WHERE e.%s = $1 AND e.%s IS NULL",
		episodeColumns("e"), schema.CoreEpisode.Table,
		schema.CoreEpisode.ID, schema.CoreEpisode.DeletedAt,
	)
	return scanEpisode(repository.pool.QueryRow(context, query, id))
}

// Create persists a new episode.
func (repository *episodeRepository) Create(context context.Context, episode *Episode) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s
	`,
		schema.CoreEpisode.Table,
		schema.CoreEpisode.ID,
		schema.CoreEpisode.NovelID,
		schema.CoreEpisode.Number,
		schema.CoreEpisode.Title,
		schema.CoreEpisode.Body,
		schema.CoreEpisode.Status,
		schema.CoreEpisode.CreatedAt,
		schema.CoreEpisode.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		episode.ID, episode.NovelID, episode.Number, episode.Title, episode.Body, episode.Status,
	).Scan(&episode.CreatedAt, &episode.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_episode")
	}
	return nil
}

// Update persists title, body, and number changes. Status is untouched.
func (repository *episodeRepository) Update(context context.Context, episode *Episode) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreEpisode.Table,
		schema.CoreEpisode.Title,
		schema.CoreEpisode.Body,
		schema.CoreEpisode.Number,
		schema.CoreEpisode.UpdatedAt,
		schema.CoreEpisode.ID,
		schema.CoreEpisode.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, episode.ID, episode.Title, episode.Body, episode.Number)
	if err != nil {
		return dberr.Wrap(err, "update_episode")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Episode")
	}
	return nil
}

// SetReviewOutcome records a moderation decision. Last write wins.
func (repository *episodeRepository) SetReviewOutcome(context context.Context, id string, status moderation.Status, reviewerID, note string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW(), %s = $4, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreEpisode.Table,
		schema.CoreEpisode.Status,
		schema.CoreEpisode.ReviewerID,
		schema.CoreEpisode.ReviewedAt,
		schema.CoreEpisode.ReviewNote,
		schema.CoreEpisode.UpdatedAt,
		schema.CoreEpisode.ID,
		schema.CoreEpisode.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id, status, reviewerID, note)
	if err != nil {
		return dberr.Wrap(err, "set_episode_review_outcome")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Episode")
	}
	return nil
}

// SoftDelete marks an episode as deleted.
func (repository *episodeRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL",
		schema.CoreEpisode.Table,
		schema.CoreEpisode.DeletedAt,
		schema.CoreEpisode.ID,
		schema.CoreEpisode.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_episode")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Episode")
	}
	return nil
}

// # Novel Directory

// novelDirectory answers ownership lookups against core.novel directly,
// keeping the episode package decoupled from the novel package.
type novelDirectory struct {
	pool *pgxpool.Pool
}

// NewNovelDirectory constructs a PostgreSQL backed [NovelDirectory].
func NewNovelDirectory(pool *pgxpool.Pool) NovelDirectory {
	return &novelDirectory{pool: pool}
}

// OwnerOf returns the author ID of the given novel.
func (directory *novelDirectory) OwnerOf(context context.Context, novelID string) (string, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		schema.CoreNovel.AuthorID,
		schema.CoreNovel.Table,
		schema.CoreNovel.ID,
		schema.CoreNovel.DeletedAt,
	)

	var authorID string
	if err := directory.pool.QueryRow(context, query, novelID).Scan(&authorID); err != nil {
		if err == pgx.ErrNoRows {
			return "", apperr.NotFound("Novel")
		}
		return "", dberr.Wrap(err, "novel_owner_lookup")
	}
	return authorID, nil
}
