// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

/*
Package novel provides the PostgreSQL implementation for the catalogue's data access.

It utilizes advanced Postgres features to deliver a high-performance discovery experience:
  - Full-Text Search: Uses 'websearch_to_tsquery' and GIN indexes for fuzzy matching.
  - JSON Aggregation: Retrieves nested genre data in a single round-trip.
  - Window Functions: Calculates total result counts without a separate 'COUNT' query.
  - ACID Transactions: Ensures atomicity when updating novels and their junction tables.
*/
package novel

import (
	"context"
	"encoding/json"
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

// novelRepository implements the [NovelRepository] interface using pgx.
type novelRepository struct {
	pool *pgxpool.Pool
}

// NewNovelRepository constructs a PostgreSQL backed novel store.
func NewNovelRepository(pool *pgxpool.Pool) NovelRepository {
	return &novelRepository{pool: pool}
}

/*
List returns a filtered, paginated slice of novels and the total count.

Description: Uses COUNT(*) OVER() to retrieve the total record count without
a second query, and a JSON sub-query to aggregate associated genres without
N+1 overhead.

Parameters:
  - context: context.Context
  - filter: Filter (Status, author, genres, search, sorting)
  - limit: int
  - offset: int

Returns:
  - []*Novel: Slice of hydrated novel entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *novelRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Novel, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT
			n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s,
			n.%s, n.%s, n.%s, n.%s,
			n.%s, n.%s,
			COUNT(*) OVER() AS total_count,
			COALESCE((
				SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s))
				FROM %s g
				JOIN %s ng ON g.%s = ng.%s
				WHERE ng.%s = n.%s
			), '[]') AS genres
		FROM %s n
		WHERE n.%s IS NULL
	`,
		schema.CoreNovel.ID,
		schema.CoreNovel.AuthorID,
		schema.CoreNovel.Title,
		schema.CoreNovel.Slug,
		schema.CoreNovel.Synopsis,
		schema.CoreNovel.CoverURL,
		schema.CoreNovel.Status,
		schema.CoreNovel.ReviewerID,
		schema.CoreNovel.ReviewedAt,
		schema.CoreNovel.ReviewNote,
		schema.CoreNovel.ViewCount,
		schema.CoreNovel.CreatedAt,
		schema.CoreNovel.UpdatedAt,
		schema.CoreGenre.ID,
		schema.CoreGenre.Name,
		schema.CoreGenre.Slug,
		schema.CoreGenre.Table,
		schema.CoreNovelGenre.Table,
		schema.CoreGenre.ID,
		schema.CoreNovelGenre.GenreID,
		schema.CoreNovelGenre.NovelID, schema.CoreNovel.ID,
		schema.CoreNovel.Table,
		schema.CoreNovel.DeletedAt,
	))

	// Status Filtering
	if len(filter.Status) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = ANY($%d)", schema.CoreNovel.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	// Ownership Filtering
	if filter.AuthorID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s = $%d", schema.CoreNovel.AuthorID, argID))
		args = append(args, filter.AuthorID)
		argID++
	}

	// Genre Filtering (AND logic for included genres)
	if len(filter.GenreIDs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(` AND $%d::int[] <@ (SELECT array_agg(%s) FROM %s WHERE %s = n.%s)`,
			argID, schema.CoreNovelGenre.GenreID, schema.CoreNovelGenre.Table, schema.CoreNovelGenre.NovelID, schema.CoreNovel.ID))
		args = append(args, filter.GenreIDs)
		argID++
	}

	// Search Query Filtering
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND n.%s @@ websearch_to_tsquery('simple', unaccent($%d))", schema.CoreNovel.SearchVector, argID))
		args = append(args, filter.Query)
		argID++
	}

	// Apply Sorting Logic
	sort := fmt.Sprintf("n.%s", schema.CoreNovel.CreatedAt) // default: latest
	switch filter.Sort {
	case "popular":
		sort = fmt.Sprintf("n.%s", schema.CoreNovel.ViewCount)
	case "az", "za":
		sort = fmt.Sprintf("n.%s", schema.CoreNovel.Title)
	case "oldest":
		sort = fmt.Sprintf("n.%s", schema.CoreNovel.CreatedAt)
	}

	// Apply Sorting Direction
	sortDir := "DESC"
	if strings.ToLower(filter.SortDir) == "asc" || filter.Sort == "az" || filter.Sort == "oldest" {
		sortDir = "ASC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sort, sortDir, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_novels")
	}
	defer rows.Close()

	var novels []*Novel
	var total int

	for rows.Next() {
		var entity Novel
		var genresJSON []byte

		if err := rows.Scan(
			&entity.ID, &entity.AuthorID, &entity.Title, &entity.Slug,
			&entity.Synopsis, &entity.CoverURL, &entity.Status,
			&entity.ReviewerID, &entity.ReviewedAt, &entity.ReviewNote,
			&entity.ViewCount, &entity.CreatedAt, &entity.UpdatedAt,
			&total, &genresJSON,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_novel")
		}

		if err := json.Unmarshal(genresJSON, &entity.Genres); err != nil {
			return nil, 0, fmt.Errorf("novel_store_genre_decode_failed: %w", err)
		}

		novels = append(novels, &entity)
	}

	return novels, total, rows.Err()
}

// FindByID returns the novel with the given ID.
func (repository *novelRepository) FindByID(context context.Context, id string) (*Novel, error) {
	return repository.findOne(context, schema.CoreNovel.ID, id)
}

// FindBySlug returns the novel matching the unique SEO identifier.
func (repository *novelRepository) FindBySlug(context context.Context, slug string) (*Novel, error) {
	return repository.findOne(context, schema.CoreNovel.Slug, slug)
}

// findOne hydrates a single novel row matched on the given column.
func (repository *novelRepository) findOne(context context.Context, column string, value any) (*Novel, error) {
	query := fmt.Sprintf(`
		SELECT
			n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s,
			n.%s, n.%s, n.%s, n.%s,
			n.%s, n.%s,
			COALESCE((
				SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s))
				FROM %s g
				JOIN %s ng ON g.%s = ng.%s
				WHERE ng.%s = n.%s
			), '[]') AS genres
		FROM %s n
		WHERE n.%s = $1 AND n.%s IS NULL
	`,
		schema.CoreNovel.ID,
		schema.CoreNovel.AuthorID,
		schema.CoreNovel.Title,
		schema.CoreNovel.Slug,
		schema.CoreNovel.Synopsis,
		schema.CoreNovel.CoverURL,
		schema.CoreNovel.Status,
		schema.CoreNovel.ReviewerID,
		schema.CoreNovel.ReviewedAt,
		schema.CoreNovel.ReviewNote,
		schema.CoreNovel.ViewCount,
		schema.CoreNovel.CreatedAt,
		schema.CoreNovel.UpdatedAt,
		schema.CoreGenre.ID,
		schema.CoreGenre.Name,
		schema.CoreGenre.Slug,
		schema.CoreGenre.Table,
		schema.CoreNovelGenre.Table,
		schema.CoreGenre.ID,
		schema.CoreNovelGenre.GenreID,
		schema.CoreNovelGenre.NovelID, schema.CoreNovel.ID,
		schema.CoreNovel.Table,
		column,
		schema.CoreNovel.DeletedAt,
	)

	var entity Novel
	var genresJSON []byte

	err := repository.pool.QueryRow(context, query, value).Scan(
		&entity.ID, &entity.AuthorID, &entity.Title, &entity.Slug,
		&entity.Synopsis, &entity.CoverURL, &entity.Status,
		&entity.ReviewerID, &entity.ReviewedAt, &entity.ReviewNote,
		&entity.ViewCount, &entity.CreatedAt, &entity.UpdatedAt,
		&genresJSON,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Novel")
		}
		return nil, dberr.Wrap(err, "find_novel")
	}

	if err := json.Unmarshal(genresJSON, &entity.Genres); err != nil {
		return nil, fmt.Errorf("novel_store_genre_decode_failed: %w", err)
	}

	return &entity, nil
}

/*
Create persists a new novel and its genre junction rows atomically.

Parameters:
  - context: context.Context
  - novel: *Novel

Returns:
  - error: Conflict on duplicate slug, storage failures otherwise
*/
func (repository *novelRepository) Create(context context.Context, novel *Novel) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_novel_tx")
	}
	defer transaction.Rollback(context)

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.ID,
		schema.CoreNovel.AuthorID,
		schema.CoreNovel.Title,
		schema.CoreNovel.Slug,
		schema.CoreNovel.Synopsis,
		schema.CoreNovel.CoverURL,
		schema.CoreNovel.Status,
		schema.CoreNovel.CreatedAt,
		schema.CoreNovel.UpdatedAt,
	)

	err = transaction.QueryRow(context, insert,
		novel.ID, novel.AuthorID, novel.Title, novel.Slug,
		novel.Synopsis, novel.CoverURL, novel.Status,
	).Scan(&novel.CreatedAt, &novel.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_novel")
	}

	if err := repository.replaceGenres(context, transaction, novel.ID, novel.GenreIDs); err != nil {
		return err
	}

	return transaction.Commit(context)
}

/*
Update persists changes to a novel's mutable metadata and rewrites its genre
junctions. The status column is never touched here.
*/
func (repository *novelRepository) Update(context context.Context, novel *Novel) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_novel_tx")
	}
	defer transaction.Rollback(context)

	update := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.Title,
		schema.CoreNovel.Slug,
		schema.CoreNovel.Synopsis,
		schema.CoreNovel.CoverURL,
		schema.CoreNovel.UpdatedAt,
		schema.CoreNovel.ID,
		schema.CoreNovel.DeletedAt,
	)

	tag, err := transaction.Exec(context, update,
		novel.ID, novel.Title, novel.Slug, novel.Synopsis, novel.CoverURL,
	)
	if err != nil {
		return dberr.Wrap(err, "update_novel")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Novel")
	}

	if novel.GenreIDs != nil {
		if err := repository.replaceGenres(context, transaction, novel.ID, novel.GenreIDs); err != nil {
			return err
		}
	}

	return transaction.Commit(context)
}

// SetReviewOutcome records a moderation decision. Last write wins on
// concurrent reviews; a vanished row maps to NotFound.
func (repository *novelRepository) SetReviewOutcome(context context.Context, id string, status moderation.Status, reviewerID, note string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW(), %s = $4, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.Status,
		schema.CoreNovel.ReviewerID,
		schema.CoreNovel.ReviewedAt,
		schema.CoreNovel.ReviewNote,
		schema.CoreNovel.UpdatedAt,
		schema.CoreNovel.ID,
		schema.CoreNovel.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id, status, reviewerID, note)
	if err != nil {
		return dberr.Wrap(err, "set_review_outcome")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Novel")
	}
	return nil
}

// SetStatus updates only the lifecycle status column.
func (repository *novelRepository) SetStatus(context context.Context, id string, status moderation.Status) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.Status,
		schema.CoreNovel.UpdatedAt,
		schema.CoreNovel.ID,
		schema.CoreNovel.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "set_novel_status")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Novel")
	}
	return nil
}

// SoftDelete marks a novel as deleted without physical row removal.
func (repository *novelRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreNovel.Table,
		schema.CoreNovel.DeletedAt,
		schema.CoreNovel.ID,
		schema.CoreNovel.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_novel")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Novel")
	}
	return nil
}

// IncrementViewCount atomically bumps the view counter.
func (repository *novelRepository) IncrementViewCount(context context.Context, id string, delta int64) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = %s + $2 WHERE %s = $1",
		schema.CoreNovel.Table,
		schema.CoreNovel.ViewCount,
		schema.CoreNovel.ViewCount,
		schema.CoreNovel.ID,
	)

	_, err := repository.pool.Exec(context, query, id, delta)
	return dberr.Wrap(err, "increment_view_count")
}

// replaceGenres rewrites the genre junction rows for a novel inside the
// caller's transaction.
func (repository *novelRepository) replaceGenres(context context.Context, transaction pgx.Tx, novelID string, genreIDs []int) error {
	purge := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.CoreNovelGenre.Table, schema.CoreNovelGenre.NovelID)
	if _, err := transaction.Exec(context, purge, novelID); err != nil {
		return dberr.Wrap(err, "purge_novel_genres")
	}

	for _, genreID := range genreIDs {
		insert := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			schema.CoreNovelGenre.Table, schema.CoreNovelGenre.NovelID, schema.CoreNovelGenre.GenreID)
		if _, err := transaction.Exec(context, insert, novelID, genreID); err != nil {
			return dberr.Wrap(err, "attach_novel_genre")
		}
	}

	return nil
}
