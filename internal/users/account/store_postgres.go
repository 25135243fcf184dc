// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/users/auth"
)

// # PostgreSQL Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// FindByID retrieves a user record by its primary key.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT id, username, email, passwordhash, displayname, bio, website, role, isverified, isbanned, createdat, updatedat
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	user := &auth.User{}
	var rawRole string

	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Bio,
		&user.Website,
		&rawRole,
		&user.IsVerified,
		&user.IsBanned,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	user.Role = rbac.Normalize(rawRole)

	return user, nil
}

// Update modifies the mutable profile fields of an existing user.
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET displayname = $2, bio = $3, website = $4, updatedat = $5
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.DisplayName,
		user.Bio,
		user.Website,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// Create persists an admin-provisioned account with a pre-assigned role.
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, displayname, bio, website, role, isverified, isbanned, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Bio,
		user.Website,
		user.Role,
		user.IsVerified,
		user.IsBanned,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

// SetRole replaces the stored role of an account.
func (repository *PostgresAccountRepository) SetRole(context context.Context, id string, role rbac.Role) error {
	const query = `
		UPDATE users.account
		SET role = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id, role, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_role_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// SetBanned flags or unflags an account as banned.
func (repository *PostgresAccountRepository) SetBanned(context context.Context, id string, banned bool) error {
	const query = `
		UPDATE users.account
		SET isbanned = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id, banned, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_banned_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// SoftDelete flags an account as logically deleted.
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	const query = `
		UPDATE users.account
		SET deletedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	if _, err := repository.pool.Exec(context, query, id, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err)
	}

	return nil
}

// List returns a page of accounts plus the total count, newest first.
func (repository *PostgresAccountRepository) List(context context.Context, limit, offset int) ([]*auth.User, int, error) {
	const query = `
		SELECT id, username, email, passwordhash, displayname, bio, website, role, isverified, isbanned, createdat, updatedat,
			COUNT(*) OVER() AS total_count
		FROM users.account
		WHERE deletedat IS NULL
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*auth.User
	var total int

	for rows.Next() {
		user := &auth.User{}
		var rawRole string

		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.DisplayName,
			&user.Bio,
			&user.Website,
			&rawRole,
			&user.IsVerified,
			&user.IsBanned,
			&user.CreatedAt,
			&user.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}

		user.Role = rbac.Normalize(rawRole)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return users, total, nil
}
