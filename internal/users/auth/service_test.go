// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fictora/fictora/internal/platform/apperr"
	"github.com/fictora/fictora/internal/platform/rbac"
	"github.com/fictora/fictora/internal/platform/sec"
	"github.com/fictora/fictora/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepo(users ...*auth.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*auth.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = passwordHash
	return nil
}

func (repo *fakeUserRepo) MarkVerified(_ context.Context, userID string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsVerified = true
	return nil
}

func (repo *fakeUserRepo) RoleOf(_ context.Context, userID string) (rbac.Role, error) {
	user, ok := repo.users[userID]
	if !ok || user.IsBanned {
		return rbac.RoleReader, apperr.NotFound("User")
	}
	return rbac.Normalize(string(user.Role)), nil
}

type fakeSessionRepo struct {
	sessions map[string]*auth.Session // keyed by ID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*auth.Session{}}
}

func (repo *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	clone := *session
	repo.sessions[session.ID] = &clone
	return nil
}

func (repo *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range repo.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			clone := *session
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *fakeSessionRepo) Revoke(_ context.Context, sessionID string) error {
	session, ok := repo.sessions[sessionID]
	if !ok {
		return apperr.NotFound("Session")
	}
	session.IsRevoked = true
	return nil
}

func (repo *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repo.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *fakeSessionRepo) RevokeOthers(_ context.Context, userID, keepSessionID string) error {
	for _, session := range repo.sessions {
		if session.UserID == userID && session.ID != keepSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *fakeSessionRepo) activeCount(userID string) int {
	count := 0
	for _, session := range repo.sessions {
		if session.UserID == userID && !session.IsRevoked {
			count++
		}
	}
	return count
}

// fakeTokenStore backs both reset and verification token repositories.
type fakeTokenStore struct {
	tokens map[string]string // token -> userID
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]string{}}
}

func (store *fakeTokenStore) Set(_ context.Context, token, userID string, _ time.Duration) error {
	store.tokens[token] = userID
	return nil
}

func (store *fakeTokenStore) Get(_ context.Context, token string) (string, error) {
	userID, ok := store.tokens[token]
	if !ok {
		return "", apperr.Unauthorized("Invalid or expired token")
	}
	return userID, nil
}

func (store *fakeTokenStore) Delete(_ context.Context, token string) error {
	delete(store.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "access-" + userID, nil
}

// # Fixtures

type testEnv struct {
	service     *auth.Service
	users       *fakeUserRepo
	sessions    *fakeSessionRepo
	resetTokens *fakeTokenStore
	verifTokens *fakeTokenStore
}

func newTestEnv(users ...*auth.User) *testEnv {
	env := &testEnv{
		users:       newFakeUserRepo(users...),
		sessions:    newFakeSessionRepo(),
		resetTokens: newFakeTokenStore(),
		verifTokens: newFakeTokenStore(),
	}
	env.service = auth.NewService(env.users, env.sessions, env.resetTokens, env.verifTokens, fakeTokenProvider{})
	return env
}

func existingUser(id, username, email, password string) *auth.User {
	hash, _ := sec.HashPassword(password)
	return &auth.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         rbac.RoleReader,
	}
}

// # Tests

func TestRegister_DefaultsToReader(t *testing.T) {
	env := newTestEnv()

	created, err := env.service.Register(context.Background(), auth.RegisterInput{
		Username: "newreader",
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})

	require.NoError(t, err)
	assert.Equal(t, rbac.RoleReader, created.Role)
	assert.False(t, created.IsVerified)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	// Registration queues an email-verification token for the new account.
	assert.NotEmpty(t, env.verifTokens.tokens)
}

func TestRegister_RejectsDuplicateIdentity(t *testing.T) {
	env := newTestEnv(existingUser("u-1", "taken", "taken@example.com", "pw-irrelevant"))

	_, err := env.service.Register(context.Background(), auth.RegisterInput{
		Username: "fresh", Email: "taken@example.com", Password: "long enough pw",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = env.service.Register(context.Background(), auth.RegisterInput{
		Username: "taken", Email: "fresh@example.com", Password: "long enough pw",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(existingUser("u-1", "alice", "alice@example.com", "open sesame"))

	t.Run("by email", func(t *testing.T) {
		session, err := env.service.Login(context.Background(), auth.LoginInput{
			Login: "alice@example.com", Password: "open sesame",
		})
		require.NoError(t, err)
		assert.Equal(t, "access-u-1", session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
	})

	t.Run("by username", func(t *testing.T) {
		_, err := env.service.Login(context.Background(), auth.LoginInput{
			Login: "alice", Password: "open sesame",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.service.Login(context.Background(), auth.LoginInput{
			Login: "alice", Password: "close sesame",
		})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("unknown account gets same answer as wrong password", func(t *testing.T) {
		_, err := env.service.Login(context.Background(), auth.LoginInput{
			Login: "nobody", Password: "open sesame",
		})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})
}

func TestLogin_BannedAccount(t *testing.T) {
	banned := existingUser("u-1", "outcast", "outcast@example.com", "open sesame")
	banned.IsBanned = true
	env := newTestEnv(banned)

	_, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "outcast", Password: "open sesame",
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestRefreshSession_Rotation(t *testing.T) {
	env := newTestEnv(existingUser("u-1", "alice", "alice@example.com", "open sesame"))

	first, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "alice", Password: "open sesame",
	})
	require.NoError(t, err)

	second, err := env.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token is dead: replaying it must fail.
	_, err = env.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestRefreshSession_BanTakesEffectOnRotation(t *testing.T) {
	env := newTestEnv(existingUser("u-1", "alice", "alice@example.com", "open sesame"))

	session, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "alice", Password: "open sesame",
	})
	require.NoError(t, err)

	env.users.users["u-1"].IsBanned = true

	_, err = env.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestLogout_Idempotent(t *testing.T) {
	env := newTestEnv(existingUser("u-1", "alice", "alice@example.com", "open sesame"))

	session, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "alice", Password: "open sesame",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(context.Background(), session.RefreshToken))
	assert.Equal(t, 0, env.sessions.activeCount("u-1"))

	// A second logout with the same token is a no-op, not an error.
	assert.NoError(t, env.service.Logout(context.Background(), session.RefreshToken))
}

func TestResetPassword_RoundTrip(t *testing.T) {
	env := newTestEnv(existingUser("u-1", "alice", "alice@example.com", "old password"))

	_, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "alice", Password: "old password",
	})
	require.NoError(t, err)

	token, err := env.service.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, env.service.ResetPassword(context.Background(), token, "new password"))

	// Every outstanding session is revoked, the token is single-use, and only
	// the new password authenticates.
	assert.Equal(t, 0, env.sessions.activeCount("u-1"))
	assert.Error(t, env.service.ResetPassword(context.Background(), token, "sneaky reuse"))

	_, err = env.service.Login(context.Background(), auth.LoginInput{Login: "alice", Password: "old password"})
	assert.Error(t, err)
	_, err = env.service.Login(context.Background(), auth.LoginInput{Login: "alice", Password: "new password"})
	assert.NoError(t, err)
}

func TestRequestPasswordReset_UnknownEmailStaysQuiet(t *testing.T) {
	env := newTestEnv()

	token, err := env.service.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestVerifyEmail(t *testing.T) {
	env := newTestEnv()

	created, err := env.service.Register(context.Background(), auth.RegisterInput{
		Username: "newreader",
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	var token string
	for candidate := range env.verifTokens.tokens {
		token = candidate
	}
	require.NotEmpty(t, token)

	require.NoError(t, env.service.VerifyEmail(context.Background(), token))
	assert.True(t, env.users.users[created.ID].IsVerified)
	assert.Error(t, env.service.VerifyEmail(context.Background(), token))
}
