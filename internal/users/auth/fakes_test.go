// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/media/mocks"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # In-memory stores

type memoryUsers struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	createErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*auth.User{}}
}

func (m *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.ID == id })
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Username == username })
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("User already exists")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryUsers) update(id string, apply func(*auth.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	apply(user)
	return nil
}

func (m *memoryUsers) SetRefreshToken(_ context.Context, userID, token string) error {
	return m.update(userID, func(u *auth.User) { u.RefreshToken = token })
}

func (m *memoryUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	return m.update(userID, func(u *auth.User) { u.PasswordHash = hash })
}

func (m *memoryUsers) stored(username string) *auth.User {
	user, _ := m.FindByUsername(context.Background(), username)
	return user
}

type memoryThrottle struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryThrottle() *memoryThrottle {
	return &memoryThrottle{counts: map[string]int64{}}
}

func (m *memoryThrottle) Failures(_ context.Context, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[username], nil
}

func (m *memoryThrottle) RecordFailure(_ context.Context, username string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[username]++
	return m.counts[username], nil
}

func (m *memoryThrottle) Reset(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, username)
	return nil
}

// # Fixture

type fixture struct {
	users    *memoryUsers
	throttle *memoryThrottle
	store    *mocks.MockStore
	tokens   *sec.TokenService
	service  *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidtube-test",
	})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	f := &fixture{
		users:    newMemoryUsers(),
		throttle: newMemoryThrottle(),
		store:    store,
		tokens:   tokens,
	}
	f.service = auth.NewService(
		f.users,
		f.throttle,
		tokens,
		media.NewTransferer(store),
		auth.ThrottleConfig{MaxAttempts: 3, Window: 15 * time.Minute},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *fixture) register(t *testing.T, username, password string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    username + "@x.com",
		Password: password,
		FullName: "Test " + username,
	})
	require.NoError(t, err)
	return user
}
