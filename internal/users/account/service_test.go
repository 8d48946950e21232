// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/media/mocks"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

const (
	oldAvatar = "https://cdn.example.com/image/upload/v100/old-avatar.png"
	newAvatar = "https://cdn.example.com/image/upload/v200/new-avatar.png"
)

// # In-memory repository

type memoryAccounts struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	updateErr error
}

func newMemoryAccounts(users ...*auth.User) *memoryAccounts {
	m := &memoryAccounts{users: map[string]*auth.User{}}
	for _, user := range users {
		m.users[user.ID] = user
	}
	return m
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (m *memoryAccounts) UpdateDetails(_ context.Context, userID, fullName, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, other := range m.users {
		if id != userID && other.Email == email {
			return nil, apperr.Conflict("Email is already registered")
		}
	}
	user, ok := m.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.FullName, user.Email = fullName, email
	clone := *user
	return &clone, nil
}

func (m *memoryAccounts) UpdateImage(_ context.Context, userID string, image account.Image, url string) (*auth.User, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	if image == account.ImageCoverImage {
		user.CoverImage = url
	} else {
		user.Avatar = url
	}
	clone := *user
	return &clone, nil
}

func (m *memoryAccounts) List(_ context.Context, limit, offset int) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*auth.User, 0, len(m.users))
	for _, user := range m.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*auth.User{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (m *memoryAccounts) DeleteByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, user := range m.users {
		if user.Username == username {
			delete(m.users, id)
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

// # Fixture

func seedUser(id, username string, created time.Time) *auth.User {
	return &auth.User{
		ID:        id,
		Username:  username,
		Email:     username + "@x.com",
		FullName:  "Name " + username,
		Role:      sec.RoleUser,
		CreatedAt: created,
	}
}

func newService(t *testing.T, repo *memoryAccounts) (*account.Service, *mocks.MockStore) {
	t.Helper()
	store := mocks.NewMockStore(gomock.NewController(t))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repo, media.NewTransferer(store), logger), store
}

func imageBuffer(t *testing.T, field string) *upload.Buffer {
	t.Helper()
	path := filepath.Join(t.TempDir(), field+".png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))
	return &upload.Buffer{Field: field, Path: path, Filename: "new avatar.png", Size: 3}
}

/*
TestService_UpdateDetails covers the at-least-one rule and the change check.
*/
func TestService_UpdateDetails(t *testing.T) {
	alex := seedUser("u1", "alex", time.Now())
	repo := newMemoryAccounts(alex, seedUser("u2", "maria", time.Now()))
	service, _ := newService(t, repo)
	ctx := context.Background()

	_, err := service.UpdateDetails(ctx, "u1", account.UpdateDetailsInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateDetails(ctx, "u1", account.UpdateDetailsInput{Email: "not-an-email"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateDetails(ctx, "u1", account.UpdateDetailsInput{Email: "alex@x.com"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateDetails(ctx, "u1", account.UpdateDetailsInput{Email: "maria@x.com"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	updated, err := service.UpdateDetails(ctx, "u1", account.UpdateDetailsInput{FullName: "Alex Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Alex Renamed", updated.FullName)
	assert.Equal(t, "alex@x.com", updated.Email)
}

/*
TestService_ReplaceImage_DeletesOldAfterPersist verifies the replacement order:
upload new, persist, then delete old.
*/
func TestService_ReplaceImage_DeletesOldAfterPersist(t *testing.T) {
	alex := seedUser("u1", "alex", time.Now())
	alex.Avatar = oldAvatar
	repo := newMemoryAccounts(alex)
	service, store := newService(t, repo)

	gomock.InOrder(
		store.EXPECT().Upload(gomock.Any(), gomock.Any(), media.KindImage, gomock.Any()).Return(newAvatar, nil),
		store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ref media.AssetRef) error {
				assert.Equal(t, oldAvatar, ref.URL)
				assert.Equal(t, newAvatar, repo.users["u1"].Avatar)
				return nil
			}),
	)

	buf := imageBuffer(t, "avatar")
	updated, err := service.ReplaceImage(context.Background(), "u1", account.ImageAvatar, buf)
	require.NoError(t, err)
	assert.Equal(t, newAvatar, updated.Avatar)
	assert.True(t, buf.Released())
}

/*
TestService_ReplaceImage_OldDeleteFailureIsSwallowed keeps the new image when
removing the previous one fails.
*/
func TestService_ReplaceImage_OldDeleteFailureIsSwallowed(t *testing.T) {
	alex := seedUser("u1", "alex", time.Now())
	alex.CoverImage = oldAvatar
	service, store := newService(t, newMemoryAccounts(alex))

	store.EXPECT().Upload(gomock.Any(), gomock.Any(), media.KindImage, gomock.Any()).Return(newAvatar, nil)
	store.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("bucket offline"))

	updated, err := service.ReplaceImage(context.Background(), "u1", account.ImageCoverImage, imageBuffer(t, "coverImage"))
	require.NoError(t, err)
	assert.Equal(t, newAvatar, updated.CoverImage)
}

/*
TestService_ReplaceImage_PersistFailureRemovesNewUpload verifies the old image
is untouched and the new one is rolled back.
*/
func TestService_ReplaceImage_PersistFailureRemovesNewUpload(t *testing.T) {
	alex := seedUser("u1", "alex", time.Now())
	alex.Avatar = oldAvatar
	repo := newMemoryAccounts(alex)
	persistErr := errors.New("update failed")
	repo.updateErr = persistErr
	service, store := newService(t, repo)

	store.EXPECT().Upload(gomock.Any(), gomock.Any(), media.KindImage, gomock.Any()).Return(newAvatar, nil)
	store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ref media.AssetRef) error {
			assert.Equal(t, newAvatar, ref.URL)
			return nil
		})

	_, err := service.ReplaceImage(context.Background(), "u1", account.ImageAvatar, imageBuffer(t, "avatar"))
	assert.Same(t, persistErr, err)
	assert.Equal(t, oldAvatar, repo.users["u1"].Avatar)
}

/*
TestService_ReplaceImage_UploadFailureKeepsCurrentImage leaves the stored
avatar in place and never deletes anything when the upload fails.
*/
func TestService_ReplaceImage_UploadFailureKeepsCurrentImage(t *testing.T) {
	alex := seedUser("u1", "alex", time.Now())
	alex.Avatar = oldAvatar
	repo := newMemoryAccounts(alex)
	service, store := newService(t, repo)

	store.EXPECT().Upload(gomock.Any(), gomock.Any(), media.KindImage, gomock.Any()).Return("", errors.New("quota"))
	store.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	_, err := service.ReplaceImage(context.Background(), "u1", account.ImageAvatar, imageBuffer(t, "avatar"))
	assert.True(t, apperr.HasCode(err, apperr.CodeUploadFailed))
	assert.Equal(t, oldAvatar, repo.users["u1"].Avatar)
}

/*
TestService_ReplaceImage_RequiresFile rejects a request without a file.
*/
func TestService_ReplaceImage_RequiresFile(t *testing.T) {
	service, _ := newService(t, newMemoryAccounts(seedUser("u1", "alex", time.Now())))

	_, err := service.ReplaceImage(context.Background(), "u1", account.ImageAvatar, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_ListUsers paginates newest first.
*/
func TestService_ListUsers(t *testing.T) {
	base := time.Now()
	repo := newMemoryAccounts(
		seedUser("u1", "alex", base.Add(-2*time.Hour)),
		seedUser("u2", "maria", base.Add(-time.Hour)),
		seedUser("u3", "sam", base),
	)
	service, _ := newService(t, repo)

	page, err := service.ListUsers(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "sam", page.Items[0].Username)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

/*
TestService_DeleteUser removes the row and both images, and reports the rest.
*/
func TestService_DeleteUser(t *testing.T) {
	alex := seedUser("u1", "alex", time.Now())
	alex.Avatar = oldAvatar
	alex.CoverImage = newAvatar
	repo := newMemoryAccounts(alex, seedUser("u2", "maria", time.Now()))
	service, store := newService(t, repo)

	store.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("bucket offline"))

	result, err := service.DeleteUser(context.Background(), " ALEX ")
	require.NoError(t, err)
	assert.Equal(t, "u1", result.DeletedUser.ID)
	require.Len(t, result.RemainingUsers.Items, 1)
	assert.Equal(t, "maria", result.RemainingUsers.Items[0].Username)

	_, err = service.DeleteUser(context.Background(), "alex")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.DeleteUser(context.Background(), "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
