// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/content/playlist"
	"github.com/taibuivan/vidtube/internal/content/video"
	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/projection"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// # In-memory repositories

type memoryPlaylists struct {
	mu        sync.Mutex
	playlists map[string]*playlist.Playlist
	owners    map[string]projection.Owner
	clock     time.Time
}

func newMemoryPlaylists(owners ...projection.Owner) *memoryPlaylists {
	m := &memoryPlaylists{
		playlists: map[string]*playlist.Playlist{},
		owners:    map[string]projection.Owner{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, owner := range owners {
		m.owners[owner.ID] = owner
	}
	return m
}

func (m *memoryPlaylists) view(p *playlist.Playlist) *playlist.Playlist {
	clone := *p
	clone.Videos = append([]string{}, p.Videos...)
	clone.Owner = m.owners[p.OwnerID]
	return &clone
}

func (m *memoryPlaylists) FindByID(_ context.Context, id string) (*playlist.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[id]
	if !ok {
		return nil, apperr.NotFound("Playlist")
	}
	return m.view(p), nil
}

func (m *memoryPlaylists) ListByOwner(_ context.Context, ownerID string) ([]*playlist.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*playlist.Playlist, 0)
	for _, p := range m.playlists {
		if p.OwnerID == ownerID {
			out = append(out, m.view(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryPlaylists) Create(_ context.Context, p *playlist.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	p.CreatedAt, p.UpdatedAt = m.clock, m.clock
	clone := *p
	m.playlists[p.ID] = &clone
	return nil
}

func (m *memoryPlaylists) write(id string, apply func(*playlist.Playlist)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[id]
	if !ok {
		return apperr.NotFound("Playlist")
	}
	apply(p)
	return nil
}

func (m *memoryPlaylists) UpdateDetails(_ context.Context, id, name, description string) error {
	return m.write(id, func(p *playlist.Playlist) { p.Name, p.Description = name, description })
}

func (m *memoryPlaylists) Delete(_ context.Context, id string) error {
	return m.write(id, func(*playlist.Playlist) { delete(m.playlists, id) })
}

func (m *memoryPlaylists) AppendVideo(_ context.Context, id, videoID string) error {
	return m.write(id, func(p *playlist.Playlist) { p.Videos = append(p.Videos, videoID) })
}

func (m *memoryPlaylists) RemoveVideo(_ context.Context, id, videoID string) error {
	return m.write(id, func(p *playlist.Playlist) {
		kept := p.Videos[:0]
		for _, v := range p.Videos {
			if v != videoID {
				kept = append(kept, v)
			}
		}
		p.Videos = kept
	})
}

type videoSet map[string]bool

func (s videoSet) FindByID(_ context.Context, id string) (*video.Video, error) {
	if !s[id] {
		return nil, apperr.NotFound("Video")
	}
	return &video.Video{ID: id}, nil
}

// # Fixture

var (
	alexOwner = projection.Owner{ID: "u1", Username: "alex", FullName: "Alex"}

	alex  = &sec.AuthClaims{UserID: "u1", Username: "alex", Role: sec.RoleUser}
	maria = &sec.AuthClaims{UserID: "u2", Username: "maria", Role: sec.RoleUser}
	admin = &sec.AuthClaims{UserID: "a1", Username: "root", Role: sec.RoleAdmin}
)

func newService() (*playlist.Service, *memoryPlaylists) {
	repo := newMemoryPlaylists(alexOwner)
	videos := videoSet{"v1": true, "v2": true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return playlist.NewService(repo, videos, logger), repo
}

func create(t *testing.T, service *playlist.Service, actor *sec.AuthClaims, name string) *playlist.Playlist {
	t.Helper()
	created, err := service.Create(context.Background(), actor, playlist.DetailsInput{Name: name, Description: "About " + name})
	require.NoError(t, err)
	return created
}

/*
TestService_Create validates both fields and starts with no videos.
*/
func TestService_Create(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	_, err := service.Create(ctx, alex, playlist.DetailsInput{Name: "Mix"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, alex, playlist.DetailsInput{Description: "  "})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	created := create(t, service, alex, "Mix")
	assert.Equal(t, "Mix", created.Name)
	assert.Empty(t, created.Videos)
	assert.Equal(t, alexOwner, created.Owner)
}

/*
TestService_Delete_Twice reports NotFound on the second delete.
*/
func TestService_Delete_Twice(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()
	created := create(t, service, alex, "Mix")

	require.NoError(t, service.Delete(ctx, alex, created.ID))

	err := service.Delete(ctx, alex, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestService_OwnershipRules applies the owner-or-admin rule to every mutation.
*/
func TestService_OwnershipRules(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()
	created := create(t, service, alex, "Mix")

	_, err := service.Update(ctx, maria, created.ID, playlist.DetailsInput{Name: "Mine", Description: "Now"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.AddVideo(ctx, maria, created.ID, "v1")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.RemoveVideo(ctx, maria, created.ID, "v1")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = service.Delete(ctx, maria, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	assert.Equal(t, "Mix", repo.playlists[created.ID].Name)
	assert.Empty(t, repo.playlists[created.ID].Videos)

	updated, err := service.Update(ctx, admin, created.ID, playlist.DetailsInput{Name: "Curated", Description: "By staff"})
	require.NoError(t, err)
	assert.Equal(t, "Curated", updated.Name)

	require.NoError(t, service.Delete(ctx, admin, created.ID))
}

/*
TestService_Membership appends in order, keeps duplicates and removes every
occurrence.
*/
func TestService_Membership(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()
	created := create(t, service, alex, "Mix")

	_, err := service.AddVideo(ctx, alex, created.ID, "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	for _, id := range []string{"v1", "v2", "v1"} {
		_, err := service.AddVideo(ctx, alex, created.ID, id)
		require.NoError(t, err)
	}

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2", "v1"}, got.Videos)

	removed, err := service.RemoveVideo(ctx, alex, created.ID, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, removed.Videos)

	unchanged, err := service.RemoveVideo(ctx, alex, created.ID, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, unchanged.Videos)

	_, err = service.AddVideo(ctx, alex, "missing", "v1")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestService_ListByUser returns newest first.
*/
func TestService_ListByUser(t *testing.T) {
	service, _ := newService()
	create(t, service, alex, "First")
	create(t, service, alex, "Second")
	create(t, service, maria, "Other")

	lists, err := service.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Second", lists[0].Name)
}
