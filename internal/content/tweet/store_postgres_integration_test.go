// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package tweet_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/content/tweet"
	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/postgres/pgtest"
)

/*
TestPostgresRepository_Tweet exercises the tweet store against a real database.
*/
func TestPostgresRepository_Tweet(t *testing.T) {
	pool := pgtest.Start(t)
	repo := tweet.NewRepository(pool)
	ctx := context.Background()

	alexID := pgtest.SeedUser(t, pool, "alex")
	mariaID := pgtest.SeedUser(t, pool, "maria")

	post := func(ownerID, content string) *tweet.Tweet {
		item := &tweet.Tweet{ID: uuid.NewString(), Content: content, OwnerID: ownerID}
		require.NoError(t, repo.Create(ctx, item))
		return item
	}

	first := post(alexID, "first")
	second := post(alexID, "second")
	post(mariaID, "hello")

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)
	assert.Equal(t, alexID, got.Owner.ID)
	assert.Equal(t, "alex", got.Owner.Username)

	owned, err := repo.ListByOwner(ctx, alexID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, second.ID, owned[0].ID)

	page, total, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	rest, _, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	require.NoError(t, repo.UpdateContent(ctx, first.ID, "first, edited"))
	got, err = repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first, edited", got.Content)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.FindByID(ctx, first.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.True(t, apperr.HasCode(repo.Delete(ctx, first.ID), apperr.CodeNotFound))
	assert.True(t, apperr.HasCode(repo.UpdateContent(ctx, first.ID, "x"), apperr.CodeNotFound))
}
