// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/upload"
)

// rollbackTimeout bounds cleanup after the request context is gone.
const rollbackTimeout = 30 * time.Second

/*
Rollback records the remote assets created by one attempt so they can be
removed when a later step fails.

Usage:

	rb := transferer.Begin(input.Video, input.Thumbnail)
	video, err := rb.Transfer(ctx, input.Video, media.KindVideo)
	if err != nil {
	    return nil, rb.Undo(ctx, err)
	}
	...
	if err := store.Create(ctx, record); err != nil {
	    return nil, rb.Undo(ctx, err)
	}
*/
type Rollback struct {
	transferer *Transferer
	buffers    []*upload.Buffer
	assets     []Asset
}

// Begin starts a compensation record covering the given request buffers.
func (t *Transferer) Begin(buffers ...*upload.Buffer) *Rollback {
	held := make([]*upload.Buffer, 0, len(buffers))
	for _, buf := range buffers {
		if buf != nil {
			held = append(held, buf)
		}
	}
	return &Rollback{transferer: t, buffers: held}
}

// Transfer uploads buf and tracks the resulting asset.
func (rb *Rollback) Transfer(ctx context.Context, buf *upload.Buffer, kind Kind) (Asset, error) {
	asset, err := rb.transferer.Transfer(ctx, buf, kind)
	if err != nil {
		return Asset{}, err
	}
	rb.Track(asset)
	return asset, nil
}

// Track records an asset that must be removed if the attempt fails.
func (rb *Rollback) Track(asset Asset) {
	if asset.URL == "" {
		return
	}
	rb.assets = append(rb.assets, asset)
}

// Tracked returns the assets recorded so far.
func (rb *Rollback) Tracked() []Asset {
	return append([]Asset(nil), rb.assets...)
}

/*
Undo removes every tracked asset, newest first, and releases the buffers that
were never consumed. Removal failures are logged and never replace cause.

Returns:
  - error: cause, unchanged
*/
func (rb *Rollback) Undo(ctx context.Context, cause error) error {
	logger := ctxutil.GetLogger(ctx)

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	for i := len(rb.assets) - 1; i >= 0; i-- {
		asset := rb.assets[i]
		if err := rb.transferer.Remove(cleanupCtx, asset.URL); err != nil {
			logger.ErrorContext(ctx, "media_rollback_failed",
				slog.String("url", asset.URL),
				slog.Any("error", err),
				slog.Any("cause", cause),
			)
		}
	}

	for _, buf := range rb.buffers {
		if err := buf.Release(); err != nil {
			logger.WarnContext(ctx, "upload_release_failed",
				slog.String("field", buf.Field),
				slog.Any("error", err),
			)
		}
	}

	if len(rb.assets) > 0 {
		logger.WarnContext(ctx, "media_rolled_back",
			slog.Int("assets", len(rb.assets)),
			slog.Any("cause", cause),
		)
	}
	rb.assets = nil

	return cause
}
