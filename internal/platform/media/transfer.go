// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/pkg/slug"
)

// ErrNoBuffer is the cause of an UploadFailed error when no file was given.
var ErrNoBuffer = errors.New("media: no buffered file")

// Asset is a file that now lives in the remote store.
type Asset struct {
	URL      string
	Kind     Kind
	Duration float64
}

// Transferer moves local buffers to a [Store] and removes remote assets by URL.
type Transferer struct {
	store Store
	now   func() time.Time
}

// NewTransferer wraps store.
func NewTransferer(store Store) *Transferer {
	return &Transferer{store: store, now: time.Now}
}

/*
Transfer uploads buf as an asset of the given kind.

On success the local buffer is released and the remote URL is returned. Video
assets also carry their probed duration. On failure the buffer is left on disk
and the error is an [apperr.UploadFailed].
*/
func (t *Transferer) Transfer(ctx context.Context, buf *upload.Buffer, kind Kind) (Asset, error) {
	if buf == nil {
		return Asset{}, apperr.UploadFailed(ErrNoBuffer)
	}

	file, err := buf.Open()
	if err != nil {
		return Asset{}, apperr.UploadFailed(fmt.Errorf("media: open buffer: %w", err))
	}
	defer file.Close()

	asset := Asset{Kind: kind}
	if kind == KindVideo {
		asset.Duration = ProbeDuration(file)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return Asset{}, apperr.UploadFailed(fmt.Errorf("media: rewind buffer: %w", err))
		}
	}

	key := BuildKey(kind, t.now().Unix(), publicID(buf, kind), buf.Ext())
	asset.URL, err = t.store.Upload(ctx, key, kind, file)
	if err != nil {
		return Asset{}, apperr.UploadFailed(err)
	}

	_ = file.Close()
	if err := buf.Release(); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "upload_release_failed",
			slog.String("field", buf.Field),
			slog.Any("error", err),
		)
	}

	return asset, nil
}

// Remove deletes the remote asset behind url. An empty url is a no-op.
//
// Failures are [apperr.DeleteFailed].
func (t *Transferer) Remove(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return nil
	}

	ref, err := ParseAssetURL(url)
	if err != nil {
		return apperr.DeleteFailed(err)
	}

	if err := t.store.Delete(ctx, ref); err != nil {
		return apperr.DeleteFailed(err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "media_removed",
		slog.String("kind", string(ref.Kind)),
		slog.String("public_id", ref.PublicID),
	)
	return nil
}

// RemoveQuietly is [Transferer.Remove] for paths where a failure must not
// reach the caller. The failure is logged under event.
func (t *Transferer) RemoveQuietly(ctx context.Context, url, event string) {
	if err := t.Remove(ctx, url); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, event,
			slog.String("url", url),
			slog.Any("error", err),
		)
	}
}

func publicID(buf *upload.Buffer, kind Kind) string {
	name := slug.From(buf.Name())
	if name == "" {
		name = string(kind)
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return name + "-" + suffix
}
