// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"io"
)

// Store is the remote media store.
type Store interface {
	// Upload writes body under key and returns its public URL.
	Upload(ctx context.Context, key string, kind Kind, body io.Reader) (string, error)

	// Delete removes the asset referenced by ref.
	Delete(ctx context.Context, ref AssetRef) error
}
