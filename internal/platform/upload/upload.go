// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload buffers multipart files on local disk before they are sent to
the media store.

A [Buffer] lives for at most one request. The media transferer releases it
after a successful upload; the handler releases whatever is left with
[Set.ReleaseAll] when the request ends.

Usage:

	files, err := upload.FromRequest(r, cfg.UploadTempDir, cfg.UploadMaxBytes, "video", "thumbnail")
	if err != nil {
	    return err
	}
	defer files.ReleaseAll(logger)
*/
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
)

// # Buffer

// Buffer is one file copied to local disk.
type Buffer struct {
	Field    string
	Path     string
	Filename string
	Size     int64

	mu       sync.Mutex
	released bool
}

// Ext returns the lowercase extension of the client-supplied filename, with the dot.
func (b *Buffer) Ext() string {
	return strings.ToLower(filepath.Ext(b.Filename))
}

// Name returns the client-supplied filename without its extension.
func (b *Buffer) Name() string {
	base := filepath.Base(b.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Open opens the buffered file for reading.
func (b *Buffer) Open() (*os.File, error) {
	return os.Open(b.Path)
}

// Release deletes the local file. Calling it more than once is a no-op.
func (b *Buffer) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return nil
	}
	if err := os.Remove(b.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("upload: release %s: %w", b.Path, err)
	}
	b.released = true
	return nil
}

// Released reports whether the local file has been deleted.
func (b *Buffer) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// # Set

// Set holds the buffers of one request keyed by form field.
type Set struct {
	buffers map[string]*Buffer
	order   []string
}

// NewSet builds a set from already buffered files.
func NewSet(buffers ...*Buffer) *Set {
	set := &Set{buffers: make(map[string]*Buffer, len(buffers))}
	for _, buf := range buffers {
		if buf == nil {
			continue
		}
		set.add(buf)
	}
	return set
}

func (s *Set) add(buf *Buffer) {
	if _, exists := s.buffers[buf.Field]; !exists {
		s.order = append(s.order, buf.Field)
	}
	s.buffers[buf.Field] = buf
}

// Get returns the buffer for field, or nil when the field was not sent.
func (s *Set) Get(field string) *Buffer {
	if s == nil {
		return nil
	}
	return s.buffers[field]
}

// All returns the buffers in form order.
func (s *Set) All() []*Buffer {
	if s == nil {
		return nil
	}
	out := make([]*Buffer, 0, len(s.order))
	for _, field := range s.order {
		out = append(out, s.buffers[field])
	}
	return out
}

// ReleaseAll deletes every buffer not yet released. Failures are logged.
func (s *Set) ReleaseAll(logger *slog.Logger) {
	for _, buf := range s.All() {
		if err := buf.Release(); err != nil && logger != nil {
			logger.Warn("upload_release_failed", slog.String("field", buf.Field), slog.Any("error", err))
		}
	}
}

// # Request Parsing

// Options locates and bounds the buffers of one request.
type Options struct {
	Dir      string
	MaxBytes int64
}

// Parse is [FromRequest] with the configured directory and limit.
func (o Options) Parse(request *http.Request, fields ...string) (*Set, error) {
	return FromRequest(request, o.Dir, o.MaxBytes, fields...)
}

// IsMultipart reports whether the request carries a multipart body.
func IsMultipart(request *http.Request) bool {
	return strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data")
}

// FromRequest parses a multipart body and copies each named file field into dir.
//
// Missing fields are not an error; services decide which files are required.
// Text fields stay readable through [http.Request.FormValue].
func FromRequest(request *http.Request, dir string, maxBytes int64, fields ...string) (*Set, error) {
	if !IsMultipart(request) {
		return nil, apperr.ValidationError("Request must be multipart/form-data")
	}

	request.Body = http.MaxBytesReader(nil, request.Body, maxBytes)
	if err := request.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.ValidationError(fmt.Sprintf("Upload exceeds %d bytes", maxBytes))
		}
		return nil, apperr.ValidationError("Malformed multipart body")
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("upload: prepare temp dir: %w", err)
	}

	set := NewSet()
	for _, field := range fields {
		headers := request.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}

		buf, err := copyToDisk(dir, field, headers[0])
		if err != nil {
			set.ReleaseAll(nil)
			return nil, err
		}
		set.add(buf)
	}

	return set, nil
}

func copyToDisk(dir, field string, header *multipart.FileHeader) (*Buffer, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("upload: open part %s: %w", field, err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.CreateTemp(dir, field+"-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("upload: create temp file: %w", err)
	}

	size, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("upload: buffer %s: %w", field, err)
	}

	return &Buffer{
		Field:    field,
		Path:     dst.Name(),
		Filename: header.Filename,
		Size:     size,
	}, nil
}
