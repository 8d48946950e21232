// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/upload"
)

func multipartRequest(t *testing.T, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + filename))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/video/create", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

/*
TestFromRequest_BuffersNamedFields verifies files are copied to disk and text fields stay readable.
*/
func TestFromRequest_BuffersNamedFields(t *testing.T) {
	dir := t.TempDir()
	request := multipartRequest(t,
		map[string]string{"video": "Clip.MP4", "thumbnail": "thumb.png", "ignored": "x.txt"},
		map[string]string{"title": "First upload"},
	)

	set, err := upload.FromRequest(request, dir, 1<<20, "video", "thumbnail", "avatar")
	require.NoError(t, err)

	video := set.Get("video")
	require.NotNil(t, video)
	assert.Equal(t, ".mp4", video.Ext())
	assert.Equal(t, "Clip", video.Name())
	assert.Equal(t, int64(len("content of Clip.MP4")), video.Size)
	assert.True(t, strings.HasPrefix(video.Path, dir))

	assert.NotNil(t, set.Get("thumbnail"))
	assert.Nil(t, set.Get("avatar"))
	assert.Nil(t, set.Get("ignored"))
	assert.Len(t, set.All(), 2)
	assert.Equal(t, "First upload", request.FormValue("title"))

	set.ReleaseAll(nil)
	for _, buf := range set.All() {
		assert.True(t, buf.Released())
		_, statErr := os.Stat(buf.Path)
		assert.True(t, os.IsNotExist(statErr))
	}
}

/*
TestBuffer_ReleaseIsIdempotent checks a released buffer can be released again.
*/
func TestBuffer_ReleaseIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/avatar-1.png"
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))

	buf := &upload.Buffer{Field: "avatar", Path: path, Filename: "me.png"}
	require.NoError(t, buf.Release())
	require.NoError(t, buf.Release())
	assert.True(t, buf.Released())
}

/*
TestFromRequest_Rejects covers non-multipart and oversized bodies.
*/
func TestFromRequest_Rejects(t *testing.T) {
	t.Run("not_multipart", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		request.Header.Set("Content-Type", "application/json")

		_, err := upload.FromRequest(request, t.TempDir(), 1<<20, "avatar")
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})

	t.Run("too_large", func(t *testing.T) {
		request := multipartRequest(t, map[string]string{"avatar": "big.png"}, nil)

		_, err := upload.FromRequest(request, t.TempDir(), 16, "avatar")
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})
}
