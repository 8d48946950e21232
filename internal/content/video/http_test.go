// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/content/video"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/media/mocks"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/platform/middleware/authtest"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
)

const (
	seededID = "0190f3a2-7c4e-7b1a-9c3d-2e5f6a7b8c9d"
	mariaID  = "0190f3a2-7c4e-7b1a-9c3d-000000000002"
)

// viewer is an account whose id is a real UUID, as the history column requires.
var viewer = &sec.AuthClaims{UserID: mariaID, Username: "maria", Role: sec.RoleUser}

type httpFixture struct {
	router http.Handler
	tokens *sec.TokenService
	repo   *memoryVideos
	store  *mocks.MockStore
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidtube-test",
	})
	require.NoError(t, err)

	service, repo, store := newService(t)
	handler := video.NewHandler(service, upload.Options{Dir: t.TempDir(), MaxBytes: 1 << 20})

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens, authtest.NewDirectory(alex, maria, admin, viewer)))
	router.Route("/video", handler.Register)
	router.Route("/user", handler.RegisterHistory)

	return &httpFixture{router: router, tokens: tokens, repo: repo, store: store}
}

func (f *httpFixture) send(t *testing.T, request *http.Request, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	t.Helper()
	if claims != nil {
		token, err := f.tokens.IssueAccessToken(sec.Identity{ID: claims.UserID, Username: claims.Username, Role: claims.Role})
		require.NoError(t, err)
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

/*
TestHandler_Create_Multipart uploads a video and its thumbnail.
*/
func TestHandler_Create_Multipart(t *testing.T) {
	f := newHTTPFixture(t)

	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), media.KindVideo, gomock.Any()).Return(clipURL, nil)
	f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), media.KindImage, gomock.Any()).Return(thumbURL, nil)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Trip", "description": "Mountains", "isPublished": "false"},
		map[string]string{"video": "trip.mp4", "thumbnail": "trip.png"},
	)
	request := httptest.NewRequest(http.MethodPost, "/video/create", body)
	request.Header.Set("Content-Type", contentType)

	recorder := f.send(t, request, alex)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"isPublished":false`)
	assert.Contains(t, recorder.Body.String(), `"username":"alex"`)
}

/*
TestHandler_Create_RejectsBadPublishFlag fails before any upload.
*/
func TestHandler_Create_RejectsBadPublishFlag(t *testing.T) {
	f := newHTTPFixture(t)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Trip", "description": "Mountains", "isPublished": "maybe"},
		map[string]string{"video": "trip.mp4", "thumbnail": "trip.png"},
	)
	request := httptest.NewRequest(http.MethodPost, "/video/create", body)
	request.Header.Set("Content-Type", contentType)

	assert.Equal(t, http.StatusBadRequest, f.send(t, request, alex).Code)
}

/*
TestHandler_GetVideo_CountsViewsAndHistory fetches twice and reads the history
from the user router.
*/
func TestHandler_GetVideo_CountsViewsAndHistory(t *testing.T) {
	f := newHTTPFixture(t)
	seedVideo(f.repo, seededID, true)

	for i := 0; i < 2; i++ {
		recorder := f.send(t, httptest.NewRequest(http.MethodGet, "/video/get-video/"+seededID, nil), viewer)
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	assert.Equal(t, int64(2), f.repo.videos[seededID].Views)

	recorder := f.send(t, httptest.NewRequest(http.MethodGet, "/user/history", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = f.send(t, httptest.NewRequest(http.MethodGet, "/user/history", nil), viewer)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, strings.Count(recorder.Body.String(), `"id":"`+seededID+`"`))
}

/*
TestHandler_AdminDeleteVideo gates the route on the admin role.
*/
func TestHandler_AdminDeleteVideo(t *testing.T) {
	f := newHTTPFixture(t)
	seedVideo(f.repo, seededID, true)
	body := `{"videoId":"` + seededID + `"}`

	request := httptest.NewRequest(http.MethodDelete, "/video/admin/delete-video", strings.NewReader(body))
	assert.Equal(t, http.StatusForbidden, f.send(t, request, alex).Code)

	f.store.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	request = httptest.NewRequest(http.MethodDelete, "/video/admin/delete-video", strings.NewReader(body))
	assert.Equal(t, http.StatusOK, f.send(t, request, admin).Code)
	assert.Empty(t, f.repo.videos)
}
