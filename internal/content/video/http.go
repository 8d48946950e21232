// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the video endpoints.
type Handler struct {
	videoService *Service
	uploads      upload.Options
}

// NewHandler constructs a new video [Handler].
func NewHandler(service *Service, uploads upload.Options) *Handler {
	return &Handler{videoService: service, uploads: uploads}
}

// Register mounts the video routes on router. Every route requires authentication.
//
// Routes:
//   - POST   /create                    : Upload a video and its thumbnail (multipart).
//   - DELETE /delete/{videoId}          : Delete as owner or admin.
//   - PUT    /update/{videoId}          : Partial update, optional new thumbnail.
//   - GET    /get-video/{videoId}       : Fetch and count one view.
//   - GET    /get-user-videos/{userId}  : Every video of one user.
//   - GET    /                          : Paginated listing.
//   - DELETE /admin/delete-video        : Admin-only delete by JSON videoId.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/create", handler.create)
		authed.Delete("/delete/{videoId}", handler.delete)
		authed.Put("/update/{videoId}", handler.update)
		authed.Get("/get-video/{videoId}", handler.get)
		authed.Get("/get-user-videos/{userId}", handler.listByUser)
		authed.Get("/", handler.list)

		authed.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/admin/delete-video", handler.adminDelete)
	})
}

// RegisterHistory mounts GET /history on the user router.
func (handler *Handler) RegisterHistory(router chi.Router) {
	router.With(middleware.RequireAuth).Get("/history", handler.history)
}

type updateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublished *bool  `json:"isPublished"`
}

type adminDeleteRequest struct {
	VideoID string `json:"videoId"`
}

// parsePublished reads the isPublished form value. Absent means published.
func parsePublished(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, validate.RequiredError(FieldIsPublished, "Must be true or false")
	}
	return &value, nil
}

/*
POST /api/v1/video/create.

Request:
  - body: multipart form (title, description, isPublished, files video and thumbnail)

Response:
  - 201: Video: The new video with its owner
  - 400: Missing fields or unsupported video format
  - 500: Upload failed
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	files, err := handler.uploads.Parse(request, FileVideo, FileThumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer files.ReleaseAll(ctxutil.GetLogger(request.Context()))

	isPublished, err := parsePublished(request.FormValue(FieldIsPublished))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := CreateInput{
		Title:       request.FormValue(FieldTitle),
		Description: request.FormValue(FieldDescription),
		IsPublished: isPublished == nil || *isPublished,
		Video:       files.Get(FileVideo),
		Thumbnail:   files.Get(FileThumbnail),
	}

	video, err := handler.videoService.Create(request.Context(), claims, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video, "Video has been created")
}

/*
DELETE /api/v1/video/delete/{videoId}.

Response:
  - 200: Deleted together with both remote assets
  - 403: Caller is neither the owner nor an admin
  - 404: No such video
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID, err := requestutil.UUIDParam(request, FieldVideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.videoService.Delete(request.Context(), claims, videoID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Video has been deleted")
}

/*
PUT /api/v1/video/update/{videoId}.

Request:
  - body: multipart form (title, description, isPublished, optional file thumbnail)
    or JSON {"title", "description", "isPublished"}

Response:
  - 200: Video: The updated video with its owner
  - 403: Caller is neither the owner nor an admin
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID, err := requestutil.UUIDParam(request, FieldVideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if upload.IsMultipart(request) {
		files, err := handler.uploads.Parse(request, FileThumbnail)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		defer files.ReleaseAll(ctxutil.GetLogger(request.Context()))

		isPublished, err := parsePublished(request.FormValue(FieldIsPublished))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		input = UpdateInput{
			Title:       request.FormValue(FieldTitle),
			Description: request.FormValue(FieldDescription),
			IsPublished: isPublished,
			Thumbnail:   files.Get(FileThumbnail),
		}
	} else {
		var body updateRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = UpdateInput{Title: body.Title, Description: body.Description, IsPublished: body.IsPublished}
	}

	video, err := handler.videoService.Update(request.Context(), claims, videoID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video has been updated")
}

// GET /api/v1/video/get-video/{videoId}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	videoID, err := requestutil.UUIDParam(request, FieldVideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.Watch(request.Context(), requestutil.Claims(request), videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video fetched successfully")
}

// GET /api/v1/video/get-user-videos/{userId}.
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videos, err := handler.videoService.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, videos, "User videos fetched successfully")
}

// GET /api/v1/video/?page=&limit=.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.videoService.List(request.Context(), requestutil.Claims(request), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Videos fetched successfully")
}

/*
DELETE /api/v1/video/admin/delete-video.

Request:
  - body: {"videoId": "<uuid>"}
*/
func (handler *Handler) adminDelete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input adminDeleteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID, err := requestutil.ParseUUID(FieldVideoID, input.VideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.videoService.AdminDelete(request.Context(), claims, videoID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Video has been deleted")
}

// GET /api/v1/user/history.
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videos, err := handler.videoService.History(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, videos, "Watch history fetched successfully")
}
