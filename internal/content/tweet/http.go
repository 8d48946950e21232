// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the tweet endpoints.
type Handler struct {
	tweetService *Service
}

// NewHandler constructs a new tweet [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{tweetService: service}
}

// Register mounts the tweet routes on router. Every route requires authentication.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/create", handler.create)
		authed.Delete("/delete/{tweetId}", handler.delete)
		authed.Put("/update/{tweetId}", handler.update)
		authed.Get("/get-tweet/{tweetId}", handler.get)
		authed.Get("/get-user-tweets/{userId}", handler.listByUser)
		authed.Get("/", handler.list)

		authed.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/admin/delete-tweet", handler.adminDelete)
	})
}

type createRequest struct {
	Content string `json:"content"`
}

type updateRequest struct {
	EditedContent string `json:"editedContent"`
}

type adminDeleteRequest struct {
	TweetID string `json:"tweetId"`
}

/*
POST /api/v1/tweet/create.

Response:
  - 201: Tweet: The new tweet with its owner
  - 400: Empty content
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweet, err := handler.tweetService.Create(request.Context(), claims, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tweet, "Tweet created successfully")
}

/*
DELETE /api/v1/tweet/delete/{tweetId}.

Response:
  - 200: Deleted
  - 403: Caller is neither the owner nor an admin
  - 404: No such tweet
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweetID, err := requestutil.UUIDParam(request, FieldTweetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.tweetService.Delete(request.Context(), claims, tweetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Tweet deleted successfully")
}

/*
PUT /api/v1/tweet/update/{tweetId}.

Request:
  - body: {"editedContent": "..."}

Response:
  - 200: Tweet: The updated tweet with its owner
  - 403: Caller is neither the owner nor an admin
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweetID, err := requestutil.UUIDParam(request, FieldTweetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweet, err := handler.tweetService.Update(request.Context(), claims, tweetID, input.EditedContent)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tweet, "Tweet updated successfully")
}

// GET /api/v1/tweet/get-tweet/{tweetId}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	tweetID, err := requestutil.UUIDParam(request, FieldTweetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweet, err := handler.tweetService.Get(request.Context(), tweetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tweet, "Tweet fetched successfully")
}

// GET /api/v1/tweet/get-user-tweets/{userId}.
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweets, err := handler.tweetService.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tweets, "User tweets fetched successfully")
}

// GET /api/v1/tweet/?page=&limit=.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.tweetService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Tweets fetched successfully")
}

/*
DELETE /api/v1/tweet/admin/delete-tweet.

Request:
  - body: {"tweetId": "<uuid>"}
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

	tweetID, err := requestutil.ParseUUID(FieldTweetID, input.TweetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.tweetService.AdminDelete(request.Context(), claims, tweetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Tweet deleted successfully")
}
