// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the HTTP layer for profile management and administration.
type Handler struct {
	accountService *Service
	uploads        upload.Options
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, uploads upload.Options) *Handler {
	return &Handler{accountService: service, uploads: uploads}
}

// Register attaches the profile and admin routes to the shared user router.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/get-user", handler.getUser)
		r.Put("/update-user", handler.updateUser)
		r.Put("/update-avatar", handler.replaceImage(ImageAvatar))
		r.Put("/update-cover-image", handler.replaceImage(ImageCoverImage))
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))

		r.Get("/all-users", handler.listUsers)
		r.Delete("/delete-user", handler.deleteUser)
	})
}

// # Profile Endpoints

/*
GET /api/v1/user/get-user.

Description: Retrieves the profile of the authenticated user.

Response:
  - 200: User: Profile without password or refresh token
  - 401: Authentication required
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "User fetched successfully")
}

type updateUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

/*
PUT /api/v1/user/update-user.

Request:
  - body: updateUserRequest, at least one field

Response:
  - 200: User: The updated profile
  - 400: Nothing to change or invalid email
  - 409: Email already registered
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateDetails(request.Context(), claims.UserID, UpdateDetailsInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "User details updated")
}

/*
PUT /api/v1/user/update-avatar and PUT /api/v1/user/update-cover-image.

Request:
  - body: multipart form with one file in the "avatar" or "coverImage" field

Response:
  - 200: User: The updated profile
  - 400: No file sent
  - 500: Upload failed
*/
func (handler *Handler) replaceImage(image Image) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		claims, err := requestutil.RequiredClaims(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		files, err := handler.uploads.Parse(request, string(image))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		defer files.ReleaseAll(ctxutil.GetLogger(request.Context()))

		user, err := handler.accountService.ReplaceImage(request.Context(), claims.UserID, image, files.Get(string(image)))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, user, "Image has been changed")
	}
}

// # Admin Endpoints

/*
GET /api/v1/user/admin/all-users.

Request:
  - query: page, limit

Response:
  - 200: Page: Accounts and pagination metadata
  - 403: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.accountService.ListUsers(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Fetched all users")
}

type deleteUserRequest struct {
	Target string `json:"target"`
}

/*
DELETE /api/v1/user/admin/delete-user.

Request:
  - body: {"target": "<username>"}

Response:
  - 200: DeleteResult: {deletedUser, remainingUsers}
  - 404: No account with that username
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	var input deleteUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.accountService.DeleteUser(request.Context(), input.Target)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result, "User deleted successfully")
}
