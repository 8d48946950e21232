// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// Handler implements the playlist endpoints.
type Handler struct {
	playlistService *Service
}

// NewHandler constructs a new playlist [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{playlistService: service}
}

// Register mounts the playlist routes on router. Every route requires authentication.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/create", handler.create)
		authed.Delete("/delete/{playlistId}", handler.delete)
		authed.Put("/update/{playlistId}", handler.update)
		authed.Get("/get-playlist/{playlistId}", handler.get)
		authed.Get("/get-user-playlists/{userId}", handler.listByUser)
		authed.Post("/add-video/{playlistId}/{videoId}", handler.addVideo)
		authed.Delete("/remove-video/{playlistId}/{videoId}", handler.removeVideo)
	})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input DetailsInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.playlistService.Create(request.Context(), claims, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, playlist, "Playlist created successfully")
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlistID, err := requestutil.UUIDParam(request, FieldPlaylistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.playlistService.Delete(request.Context(), claims, playlistID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Playlist deleted successfully")
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlistID, err := requestutil.UUIDParam(request, FieldPlaylistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input DetailsInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.playlistService.Update(request.Context(), claims, playlistID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, playlist, "Playlist updated successfully")
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	playlistID, err := requestutil.UUIDParam(request, FieldPlaylistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.playlistService.Get(request.Context(), playlistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, playlist, "Playlist fetched successfully")
}

func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlists, err := handler.playlistService.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, playlists, "User playlists fetched successfully")
}

// membership parses the two path IDs shared by add and remove.
func membership(request *http.Request) (playlistID, videoID string, err error) {
	if playlistID, err = requestutil.UUIDParam(request, FieldPlaylistID); err != nil {
		return "", "", err
	}
	if videoID, err = requestutil.UUIDParam(request, FieldVideoID); err != nil {
		return "", "", err
	}
	return playlistID, videoID, nil
}

func (handler *Handler) addVideo(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlistID, videoID, err := membership(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.playlistService.AddVideo(request.Context(), claims, playlistID, videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, playlist, "Video added to playlist")
}

func (handler *Handler) removeVideo(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlistID, videoID, err := membership(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.playlistService.RemoveVideo(request.Context(), claims, playlistID, videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, playlist, "Video removed from playlist")
}
