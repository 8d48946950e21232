// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/upload"
)

// # Definitions & Constructors

// Handler implements the identity lifecycle endpoints under /api/v1/user.
type Handler struct {
	authService *Service
	uploads     upload.Options
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, uploads upload.Options) *Handler {
	return &Handler{authService: service, uploads: uploads}
}

// Register attaches the identity routes to the shared user router.
//
// # Endpoints
//   - POST /register        : Creates a new account (multipart or JSON).
//   - POST /login           : Authenticates and sets both token cookies.
//   - POST /refresh-token   : Rotates the token pair.
//   - POST /logout          : Clears the stored refresh token (auth).
//   - PUT  /update-password : Replaces the password (auth).
func (handler *Handler) Register(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Put("/update-password", handler.changePassword)
	})
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// # Response Payloads

type sessionResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/user/register

Request:
  - Body: multipart form (fullName, email, username, password, files
    avatar and coverImage) or the same text fields as JSON

Response:
  - 201: User: Created profile without password or refresh token
  - 400: Validation failure
  - 409: Username or email already exists
  - 500: Image upload failed
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	var files *upload.Set

	if upload.IsMultipart(request) {
		set, err := handler.uploads.Parse(request, FileAvatar, FileCoverImage)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		defer set.ReleaseAll(ctxutil.GetLogger(request.Context()))

		files = set
		input = registerRequest{
			Username: request.FormValue(FieldUsername),
			Email:    request.FormValue(FieldEmail),
			Password: request.FormValue(FieldPassword),
			FullName: request.FormValue(FieldFullName),
		}
	} else if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:   input.Username,
		Email:      input.Email,
		Password:   input.Password,
		FullName:   input.FullName,
		Avatar:     files.Get(FileAvatar),
		CoverImage: files.Get(FileCoverImage),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/user/login

Response:
  - 200: {user, accessToken, refreshToken}, plus both token cookies
  - 401: Invalid credentials
  - 429: Too many failed attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, sessionResponse{
		User:         session.User,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, "User logged in successfully")
}

/*
Logout terminates the current session.

POST /api/v1/user/logout

Description: Clears the stored refresh token so no refresh token issued so
far can be used, and expires both cookies.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearCookie(writer, constants.AccessTokenCookieName)
	clearCookie(writer, constants.RefreshTokenCookieName)
	respond.OK(writer, struct{}{}, "User logged out")
}

/*
Refresh issues a new token pair from a refresh token.

POST /api/v1/user/refresh-token

Request:
  - Cookie: refreshToken, or
  - Body: {"refreshToken": "..."}

Response:
  - 200: {accessToken, refreshToken}, plus both token cookies
  - 401: Missing, invalid, expired or superseded refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		token = cookie.Value
	}

	if token == "" && request.ContentLength != 0 {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		token = input.RefreshToken
	}

	session, err := handler.authService.Refresh(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, "Access token refreshed")
}

/*
ChangePassword updates the authenticated user's password.

PUT /api/v1/user/update-password

Response:
  - 200: Password changed
  - 400: Missing fields, identical passwords or wrong old password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), claims.UserID, ChangePasswordInput{
		OldPassword: input.OldPassword,
		NewPassword: input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, struct{}{}, "Password changed successfully")
}

// # Cookies

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	accessTTL, refreshTTL := handler.authService.TokenTTLs()
	setCookie(writer, constants.AccessTokenCookieName, session.AccessToken, accessTTL)
	setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken, refreshTTL)
}

func setCookie(writer http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.CookiePath,
		MaxAge:   int(ttl.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     constants.CookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
