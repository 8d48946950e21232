// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/upload"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer issues and checks the two token kinds. [*sec.TokenService] satisfies it.
type TokenIssuer interface {
	IssueAccessToken(identity sec.Identity) (string, error)
	IssueRefreshToken(userID string) (string, error)
	ParseRefreshToken(token string) (*sec.RefreshClaims, error)
	VerifyRefreshToken(token, stored string) (*sec.RefreshClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// ThrottleConfig bounds failed login attempts per username.
type ThrottleConfig struct {
	MaxAttempts int64
	Window      time.Duration
}

// Service implements the identity lifecycle use cases.
type Service struct {
	users    UserRepository
	throttle LoginThrottle
	tokens   TokenIssuer
	media    *media.Transferer
	limits   ThrottleConfig
	logger   *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
//
// A nil throttle disables login throttling.
func NewService(
	users UserRepository,
	throttle LoginThrottle,
	tokens TokenIssuer,
	transferer *media.Transferer,
	limits ThrottleConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		throttle: throttle,
		tokens:   tokens,
		media:    transferer,
		limits:   limits,
		logger:   logger,
	}
}

// Session is the result of a successful login or refresh.
type Session struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FullName   string
	Avatar     *upload.Buffer
	CoverImage *upload.Buffer
}

/*
Register validates, uploads the optional images and persists a new account.

Description: The username is stored lowercase. Uniqueness is checked before
any upload so a taken name does not cost a transfer; the unique indexes still
decide races. If persisting fails, every uploaded image is removed again and
the persistence error is returned unchanged.

Returns:
  - *User: Created entity (the password hash never leaves the service)
  - error: Validation, Conflict, UploadFailed or storage failures
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, FullNameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		Length(FieldUsername, input.Username, UsernameMinLength, UsernameMaxLength).
		Required(FieldPassword, input.Password).
		Length(FieldPassword, input.Password, PasswordMinLength, PasswordMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureAvailable(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Role:         sec.RoleUser,
	}

	rollback := service.media.Begin(input.Avatar, input.CoverImage)

	if input.Avatar != nil {
		asset, err := rollback.Transfer(ctx, input.Avatar, media.KindImage)
		if err != nil {
			return nil, rollback.Undo(ctx, err)
		}
		user.Avatar = asset.URL
	}

	if input.CoverImage != nil {
		asset, err := rollback.Transfer(ctx, input.CoverImage, media.KindImage)
		if err != nil {
			return nil, rollback.Undo(ctx, err)
		}
		user.CoverImage = asset.URL
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, rollback.Undo(ctx, err)
	}

	service.logger.InfoContext(ctx, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// ensureAvailable returns Conflict when the username or email is already in use.
func (service *Service) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := service.users.FindByUsername(ctx, username); err == nil {
		return apperr.Conflict("Username is already taken")
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return fmt.Errorf("auth_service_lookup_username_failed: %w", err)
	}

	if _, err := service.users.FindByEmail(ctx, email); err == nil {
		return apperr.Conflict("Email is already registered")
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return fmt.Errorf("auth_service_lookup_email_failed: %w", err)
	}

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

/*
Login verifies the credentials and rotates the account's tokens.

Description: Unknown usernames and wrong passwords produce the same
Unauthorized error. Each failure is counted; once the count reaches the
configured maximum inside the window, further attempts are RateLimited until
the window expires.

Returns:
  - *Session: Account plus the new token pair
  - error: Validation, Unauthorized, RateLimited or storage failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.checkThrottle(ctx, username); err != nil {
		return nil, err
	}

	user, err := service.users.FindByUsername(ctx, username)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			service.recordFailure(ctx, username)
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(ctx, username)
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	service.resetThrottle(ctx, username)

	session, err := service.rotateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

/*
Logout clears the stored refresh token, invalidating every refresh token
issued to the account.
*/
func (service *Service) Logout(ctx context.Context, userID string) error {
	if err := service.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_logged_out", slog.String("user_id", userID))
	return nil
}

// # Session Management

/*
Refresh exchanges a refresh token for a new token pair.

Description: The token must verify cryptographically and equal the value
currently stored on the account. The pair is then rotated, which makes the
presented token unusable.

Returns:
  - *Session: Account plus the new token pair
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperr.Unauthorized("Refresh token is required")
	}

	claims, err := service.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	if _, err := service.tokens.VerifyRefreshToken(refreshToken, user.RefreshToken); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "refresh_token_rejected", slog.String("user_id", user.ID))
		return nil, err
	}

	return service.rotateTokens(ctx, user)
}

// LookupIdentity returns the stored identity behind an access token. It
// satisfies [middleware.IdentityLookup]; a deleted account is NotFound.
func (service *Service) LookupIdentity(ctx context.Context, userID string) (sec.Identity, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return sec.Identity{}, fmt.Errorf("auth_service_lookup_identity_failed: %w", err)
	}
	return user.Identity(), nil
}

// TokenTTLs returns the lifetimes of the access and refresh tokens.
func (service *Service) TokenTTLs() (access, refresh time.Duration) {
	return service.tokens.AccessTTL(), service.tokens.RefreshTTL()
}

// rotateTokens issues a new pair and overwrites the stored refresh token.
func (service *Service) rotateTokens(ctx context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokens.IssueAccessToken(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_refresh_token_failed: %w", err)
	}

	if err := service.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_store_refresh_token_failed: %w", err)
	}
	user.RefreshToken = refreshToken

	return &Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// # Credentials

// ChangePasswordInput carries the current and the replacement password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

/*
ChangePassword replaces the password after checking the current one.

Returns:
  - error: Validation (missing, equal, too short/long, or wrong old password),
    NotFound or storage failures
*/
func (service *Service) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		Length(FieldNewPassword, input.NewPassword, PasswordMinLength, PasswordMaxLength).
		Custom(FieldNewPassword, input.OldPassword != "" && input.OldPassword == input.NewPassword,
			"Must differ from the old password")

	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(input.OldPassword, user.PasswordHash) {
		return validate.RequiredError(FieldOldPassword, "Old password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_password_changed", slog.String("user_id", userID))
	return nil
}

// # Throttling

func (service *Service) checkThrottle(ctx context.Context, username string) error {
	if service.throttle == nil || service.limits.MaxAttempts <= 0 {
		return nil
	}

	failures, err := service.throttle.Failures(ctx, username)
	if err != nil {
		// Redis being down must not lock everyone out.
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_throttle_unavailable", slog.Any("error", err))
		return nil
	}

	if failures >= service.limits.MaxAttempts {
		return apperr.RateLimited(int(service.limits.Window.Seconds()))
	}
	return nil
}

func (service *Service) recordFailure(ctx context.Context, username string) {
	if service.throttle == nil || service.limits.MaxAttempts <= 0 {
		return
	}

	count, err := service.throttle.RecordFailure(ctx, username, service.limits.Window)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_throttle_record_failed", slog.Any("error", err))
		return
	}
	if count >= service.limits.MaxAttempts {
		service.logger.WarnContext(ctx, "login_throttled", slog.String("username", username), slog.Int64("failures", count))
	}
}

func (service *Service) resetThrottle(ctx context.Context, username string) {
	if service.throttle == nil {
		return
	}
	if err := service.throttle.Reset(ctx, username); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_throttle_reset_failed", slog.Any("error", err))
	}
}
