package usecase

import (
	"context"
	"net/url"
	"strings"

	"summitcess-gateway/internal/session/adapter/security"
	"summitcess-gateway/internal/session/domain/model"
	"summitcess-gateway/internal/session/domain/repository"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"
	"summitcess-gateway/internal/shared/utils"
)

// SessionUsecaseInterface defines the contract for session operations.
type SessionUsecaseInterface interface {
	CheckAuth(ctx context.Context, sessionID string) (*model.Session, error)
	Login(ctx context.Context, sessionID string, req LoginRequest) (*LoginOutcome, error)
	Register(ctx context.Context, req RegisterRequest) (*RegisterOutcome, error)
	Logout(ctx context.Context, sessionID string) string
	RefreshToken(ctx context.Context, sessionID string) bool
}

// LoginRequest carries user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the registration form. The role is always fixed to
// the regular user role before it reaches the upstream API.
type RegisterRequest struct {
	FirstName            string `json:"nama_depan" validate:"required"`
	LastName             string `json:"nama_belakang" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// LoginOutcome is the result of a successful login: the new session and
// the role-appropriate redirect target.
type LoginOutcome struct {
	Session    *model.Session `json:"session"`
	RedirectTo string         `json:"redirect_to"`
}

// RegisterOutcome carries the post-registration redirect target.
type RegisterOutcome struct {
	RedirectTo string `json:"redirect_to"`
}

/// SessionUsecase implements the session lifecycle: restore, login,
// registration, logout and silent refresh.
type SessionUsecase struct {
	api         repository.UpstreamAPI
	store       repository.TokenStore
	refresher   repository.TokenRefresher
	inspector   *security.Inspector
	provisioner *Provisioner
	logger      logger.Logger
}

// NewSessionUsecase creates a new session use case instance.
func NewSessionUsecase(
	api repository.UpstreamAPI,
	store repository.TokenStore,
	refresher repository.TokenRefresher,
	provisioner *Provisioner,
	log logger.Logger,
) *SessionUsecase {
	return &SessionUsecase{
		api:         api,
		store:       store,
		refresher:   refresher,
		inspector:   security.NewInspector(),
		provisioner: provisioner,
		logger:      log.WithComponent("session_usecase"),
	}
}

// sessionContext scopes a context to one gateway session so the upstream
// transport can attach the right bearer token.
func sessionContext(ctx context.Context, sessionID string) context.Context {
	return utils.WithSessionID(ctx, sessionID)
}

// CheckAuth restores a session from the token store and validates it
// against the upstream current-user endpoint. Any failure other than an
// account suspension clears the stored credentials and reports no
// session; the operation always terminates with a definite answer.
func (uc *SessionUsecase) CheckAuth(ctx context.Context, sessionID string) (*model.Session, error) {
	ctx = sessionContext(ctx, sessionID)

	token, err := uc.store.Get(ctx, sessionID, repository.KeyToken)
	if err != nil {
		return nil, apperrors.NewInfrastructureError("failed to read token store").WithCause(err)
	}
	if token == "" {
		return nil, nil
	}

	profile, err := uc.api.CurrentUser(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// An aborted request is not a verdict on the token.
			return nil, apperrors.WrapError(ctx.Err(), "session check canceled")
		}
		if clearErr := uc.store.Clear(ctx, sessionID); clearErr != nil {
			uc.logger.WithContext(ctx).Errorf("Failed to clear token store after auth failure: %v", clearErr)
		}
		if apperrors.IsSuspension(err) {
			return nil, err
		}
		uc.logger.WithContext(ctx).Infof("Stored token rejected, session cleared: %v", err)
		return nil, nil
	}

	// The transport may have silently refreshed the token while serving
	// the profile request; re-read so the session carries the live one.
	token, err = uc.store.Get(ctx, sessionID, repository.KeyToken)
	if err != nil || token == "" {
		return nil, nil
	}

	session := uc.buildSession(profile, token)
	if err := uc.persistRecord(ctx, sessionID, session); err != nil {
		uc.logger.WithContext(ctx).Errorf("Failed to persist refreshed session record: %v", err)
	}
	return session, nil
}

// Login authenticates the user, persists the token record and resolves the
// role-based redirect. Profile provisioning runs best-effort afterwards
// and never fails the login.
func (uc *SessionUsecase) Login(ctx context.Context, sessionID string, req LoginRequest) (*LoginOutcome, error) {
	ctx = sessionContext(ctx, sessionID)

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	result, err := uc.api.Login(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		if apperrors.IsSuspension(err) {
			return nil, err
		}
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeValidation {
			return nil, apperrors.NewAuthenticationError(appErr.Message)
		}
		if apperrors.IsAuthentication(err) {
			return nil, err
		}
		return nil, apperrors.NewAuthenticationError("login failed, please try again")
	}

	session := uc.buildSession(result.User, result.AccessToken)
	if err := uc.persistRecord(ctx, sessionID, session); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to persist session").WithCause(err)
	}

	if err := uc.provisioner.EnsureProfile(ctx); err != nil {
		uc.logger.WithContext(ctx).Warnf("Profile provisioning failed, proceeding with login: %v", err)
	}

	return &LoginOutcome{
		Session:    session,
		RedirectTo: session.Role.HomePath(),
	}, nil
}

// Register submits the registration form with the role fixed to "user".
func (uc *SessionUsecase) Register(ctx context.Context, req RegisterRequest) (*RegisterOutcome, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperrors.NewValidationError("first and last name are required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if req.Password == "" || req.Password != req.PasswordConfirmation {
		return nil, apperrors.NewValidationError("password confirmation does not match")
	}

	reg := repository.Registration{
		FirstName:            strings.TrimSpace(req.FirstName),
		LastName:             strings.TrimSpace(req.LastName),
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Role:                 string(model.RoleUser),
	}
	if err := uc.api.Register(ctx, reg); err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return nil, appErr
		}
		return nil, apperrors.NewValidationError("registration failed, please try again")
	}

	return &RegisterOutcome{RedirectTo: model.PathLoginRegister}, nil
}

// Logout invalidates the upstream session best-effort, then
// unconditionally wipes the stored credentials. The returned path is the
// post-logout redirect target.
func (uc *SessionUsecase) Logout(ctx context.Context, sessionID string) string {
	ctx = sessionContext(ctx, sessionID)

	if err := uc.api.Logout(ctx); err != nil {
		uc.logger.WithContext(ctx).Infof("Server-side logout failed, clearing local session anyway: %v", err)
	}
	if err := uc.store.Clear(ctx, sessionID); err != nil {
		uc.logger.WithContext(ctx).Errorf("Failed to clear token store on logout: %v", err)
	}
	return model.PathLogin
}

// RefreshToken obtains a new access token for the session. A terminal
// refresh failure empties the session so guarded routes fall back to the
// login redirect.
func (uc *SessionUsecase) RefreshToken(ctx context.Context, sessionID string) bool {
	ctx = sessionContext(ctx, sessionID)

	if _, err := uc.refresher.Refresh(ctx, sessionID); err != nil {
		uc.logger.WithContext(ctx).Warnf("Token refresh failed, clearing session: %v", err)
		if clearErr := uc.store.Clear(ctx, sessionID); clearErr != nil {
			uc.logger.WithContext(ctx).Errorf("Failed to clear token store after refresh failure: %v", clearErr)
		}
		return false
	}
	return true
}

func (uc *SessionUsecase) buildSession(profile *repository.UserProfile, token string) *model.Session {
	session := &model.Session{
		UserID:      profile.ID,
		Role:        model.ParseRole(profile.Role),
		DisplayName: profile.Name,
		Email:       profile.Email,
		Token:       token,
	}
	if claims, err := uc.inspector.Inspect(token); err == nil {
		session.TokenExpiry = claims.Expiry()
	}
	return session
}

func (uc *SessionUsecase) persistRecord(ctx context.Context, sessionID string, session *model.Session) error {
	encoded, err := model.EncodeUser(session)
	if err != nil {
		return err
	}
	if err := uc.store.Set(ctx, sessionID, repository.KeyToken, session.Token); err != nil {
		return err
	}
	if err := uc.store.Set(ctx, sessionID, repository.KeyRole, string(session.Role)); err != nil {
		return err
	}
	return uc.store.Set(ctx, sessionID, repository.KeyUser, encoded)
}

// SuspensionRedirect builds the suspended-account redirect target from a
// suspension error's details.
func SuspensionRedirect(err error) string {
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Type != apperrors.ErrorTypeSuspension {
		return model.PathLogin
	}
	values := url.Values{}
	if until, ok := appErr.Details["until"].(string); ok && until != "" {
		values.Set("until", until)
	}
	if reason, ok := appErr.Details["reason"].(string); ok && reason != "" {
		values.Set("reason", reason)
	}
	if encoded := values.Encode(); encoded != "" {
		return model.PathSuspended + "?" + encoded
	}
	return model.PathSuspended
}

// Ensure SessionUsecase implements SessionUsecaseInterface
var _ SessionUsecaseInterface = (*SessionUsecase)(nil)
