package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"summitcess-gateway/internal/session/domain/repository"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"

	"golang.org/x/sync/singleflight"
)

// TokenManager owns the bearer token held for each gateway session: it
// reads the current token from the store, performs the upstream refresh
// call and persists the replacement. Refresh calls for the same session
// coalesce into one upstream request, which closes the concurrent-refresh
// race the front-end had.
type TokenManager struct {
	store   repository.TokenStore
	baseURL string
	// httpClient deliberately bypasses the retry transport; a refresh
	// must never trigger another refresh.
	httpClient *http.Client
	logger     logger.Logger
	group      singleflight.Group
}

// NewTokenManager creates a token manager talking to the upstream refresh
// endpoint directly.
func NewTokenManager(store repository.TokenStore, baseURL string, timeout time.Duration, log logger.Logger) *TokenManager {
	return &TokenManager{
		store:      store,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("token_manager"),
	}
}

// Token returns the bearer token currently held for the session, or the
// empty string when the session has none.
func (m *TokenManager) Token(ctx context.Context, sessionID string) (string, error) {
	return m.store.Get(ctx, sessionID, repository.KeyToken)
}

// Refresh obtains a new access token for the session and persists it.
// Concurrent callers for the same session share a single upstream request
// and receive the same result.
func (m *TokenManager) Refresh(ctx context.Context, sessionID string) (string, error) {
	v, err, shared := m.group.Do(sessionID, func() (interface{}, error) {
		// The refresh outcome is shared between callers, so it must not
		// die with the first caller's context.
		return m.refresh(context.WithoutCancel(ctx), sessionID)
	})
	if err != nil {
		return "", err
	}
	if shared {
		m.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
		}).Debug("Refresh coalesced with concurrent caller")
	}
	return v.(string), nil
}

func (m *TokenManager) refresh(ctx context.Context, sessionID string) (string, error) {
	current, err := m.Token(ctx, sessionID)
	if err != nil {
		return "", apperrors.NewRefreshError("failed to read stored token").WithCause(err)
	}
	if current == "" {
		return "", apperrors.NewRefreshError("no token available to refresh")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/refresh", bytes.NewReader(nil))
	if err != nil {
		return "", apperrors.NewRefreshError("failed to build refresh request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+current)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
		}).Errorf("Refresh request failed: %v", err)
		return "", apperrors.NewRefreshError("refresh request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		m.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
			"status":     resp.StatusCode,
		}).Warn("Upstream rejected token refresh")
		return "", apperrors.NewRefreshError(fmt.Sprintf("upstream rejected refresh with status %d", resp.StatusCode))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperrors.NewRefreshError("failed to decode refresh response").WithCause(err)
	}
	if payload.AccessToken == "" {
		return "", apperrors.NewRefreshError("refresh response carried no access token")
	}

	if err := m.store.Set(ctx, sessionID, repository.KeyToken, payload.AccessToken); err != nil {
		return "", apperrors.NewRefreshError("failed to persist refreshed token").WithCause(err)
	}

	m.logger.WithFields(map[string]interface{}{
		"session_id": sessionID,
	}).Debug("Access token refreshed")
	return payload.AccessToken, nil
}

// Ensure TokenManager implements the refresher interface
var _ repository.TokenRefresher = (*TokenManager)(nil)
