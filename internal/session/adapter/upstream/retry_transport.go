package upstream

import (
	"context"
	"io"
	"net/http"

	"summitcess-gateway/internal/session/domain/repository"
	"summitcess-gateway/internal/shared/logger"
	"summitcess-gateway/internal/shared/utils"
)

// tokenSource reads the bearer token currently held for a session.
type tokenSource interface {
	Token(ctx context.Context, sessionID string) (string, error)
}

// RetryTransport decorates an http.RoundTripper with the session bearer
// token and a refresh-and-replay step: a 401 response triggers a silent
// token refresh and exactly one replay of the original request with the
// new token. A failed refresh lets the original 401 through unchanged.
type RetryTransport struct {
	Base      http.RoundTripper
	Tokens    tokenSource
	Refresher repository.TokenRefresher
	Logger    logger.Logger
}

// NewRetryTransport wires a retry transport around base. A nil base falls
// back to http.DefaultTransport.
func NewRetryTransport(base http.RoundTripper, tokens tokenSource, refresher repository.TokenRefresher, log logger.Logger) *RetryTransport {
	return &RetryTransport{
		Base:      base,
		Tokens:    tokens,
		Refresher: refresher,
		Logger:    log.WithComponent("retry_transport"),
	}
}

func (t *RetryTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	sessionID := utils.GetSessionIDOrDefault(ctx, "")

	// RoundTrippers must not mutate the caller's request.
	outgoing := req.Clone(ctx)
	if sessionID != "" && outgoing.Header.Get("Authorization") == "" {
		if token, err := t.Tokens.Token(ctx, sessionID); err == nil && token != "" {
			outgoing.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base().RoundTrip(outgoing)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if sessionID == "" {
		return resp, nil
	}
	if utils.IsRetried(ctx) {
		// Already replayed once for this originating request.
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		// Body cannot be replayed; the 401 stands.
		return resp, nil
	}

	token, refreshErr := t.Refresher.Refresh(ctx, sessionID)
	if refreshErr != nil {
		t.Logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
			"url":        req.URL.Path,
		}).Warnf("Refresh after 401 failed: %v", refreshErr)
		return resp, nil
	}

	replay := req.Clone(utils.WithRetried(ctx))
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return resp, nil
		}
		replay.Body = body
	}
	replay.Header.Set("Authorization", "Bearer "+token)

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	t.Logger.WithFields(map[string]interface{}{
		"session_id": sessionID,
		"url":        req.URL.Path,
	}).Debug("Replaying request after token refresh")
	return t.base().RoundTrip(replay)
}
