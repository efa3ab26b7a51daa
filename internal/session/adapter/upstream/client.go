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
)

// Client is the configured request sender for the SummitCess REST API.
// All outbound requests share one base endpoint and default headers; the
// bearer token and the 401 refresh-replay step live in the retry
// transport, so callers only carry the gateway session ID in the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates an upstream API client whose transport refreshes and
// replays on authorization failure.
func NewClient(baseURL string, timeout time.Duration, transport http.RoundTripper, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: log.WithComponent("upstream_client"),
	}
}

// errorEnvelope is the upstream API's error payload.
type errorEnvelope struct {
	Message        string `json:"message"`
	Suspended      bool   `json:"suspended"`
	SuspendedUntil string `json:"suspended_until"`
	Reason         string `json:"reason"`
}

// Login authenticates against the upstream API.
func (c *Client) Login(ctx context.Context, email, password string) (*repository.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result repository.LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", body, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" || result.User == nil {
		return nil, apperrors.NewAuthenticationError("login response was incomplete")
	}
	return &result, nil
}

// Register submits the fixed-shape registration payload.
func (c *Client) Register(ctx context.Context, reg repository.Registration) error {
	return c.doJSON(ctx, http.MethodPost, "/api/register", reg, nil)
}

// Logout performs the best-effort server-side invalidation call. Callers
// ignore the error by contract; it is still surfaced for logging.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// CurrentUser fetches the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*repository.UserProfile, error) {
	var profile repository.UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/api/user", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile checks that a user profile record exists.
func (c *Client) GetProfile(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/user/profile", nil, nil)
}

// CreateDefaultProfile asks the upstream to provision a default profile.
func (c *Client) CreateDefaultProfile(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/user/profile/create-default", nil, nil)
}

// CreateProfile creates an empty profile directly, the last step of the
// provisioning fallback chain.
func (c *Client) CreateProfile(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/user/profile", map[string]string{}, nil)
}

// doJSON sends a JSON request and decodes the response into out when
// non-nil. Upstream failures are mapped onto the application error
// taxonomy so use cases never inspect raw status codes.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to encode request body").WithCause(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError("failed to build upstream request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithContext(ctx).Errorf("Upstream request %s %s failed: %v", method, path, err)
		return apperrors.NewInfrastructureError("upstream request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewInfrastructureError("failed to decode upstream response").WithCause(err)
		}
		return nil
	}

	var envelope errorEnvelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &envelope)
	message := envelope.Message
	if message == "" {
		message = fmt.Sprintf("upstream returned status %d", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden && envelope.Suspended:
		return apperrors.NewSuspensionError(message, envelope.SuspendedUntil, envelope.Reason)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NewAuthenticationError(message)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError(path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return apperrors.NewValidationError(message)
	default:
		return apperrors.NewInfrastructureError(message)
	}
}

// Ensure Client implements the upstream API contract
var _ repository.UpstreamAPI = (*Client)(nil)
