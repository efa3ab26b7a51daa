package repository

import "context"

// UserProfile is the upstream API's current-user payload.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult carries the upstream login response.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	User        *UserProfile `json:"user"`
}

// Registration is the fixed-shape registration payload expected by the
// upstream API. Field names follow the upstream wire contract.
type Registration struct {
	FirstName            string `json:"nama_depan"`
	LastName             string `json:"nama_belakang"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
}

// UpstreamAPI is the REST contract of the SummitCess API consumed by the
// session use case. Implementations attach the bearer token held for the
// gateway session found in the context.
type UpstreamAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, reg Registration) error
	// Logout performs the best-effort server-side invalidation call.
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*UserProfile, error)

	// Profile provisioning fallback chain.
	GetProfile(ctx context.Context) error
	CreateDefaultProfile(ctx context.Context) error
	CreateProfile(ctx context.Context) error
}

// TokenRefresher obtains a fresh access token for a gateway session and
// persists it. Concurrent calls for the same session must coalesce into a
// single upstream refresh request.
type TokenRefresher interface {
	Refresh(ctx context.Context, sessionID string) (string, error)
}
