package session

import (
	"summitcess-gateway/internal/session/adapter/upstream"
	"summitcess-gateway/internal/session/config"
	"summitcess-gateway/internal/session/domain/repository"
	"summitcess-gateway/internal/session/usecase"
	"summitcess-gateway/internal/shared/logger"
)

// Module represents the complete session module: the upstream API client
// with its refresh-and-replay transport, the token manager and the
// session use case.
type Module struct {
	store   repository.TokenStore
	tokens  *upstream.TokenManager
	api     *upstream.Client
	usecase usecase.SessionUsecaseInterface
	config  *config.Config
}

// NewModule wires the session module against a token store.
func NewModule(store repository.TokenStore, cfg *config.Config, log logger.Logger) *Module {
	tokens := upstream.NewTokenManager(store, cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)
	transport := upstream.NewRetryTransport(nil, tokens, tokens, log)
	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, transport, log)

	provisioner := usecase.NewProvisioner(api, usecase.RetryPolicy{
		MaxAttempts: cfg.ProvisionMaxAttempts,
		Delay:       cfg.ProvisionDelay,
	}, log)

	uc := usecase.NewSessionUsecase(api, store, tokens, provisioner, log)

	return &Module{
		store:   store,
		tokens:  tokens,
		api:     api,
		usecase: uc,
		config:  cfg,
	}
}

// Usecase returns the session use case for external access.
func (m *Module) Usecase() usecase.SessionUsecaseInterface {
	return m.usecase
}

// TokenStore returns the token store shared with other modules.
func (m *Module) TokenStore() repository.TokenStore {
	return m.store
}

// Config returns the module configuration.
func (m *Module) Config() *config.Config {
	return m.config
}
