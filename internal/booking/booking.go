package booking

import (
	"summitcess-gateway/internal/booking/adapter/rest"
	"summitcess-gateway/internal/booking/config"
	"summitcess-gateway/internal/booking/usecase"
	sessionrepo "summitcess-gateway/internal/session/domain/repository"
	"summitcess-gateway/internal/shared/logger"
)

// Module represents the payment confirmation module.
type Module struct {
	reconciler *rest.ReconcilerClient
	usecase    usecase.ConfirmationUsecaseInterface
	config     *config.Config
}

// NewModule wires the booking module against the shared token store.
func NewModule(store sessionrepo.TokenStore, cfg *config.Config, log logger.Logger) *Module {
	reconciler := rest.NewReconcilerClient(cfg.BookingServiceURL, cfg.BookingTimeout, log)

	uc := usecase.NewConfirmationUsecase(reconciler, store, usecase.PollPolicy{
		InitialInterval: cfg.PollInitialInterval,
		MaxInterval:     cfg.PollMaxInterval,
		BackoffFactor:   cfg.PollBackoffFactor,
		Timeout:         cfg.PollTimeout,
	}, cfg.RedirectDelay, log)

	return &Module{
		reconciler: reconciler,
		usecase:    uc,
		config:     cfg,
	}
}

// Usecase returns the confirmation use case for external access.
func (m *Module) Usecase() usecase.ConfirmationUsecaseInterface {
	return m.usecase
}

// Config returns the module configuration.
func (m *Module) Config() *config.Config {
	return m.config
}
