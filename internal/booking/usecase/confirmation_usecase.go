package usecase

import (
	"context"
	"time"

	"summitcess-gateway/internal/booking/domain/model"
	"summitcess-gateway/internal/booking/domain/repository"
	sessionmodel "summitcess-gateway/internal/session/domain/model"
	sessionrepo "summitcess-gateway/internal/session/domain/repository"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"

	"go.uber.org/zap"
)

// ConfirmationInput is what the payment redirect landing carries: the
// query parameters from the payment provider plus the gateway session
// that may hold a cached booking ID.
type ConfirmationInput struct {
	SessionID         string
	OrderID           string
	TransactionStatus string
}

// ConfirmationOutcome is the flow's terminal answer for one landing.
type ConfirmationOutcome struct {
	State         model.ConfirmationState `json:"state"`
	Status        string                  `json:"status,omitempty"`
	Message       string                  `json:"message,omitempty"`
	RedirectTo    string                  `json:"redirect_to,omitempty"`
	RedirectAfter time.Duration           `json:"redirect_after,omitempty"`
	// AutoRedirect distinguishes the automatic post-success redirect
	// from the manual "return to dashboard" action offered on failure.
	AutoRedirect bool `json:"auto_redirect"`
}

// PollPolicy bounds the reconciliation polling: exponential backoff from
// InitialInterval up to MaxInterval, giving up after Timeout.
type PollPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	BackoffFactor   float64
	Timeout         time.Duration
}

// ConfirmationUsecaseInterface defines the contract for the payment
// confirmation flow.
type ConfirmationUsecaseInterface interface {
	Confirm(ctx context.Context, input ConfirmationInput) (*ConfirmationOutcome, error)
	AwaitRedirect(ctx context.Context, outcome *ConfirmationOutcome, redirect func(target string)) bool
}

// ConfirmationUsecase reconciles a locally stored booking reference
// against server-confirmed payment status. Pending results are re-polled
// with backoff until a terminal state or the poll timeout; the old
// single-check behavior left pending payments unresolved until a manual
// reload.
type ConfirmationUsecase struct {
	reconciler    repository.PaymentReconciler
	store         sessionrepo.TokenStore
	policy        PollPolicy
	redirectDelay time.Duration
	logger        logger.Logger
}

// NewConfirmationUsecase creates the payment confirmation use case.
func NewConfirmationUsecase(
	reconciler repository.PaymentReconciler,
	store sessionrepo.TokenStore,
	policy PollPolicy,
	redirectDelay time.Duration,
	log logger.Logger,
) *ConfirmationUsecase {
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 2 * time.Second
	}
	if policy.MaxInterval < policy.InitialInterval {
		policy.MaxInterval = policy.InitialInterval
	}
	if policy.BackoffFactor < 1 {
		policy.BackoffFactor = 1
	}
	return &ConfirmationUsecase{
		reconciler:    reconciler,
		store:         store,
		policy:        policy,
		redirectDelay: redirectDelay,
		logger:        log.WithComponent("payment_confirmation"),
	}
}

// Confirm runs the confirmation state machine for one payment landing.
func (uc *ConfirmationUsecase) Confirm(ctx context.Context, input ConfirmationInput) (*ConfirmationOutcome, error) {
	bookingID, err := uc.store.Get(ctx, input.SessionID, sessionrepo.KeyCurrentBookingID)
	if err != nil {
		uc.logger.Error("Failed to read cached booking reference",
			zap.String("sessionID", input.SessionID),
			zap.Error(err))
	}

	ref := model.BookingReference{
		BookingID: bookingID,
		OrderID:   input.OrderID,
	}
	target := uc.dashboardTarget(ctx, input.SessionID)

	if ref.Empty() {
		return &ConfirmationOutcome{
			State:      model.StateFailed,
			Message:    model.NoBookingInfoMessage,
			RedirectTo: target,
		}, nil
	}

	uc.logger.Info("Reconciling payment",
		zap.String("sessionID", input.SessionID),
		zap.String("bookingID", ref.BookingID),
		zap.String("orderID", ref.OrderID),
		zap.String("transactionStatus", input.TransactionStatus))

	deadline := time.Now().Add(uc.policy.Timeout)
	interval := uc.policy.InitialInterval
	var last *model.ReconciliationResult

	for {
		result, err := uc.reconciler.Reconcile(ctx, ref)
		if err != nil {
			if apperrors.IsBookingLookup(err) {
				return &ConfirmationOutcome{
					State:      model.StateFailed,
					Message:    model.NoBookingInfoMessage,
					RedirectTo: target,
				}, nil
			}
			uc.logger.Error("Payment reconciliation failed",
				zap.String("bookingID", ref.BookingID),
				zap.String("orderID", ref.OrderID),
				zap.Error(err))
			return &ConfirmationOutcome{
				State:      model.StateFailed,
				Message:    err.Error(),
				RedirectTo: target,
			}, nil
		}
		last = result

		if result.Settled() {
			uc.markCompleted(ctx, input.SessionID)
			uc.logger.Info("Payment confirmed",
				zap.String("bookingID", ref.BookingID),
				zap.String("orderID", ref.OrderID),
				zap.String("status", result.RawStatus()))
			return &ConfirmationOutcome{
				State:         model.StateSucceeded,
				Status:        result.RawStatus(),
				Message:       result.Message,
				RedirectTo:    target,
				RedirectAfter: uc.redirectDelay,
				AutoRedirect:  true,
			}, nil
		}
		if result.Failed() {
			return &ConfirmationOutcome{
				State:      model.StateFailed,
				Status:     result.RawStatus(),
				Message:    result.Message,
				RedirectTo: target,
			}, nil
		}

		if time.Now().Add(interval).After(deadline) {
			uc.logger.Warn("Payment still pending at poll timeout",
				zap.String("bookingID", ref.BookingID),
				zap.String("status", last.RawStatus()))
			return &ConfirmationOutcome{
				State:      model.StatePendingRetryTimeout,
				Status:     last.RawStatus(),
				Message:    last.Message,
				RedirectTo: target,
			}, nil
		}

		select {
		case <-ctx.Done():
			return &ConfirmationOutcome{
				State:      model.StatePending,
				Status:     last.RawStatus(),
				RedirectTo: target,
			}, ctx.Err()
		case <-time.After(interval):
		}

		interval = time.Duration(float64(interval) * uc.policy.BackoffFactor)
		if interval > uc.policy.MaxInterval {
			interval = uc.policy.MaxInterval
		}
	}
}

// AwaitRedirect waits out the configured delay after a successful
// confirmation and then invokes redirect exactly once. It reports whether
// the redirect fired; a canceled context suppresses it, so navigation
// never fires after the page is gone.
func (uc *ConfirmationUsecase) AwaitRedirect(ctx context.Context, outcome *ConfirmationOutcome, redirect func(target string)) bool {
	if outcome == nil || !outcome.AutoRedirect || outcome.State != model.StateSucceeded {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(outcome.RedirectAfter):
	}
	redirect(outcome.RedirectTo)
	return true
}

// dashboardTarget resolves the role-appropriate dashboard for the
// session, falling back to the generic dashboard when no role is stored.
func (uc *ConfirmationUsecase) dashboardTarget(ctx context.Context, sessionID string) string {
	role, err := uc.store.Get(ctx, sessionID, sessionrepo.KeyRole)
	if err != nil || role == "" {
		return sessionmodel.PathDashboard
	}
	return sessionmodel.ParseRole(role).HomePath()
}

// markCompleted consumes the booking reference and records completion.
func (uc *ConfirmationUsecase) markCompleted(ctx context.Context, sessionID string) {
	if err := uc.store.Remove(ctx, sessionID, sessionrepo.KeyCurrentBookingID); err != nil {
		uc.logger.Error("Failed to clear booking reference",
			zap.String("sessionID", sessionID),
			zap.Error(err))
	}
	if err := uc.store.Set(ctx, sessionID, sessionrepo.KeyPaymentCompleted, "true"); err != nil {
		uc.logger.Error("Failed to record payment completion",
			zap.String("sessionID", sessionID),
			zap.Error(err))
	}
}

// Ensure ConfirmationUsecase implements ConfirmationUsecaseInterface
var _ ConfirmationUsecaseInterface = (*ConfirmationUsecase)(nil)
