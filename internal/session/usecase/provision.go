package usecase

import (
	"context"
	"time"

	"summitcess-gateway/internal/session/domain/repository"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"
)

// RetryPolicy bounds the profile-provisioning attempts made after login.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Provisioner ensures a user profile record exists upstream. Login treats
// the whole operation as best-effort: errors are logged and swallowed so
// a profile hiccup never fails an otherwise valid login.
type Provisioner struct {
	api    repository.UpstreamAPI
	policy RetryPolicy
	logger logger.Logger
}

// NewProvisioner creates a profile provisioner with the given retry policy.
func NewProvisioner(api repository.UpstreamAPI, policy RetryPolicy, log logger.Logger) *Provisioner {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Provisioner{
		api:    api,
		policy: policy,
		logger: log.WithComponent("profile_provisioner"),
	}
}

// EnsureProfile verifies a profile record exists, creating one when it
// does not. Each attempt tries the create-default endpoint first and
// falls back to direct profile creation.
func (p *Provisioner) EnsureProfile(ctx context.Context) error {
	if err := p.api.GetProfile(ctx); err == nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		if err := p.api.CreateDefaultProfile(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			p.logger.WithContext(ctx).Debugf("Create-default profile attempt %d failed: %v", attempt, err)
		}

		if err := p.api.CreateProfile(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			p.logger.WithContext(ctx).Debugf("Direct profile creation attempt %d failed: %v", attempt, err)
		}

		if attempt < p.policy.MaxAttempts {
			select {
			case <-ctx.Done():
				return apperrors.NewProfileProvisioningError("profile provisioning canceled").WithCause(ctx.Err())
			case <-time.After(p.policy.Delay):
			}
		}
	}

	return apperrors.NewProfileProvisioningError("profile provisioning exhausted retries").WithCause(lastErr)
}
