package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	apperrors "summitcess-gateway/internal/shared/errors"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := apperrors.NewValidationError("email is required")
	assert.Equal(t, "email is required", err.Error())

	cause := stderrors.New("connection refused")
	wrapped := apperrors.NewInfrastructureError("failed to reach token store").WithCause(cause)
	assert.Equal(t, "failed to reach token store: connection refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestSuspensionError_CarriesDetails(t *testing.T) {
	err := apperrors.NewSuspensionError("account suspended", "2026-09-30", "policy violation")

	assert.Equal(t, http.StatusForbidden, err.HTTPCode)
	assert.Equal(t, "2026-09-30", err.Details["until"])
	assert.Equal(t, "policy violation", err.Details["reason"])
	assert.True(t, apperrors.IsSuspension(err))
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"authentication", apperrors.NewAuthenticationError("invalid credentials"), apperrors.IsAuthentication},
		{"authorization expired", apperrors.NewAuthorizationExpiredError("token expired"), apperrors.IsAuthorizationExpired},
		{"refresh", apperrors.NewRefreshError("refresh rejected"), apperrors.IsRefresh},
		{"suspension", apperrors.NewSuspensionError("suspended", "", ""), apperrors.IsSuspension},
		{"booking lookup", apperrors.NewBookingLookupError("no identifiers"), apperrors.IsBookingLookup},
		{"reconciliation", apperrors.NewReconciliationError("verification failed"), apperrors.IsReconciliation},
		{"not found", apperrors.NewNotFoundError("profile"), apperrors.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.predicate(tt.err))
			assert.False(t, tt.predicate(stderrors.New("some other error")))
		})
	}
}

func TestSentinelFallbacks(t *testing.T) {
	assert.True(t, apperrors.IsAuthentication(apperrors.ErrInvalidCredentials))
	assert.True(t, apperrors.IsAuthorizationExpired(apperrors.ErrTokenExpired))
	assert.True(t, apperrors.IsRefresh(apperrors.ErrRefreshFailed))
	assert.True(t, apperrors.IsSuspension(apperrors.ErrAccountSuspended))
	assert.True(t, apperrors.IsBookingLookup(apperrors.ErrNoBookingReference))
}

func TestWrapError(t *testing.T) {
	appErr := apperrors.NewValidationError("bad input")
	assert.Same(t, appErr, apperrors.WrapError(appErr, "ignored"))

	cause := stderrors.New("boom")
	wrapped := apperrors.WrapError(cause, "operation failed")
	assert.Equal(t, apperrors.ErrorTypeInternal, wrapped.Type)
	assert.ErrorIs(t, wrapped, cause)
}
