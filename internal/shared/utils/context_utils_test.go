package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSetContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithSessionID(ctx, "sess-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithRole(ctx, "admin")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithComponent(ctx, "componentA")
	ctx = WithOperation(ctx, "opX")

	sessionID, err := GetSessionIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "sess-1", sessionID)

	userID, err := GetUserIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	role, err := GetRoleFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "admin", role)

	reqID, err := GetRequestIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "req-1", reqID)

	assert.True(t, HasSessionID(ctx))
	assert.True(t, HasUserID(ctx))

	assert.Equal(t, "sess-1", GetSessionIDOrDefault(ctx, "default"))
	assert.Equal(t, "user-1", GetUserIDOrDefault(ctx, "default"))
	assert.Equal(t, "admin", GetRoleOrDefault(ctx, "default"))
}

func TestContextUtils_MissingValues(t *testing.T) {
	ctx := context.Background()

	_, err := GetSessionIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrSessionIDNotFound)

	_, err = GetUserIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrUserIDNotFound)

	_, err = GetRoleFromContext(ctx)
	assert.ErrorIs(t, err, ErrRoleNotFound)

	_, err = GetRequestIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrRequestIDNotFound)

	assert.False(t, HasSessionID(ctx))
	assert.False(t, HasUserID(ctx))
	assert.Equal(t, "default", GetSessionIDOrDefault(ctx, "default"))
}

func TestContextUtils_RetriedFlag(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsRetried(ctx))
	assert.True(t, IsRetried(WithRetried(ctx)))
}
