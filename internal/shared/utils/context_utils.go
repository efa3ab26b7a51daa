package utils

import (
	"context"
	"errors"

	"summitcess-gateway/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrSessionIDNotFound  = errors.New("sessionID not found in context")
	ErrSessionIDNotString = errors.New("sessionID in context is not a string")
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrRoleNotFound       = errors.New("role not found in context")
	ErrRoleNotString      = errors.New("role in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetSessionIDFromContext retrieves the gateway session ID from the context.
// It returns the session ID and an error if the session ID is not found or is
// not a string.
func GetSessionIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.SessionIDKey)
	if val == nil {
		return "", ErrSessionIDNotFound
	}
	sessionID, ok := val.(string)
	if !ok {
		return "", ErrSessionIDNotString
	}
	return sessionID, nil
}

// GetUserIDFromContext retrieves the user ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return "", ErrUserIDNotFound
	}
	userID, ok := val.(string)
	if !ok {
		return "", ErrUserIDNotString
	}
	return userID, nil
}

// GetRoleFromContext retrieves the resolved role from the context.
func GetRoleFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RoleKey)
	if val == nil {
		return "", ErrRoleNotFound
	}
	role, ok := val.(string)
	if !ok {
		return "", ErrRoleNotString
	}
	return role, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// Context builder functions

// WithSessionID adds the gateway session ID to context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextkeys.SessionIDKey, sessionID)
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithRole adds the resolved role to context
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, contextkeys.RoleKey, role)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent adds component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// WithRetried marks the context as belonging to a replayed request so the
// retry transport never replays twice.
func WithRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextkeys.RetriedKey, true)
}

// Optional getters that return default values instead of errors

// GetSessionIDOrDefault retrieves the session ID from context or returns a default value
func GetSessionIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetSessionIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// GetUserIDOrDefault retrieves the user ID from context or returns a default value
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetUserIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// GetRoleOrDefault retrieves the role from context or returns a default value
func GetRoleOrDefault(ctx context.Context, def string) string {
	if v, err := GetRoleFromContext(ctx); err == nil {
		return v
	}
	return def
}

// HasX checks
func HasSessionID(ctx context.Context) bool {
	_, err := GetSessionIDFromContext(ctx)
	return err == nil
}

func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}

// IsRetried reports whether the context belongs to an already replayed request.
func IsRetried(ctx context.Context) bool {
	retried, ok := ctx.Value(contextkeys.RetriedKey).(bool)
	return ok && retried
}
