package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "summitcess-gateway context key " + string(c)
}

// SessionIDKey is the key for the gateway session identifier in context.Context.
// The session identifier scopes every token-store read/write and every
// upstream request made on behalf of a browser.
const SessionIDKey = contextKey("sessionID")

// UserIDKey is the key for the authenticated user's ID in context.Context.
const UserIDKey = contextKey("userID")

// RoleKey is the key for the authenticated user's role in context.Context.
const RoleKey = contextKey("role")

// RequestIDKey is the key for the request correlation ID in context.Context.
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the logging component name in context.Context.
const ComponentKey = contextKey("component")

// OperationKey is the key for the logging operation name in context.Context.
const OperationKey = contextKey("operation")

// RetriedKey marks a request that has already been replayed once after a
// token refresh. The retry transport sets it to guarantee at most one
// replay per originating request.
const RetriedKey = contextKey("authRetried")
