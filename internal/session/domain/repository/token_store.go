package repository

import "context"

// Well-known token store keys. String-valued, last-write-wins, no schema
// versioning: this mirrors the key set the front-end kept in browser storage.
const (
	KeyToken            = "token"
	KeyRole             = "role"
	KeyUser             = "user"
	KeyCurrentBookingID = "currentBookingId"
	KeyPaymentCompleted = "payment_completed"
)

// TokenStore is the persistence boundary for per-browser-session state.
// Implementations are keyed by the gateway session ID so independent
// browsers never observe each other's credentials.
type TokenStore interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Remove(ctx context.Context, sessionID, key string) error
	// Clear removes every key held for the session. Used on logout and
	// on suspension signals.
	Clear(ctx context.Context, sessionID string) error
}
