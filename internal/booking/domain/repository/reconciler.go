package repository

import (
	"context"

	"summitcess-gateway/internal/booking/domain/model"
)

// PaymentReconciler is the booking service's idempotent payment
// verification operation. It checks the payment provider and the booking
// record for whichever identifiers are available and returns a normalized
// result.
type PaymentReconciler interface {
	Reconcile(ctx context.Context, ref model.BookingReference) (*model.ReconciliationResult, error)
}
