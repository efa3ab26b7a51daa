package model

// PaymentStatus is a payment state reported by the reconciliation
// service. Transient: fetched per poll, never persisted.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusSettlement PaymentStatus = "settlement"
	PaymentStatusCapture    PaymentStatus = "capture"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusUnknown    PaymentStatus = "unknown"
)

// BookingReference is the locally cached pointer to the booking awaiting
// payment confirmation. Created at checkout, consumed and cleared by the
// confirmation flow.
type BookingReference struct {
	BookingID string `json:"booking_id"`
	OrderID   string `json:"order_id"`
}

// Empty reports whether no identifier is available at all.
func (r BookingReference) Empty() bool {
	return r.BookingID == "" && r.OrderID == ""
}

// ReconciliationResult is the normalized outcome of the booking service's
// payment verification operation.
type ReconciliationResult struct {
	Success       bool   `json:"success"`
	PaymentStatus string `json:"payment_status"`
	BookingStatus string `json:"booking_status"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// Settled reports whether the result signals a successfully completed
// payment: payment_status=paid, booking_status=confirmed, or a
// settlement/capture transaction status.
func (r *ReconciliationResult) Settled() bool {
	if r == nil {
		return false
	}
	return r.PaymentStatus == string(PaymentStatusPaid) ||
		r.BookingStatus == "confirmed" ||
		r.Status == string(PaymentStatusSettlement) ||
		r.Status == string(PaymentStatusCapture)
}

// Failed reports whether the result signals a terminal payment failure.
func (r *ReconciliationResult) Failed() bool {
	if r == nil {
		return false
	}
	return r.PaymentStatus == string(PaymentStatusFailed) ||
		r.Status == string(PaymentStatusFailed) ||
		r.Status == "deny" || r.Status == "cancel" || r.Status == "expire"
}

// RawStatus returns the most specific status string available, used for
// the pending display state.
func (r *ReconciliationResult) RawStatus() string {
	switch {
	case r == nil:
		return string(PaymentStatusUnknown)
	case r.Status != "":
		return r.Status
	case r.PaymentStatus != "":
		return r.PaymentStatus
	case r.BookingStatus != "":
		return r.BookingStatus
	default:
		return string(PaymentStatusUnknown)
	}
}

// ConfirmationState is the payment confirmation flow's state.
type ConfirmationState string

const (
	StateChecking            ConfirmationState = "checking"
	StateSucceeded           ConfirmationState = "succeeded"
	StatePending             ConfirmationState = "pending"
	StatePendingRetryTimeout ConfirmationState = "pending-retry-timeout"
	StateFailed              ConfirmationState = "failed"
)

// NoBookingInfoMessage is the user-facing message when neither a stored
// booking ID nor an order ID is available.
const NoBookingInfoMessage = "No booking information found. Please return to dashboard."
