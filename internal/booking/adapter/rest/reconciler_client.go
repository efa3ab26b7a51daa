package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"summitcess-gateway/internal/booking/domain/model"
	"summitcess-gateway/internal/booking/domain/repository"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"
)

// ReconcilerClient calls the booking service's payment verification
// endpoint. The operation is idempotent on the service side, so the
// confirmation flow can poll it freely.
type ReconcilerClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewReconcilerClient creates a booking-service reconciliation client.
func NewReconcilerClient(baseURL string, timeout time.Duration, log logger.Logger) *ReconcilerClient {
	return &ReconcilerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithComponent("reconciler_client"),
	}
}

type reconcileRequest struct {
	BookingID string `json:"booking_id,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
}

type reconcileResponse struct {
	Success bool `json:"success"`
	Data    struct {
		PaymentStatus string `json:"payment_status"`
		BookingStatus string `json:"booking_status"`
		Status        string `json:"status"`
	} `json:"data"`
	Message string `json:"message"`
}

// Reconcile verifies payment status for the given booking reference.
func (c *ReconcilerClient) Reconcile(ctx context.Context, ref model.BookingReference) (*model.ReconciliationResult, error) {
	if ref.Empty() {
		return nil, apperrors.NewBookingLookupError(model.NoBookingInfoMessage)
	}

	payload, err := json.Marshal(reconcileRequest{
		BookingID: ref.BookingID,
		OrderID:   ref.OrderID,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode reconciliation request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bookings/verify-payment", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build reconciliation request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"booking_id": ref.BookingID,
			"order_id":   ref.OrderID,
		}).Errorf("Reconciliation request failed: %v", err)
		return nil, apperrors.NewReconciliationError("payment verification request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, apperrors.NewReconciliationError(
			fmt.Sprintf("booking service returned status %d", resp.StatusCode))
	}

	var decoded reconcileResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.NewReconciliationError("failed to decode reconciliation response").WithCause(err)
	}

	return &model.ReconciliationResult{
		Success:       decoded.Success,
		PaymentStatus: decoded.Data.PaymentStatus,
		BookingStatus: decoded.Data.BookingStatus,
		Status:        decoded.Data.Status,
		Message:       decoded.Message,
	}, nil
}

// Ensure ReconcilerClient implements the reconciler interface
var _ repository.PaymentReconciler = (*ReconcilerClient)(nil)
