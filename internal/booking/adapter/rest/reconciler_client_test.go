package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"summitcess-gateway/internal/booking/adapter/rest"
	"summitcess-gateway/internal/booking/domain/model"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilerClient_Reconcile(t *testing.T) {
	t.Run("settled payment", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/bookings/verify-payment", r.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "booking-42", body["booking_id"])
			assert.Equal(t, "order-7", body["order_id"])

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data": map[string]string{
					"payment_status": "paid",
					"booking_status": "confirmed",
				},
				"message": "Payment verified",
			})
		}))
		defer server.Close()

		client := rest.NewReconcilerClient(server.URL, 5*time.Second, logger.NewLogger())
		result, err := client.Reconcile(context.Background(), model.BookingReference{
			BookingID: "booking-42",
			OrderID:   "order-7",
		})

		require.NoError(t, err)
		assert.True(t, result.Settled())
		assert.False(t, result.Failed())
		assert.Equal(t, "paid", result.RawStatus())
		assert.Equal(t, "Payment verified", result.Message)
	})

	t.Run("pending payment is neither settled nor failed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]string{"status": "pending"},
			})
		}))
		defer server.Close()

		client := rest.NewReconcilerClient(server.URL, 5*time.Second, logger.NewLogger())
		result, err := client.Reconcile(context.Background(), model.BookingReference{OrderID: "order-7"})

		require.NoError(t, err)
		assert.False(t, result.Settled())
		assert.False(t, result.Failed())
		assert.Equal(t, "pending", result.RawStatus())
	})

	t.Run("terminal provider statuses map to failure", func(t *testing.T) {
		for _, status := range []string{"deny", "cancel", "expire", "failed"} {
			result := &model.ReconciliationResult{Status: status}
			assert.True(t, result.Failed(), "status %q should be terminal", status)
			assert.False(t, result.Settled())
		}
	})

	t.Run("empty reference is rejected before any request", func(t *testing.T) {
		client := rest.NewReconcilerClient("http://booking.invalid", time.Second, logger.NewLogger())
		result, err := client.Reconcile(context.Background(), model.BookingReference{})

		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, apperrors.IsBookingLookup(err))
	})

	t.Run("non-2xx response yields reconciliation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := rest.NewReconcilerClient(server.URL, 5*time.Second, logger.NewLogger())
		result, err := client.Reconcile(context.Background(), model.BookingReference{BookingID: "booking-42"})

		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, apperrors.IsReconciliation(err))
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unreachable service yields reconciliation error", func(t *testing.T) {
		client := rest.NewReconcilerClient("http://127.0.0.1:1", time.Second, logger.NewLogger())
		result, err := client.Reconcile(context.Background(), model.BookingReference{BookingID: "booking-42"})

		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, apperrors.IsReconciliation(err))
	})
}
