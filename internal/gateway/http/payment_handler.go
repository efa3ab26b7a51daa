package http

import (
	"time"

	"summitcess-gateway/internal/booking/domain/model"
	"summitcess-gateway/internal/booking/usecase"

	"github.com/gofiber/fiber/v2"
)

// PaymentHTTPHandler handles the payment-status landing route the
// payment provider redirects back to.
type PaymentHTTPHandler struct {
	usecase usecase.ConfirmationUsecaseInterface
}

// NewPaymentHTTPHandler creates a new payment HTTP handler.
func NewPaymentHTTPHandler(uc usecase.ConfirmationUsecaseInterface) *PaymentHTTPHandler {
	return &PaymentHTTPHandler{usecase: uc}
}

// SetupRoutes registers the payment routes.
func (h *PaymentHTTPHandler) SetupRoutes(router fiber.Router) {
	router.Get(PaymentStatusPath, h.Status)
}

// Status reconciles the landing's identifiers against the booking service
// and answers with the flow outcome. Success answers carry the dashboard
// redirect and the delay the front-end should honor before navigating;
// failure answers carry the message plus the manual return action.
func (h *PaymentHTTPHandler) Status(c *fiber.Ctx) error {
	input := usecase.ConfirmationInput{
		SessionID:         SessionID(c),
		OrderID:           c.Query("order_id"),
		TransactionStatus: c.Query("transaction_status"),
	}

	outcome, err := h.usecase.Confirm(c.UserContext(), input)
	if err != nil && outcome == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"state": model.StateFailed,
			"error": "Payment check failed",
		})
	}

	status := fiber.StatusOK
	if outcome.State == model.StateFailed {
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{
		"state":             outcome.State,
		"status":            outcome.Status,
		"message":           outcome.Message,
		"redirect_to":       outcome.RedirectTo,
		"redirect_after_ms": outcome.RedirectAfter / time.Millisecond,
		"auto_redirect":     outcome.AutoRedirect,
	})
}
