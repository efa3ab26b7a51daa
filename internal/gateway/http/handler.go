package http

import (
	"summitcess-gateway/internal/session/domain/model"
	"summitcess-gateway/internal/session/usecase"
	apperrors "summitcess-gateway/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// SessionHTTPHandler handles the session endpoints consumed by the
// front-end.
type SessionHTTPHandler struct {
	usecase usecase.SessionUsecaseInterface
}

// NewSessionHTTPHandler creates a new session HTTP handler.
func NewSessionHTTPHandler(uc usecase.SessionUsecaseInterface) *SessionHTTPHandler {
	return &SessionHTTPHandler{usecase: uc}
}

// SetupRoutes registers the session routes.
func (h *SessionHTTPHandler) SetupRoutes(router fiber.Router, middleware *GatewayMiddleware) {
	auth := router.Group("/auth", middleware.RateLimiter())
	auth.Post("/login", h.Login)
	auth.Post("/register", h.Register)
	auth.Post("/logout", h.Logout)
	auth.Post("/refresh", h.Refresh)
	auth.Get("/session", h.Session)
}

// Login handles user login and responds with the session plus the
// role-appropriate redirect target.
func (h *SessionHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	outcome, err := h.usecase.Login(c.UserContext(), SessionID(c), req)
	if err != nil {
		if apperrors.IsSuspension(err) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":       err.Error(),
				"redirect_to": usecase.SuspensionRedirect(err),
			})
		}
		if appErr, ok := err.(*apperrors.AppError); ok {
			return c.Status(appErr.HTTPCode).JSON(fiber.Map{
				"error": appErr.Message,
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	return c.JSON(outcome)
}

// Register handles user registration and points the client at the login
// page with the registered flag set.
func (h *SessionHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	outcome, err := h.usecase.Register(c.UserContext(), req)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return c.Status(appErr.HTTPCode).JSON(fiber.Map{
				"error": appErr.Message,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(outcome)
}

// Logout wipes the session unconditionally and reports the login redirect.
func (h *SessionHTTPHandler) Logout(c *fiber.Ctx) error {
	redirect := h.usecase.Logout(c.UserContext(), SessionID(c))
	return c.JSON(fiber.Map{
		"message":     "Logged out successfully",
		"redirect_to": redirect,
	})
}

// Refresh performs an explicit token refresh for the session.
func (h *SessionHTTPHandler) Refresh(c *fiber.Ctx) error {
	if ok := h.usecase.RefreshToken(c.UserContext(), SessionID(c)); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":       "Session expired, please sign in again",
			"redirect_to": model.PathLogin,
		})
	}
	return c.JSON(fiber.Map{
		"message": "Token refreshed",
	})
}

// Session restores and reports the current session. An absent or rejected
// stored token yields an authenticated=false answer, never an error; the
// front-end's loading flag resolves either way.
func (h *SessionHTTPHandler) Session(c *fiber.Ctx) error {
	session, err := h.usecase.CheckAuth(c.UserContext(), SessionID(c))
	if err != nil {
		if apperrors.IsSuspension(err) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"authenticated": false,
				"error":         err.Error(),
				"redirect_to":   usecase.SuspensionRedirect(err),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"authenticated": false,
			"error":         "Session check failed",
		})
	}
	if session == nil {
		return c.JSON(fiber.Map{
			"authenticated": false,
		})
	}
	return c.JSON(fiber.Map{
		"authenticated": true,
		"session":       session,
		"home":          session.Role.HomePath(),
	})
}
