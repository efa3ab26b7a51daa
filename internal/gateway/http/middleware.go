package http

import (
	"net/url"
	"time"

	sessioncfg "summitcess-gateway/internal/session/config"
	"summitcess-gateway/internal/session/domain/model"
	"summitcess-gateway/internal/session/usecase"
	"summitcess-gateway/internal/shared/contextkeys"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// PaymentStatusPath is the dedicated payment-handler route every payment
// provider redirect is forced onto.
const PaymentStatusPath = "/payment/status"

// GatewayMiddleware provides the gateway's session and routing middleware.
type GatewayMiddleware struct {
	sessions usecase.SessionUsecaseInterface
	config   *sessioncfg.Config
}

// NewGatewayMiddleware creates the gateway middleware set.
func NewGatewayMiddleware(sessions usecase.SessionUsecaseInterface, cfg *sessioncfg.Config) *GatewayMiddleware {
	return &GatewayMiddleware{
		sessions: sessions,
		config:   cfg,
	}
}

// CORS middleware with credentials enabled for the front-end origin.
func (m *GatewayMiddleware) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// SecurityHeaders adds security headers
func (m *GatewayMiddleware) SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RateLimiter creates rate limiting middleware for the auth endpoints
func (m *GatewayMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID middleware
func (m *GatewayMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// SessionCookie guarantees every request carries a gateway session ID,
// minting a fresh cookie for first-time visitors. The ID scopes all token
// store state for the browser.
func (m *GatewayMiddleware) SessionCookie() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(m.config.CookieName)
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     m.config.CookieName,
				Value:    sessionID,
				Path:     m.config.CookiePath,
				Domain:   m.config.CookieDomain,
				MaxAge:   int(m.config.SessionTTL.Seconds()),
				Secure:   m.config.CookieSecure,
				HTTPOnly: m.config.CookieHTTPOnly,
				SameSite: m.config.CookieSameSite,
			})
		}

		c.SetUserContext(utils.WithSessionID(c.UserContext(), sessionID))
		return c.Next()
	}
}

// PaymentRedirect intercepts any path carrying a settled transaction
// status or a success flag from the payment provider and forces
// navigation to the dedicated payment-handler route.
func (m *GatewayMiddleware) PaymentRedirect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == PaymentStatusPath {
			return c.Next()
		}
		transactionStatus := c.Query("transaction_status")
		if transactionStatus == "settlement" || transactionStatus == "capture" || c.Query("status") == "success" {
			values := url.Values{}
			if transactionStatus != "" {
				values.Set("transaction_status", transactionStatus)
			}
			if orderID := c.Query("order_id"); orderID != "" {
				values.Set("order_id", orderID)
			}
			target := PaymentStatusPath
			if encoded := values.Encode(); encoded != "" {
				target += "?" + encoded
			}
			return c.Redirect(target, fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireRoles gates a protected area: the session is resolved before any
// protected byte is written, unauthenticated visitors are redirected to
// the login page and authenticated users of another role are sent to
// their own dashboard.
func (m *GatewayMiddleware) RequireRoles(allowed ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := SessionID(c)
		if sessionID == "" {
			return c.Redirect(model.PathLogin, fiber.StatusFound)
		}

		session, err := m.sessions.CheckAuth(c.UserContext(), sessionID)
		if err != nil {
			if apperrors.IsSuspension(err) {
				return c.Redirect(usecase.SuspensionRedirect(err), fiber.StatusFound)
			}
			return c.Redirect(model.PathLogin, fiber.StatusFound)
		}
		if session == nil {
			return c.Redirect(model.PathLogin, fiber.StatusFound)
		}

		for _, role := range allowed {
			if session.Role == role {
				ctx := utils.WithUserID(c.UserContext(), session.UserID)
				ctx = utils.WithRole(ctx, string(session.Role))
				c.SetUserContext(ctx)
				return c.Next()
			}
		}

		// Authenticated but wrong role: send them home, never render
		// the protected children.
		return c.Redirect(session.Role.HomePath(), fiber.StatusFound)
	}
}

// SessionID returns the gateway session ID resolved by SessionCookie.
func SessionID(c *fiber.Ctx) string {
	return utils.GetSessionIDOrDefault(c.UserContext(), "")
}
