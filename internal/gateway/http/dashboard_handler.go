package http

import (
	"summitcess-gateway/internal/session/domain/model"
	"summitcess-gateway/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// DashboardHTTPHandler serves the role-gated dashboard areas. The gates
// resolve the session before anything here runs, so these handlers never
// leak a protected payload to the wrong audience.
type DashboardHTTPHandler struct{}

// NewDashboardHTTPHandler creates a new dashboard handler.
func NewDashboardHTTPHandler() *DashboardHTTPHandler {
	return &DashboardHTTPHandler{}
}

// SetupRoutes registers one gated group per protected area.
func (h *DashboardHTTPHandler) SetupRoutes(router fiber.Router, middleware *GatewayMiddleware) {
	admin := router.Group("/admin", middleware.RequireRoles(model.RoleAdmin))
	admin.Get("/", h.area("admin"))

	guide := router.Group("/jasa", middleware.RequireRoles(model.RoleGuide))
	guide.Get("/", h.area("guide"))

	user := router.Group("/user", middleware.RequireRoles(model.RoleUser))
	user.Get("/", h.area("user"))
}

func (h *DashboardHTTPHandler) area(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		userID := utils.GetUserIDOrDefault(ctx, "")
		role := utils.GetRoleOrDefault(ctx, "")
		return c.JSON(fiber.Map{
			"area":    name,
			"user_id": userID,
			"role":    role,
		})
	}
}
