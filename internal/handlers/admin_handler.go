package handlers

import (
	"net/http"

	"github.com/blogsphere/backend/internal/middleware"
	"github.com/blogsphere/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AdminHandler handles HTTP requests for the admin dashboard
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RegisterAdminRoutes registers admin-related routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/admin/dashboard", h.Dashboard)
	g.DELETE("/admin/posts/:post_id", h.DeletePost)
}

// Dashboard returns every user plus aggregate stats
func (h *AdminHandler) Dashboard(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	users, stats, err := h.adminService.ListUsersWithStats(c.Request().Context(), identity)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "stats": stats})
}

// DeletePost removes a post together with its likes and comments
func (h *AdminHandler) DeletePost(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := h.adminService.DeletePost(c.Request().Context(), identity, postID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
