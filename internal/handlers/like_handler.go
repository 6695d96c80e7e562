package handlers

import (
	"net/http"

	"github.com/blogsphere/backend/internal/middleware"
	"github.com/blogsphere/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	contentService *services.ContentService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(contentService *services.ContentService) *LikeHandler {
	return &LikeHandler{contentService: contentService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
}

// ToggleLike flips the caller's like on a post and returns the new state
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	liked, err := h.contentService.ToggleLike(c.Request().Context(), identity.UserID, postID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "liked": liked})
}
