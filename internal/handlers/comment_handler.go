package handlers

import (
	"net/http"

	"github.com/blogsphere/backend/internal/middleware"
	"github.com/blogsphere/backend/internal/models"
	"github.com/blogsphere/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	contentService *services.ContentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(contentService *services.ContentService) *CommentHandler {
	return &CommentHandler{contentService: contentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.AddComment)
}

// AddComment appends a comment to a post
func (h *CommentHandler) AddComment(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.contentService.AddComment(c.Request().Context(), identity.UserID, postID, req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}
