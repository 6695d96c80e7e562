package handlers

import (
	"net/http"
	"strconv"

	"github.com/blogsphere/backend/internal/middleware"
	"github.com/blogsphere/backend/internal/models"
	"github.com/blogsphere/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	contentService *services.ContentService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(contentService *services.ContentService) *PostHandler {
	return &PostHandler{contentService: contentService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:post_id", h.GetPostDetail)
	g.GET("/profile/posts", h.ListMyPosts)
}

// parsePostID reads the :post_id path parameter.
func parsePostID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}
	return uint(id), nil
}

// ListPosts returns all posts, newest first, with author and counts
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.contentService.ListPosts(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost handles creating a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.contentService.CreatePost(c.Request().Context(), identity.UserID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPostDetail returns one post with its comments
func (h *PostHandler) GetPostDetail(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	detail, err := h.contentService.GetPostDetail(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// ListMyPosts returns the authenticated user's posts, newest first
func (h *PostHandler) ListMyPosts(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	posts, err := h.contentService.ListPostsByUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
