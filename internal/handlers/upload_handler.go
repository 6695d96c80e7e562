package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// allowedExtensions mirrors the media types posts may attach.
var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
}

// UploadHandler stores post media attachments on disk and hands back the
// stored filename for use in CreatePostRequest.
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadDir string) (*UploadHandler, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}
	return &UploadHandler{uploadDir: uploadDir}, nil
}

// RegisterUploadRoutes registers upload-related routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/uploads", h.Upload)
}

// Upload accepts one multipart file and saves it under a uuid-prefixed name
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return echo.NewHTTPError(http.StatusBadRequest, "File type not allowed")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read file")
	}
	defer src.Close()

	// uuid prefix keeps uploads from clobbering each other
	filename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, filename))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not store file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not store file")
	}
	return c.JSON(http.StatusCreated, echo.Map{"filename": filename})
}
