package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/aleem-studio/portfolio/internal/models"
	"github.com/aleem-studio/portfolio/internal/services"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// MediaCatalog is the read side of the media service
type MediaCatalog interface {
	ListImages(ctx context.Context, subfolder string) ([]models.Image, error)
	Resource(ctx context.Context, publicID string) (*models.Image, error)
	SearchByFilename(ctx context.Context, filename string) (*models.Image, error)
}

type MediaHandler struct {
	media MediaCatalog
}

func NewMediaHandler(media MediaCatalog) *MediaHandler {
	return &MediaHandler{media: media}
}

// ListImages serves GET /api/cloudinary-images
func (h *MediaHandler) ListImages(c echo.Context) error {
	subfolder := c.QueryParam("subfolder")

	images, err := h.media.ListImages(c.Request().Context(), subfolder)
	if err != nil {
		log.WithError(err).WithField("subfolder", subfolder).Error("Error fetching images from media host")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch images",
			"details": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, images)
}

// GetResource serves GET /api/cloudinary-images/resource?public_id=
func (h *MediaHandler) GetResource(c echo.Context) error {
	publicID := c.QueryParam("public_id")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "public_id is required"})
	}

	image, err := h.media.Resource(c.Request().Context(), publicID)
	return h.single(c, image, err, log.Fields{"public_id": publicID})
}

// SearchByFilename serves GET /api/cloudinary-images/search?filename=
func (h *MediaHandler) SearchByFilename(c echo.Context) error {
	filename := c.QueryParam("filename")
	if filename == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "filename is required"})
	}

	image, err := h.media.SearchByFilename(c.Request().Context(), filename)
	return h.single(c, image, err, log.Fields{"filename": filename})
}

func (h *MediaHandler) single(c echo.Context, image *models.Image, err error, fields log.Fields) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Image not found"})
	case err != nil:
		log.WithError(err).WithFields(fields).Error("Error fetching image from media host")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch image",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, image)
}
