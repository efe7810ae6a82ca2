package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleem-studio/portfolio/internal/models"
)

// ErrNotFound is returned when a single resource lookup finds nothing
var ErrNotFound = errors.New("resource not found")

// MediaSource is the upstream media host the proxy endpoint reads from
type MediaSource interface {
	// SubFolders lists the immediate subfolders under root, capped at limit.
	SubFolders(ctx context.Context, root string, limit int) ([]models.Folder, error)
	// Resources lists image resources whose id starts with prefix, capped at limit.
	Resources(ctx context.Context, prefix string, limit int) ([]models.Resource, error)
	// Resource looks up a single image by its public id.
	Resource(ctx context.Context, publicID string) (*models.Resource, error)
	// SearchByFilename returns the first image with the given filename, or nil.
	SearchByFilename(ctx context.Context, filename string) (*models.Resource, error)
	// DeliveryURL returns the display URL for a public id.
	DeliveryURL(ctx context.Context, publicID string) (string, error)
}

// UpstreamError is a non-success response from the media host
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("media API request failed with status %d: %s", e.Status, e.Body)
}
