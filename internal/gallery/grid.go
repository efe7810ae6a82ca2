// Package gallery holds the view state behind the project grid and the lightbox.
package gallery

import (
	"context"
	"fmt"

	"github.com/aleem-studio/portfolio/internal/models"
)

// PlaceholderCount is the number of skeleton tiles shown while the grid loads
const PlaceholderCount = 6

// LoadFailedMessage is shown in place of the grid when the listing has the wrong shape
const LoadFailedMessage = "Failed to load images. Please try again later."

// GridState is one of GridLoading, GridLoaded, GridEmpty or GridFailed
type GridState interface {
	gridState()
}

// GridLoading shows placeholder tiles and no images
type GridLoading struct {
	Placeholders int
}

// GridLoaded holds a non-empty image list
type GridLoaded struct {
	Images []models.Image
}

// GridEmpty is a successful fetch that returned nothing
type GridEmpty struct{}

// GridFailed replaces the grid with a message
type GridFailed struct {
	Message string
}

func (GridLoading) gridState() {}
func (GridLoaded) gridState()  {}
func (GridEmpty) gridState()   {}
func (GridFailed) gridState()  {}

// ImageLister fetches the representative image list
type ImageLister interface {
	Images(ctx context.Context) []models.Image
}

// InitialGrid is the state before the fetch resolves
func InitialGrid() GridState {
	return GridLoading{Placeholders: PlaceholderCount}
}

// LoadGrid performs the single fetch and resolves it into a terminal state
func LoadGrid(ctx context.Context, lister ImageLister) GridState {
	return GridFromResult(lister.Images(ctx))
}

// GridFromResult maps a fetched value to a state. Anything that is not an image slice
// yields GridFailed.
func GridFromResult(result interface{}) GridState {
	switch v := result.(type) {
	case []models.Image:
		if len(v) == 0 {
			return GridEmpty{}
		}
		return GridLoaded{Images: v}
	case error:
		return GridFailed{Message: v.Error()}
	default:
		return GridFailed{Message: LoadFailedMessage}
	}
}

// ImageAt returns the grid entry at index when the grid is loaded
func ImageAt(state GridState, index int) (models.Image, error) {
	loaded, ok := state.(GridLoaded)
	if !ok {
		return models.Image{}, fmt.Errorf("grid is not loaded")
	}
	if index < 0 || index >= len(loaded.Images) {
		return models.Image{}, fmt.Errorf("index %d out of range [0,%d)", index, len(loaded.Images))
	}
	return loaded.Images[index], nil
}

// GridView flattens a GridState for templates
type GridView struct {
	Placeholders []struct{}
	Images       []models.Image
	Empty        bool
	Failed       bool
	Message      string
}

// ViewOf maps a state to its template view. Unknown states render as loading.
func ViewOf(state GridState) GridView {
	switch s := state.(type) {
	case GridLoaded:
		return GridView{Images: s.Images}
	case GridEmpty:
		return GridView{Empty: true}
	case GridFailed:
		return GridView{Failed: true, Message: s.Message}
	case GridLoading:
		return GridView{Placeholders: make([]struct{}, s.Placeholders)}
	default:
		return GridView{Placeholders: make([]struct{}, PlaceholderCount)}
	}
}
