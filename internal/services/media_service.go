package services

import (
	"context"
	"fmt"

	"github.com/aleem-studio/portfolio/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MediaOptions tunes the folder listings
type MediaOptions struct {
	RootFolder      string
	MaxFolders      int
	MaxFolderImages int
	FanOut          int
}

// DefaultMediaOptions mirrors the production layout
func DefaultMediaOptions() MediaOptions {
	return MediaOptions{
		RootFolder:      "renders",
		MaxFolders:      100,
		MaxFolderImages: 500,
		FanOut:          4,
	}
}

// MediaService builds gallery image lists from a MediaSource
type MediaService struct {
	source MediaSource
	opts   MediaOptions
}

func NewMediaService(source MediaSource, opts MediaOptions) *MediaService {
	if opts.FanOut <= 0 {
		opts.FanOut = 1
	}
	return &MediaService{source: source, opts: opts}
}

// ListImages returns every image in subfolder, or one representative image per project
// folder under the root when subfolder is empty.
func (s *MediaService) ListImages(ctx context.Context, subfolder string) ([]models.Image, error) {
	if subfolder != "" {
		return s.folderImages(ctx, subfolder)
	}
	return s.representativeImages(ctx)
}

func (s *MediaService) folderImages(ctx context.Context, subfolder string) ([]models.Image, error) {
	resources, err := s.source.Resources(ctx, subfolder+"/", s.opts.MaxFolderImages)
	if err != nil {
		return nil, fmt.Errorf("list images in %q: %w", subfolder, err)
	}

	images := make([]models.Image, 0, len(resources))
	for _, res := range resources {
		img, err := s.toImage(ctx, res, subfolder)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// representativeImages fetches the first image of each folder. Requests run concurrently but
// results keep folder order; the first failure aborts the whole listing.
func (s *MediaService) representativeImages(ctx context.Context) ([]models.Image, error) {
	folders, err := s.source.SubFolders(ctx, s.opts.RootFolder, s.opts.MaxFolders)
	if err != nil {
		return nil, fmt.Errorf("list folders under %q: %w", s.opts.RootFolder, err)
	}

	slots := make([]*models.Image, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FanOut)

	for i, folder := range folders {
		i, folder := i, folder
		g.Go(func() error {
			resources, err := s.source.Resources(gctx, folder.Path+"/", 1)
			if err != nil {
				return fmt.Errorf("list first image in %q: %w", folder.Path, err)
			}
			if len(resources) == 0 {
				log.WithField("folder", folder.Path).Debug("skipping folder without images")
				return nil
			}
			img, err := s.toImage(gctx, resources[0], folder.Path)
			if err != nil {
				return err
			}
			slots[i] = &img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := make([]models.Image, 0, len(folders))
	for _, img := range slots {
		if img != nil {
			images = append(images, *img)
		}
	}
	return images, nil
}

// Resource looks up a single image by public id
func (s *MediaService) Resource(ctx context.Context, publicID string) (*models.Image, error) {
	res, err := s.source.Resource(ctx, publicID)
	if err != nil {
		return nil, err
	}
	img, err := s.toImage(ctx, *res, "")
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// SearchByFilename returns the first image with the given filename, or ErrNotFound
func (s *MediaService) SearchByFilename(ctx context.Context, filename string) (*models.Image, error) {
	res, err := s.source.SearchByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	img, err := s.toImage(ctx, *res, "")
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *MediaService) toImage(ctx context.Context, res models.Resource, folder string) (models.Image, error) {
	secureURL, err := s.source.DeliveryURL(ctx, res.PublicID)
	if err != nil {
		return models.Image{}, fmt.Errorf("build display URL for %q: %w", res.PublicID, err)
	}
	return models.Image{
		PublicID:    res.PublicID,
		SecureURL:   secureURL,
		DisplayName: models.DisplayNameFor(res.PublicID),
		Width:       res.Width,
		Height:      res.Height,
		Folder:      folder,
	}, nil
}
