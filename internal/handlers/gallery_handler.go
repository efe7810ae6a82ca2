package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aleem-studio/portfolio/internal/config"
	"github.com/aleem-studio/portfolio/internal/gallery"
	"github.com/aleem-studio/portfolio/internal/mediaclient"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type GalleryHandler struct {
	site    config.Site
	viewers *gallery.Viewers
	images  gallery.ImageLister
	folders gallery.FolderFetcher
}

func NewGalleryHandler(site config.Site, viewers *gallery.Viewers, images gallery.ImageLister, folders gallery.FolderFetcher) *GalleryHandler {
	return &GalleryHandler{
		site:    site,
		viewers: viewers,
		images:  images,
		folders: folders,
	}
}

// Home renders the landing page with placeholder tiles. The grid loads itself afterwards.
func (h *GalleryHandler) Home(c echo.Context) error {
	viewer := CurrentViewer(c, h.viewers)
	viewer.SetGrid(gallery.InitialGrid())
	viewer.Lightbox.Close()

	return c.Render(http.StatusOK, "home", map[string]interface{}{
		"Site": h.site,
		"CSRF": CSRFToken(c),
		"Grid": gallery.ViewOf(viewer.Grid()),
	})
}

// Grid performs the single image-list fetch and renders the resulting grid
func (h *GalleryHandler) Grid(c echo.Context) error {
	viewer := CurrentViewer(c, h.viewers)

	state := gallery.LoadGrid(visitorContext(c), h.images)
	viewer.SetGrid(state)

	return c.Render(http.StatusOK, "gallery_grid", gallery.ViewOf(state))
}

// OpenLightbox opens the overlay on grid tile ?index=
func (h *GalleryHandler) OpenLightbox(c echo.Context) error {
	index, err := strconv.Atoi(c.QueryParam("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "index must be an integer")
	}

	viewer := CurrentViewer(c, h.viewers)
	clicked, err := gallery.ImageAt(viewer.Grid(), index)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	lightbox := viewer.Lightbox
	ticket, needsFetch := lightbox.Begin(index, clicked)
	if needsFetch {
		images, err := h.folders.FolderImages(visitorContext(c), ticket.Folder())
		if err != nil {
			log.WithError(err).WithField("folder", ticket.Folder()).Warn("Folder fetch failed, showing the clicked image")
		}
		if !lightbox.Apply(ticket, images, err) {
			log.WithField("folder", ticket.Folder()).Debug("Discarding stale folder fetch")
		}
	}

	return h.renderLightbox(c, lightbox)
}

func (h *GalleryHandler) NextImage(c echo.Context) error {
	return h.withLightbox(c, (*gallery.Lightbox).Next)
}

func (h *GalleryHandler) PreviousImage(c echo.Context) error {
	return h.withLightbox(c, (*gallery.Lightbox).Previous)
}

func (h *GalleryHandler) CloseLightbox(c echo.Context) error {
	return h.withLightbox(c, (*gallery.Lightbox).Close)
}

// ImageLoaded clears the loading indicator. The response replaces the spinner with nothing.
func (h *GalleryHandler) ImageLoaded(c echo.Context) error {
	index, err := strconv.Atoi(c.QueryParam("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "index must be an integer")
	}

	if viewer, ok := h.viewers.Lookup(ViewerID(c)); ok {
		viewer.Lightbox.MarkLoaded(index)
	}
	return c.HTML(http.StatusOK, "")
}

// visitorContext tags outgoing media requests with the visitor's address
func visitorContext(c echo.Context) context.Context {
	return mediaclient.WithClientIP(c.Request().Context(), c.RealIP())
}

func (h *GalleryHandler) withLightbox(c echo.Context, action func(*gallery.Lightbox)) error {
	viewer, ok := h.viewers.Lookup(ViewerID(c))
	if !ok {
		// expired viewers have nothing open
		return c.Render(http.StatusOK, "lightbox", map[string]interface{}{})
	}
	action(viewer.Lightbox)
	return h.renderLightbox(c, viewer.Lightbox)
}

func (h *GalleryHandler) renderLightbox(c echo.Context, lightbox *gallery.Lightbox) error {
	data := map[string]interface{}{}
	if view, ok := lightbox.View(); ok {
		data["View"] = &view
	}
	return c.Render(http.StatusOK, "lightbox", data)
}
