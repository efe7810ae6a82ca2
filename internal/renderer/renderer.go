package renderer

import (
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/aleem-studio/portfolio/internal/gallery"
	"github.com/aleem-studio/portfolio/internal/models"
	"github.com/labstack/echo/v4"
)

// TemplateRenderer implements echo.Renderer
type TemplateRenderer struct {
	Templates map[string]*template.Template
}

// Funcs are the helpers available to every template
var Funcs = template.FuncMap{
	"isVideo": gallery.IsVideo,
	"quality": func(img models.Image, q string) string {
		return img.WithQuality(q)
	},
	"add": func(a, b int) int {
		return a + b
	},
}

// New creates a new TemplateRenderer with templates pre-parsed from fsys
func New(fsys fs.FS) *TemplateRenderer {
	r := &TemplateRenderer{
		Templates: make(map[string]*template.Template),
	}
	r.parseTemplates(fsys)
	return r
}

func (t *TemplateRenderer) parseTemplates(fsys fs.FS) {
	parse := func(name string, files ...string) {
		t.Templates[name] = template.Must(template.New(name).Funcs(Funcs).ParseFS(fsys, files...))
	}

	// Pages share the layout and the grid partial
	parse("home",
		"layouts/base.html",
		"partials/gallery_grid.html",
		"partials/media_tile.html",
		"pages/home.html",
	)

	parse("gallery_grid", "partials/gallery_grid.html", "partials/media_tile.html")
	parse("lightbox", "partials/lightbox.html")
	parse("contact_modal", "partials/contact_modal.html")
}

// selfExecutingTemplates lists templates that execute their own named block instead of "base"
var selfExecutingTemplates = map[string]bool{
	"gallery_grid":  true,
	"lightbox":      true,
	"contact_modal": true,
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.Templates[name]
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "Template not found: "+name)
	}

	if selfExecutingTemplates[name] {
		return tmpl.ExecuteTemplate(w, name, data)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
