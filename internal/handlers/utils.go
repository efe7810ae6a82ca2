package handlers

import (
	"net/http"

	"github.com/aleem-studio/portfolio/internal/gallery"
	"github.com/aleem-studio/portfolio/internal/middleware"
	"github.com/aleem-studio/portfolio/internal/utils"
	"github.com/labstack/echo/v4"
)

// HTMXRedirect sets the HX-Redirect header and returns a 200 OK response.
// This is used for HTMX requests that should trigger a client-side redirect.
func HTMXRedirect(c echo.Context, url string) error {
	c.Response().Header().Set("HX-Redirect", url)
	return c.NoContent(http.StatusOK)
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// CSRFToken returns the token set by the CSRF middleware, or ""
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(middleware.CSRFContextKey).(string)
	return token
}

// ViewerID returns the viewer id cookie value, or ""
func ViewerID(c echo.Context) string {
	cookie, err := c.Cookie(utils.ViewerCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CurrentViewer returns the viewer for this browser, issuing a new cookie when the
// previous id is unknown or expired.
func CurrentViewer(c echo.Context, viewers *gallery.Viewers) *gallery.Viewer {
	id := ViewerID(c)
	viewer := viewers.Get(id)
	if viewer.ID != id {
		c.SetCookie(&http.Cookie{
			Name:     utils.ViewerCookieName,
			Value:    viewer.ID,
			Path:     "/",
			MaxAge:   int(utils.ViewerCookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   c.IsTLS(),
		})
	}
	return viewer
}
