package handlers

import (
	"net/http"

	"github.com/aleem-studio/portfolio/internal/config"
	"github.com/aleem-studio/portfolio/internal/contact"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type ContactHandler struct {
	site config.Site
}

func NewContactHandler(site config.Site) *ContactHandler {
	return &ContactHandler{site: site}
}

// ContactModal renders the empty contact form
func (h *ContactHandler) ContactModal(c echo.Context) error {
	return c.Render(http.StatusOK, "contact_modal", map[string]interface{}{
		"CSRF":    CSRFToken(c),
		"Message": contact.Message{},
	})
}

// SubmitContact hands the filled form to the visitor's mail client
func (h *ContactHandler) SubmitContact(c echo.Context) error {
	msg := contact.Message{
		Name:  c.FormValue("name"),
		Email: c.FormValue("email"),
		Body:  c.FormValue("message"),
	}

	if err := msg.Validate(); err != nil {
		return c.Render(http.StatusOK, "contact_modal", map[string]interface{}{
			"CSRF":    CSRFToken(c),
			"Error":   err.Error(),
			"Message": msg,
		})
	}

	uri := contact.BuildMailto(h.site.ContactEmail, msg)
	log.Info("Contact form handed off to mail client")

	if IsHTMX(c) {
		return HTMXRedirect(c, uri)
	}
	return c.Redirect(http.StatusSeeOther, uri)
}
