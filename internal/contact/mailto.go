// Package contact composes the mailto hand-off used by the contact form.
package contact

import (
	"errors"
	"net/mail"
	"net/url"
	"strings"
)

// Message is a filled-in contact form
type Message struct {
	Name  string
	Email string
	Body  string
}

// Validate checks the required fields
func (m Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("Name is required")
	}
	if strings.TrimSpace(m.Email) == "" {
		return errors.New("Email is required")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return errors.New("Email is not a valid address")
	}
	if strings.TrimSpace(m.Body) == "" {
		return errors.New("Message is required")
	}
	return nil
}

// BuildMailto returns a mailto URI addressed to recipient with the subject
// "Contact from <name>" and the sender's address appended to the body.
func BuildMailto(recipient string, m Message) string {
	subject := "Contact from " + strings.TrimSpace(m.Name)
	body := m.Body + "\r\n\r\nFrom: " + strings.TrimSpace(m.Email)

	// mailto wants %20 rather than + for spaces
	query := "subject=" + escape(subject) + "&body=" + escape(body)
	// the address keeps its @, only characters unsafe in a path are escaped
	return "mailto:" + url.PathEscape(strings.TrimSpace(recipient)) + "?" + query
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
