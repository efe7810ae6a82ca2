// Package mediaclient calls the media proxy endpoint on behalf of the gallery views.
package mediaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aleem-studio/portfolio/internal/models"
	log "github.com/sirupsen/logrus"
)

// ImagesPath is the route of the media proxy endpoint
const ImagesPath = "/api/cloudinary-images"

// Failure kinds reported in a Diagnostic
const (
	KindNetwork = "network"
	KindStatus  = "status"
	KindShape   = "shape"
)

type clientIPKey struct{}

// WithClientIP returns a context whose requests carry ip as X-Real-IP, so the endpoint's
// per-client limits apply to the visitor rather than to this process.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the IP stored by WithClientIP, or ""
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// Diagnostic describes a failure that was swallowed by the client
type Diagnostic struct {
	Op     string
	Kind   string
	Folder string
	Err    error
	At     time.Time
}

// Reporter receives diagnostics for failures the client does not propagate
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// LogReporter writes diagnostics to the standard logrus logger
var LogReporter = ReporterFunc(func(d Diagnostic) {
	log.WithFields(log.Fields{
		"op":     d.Op,
		"kind":   d.Kind,
		"folder": d.Folder,
	}).WithError(d.Err).Warn("media client request failed")
})

// ShapeError means the response body was not a JSON array of images
type ShapeError struct {
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape: %v", e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// StatusError is a non-success response from the proxy endpoint
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("proxy endpoint returned status %d: %s", e.Status, e.Message)
}

// Client calls the media proxy endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	reporter   Reporter
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithReporter sets where swallowed failures are reported
func WithReporter(r Reporter) Option {
	return func(c *Client) { c.reporter = r }
}

// New creates a client for the proxy endpoint served at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		reporter:   LogReporter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Images returns one representative image per project. It never fails: any error yields an
// empty, non-nil slice and a Diagnostic on the reporter.
func (c *Client) Images(ctx context.Context) []models.Image {
	images, err := c.fetch(ctx, "")
	if err != nil {
		c.reporter.Report(Diagnostic{Op: "images", Kind: kindOf(err), Err: err, At: time.Now()})
		return []models.Image{}
	}
	return images
}

// FolderImages returns every image in folder. Errors are returned so callers can degrade.
func (c *Client) FolderImages(ctx context.Context, folder string) ([]models.Image, error) {
	images, err := c.fetch(ctx, folder)
	if err != nil {
		c.reporter.Report(Diagnostic{Op: "folder_images", Kind: kindOf(err), Folder: folder, Err: err, At: time.Now()})
		return nil, err
	}
	return images, nil
}

func (c *Client) fetch(ctx context.Context, folder string) ([]models.Image, error) {
	endpoint := c.baseURL + ImagesPath
	if folder != "" {
		endpoint += "?" + url.Values{"subfolder": {folder}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ip := ClientIP(ctx); ip != "" {
		req.Header.Set("X-Real-IP", ip)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach media endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ShapeError{Err: errors.New("response is not an array")}
	}

	var images []models.Image
	if err := json.Unmarshal(trimmed, &images); err != nil {
		return nil, &ShapeError{Err: err}
	}
	if images == nil {
		images = []models.Image{}
	}
	return images, nil
}

// errorMessage extracts the details of an {error, details} body
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		if payload.Details != "" {
			return payload.Error + ": " + payload.Details
		}
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

func kindOf(err error) string {
	var shape *ShapeError
	var status *StatusError
	switch {
	case errors.As(err, &shape):
		return KindShape
	case errors.As(err, &status):
		return KindStatus
	default:
		return KindNetwork
	}
}
