package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aleem-studio/portfolio/internal/models"
	log "github.com/sirupsen/logrus"
)

// CloudinaryCredentials are the basic-auth credentials for the Admin API
type CloudinaryCredentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinarySource talks to the Cloudinary Admin API
type CloudinarySource struct {
	creds       CloudinaryCredentials
	apiBase     string
	deliveryURL string
	httpClient  *http.Client
}

// NewCloudinarySource creates a source. apiBase and deliveryBase are the scheme+host of the
// Admin API and of the delivery CDN.
func NewCloudinarySource(creds CloudinaryCredentials, apiBase, deliveryBase string, timeout time.Duration) *CloudinarySource {
	return &CloudinarySource{
		creds:       creds,
		apiBase:     strings.TrimSuffix(apiBase, "/") + "/v1_1/" + url.PathEscape(creds.CloudName),
		deliveryURL: strings.TrimSuffix(deliveryBase, "/") + "/" + url.PathEscape(creds.CloudName),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type foldersResponse struct {
	Folders []models.Folder `json:"folders"`
}

type resourcesResponse struct {
	Resources []models.Resource `json:"resources"`
}

type searchRequest struct {
	Expression string `json:"expression"`
	MaxResults int    `json:"max_results"`
}

func (s *CloudinarySource) SubFolders(ctx context.Context, root string, limit int) ([]models.Folder, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("max_results", strconv.Itoa(limit))
	}

	var out foldersResponse
	if err := s.get(ctx, "/folders/"+escapePath(root), query, &out); err != nil {
		return nil, err
	}
	return out.Folders, nil
}

func (s *CloudinarySource) Resources(ctx context.Context, prefix string, limit int) ([]models.Resource, error) {
	query := url.Values{}
	query.Set("prefix", prefix)
	if limit > 0 {
		query.Set("max_results", strconv.Itoa(limit))
	}

	var out resourcesResponse
	if err := s.get(ctx, "/resources/image/upload", query, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

func (s *CloudinarySource) Resource(ctx context.Context, publicID string) (*models.Resource, error) {
	var out models.Resource
	err := s.get(ctx, "/resources/image/upload/"+escapePath(publicID), nil, &out)
	var upstream *UpstreamError
	if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CloudinarySource) SearchByFilename(ctx context.Context, filename string) (*models.Resource, error) {
	payload, err := json.Marshal(searchRequest{
		Expression: fmt.Sprintf("resource_type:image AND filename:%s", filename),
		MaxResults: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/resources/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out resourcesResponse
	if err := s.do(req, &out); err != nil {
		return nil, err
	}
	if len(out.Resources) == 0 {
		return nil, nil
	}
	return &out.Resources[0], nil
}

// DeliveryURL returns an auto-format, auto-quality delivery URL
func (s *CloudinarySource) DeliveryURL(_ context.Context, publicID string) (string, error) {
	return s.deliveryURL + "/image/upload/f_auto/q_auto/" + escapePath(publicID), nil
}

func (s *CloudinarySource) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := s.apiBase + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return s.do(req, out)
}

func (s *CloudinarySource) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(s.creds.APIKey, s.creds.APISecret)

	log.WithFields(log.Fields{"method": req.Method, "path": req.URL.Path}).Debug("media API request")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach media API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode media API response: %w", err)
	}
	return nil
}

// escapePath escapes each segment of a slash separated id
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
