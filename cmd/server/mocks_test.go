package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aleem-studio/portfolio/internal/config"
	"github.com/aleem-studio/portfolio/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testCloud = "demo"

// fakeCloudinary serves the subset of the Admin API the media source uses
type fakeCloudinary struct {
	mu        sync.Mutex
	folders   []models.Folder
	resources map[string][]models.Resource
	failing   map[string]int
	requests  []string
}

func newFakeCloudinary() *fakeCloudinary {
	return &fakeCloudinary{
		resources: make(map[string][]models.Resource),
		failing:   make(map[string]int),
	}
}

// addFolder registers a folder under renders with the given image names
func (f *fakeCloudinary) addFolder(name string, images ...string) {
	path := "renders/" + name
	f.folders = append(f.folders, models.Folder{Name: name, Path: path})
	for _, img := range images {
		f.resources[path+"/"] = append(f.resources[path+"/"], models.Resource{
			PublicID: path + "/" + img,
			Format:   "jpg",
			Width:    1600,
			Height:   1200,
		})
	}
}

func (f *fakeCloudinary) failPrefix(prefix string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[prefix] = status
}

func (f *fakeCloudinary) requestsFor(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r == prefix {
			n++
		}
	}
	return n
}

func (f *fakeCloudinary) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if user, pass, ok := r.BasicAuth(); !ok || user != "key" || pass != "secret" {
		http.Error(w, `{"error":{"message":"Invalid credentials"}}`, http.StatusUnauthorized)
		return
	}

	base := "/v1_1/" + testCloud
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == base+"/folders/renders":
		f.record("folders")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"folders": f.folders})

	case r.URL.Path == base+"/resources/image/upload":
		prefix := r.URL.Query().Get("prefix")
		f.record(prefix)
		f.mu.Lock()
		status, failing := f.failing[prefix]
		f.mu.Unlock()
		if failing {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
			return
		}
		resources := f.resources[prefix]
		if limit, err := strconv.Atoi(r.URL.Query().Get("max_results")); err == nil && limit < len(resources) {
			resources = resources[:limit]
		}
		if resources == nil {
			resources = []models.Resource{}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"resources": resources})

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCloudinary) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, key)
}

// memoryRateStore counts hits per key without expiry
type memoryRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryRateStore() *memoryRateStore {
	return &memoryRateStore{counts: make(map[string]int64)}
}

func (s *memoryRateStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], window, nil
}

func (s *memoryRateStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.counts))
	for k := range s.counts {
		keys = append(keys, k)
	}
	return keys
}

// site is a running portfolio server backed by a fake upstream
type site struct {
	t      *testing.T
	url    string
	client *http.Client
	csrf   string
	ip     string // sent as X-Real-IP when set
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                  "0",
		Env:                   "test",
		LogLevel:              "error",
		MediaBackend:          config.BackendCloudinary,
		MediaRootFolder:       "renders",
		MaxFolders:            100,
		MaxFolderImages:       500,
		FanOut:                4,
		UpstreamTimeout:       5 * time.Second,
		CloudinaryCloudName:   testCloud,
		CloudinaryAPIKey:      "key",
		CloudinaryAPISecret:   "secret",
		CloudinaryDeliveryURL: "https://res.cloudinary.com",
		SessionTTL:            time.Hour,
	}
}

func startSite(t *testing.T, upstream http.Handler) *site {
	t.Helper()
	return startLimitedSite(t, upstream, nil)
}

func startLimitedSite(t *testing.T, upstream http.Handler, limiter echo.MiddlewareFunc) *site {
	t.Helper()

	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	cfg := testConfig()
	cfg.CloudinaryAPIBaseURL = up.URL

	srv := httptest.NewUnstartedServer(nil)
	cfg.MediaClientBaseURL = "http://" + srv.Listener.Addr().String()

	source, err := newMediaSource(cfg)
	require.NoError(t, err)
	srv.Config.Handler = newServer(cfg, config.DefaultSite(), source, limiter)
	srv.Start()
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &site{t: t, url: srv.URL, client: &http.Client{Jar: jar}}
}

var csrfMeta = regexp.MustCompile(`<meta name="csrf-token" content="([^"]+)">`)

// visit loads the landing page and remembers its CSRF token
func (s *site) visit() string {
	s.t.Helper()
	body, status := s.get("/")
	require.Equal(s.t, http.StatusOK, status)

	m := csrfMeta.FindStringSubmatch(body)
	require.Len(s.t, m, 2, "csrf token missing from page")
	s.csrf = m[1]
	return body
}

func (s *site) get(path string) (string, int) {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.url+path, nil)
	require.NoError(s.t, err)
	req.Header.Set("HX-Request", "true")
	return s.send(req)
}

func (s *site) post(path string, form url.Values) (string, int) {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.url+path, strings.NewReader(form.Encode()))
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", s.csrf)
	return s.send(req)
}

func (s *site) send(req *http.Request) (string, int) {
	s.t.Helper()
	if s.ip != "" {
		req.Header.Set("X-Real-IP", s.ip)
	}
	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var b strings.Builder
	_, err = io.Copy(&b, resp.Body)
	require.NoError(s.t, err)
	if redirect := resp.Header.Get("HX-Redirect"); redirect != "" {
		return redirect, resp.StatusCode
	}
	return b.String(), resp.StatusCode
}
