package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MEDIA_BACKEND", "")
	t.Setenv("MEDIA_CLIENT_BASE_URL", "")
	t.Setenv("MAX_VIEWERS", "")

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendCloudinary, cfg.MediaBackend)
	assert.Equal(t, "renders", cfg.MediaRootFolder)
	assert.Equal(t, 100, cfg.MaxFolders)
	assert.Equal(t, 500, cfg.MaxFolderImages)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.MediaClientBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10000, cfg.MaxViewers)
}

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MEDIA_BACKEND", "MinIO")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_DURATION", "10s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := New()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendMinio, cfg.MediaBackend)
	assert.Equal(t, "http://127.0.0.1:9090", cfg.MediaClientBaseURL)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, 10*time.Second, cfg.RateLimitDuration)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestGetEnvAsDuration_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")

	assert.Equal(t, 2*time.Second, getEnvAsDuration("SOME_DURATION", "2s"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"cloudinary ok", func(c *Config) {}, ""},
		{"missing cloud name", func(c *Config) { c.CloudinaryCloudName = "" }, "CLOUDINARY_CLOUD_NAME"},
		{"missing secret", func(c *Config) { c.CloudinaryAPISecret = "" }, "CLOUDINARY_API_KEY"},
		{"minio ok", func(c *Config) { c.MediaBackend = BackendMinio }, ""},
		{"minio without bucket", func(c *Config) { c.MediaBackend = BackendMinio; c.MinioBucket = "" }, "MINIO_BUCKET"},
		{"unknown backend", func(c *Config) { c.MediaBackend = "ftp" }, "MEDIA_BACKEND"},
		{"zero folders", func(c *Config) { c.MaxFolders = 0 }, "MEDIA_MAX_FOLDERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				MediaBackend:        BackendCloudinary,
				MaxFolders:          100,
				CloudinaryCloudName: "demo",
				CloudinaryAPIKey:    "key",
				CloudinaryAPISecret: "secret",
				MinioEndpoint:       "localhost:9000",
				MinioBucket:         "portfolio",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSite_EmptyPathReturnsDefaults(t *testing.T) {
	site, err := LoadSite("")

	require.NoError(t, err)
	assert.Equal(t, DefaultSite(), site)
}

func TestLoadSite_OverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := "name: Studio Noor\ncontact_email: hello@example.com\nbio:\n  - First paragraph.\n  - Second paragraph.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	site, err := LoadSite(path)

	require.NoError(t, err)
	assert.Equal(t, "Studio Noor", site.Name)
	assert.Equal(t, "hello@example.com", site.ContactEmail)
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, site.Bio)
	assert.Equal(t, DefaultSite().Intro, site.Intro)
}

func TestLoadSite_MissingFile(t *testing.T) {
	_, err := LoadSite(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoadSite_RejectsBlankRecipient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contact_email: \"\"\n"), 0o600))

	_, err := LoadSite(path)

	assert.Error(t, err)
}
