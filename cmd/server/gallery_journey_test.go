package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/aleem-studio/portfolio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourney_EmptyPortfolio(t *testing.T) {
	upstream := newFakeCloudinary()
	s := startSite(t, upstream)

	page := s.visit()
	assert.Equal(t, 6, strings.Count(page, "animate-pulse rounded bg-stone-200"))

	body, status := s.get("/api/cloudinary-images")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	grid, status := s.get("/gallery")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, grid, "<img")
	assert.NotContains(t, grid, "animate-pulse")
	assert.NotContains(t, grid, "Failed to load images")
}

func TestJourney_RepresentativeImagePerFolder(t *testing.T) {
	upstream := newFakeCloudinary()
	upstream.addFolder("kitchen", "k1", "k2")
	upstream.addFolder("bath")
	upstream.addFolder("living-room", "lr1", "lr2", "lr3")
	s := startSite(t, upstream)

	body, status := s.get("/api/cloudinary-images")
	require.Equal(t, http.StatusOK, status)

	var images []models.Image
	require.NoError(t, json.Unmarshal([]byte(body), &images))
	require.Len(t, images, 2)
	assert.Equal(t, "renders/kitchen/k1", images[0].PublicID)
	assert.Equal(t, "renders/kitchen", images[0].Folder)
	assert.Equal(t, "k1", images[0].DisplayName)
	assert.Equal(t, "renders/living-room/lr1", images[1].PublicID)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/f_auto/q_auto/renders/living-room/lr1", images[1].SecureURL)
}

func TestJourney_SubfolderListing(t *testing.T) {
	upstream := newFakeCloudinary()
	upstream.addFolder("living-room", "lr1", "lr2", "lr3")
	s := startSite(t, upstream)

	body, status := s.get("/api/cloudinary-images?subfolder=renders/living-room")
	require.Equal(t, http.StatusOK, status)

	var images []models.Image
	require.NoError(t, json.Unmarshal([]byte(body), &images))
	require.Len(t, images, 3)
	for i, name := range []string{"lr1", "lr2", "lr3"} {
		assert.Equal(t, name, images[i].DisplayName)
		assert.Equal(t, "renders/living-room", images[i].Folder)
	}
}

func TestJourney_UpstreamFailureIsReported(t *testing.T) {
	upstream := newFakeCloudinary()
	upstream.addFolder("kitchen", "k1")
	upstream.failPrefix("renders/kitchen/", http.StatusInternalServerError)
	s := startSite(t, upstream)

	body, status := s.get("/api/cloudinary-images")
	require.Equal(t, http.StatusInternalServerError, status)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "Failed to fetch images", payload["error"])
	assert.NotEmpty(t, payload["details"])

	// the grid degrades to empty rather than failing the page
	s.visit()
	grid, status := s.get("/gallery")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, grid, "<img")
}

func TestJourney_LightboxNavigatesFolderCircularly(t *testing.T) {
	upstream := newFakeCloudinary()
	upstream.addFolder("living-room", "lr1", "lr2", "lr3")
	s := startSite(t, upstream)

	s.visit()
	grid, status := s.get("/gallery")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, grid, "q_50/renders/living-room/lr1")

	box, status := s.post("/gallery/lightbox/open?index=0", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, box, "q_auto/renders/living-room/lr1")
	assert.Contains(t, box, "1 / 3")
	// one probe while loading the grid, one full listing on open
	assert.Equal(t, 2, upstream.requestsFor("renders/living-room/"))

	box, _ = s.post("/gallery/lightbox/previous", nil)
	assert.Contains(t, box, "q_auto/renders/living-room/lr3")
	assert.Contains(t, box, "3 / 3")

	box, _ = s.post("/gallery/lightbox/next", nil)
	assert.Contains(t, box, "1 / 3")

	box, _ = s.post("/gallery/lightbox/close", nil)
	assert.Empty(t, strings.TrimSpace(box))
}

func TestJourney_ReopeningRefetchesFolder(t *testing.T) {
	upstream := newFakeCloudinary()
	upstream.addFolder("kitchen", "k1")
	s := startSite(t, upstream)

	s.visit()
	_, status := s.get("/gallery")
	require.Equal(t, http.StatusOK, status)

	_, status = s.post("/gallery/lightbox/open?index=0", nil)
	require.Equal(t, http.StatusOK, status)
	_, _ = s.post("/gallery/lightbox/close", nil)
	_, status = s.post("/gallery/lightbox/open?index=0", nil)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 3, upstream.requestsFor("renders/kitchen/"))
}

func TestJourney_FolderFetchFailureFallsBackToClickedImage(t *testing.T) {
	upstream := newFakeCloudinary()
	upstream.addFolder("kitchen", "k1", "k2")
	s := startSite(t, upstream)

	s.visit()
	_, status := s.get("/gallery")
	require.Equal(t, http.StatusOK, status)

	upstream.failPrefix("renders/kitchen/", http.StatusInternalServerError)

	box, status := s.post("/gallery/lightbox/open?index=0", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, box, "k1")
	assert.Contains(t, box, "1 / 1")
	assert.NotContains(t, box, "/gallery/lightbox/next")
}

func TestJourney_OpenBeforeGridLoads(t *testing.T) {
	s := startSite(t, newFakeCloudinary())
	s.visit()

	_, status := s.post("/gallery/lightbox/open?index=0", nil)

	assert.Equal(t, http.StatusConflict, status)
}

func TestJourney_ContactHandOff(t *testing.T) {
	s := startSite(t, newFakeCloudinary())
	s.visit()

	modal, status := s.get("/contact")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, modal, `name="email"`)

	location, status := s.post("/contact", map[string][]string{
		"name":    {"Sam"},
		"email":   {"sam@example.com"},
		"message": {"We need a kitchen"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(location, "mailto:"), location)
	assert.Contains(t, location, "subject=Contact%20from%20Sam")
}
