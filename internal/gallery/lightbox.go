package gallery

import (
	"context"
	"sync"

	"github.com/aleem-studio/portfolio/internal/models"
	"github.com/google/uuid"
)

// Phase of a lightbox
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseFetching
	PhaseOpen
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseOpen:
		return "open"
	default:
		return "closed"
	}
}

// FolderFetcher loads every image of a project folder
type FolderFetcher interface {
	FolderImages(ctx context.Context, folder string) ([]models.Image, error)
}

// Ticket ties a folder fetch to the selection that started it
type Ticket struct {
	token   string
	index   int
	clicked models.Image
}

// Folder is the folder the ticket fetches
func (t Ticket) Folder() string { return t.clicked.Folder }

// View is what the overlay renders
type View struct {
	Image   models.Image
	Index   int
	Total   int
	Loading bool
}

// Lightbox is the navigation state of one viewer's overlay. It is safe for concurrent use;
// fetch results are applied only when their ticket still matches the current selection.
type Lightbox struct {
	mu        sync.Mutex
	phase     Phase
	selection int
	active    []models.Image
	loading   bool
	token     string
}

// NewLightbox returns a closed lightbox
func NewLightbox() *Lightbox {
	return &Lightbox{}
}

// Begin selects grid index i. When clicked has no folder the overlay opens on it directly
// and no fetch is needed; otherwise the returned ticket must be passed to Apply.
func (l *Lightbox) Begin(index int, clicked models.Image) (Ticket, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.selection = index
	l.loading = true
	l.token = uuid.NewString()
	ticket := Ticket{token: l.token, index: index, clicked: clicked}

	if clicked.Folder == "" {
		l.show([]models.Image{clicked})
		return ticket, false
	}

	l.active = nil
	l.phase = PhaseFetching
	return ticket, true
}

// Apply installs the result of a folder fetch. It reports false when the ticket is stale.
// An error or an empty result falls back to the clicked image.
func (l *Lightbox) Apply(ticket Ticket, images []models.Image, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhaseFetching || ticket.token != l.token {
		return false
	}
	if err != nil || len(images) == 0 {
		l.show([]models.Image{ticket.clicked})
		return true
	}
	l.show(images)
	return true
}

// Open runs Begin, the folder fetch and Apply
func (l *Lightbox) Open(ctx context.Context, fetcher FolderFetcher, index int, clicked models.Image) bool {
	ticket, needsFetch := l.Begin(index, clicked)
	if !needsFetch {
		return true
	}
	images, err := fetcher.FolderImages(ctx, ticket.Folder())
	return l.Apply(ticket, images, err)
}

// show must be called with the lock held
func (l *Lightbox) show(images []models.Image) {
	l.active = images
	l.phase = PhaseOpen
	// grid and folder indexes differ
	if l.selection < 0 || l.selection >= len(images) {
		l.selection = 0
	}
}

// Next moves forward circularly
func (l *Lightbox) Next() {
	l.step(1)
}

// Previous moves backward circularly
func (l *Lightbox) Previous() {
	l.step(-1)
}

func (l *Lightbox) step(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.active)
	if l.phase != PhaseOpen || n == 0 {
		return
	}
	l.selection = ((l.selection+delta)%n + n) % n
	l.loading = true
}

// MarkLoaded records that the image at index finished loading. Loads for an image that is
// no longer selected are ignored.
func (l *Lightbox) MarkLoaded(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase == PhaseOpen && l.selection == index {
		l.loading = false
	}
}

// Close clears the selection and the active set
func (l *Lightbox) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.phase = PhaseClosed
	l.active = nil
	l.token = ""
	l.selection = 0
	l.loading = false
}

// Phase reports the current phase
func (l *Lightbox) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// View returns the image to render, or false when there is nothing valid to show
func (l *Lightbox) View() (View, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhaseOpen || l.selection < 0 || l.selection >= len(l.active) {
		return View{}, false
	}
	return View{
		Image:   l.active[l.selection],
		Index:   l.selection,
		Total:   len(l.active),
		Loading: l.loading,
	}, true
}
