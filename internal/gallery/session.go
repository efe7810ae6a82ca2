package gallery

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxViewers caps live viewers when no limit is configured
const DefaultMaxViewers = 10000

// Viewer is the gallery state of one browser
type Viewer struct {
	ID       string
	Lightbox *Lightbox

	mu   sync.Mutex
	grid GridState

	// guarded by Viewers.mu
	lastSeen time.Time
	elem     *list.Element
}

// Grid returns the last grid state shown to this viewer
func (v *Viewer) Grid() GridState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.grid
}

// SetGrid replaces the grid state wholesale
func (v *Viewer) SetGrid(state GridState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.grid = state
}

// Viewers keeps per-browser state in memory. Entries are ordered by last activity, so idle
// viewers expire from the back of the list and the oldest one makes room when the store is
// full.
type Viewers struct {
	mu      sync.Mutex
	ttl     time.Duration
	limit   int
	now     func() time.Time
	viewers map[string]*Viewer
	order   *list.List // front is most recent
}

// NewViewers creates a store that forgets viewers idle for longer than ttl and holds at most
// limit of them. ttl <= 0 disables expiry; limit <= 0 uses DefaultMaxViewers.
func NewViewers(ttl time.Duration, limit int) *Viewers {
	if limit <= 0 {
		limit = DefaultMaxViewers
	}
	return &Viewers{
		ttl:     ttl,
		limit:   limit,
		now:     time.Now,
		viewers: make(map[string]*Viewer),
		order:   list.New(),
	}
}

// Get returns the viewer with id, or a fresh one with a new id when id is unknown
func (s *Viewers) Get(id string) *Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expire(now)

	if v, ok := s.viewers[id]; ok && id != "" {
		s.touch(v, now)
		return v
	}

	for len(s.viewers) >= s.limit {
		s.remove(s.order.Back().Value.(*Viewer))
	}

	v := &Viewer{
		ID:       uuid.NewString(),
		Lightbox: NewLightbox(),
		grid:     InitialGrid(),
		lastSeen: now,
	}
	v.elem = s.order.PushFront(v)
	s.viewers[v.ID] = v
	return v
}

// Lookup returns an existing viewer without creating one
func (s *Viewers) Lookup(id string) (*Viewer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expire(now)

	v, ok := s.viewers[id]
	if ok {
		s.touch(v, now)
	}
	return v, ok
}

// Len reports the number of live viewers
func (s *Viewers) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// touch must be called with the lock held
func (s *Viewers) touch(v *Viewer, now time.Time) {
	v.lastSeen = now
	s.order.MoveToFront(v.elem)
}

// expire drops idle viewers from the back of the list. Must be called with the lock held.
func (s *Viewers) expire(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for back := s.order.Back(); back != nil; back = s.order.Back() {
		v := back.Value.(*Viewer)
		if now.Sub(v.lastSeen) <= s.ttl {
			return
		}
		s.remove(v)
	}
}

func (s *Viewers) remove(v *Viewer) {
	s.order.Remove(v.elem)
	delete(s.viewers, v.ID)
}
