package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or already swept session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Handle pairs a session with its identity and the lock serializing access.
// The one-second timer loop is the only mutation source besides handler
// calls, so a plain mutex per session is all the coordination needed.
type Handle struct {
	ID     string
	UserID string

	mu        sync.Mutex
	session   *Session
	createdAt time.Time
	touchedAt time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

// Do runs fn with exclusive access to the session. If the session left
// InProgress during fn, the timer loop is stopped so no dangling tick can
// mutate a discarded attempt.
func (h *Handle) Do(fn func(*Session) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.touchedAt = time.Now()
	err := fn(h.session)
	if h.session.State() != StateInProgress {
		h.stopTimer()
	}
	return err
}

func (h *Handle) stopTimer() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Handle) runTimer() {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-h.stop:
			return
		case <-t.C:
			h.mu.Lock()
			h.session.Tick()
			done := h.session.State() != StateInProgress
			h.mu.Unlock()
			if done {
				h.stopTimer()
				return
			}
		}
	}
}

// Registry holds the live sessions for all users, keyed by session ID.
// It replaces the per-tab transient storage the result and review views
// used to read: test, result and review all fetch the same handle.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Handle
	ttl      time.Duration
}

// NewRegistry creates a registry. Sessions idle longer than ttl are
// eligible for sweeping; terminal sessions get a short grace period so the
// result and review views can still read them.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Registry{sessions: map[string]*Handle{}, ttl: ttl}
}

// Create starts a new session for userID and registers it. The timer loop
// is only spawned when the attempt is timed.
func (r *Registry) Create(userID string, bank Bank, requestedCount int, cfg Config, sink AttemptSink) (*Handle, error) {
	s, err := NewSession(bank, requestedCount, cfg, sink)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	h := &Handle{
		ID:        uuid.NewString(),
		UserID:    userID,
		session:   s,
		createdAt: now,
		touchedAt: now,
		stop:      make(chan struct{}),
	}
	r.mu.Lock()
	r.sessions[h.ID] = h
	r.mu.Unlock()

	if cfg.TimerEnabled && cfg.TimerMinutes > 0 {
		go h.runTimer()
	} else {
		h.stopTimer()
	}
	return h, nil
}

// Get fetches a handle by ID.
func (r *Registry) Get(id string) (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return h, nil
}

// Delete drops a session and stops its timer. Used on retry, on returning
// home, and after review.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	h, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if ok {
		h.stopTimer()
	}
}

// Sweep removes idle sessions: terminal ones past the grace period and
// abandoned in-progress ones past the registry TTL. Returns the number of
// sessions removed.
func (r *Registry) Sweep(grace time.Duration) int {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, h := range r.sessions {
		h.mu.Lock()
		terminal := h.session.State() != StateInProgress
		idle := now.Sub(h.touchedAt)
		h.mu.Unlock()

		if (terminal && idle > grace) || idle > r.ttl {
			h.stopTimer()
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
