package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry keeps the open sessions of a server process, keyed by id.
type Registry struct {
	idleTTL time.Duration
	now     func() time.Time
	log     *logrus.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(idleTTL time.Duration, log *logrus.Logger) *Registry {
	return &Registry{
		idleTTL:  idleTTL,
		now:      time.Now,
		log:      log,
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) Add(s *Session) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id
}

// Get returns the session and marks it active.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.Touch()
	return s, true
}

// Remove drops the session and closes it. It reports whether the id was
// registered.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict closes every session idle for longer than the TTL and returns how
// many were dropped.
func (r *Registry) Evict() int {
	if r.idleTTL <= 0 {
		return 0
	}
	deadline := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.LastActive().Before(deadline) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 && r.log != nil {
		r.log.WithField("count", len(stale)).Info("evicted idle section sessions")
	}
	return len(stale)
}

// Run evicts idle sessions every interval until ctx is done, then closes
// whatever is left.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.Evict()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
