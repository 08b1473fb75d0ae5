package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nimamura/fencing-drill/internal/config"
	"github.com/nimamura/fencing-drill/internal/generator"
)

// ErrNotFound is returned for operations on unknown or already evicted
// session identifiers.
var ErrNotFound = errors.New("session not found")

// ErrSessionLimit is returned when the registry is at capacity.
var ErrSessionLimit = errors.New("session limit reached")

// Registry is the process-wide map from session identifier to live
// session. It is the only shared mutable structure; all access goes
// through its mutex.
type Registry struct {
	bounds        config.Bounds
	limit         int
	idleTimeout   time.Duration
	gracePeriod   time.Duration
	sweepInterval time.Duration
	log           *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry with the given limits.
func NewRegistry(cfg config.SessionConfig, bounds config.Bounds, log *slog.Logger) *Registry {
	return &Registry{
		bounds:        bounds,
		limit:         cfg.Limit,
		idleTimeout:   time.Duration(cfg.IdleTimeoutMinutes) * time.Minute,
		gracePeriod:   time.Duration(cfg.GracePeriodSeconds) * time.Second,
		sweepInterval: time.Duration(cfg.SweepIntervalSeconds) * time.Second,
		log:           log,
		sessions:      make(map[string]*Session),
	}
}

// Create validates the mode config, creates a session, and starts its tick
// loop. Existing sessions are never mutated. Returns ErrSessionLimit when
// the registry is full even after sweeping.
func (r *Registry) Create(cfg generator.Config) (*Session, error) {
	if err := cfg.Validate(r.bounds); err != nil {
		return nil, err
	}

	r.Sweep()

	r.mu.Lock()
	if len(r.sessions) >= r.limit {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w (%d)", ErrSessionLimit, r.limit)
	}

	s := New(uuid.NewString(), cfg, generator.New(time.Now().UnixNano()))
	r.sessions[s.ID] = s
	r.mu.Unlock()

	s.Start()
	r.log.Info("session created", "session_id", s.ID, "mode", cfg.Mode())
	return s, nil
}

// Get looks up a session by identifier.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Stop stops a session. Idempotent on terminal sessions; ErrNotFound only
// for identifiers the registry does not hold.
func (r *Registry) Stop(id string) error {
	s, ok := r.Get(id)
	if !ok {
		return ErrNotFound
	}
	s.Stop()
	r.log.Info("session stopped", "session_id", id)
	return nil
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions that are strictly eligible: paused past the idle
// timeout (stopped first, no client-visible event since no stream is
// attached) and terminal sessions past the grace period. Safe to run
// concurrently with ticks on other sessions.
func (r *Registry) Sweep() int {
	now := time.Now()

	r.mu.Lock()
	var evict []*Session
	for _, s := range r.sessions {
		info := s.Info()
		switch info.State {
		case StatePaused:
			if now.Sub(info.LastActivity) > r.idleTimeout {
				evict = append(evict, s)
			}
		case StateFinished, StateStopped:
			if now.Sub(info.LastActivity) > r.gracePeriod {
				evict = append(evict, s)
			}
		}
	}
	for _, s := range evict {
		delete(r.sessions, s.ID)
	}
	r.mu.Unlock()

	for _, s := range evict {
		s.Stop()
		r.log.Info("session evicted", "session_id", s.ID)
	}
	return len(evict)
}

// Run sweeps on the configured interval until the context is canceled,
// then stops every remaining session.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("sweep evicted sessions", "count", n)
			}
		}
	}
}

func (r *Registry) shutdown() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Stop()
	}
}
