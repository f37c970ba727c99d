package session

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/vladimiradmaev/footprint-helper/internal/errors"
)

// Registry hands out one Session per user identity. Sessions never share
// state with each other; they only share Deps.
type Registry struct {
	deps    Deps
	mu      sync.RWMutex
	entries map[string]*entry
}

// entry is a session that is open or still opening; ready is closed once
// s or err is set
type entry struct {
	ready chan struct{}
	s     *Session
	err   error
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:    deps.withDefaults(),
		entries: make(map[string]*entry),
	}
}

// Get returns the user's session, opening it on first use. Identities are
// trimmed before lookup. Opening happens outside the registry lock so a
// slow open only delays callers asking for the same identity.
func (r *Registry) Get(ctx context.Context, userID string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidationError("User identity is required")
	}

	r.mu.RLock()
	e, ok := r.entries[userID]
	r.mu.RUnlock()
	if ok {
		return e.wait(ctx)
	}

	r.mu.Lock()
	if e, ok := r.entries[userID]; ok {
		r.mu.Unlock()
		return e.wait(ctx)
	}
	e = &entry{ready: make(chan struct{})}
	r.entries[userID] = e
	r.mu.Unlock()

	e.s, e.err = Open(ctx, r.deps, userID)
	if e.err != nil {
		r.mu.Lock()
		delete(r.entries, userID)
		r.mu.Unlock()
	}
	close(e.ready)
	return e.s, e.err
}

func (e *entry) wait(ctx context.Context) (*Session, error) {
	select {
	case <-e.ready:
		return e.s, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of sessions that are open or opening
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
