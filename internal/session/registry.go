// Package session keeps one dashboard per user session. Sessions never share
// battery counters or record stores.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/chrisconley/greencity/internal"
	"github.com/chrisconley/greencity/internal/infra"
)

var ErrSessionNotFound = errors.New("session not found")

// OpenedEvent is published when a session starts.
type OpenedEvent struct {
	ID uuid.UUID
}

func (e OpenedEvent) EventType() infra.EventType { return infra.SessionOpened }

// ClosedEvent is published when a session ends; its records are dropped.
type ClosedEvent struct {
	ID      uuid.UUID
	Records int
}

func (e ClosedEvent) EventType() infra.EventType { return infra.SessionClosed }

// Factory builds the dashboard of a new session.
type Factory func() *internal.Dashboard

type Registry struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*internal.Dashboard
	factory   Factory
	publisher internal.Publisher
}

// NewRegistry returns a registry whose sessions are built by factory.
// publisher may be nil.
func NewRegistry(factory Factory, publisher internal.Publisher) *Registry {
	return &Registry{
		sessions:  make(map[uuid.UUID]*internal.Dashboard),
		factory:   factory,
		publisher: publisher,
	}
}

// Open starts a session with an empty store and a counter at zero.
func (r *Registry) Open() (uuid.UUID, *internal.Dashboard) {
	id := uuid.New()
	d := r.factory()

	r.mu.Lock()
	r.sessions[id] = d
	r.mu.Unlock()

	r.publish(OpenedEvent{ID: id})
	return id, d
}

func (r *Registry) Get(id uuid.UUID) (*internal.Dashboard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return d, nil
}

// Lookup parses a textual session ID and returns its dashboard.
func (r *Registry) Lookup(id string) (uuid.UUID, *internal.Dashboard, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: %q is not a session ID", ErrSessionNotFound, id)
	}
	d, err := r.Get(parsed)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return parsed, d, nil
}

// Close ends a session and releases its records.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	d, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	r.publish(ClosedEvent{ID: id, Records: d.Count()})
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) publish(e infra.Event) {
	if r.publisher != nil {
		r.publisher.Publish(e)
	}
}
