// Package contentsync holds the session-lifetime cache of the latest
// known-good content per activity. It is a write-through cache in front
// of the storage contract with a pub/sub surface, and enforces the
// anti-regression rule: placeholder content never replaces real content.
package contentsync

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ricardofaria/classforge/internal/activity"
	"github.com/ricardofaria/classforge/internal/storage"
)

// Broadcast event names, kept from the original wire protocol so
// external listeners match on the same labels.
const (
	EventContentSyncUpdate = "content-sync-update"
	EventActivityDataSync  = "activity-data-sync"
)

// Update describes one content change delivered to subscribers.
type Update struct {
	ActivityID string
	Type       activity.Type
	Content    *activity.Content
}

// Listener receives updates. Listeners run synchronously on the
// publishing goroutine, after the cache has been updated.
type Listener func(Update)

// Service is the content sync cache. Construct one per application and
// inject it; a nil contract disables write-through persistence.
type Service struct {
	mu       sync.Mutex
	entries  map[string]map[activity.Type]*activity.Content
	lastType map[string]activity.Type

	nextListener int
	listeners    map[int]Listener
	busListeners map[string]map[int]Listener

	contract *storage.Contract
	logf     func(format string, args ...any)
}

// New creates a Service backed by the given contract (nil for cache-only
// use, e.g. tests).
func New(contract *storage.Contract) *Service {
	return &Service{
		entries:      make(map[string]map[activity.Type]*activity.Content),
		lastType:     make(map[string]activity.Type),
		listeners:    make(map[int]Listener),
		busListeners: make(map[string]map[int]Listener),
		contract:     contract,
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// SetContent records new content for (id, typ) and reports whether the
// update was applied. An update is dropped when the cached entry holds
// real content and the incoming data does not — last real write wins,
// with no timestamps involved. Applied updates are persisted through the
// contract only when the incoming data is real and not a fallback
// placeholder (placeholders stay cache-only so a later real generation
// lands on a clean record), then delivered to subscribers and broadcast.
func (s *Service) SetContent(ctx context.Context, id string, typ activity.Type, data *activity.Content) bool {
	s.mu.Lock()

	existing := s.lookupLocked(id, typ)
	if activity.HasRealContent(existing) && !activity.HasRealContent(data) {
		s.mu.Unlock()
		s.logf("contentsync: dropping update for %s/%s, cached content is real and incoming is not", typ, id)
		return false
	}

	if s.entries[id] == nil {
		s.entries[id] = make(map[activity.Type]*activity.Content)
	}
	s.entries[id][typ] = data
	s.lastType[id] = typ

	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	if s.contract != nil && activity.HasRealContent(data) && !data.IsFallback {
		if err := s.contract.Write(ctx, id, typ, data, false); err != nil {
			s.logf("contentsync: persist %s/%s: %v", typ, id, err)
		}
	}

	update := Update{ActivityID: id, Type: typ, Content: data}
	for _, fn := range listeners.direct {
		fn(update)
	}
	for _, fn := range listeners.bus[EventContentSyncUpdate] {
		fn(update)
	}
	for _, fn := range listeners.bus[EventActivityDataSync] {
		fn(update)
	}
	return true
}

// GetContentForType returns the cached content for (id, typ), falling
// back to the id-only lookup when the exact type has no entry.
func (s *Service) GetContentForType(id string, typ activity.Type) *activity.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(id, typ)
}

// GetContent returns the cached content for id under its last known
// type, or any cached type when none was recorded.
func (s *Service) GetContent(id string) *activity.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupByIDLocked(id)
}

// HasContent reports whether any content is cached for id.
func (s *Service) HasContent(id string) bool {
	return s.GetContent(id) != nil
}

// HasRealContent reports whether the cached content for id passes the
// real-content predicate.
func (s *Service) HasRealContent(id string) bool {
	return activity.HasRealContent(s.GetContent(id))
}

// Remove drops every cached entry for id.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	delete(s.lastType, id)
}

// Len returns the number of activities with cached content.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a snapshot of every cached activity, one per (id, type)
// pair. Content pointers are shared with the cache; treat them as
// read-only.
func (s *Service) Entries() []activity.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []activity.Activity
	for id, byType := range s.entries {
		for typ, content := range byType {
			out = append(out, activity.Activity{ID: id, Type: typ, Content: content})
		}
	}
	return out
}

// Subscribe registers a listener for every applied update. The returned
// function unregisters it.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// SubscribeBus registers a listener for a named broadcast event
// (EventContentSyncUpdate or EventActivityDataSync). This is the channel
// for consumers outside the direct subscription graph.
func (s *Service) SubscribeBus(event string, fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busListeners[event] == nil {
		s.busListeners[event] = make(map[int]Listener)
	}
	id := s.nextListener
	s.nextListener++
	s.busListeners[event][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.busListeners[event], id)
	}
}

func (s *Service) lookupLocked(id string, typ activity.Type) *activity.Content {
	if byType := s.entries[id]; byType != nil {
		if c, ok := byType[typ]; ok {
			return c
		}
	}
	return s.lookupByIDLocked(id)
}

func (s *Service) lookupByIDLocked(id string) *activity.Content {
	byType := s.entries[id]
	if byType == nil {
		return nil
	}
	if lt, ok := s.lastType[id]; ok {
		if c, ok := byType[lt]; ok {
			return c
		}
	}
	for _, c := range byType {
		return c
	}
	return nil
}

type listenerSnapshot struct {
	direct []Listener
	bus    map[string][]Listener
}

func (s *Service) snapshotListenersLocked() listenerSnapshot {
	snap := listenerSnapshot{bus: make(map[string][]Listener)}
	for _, fn := range s.listeners {
		snap.direct = append(snap.direct, fn)
	}
	for event, m := range s.busListeners {
		for _, fn := range m {
			snap.bus[event] = append(snap.bus[event], fn)
		}
	}
	return snap
}
