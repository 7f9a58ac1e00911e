// Package appstate is the in-memory application state store: the
// records the authoring session itself holds about each activity,
// independent of the persisted content. It serves as one step of the
// resolution chain.
package appstate

import (
	"encoding/json"
	"sync"
)

// BuiltData holds per-field generated payloads attached to an activity
// record, keyed by field name.
type BuiltData struct {
	GeneratedFields map[string]json.RawMessage
}

// Record is one activity's session state.
type Record struct {
	ID           string
	Type         string
	FilledFields map[string]string
	BuiltData    BuiltData
}

// Store is a mutex-guarded in-memory record store.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Put inserts or replaces a record.
func (s *Store) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
}

// GetActivityByID returns the record for id, if present.
func (s *Store) GetActivityByID(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

// Delete removes the record for id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
