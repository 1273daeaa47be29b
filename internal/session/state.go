// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the per-session state a research agent accumulates
// across tool calls, the search call budget enforced on it, and the store
// that keeps finished sessions for later inspection.
package session

import "sync"

// Well-known state keys.
const (
	KeyCallsUsed   = "arxiv_calls_used"
	KeyPapersRead  = "papers_read"
	KeyDocumentURL = "document_url"
)

// Handle is read/write access to session values keyed by string.
type Handle interface {
	GetInt(key string) int
	SetInt(key string, v int)
	GetStrings(key string) []string
	SetStrings(key string, v []string)
	GetString(key string) string
	SetString(key string, v string)
}

// State is the mutable state of one research session. It starts empty:
// zero calls used, no papers read. Methods are safe for concurrent use, and
// Atomically groups a read-modify-write into one critical section.
type State struct {
	mu     sync.Mutex
	values map[string]any
}

// NewState returns an empty State.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// Atomically runs fn with exclusive access to the state.
func (s *State) Atomically(fn func(h Handle)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(unlocked{s})
}

func (s *State) GetInt(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return unlocked{s}.GetInt(key)
}

func (s *State) SetInt(key string, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked{s}.SetInt(key, v)
}

func (s *State) GetStrings(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return unlocked{s}.GetStrings(key)
}

func (s *State) SetStrings(key string, v []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked{s}.SetStrings(key, v)
}

func (s *State) GetString(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return unlocked{s}.GetString(key)
}

func (s *State) SetString(key string, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked{s}.SetString(key, v)
}

// CallsUsed returns the number of search calls consumed so far.
func (s *State) CallsUsed() int {
	return s.GetInt(KeyCallsUsed)
}

// PapersRead returns the identifiers of papers whose content was fetched,
// in fetch order. Repeated reads of one paper are kept.
func (s *State) PapersRead() []string {
	return s.GetStrings(KeyPapersRead)
}

// RecordRead appends paperID to the papers-read list.
func (s *State) RecordRead(paperID string) {
	s.Atomically(func(h Handle) {
		h.SetStrings(KeyPapersRead, append(h.GetStrings(KeyPapersRead), paperID))
	})
}

// unlocked accesses values without locking; callers hold s.mu.
type unlocked struct{ s *State }

func (u unlocked) GetInt(key string) int {
	v, _ := u.s.values[key].(int)
	return v
}

func (u unlocked) SetInt(key string, v int) {
	u.s.values[key] = v
}

// GetStrings returns a copy so callers cannot mutate stored lists.
func (u unlocked) GetStrings(key string) []string {
	v, _ := u.s.values[key].([]string)
	out := make([]string, len(v))
	copy(out, v)
	return out
}

func (u unlocked) SetStrings(key string, v []string) {
	cp := make([]string, len(v))
	copy(cp, v)
	u.s.values[key] = cp
}

func (u unlocked) GetString(key string) string {
	v, _ := u.s.values[key].(string)
	return v
}

func (u unlocked) SetString(key string, v string) {
	u.s.values[key] = v
}
