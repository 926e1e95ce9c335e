// Package session keeps one in-memory editing document per signed-in
// account. Documents are hydrated from the profile store on first use and
// mutated locally; nothing reaches the store until an explicit save.
package session

import (
	"context"
	"sync"

	"github.com/tapfolio/tapfolio/internal/card"
)

// HydrateFunc fetches the account's profile for first-time session setup.
type HydrateFunc func(ctx context.Context) (card.Profile, error)

// Session serializes access to one account's editing document. The document
// itself is unsynchronized; every mutation and read goes through With.
type Session struct {
	mu  sync.Mutex
	doc *card.Document
}

// With runs fn while holding the session lock.
func (s *Session) With(fn func(doc *card.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// Snapshot returns a deep copy of the session's current profile.
func (s *Session) Snapshot() card.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Profile()
}

// Manager tracks editing sessions by account.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Load returns the account's session, hydrating a fresh document through
// hydrate when the account has no session yet.
func (m *Manager) Load(ctx context.Context, accountID string, hydrate HydrateFunc) (*Session, error) {
	m.mu.Lock()
	existing, ok := m.sessions[accountID]
	m.mu.Unlock()
	if ok {
		return existing, nil
	}

	profile, err := hydrate(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have hydrated concurrently; keep the first one so
	// in-flight edits are not discarded.
	if existing, ok := m.sessions[accountID]; ok {
		return existing, nil
	}
	created := &Session{doc: card.NewDocument(profile)}
	m.sessions[accountID] = created
	return created, nil
}

// Drop discards the account's session, if any.
func (m *Manager) Drop(accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accountID)
}
