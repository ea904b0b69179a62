// Package session stores per-session state the upstream API has no home
// for: the normalized identity record, the held checkout intent and the
// editable order draft. Values are opaque JSON blobs owned by the calling
// package; this package only keys and expires them.
package session

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("session entry not found")
)

// Store persists session-scoped blobs keyed by session id and field.
type Store interface {
	Save(ctx context.Context, sid, field string, data []byte) error
	Load(ctx context.Context, sid, field string) ([]byte, error)
	Delete(ctx context.Context, sid, field string) error
}

// Well-known fields.
const (
	FieldIdentity = "identity"
	FieldIntent   = "intent"
	FieldDraft    = "draft"
)

// InMemoryStore is used for tests and for running without Redis.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string][]byte)}
}

func (s *InMemoryStore) Save(ctx context.Context, sid, field string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sid+"/"+field] = append([]byte(nil), data...)
	return nil
}

func (s *InMemoryStore) Load(ctx context.Context, sid, field string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[sid+"/"+field]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *InMemoryStore) Delete(ctx context.Context, sid, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sid+"/"+field)
	return nil
}
