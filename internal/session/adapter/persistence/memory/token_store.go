package memory

import (
	"context"
	"sync"

	"summitcess-gateway/internal/session/domain/repository"
)

// TokenStore is an in-memory token store used by tests and local
// development. Semantics match the Redis adapter: absent keys read as the
// empty string, writes are last-write-wins.
type TokenStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewTokenStore creates an empty in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		sessions: make(map[string]map[string]string),
	}
}

func (s *TokenStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kv, ok := s.sessions[sessionID]; ok {
		return kv[key], nil
	}
	return "", nil
}

func (s *TokenStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, ok := s.sessions[sessionID]
	if !ok {
		kv = make(map[string]string)
		s.sessions[sessionID] = kv
	}
	kv[key] = value
	return nil
}

func (s *TokenStore) Remove(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kv, ok := s.sessions[sessionID]; ok {
		delete(kv, key)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

var _ repository.TokenStore = (*TokenStore)(nil)
