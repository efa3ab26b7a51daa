package redisstore

import (
	"context"
	"time"

	"summitcess-gateway/internal/session/domain/repository"
	"summitcess-gateway/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sc:session:"

// TokenStore implements the token store on a Redis hash per gateway
// session. Reads of absent keys return the empty string, matching the
// browser-storage semantics the front-end relied on.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewTokenStore creates a Redis-backed token store. Every write refreshes
// the session hash TTL so active sessions never expire mid-use.
func NewTokenStore(client *redis.Client, ttl time.Duration, log logger.Logger) *TokenStore {
	return &TokenStore{
		client: client,
		ttl:    ttl,
		logger: log.WithComponent("redis_token_store"),
	}
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

// Get returns the value stored under key for the session, or the empty
// string when the key is absent.
func (s *TokenStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	val, err := s.client.HGet(ctx, sessionKey(sessionID), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
			"key":        key,
		}).Errorf("Failed to read token store: %v", err)
		return "", err
	}
	return val, nil
}

// Set writes the value under key for the session, last-write-wins.
func (s *TokenStore) Set(ctx context.Context, sessionID, key, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, sessionKey(sessionID), key, value)
	pipe.Expire(ctx, sessionKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
			"key":        key,
		}).Errorf("Failed to write token store: %v", err)
		return err
	}
	return nil
}

// Remove deletes a single key for the session.
func (s *TokenStore) Remove(ctx context.Context, sessionID, key string) error {
	if err := s.client.HDel(ctx, sessionKey(sessionID), key).Err(); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
			"key":        key,
		}).Errorf("Failed to remove token store key: %v", err)
		return err
	}
	return nil
}

// Clear drops every key held for the session.
func (s *TokenStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"session_id": sessionID,
		}).Errorf("Failed to clear token store session: %v", err)
		return err
	}
	return nil
}

// Ping verifies Redis connectivity, used by the container health check.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure TokenStore implements the repository interface
var _ repository.TokenStore = (*TokenStore)(nil)
