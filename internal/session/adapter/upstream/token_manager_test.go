package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"summitcess-gateway/internal/session/adapter/persistence/memory"
	"summitcess-gateway/internal/session/adapter/upstream"
	"summitcess-gateway/internal/session/domain/repository"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_ConcurrentRefreshesCoalesce(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// Hold the request open long enough for every caller to pile up
		// behind the in-flight refresh.
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh-token"})
	}))
	defer server.Close()

	store := memory.NewTokenStore()
	require.NoError(t, store.Set(context.Background(), testSessionID, repository.KeyToken, "old-token"))
	manager := upstream.NewTokenManager(store, server.URL, 0, logger.NewLogger())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = manager.Refresh(context.Background(), testSessionID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "fresh-token", results[i])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))

	token, err := store.Get(context.Background(), testSessionID, repository.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestTokenManager_NoStoredTokenFailsTerminally(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	store := memory.NewTokenStore()
	manager := upstream.NewTokenManager(store, server.URL, 0, logger.NewLogger())

	_, err := manager.Refresh(context.Background(), testSessionID)

	require.Error(t, err)
	assert.True(t, apperrors.IsRefresh(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTokenManager_UpstreamRejectionIsRefreshError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := memory.NewTokenStore()
	require.NoError(t, store.Set(context.Background(), testSessionID, repository.KeyToken, "old-token"))
	manager := upstream.NewTokenManager(store, server.URL, 0, logger.NewLogger())

	_, err := manager.Refresh(context.Background(), testSessionID)

	require.Error(t, err)
	assert.True(t, apperrors.IsRefresh(err))

	// The stale token stays in place; tearing the session down is the
	// caller's decision.
	token, err := store.Get(context.Background(), testSessionID, repository.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "old-token", token)
}
