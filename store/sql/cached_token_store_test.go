package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-issues/core"
)

type stubTokenStore struct {
	mu          sync.Mutex
	token       core.OAuthToken
	getCalls    int
	saveCalls   int
	revokeCalls int
	getErr      error
}

func (s *stubTokenStore) Save(_ context.Context, in core.SaveOAuthTokenInput) (core.OAuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	s.token = core.OAuthToken{
		ConnectionID: in.ConnectionID,
		Version:      s.token.Version + 1,
		AccessToken:  in.AccessToken,
		TokenSecret:  in.TokenSecret,
	}
	return s.token, nil
}

func (s *stubTokenStore) GetActive(_ context.Context, _ string) (core.OAuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return core.OAuthToken{}, s.getErr
	}
	return s.token, nil
}

func (s *stubTokenStore) Revoke(_ context.Context, _ string, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokeCalls++
	s.getErr = core.NewEntityNotFoundError("oauth_token", s.token.ConnectionID)
	return nil
}

func TestCachedTokenStore_GetActive_MissFetchThenHit(t *testing.T) {
	base := &stubTokenStore{token: core.OAuthToken{ConnectionID: "conn_1", Version: 1, AccessToken: "token"}}
	store, err := NewCachedTokenStore(base, newTestTokenCacheService(t))
	if err != nil {
		t.Fatalf("new cached token store: %v", err)
	}

	for i := 0; i < 2; i++ {
		token, err := store.GetActive(context.Background(), "conn_1")
		if err != nil {
			t.Fatalf("get active %d: %v", i, err)
		}
		if token.AccessToken != "token" {
			t.Fatalf("unexpected token %#v", token)
		}
	}
	if base.getCalls != 1 {
		t.Fatalf("expected second read to be a cache hit, base get calls=%d", base.getCalls)
	}
}

func TestCachedTokenStore_SaveInvalidatesCachedToken(t *testing.T) {
	base := &stubTokenStore{token: core.OAuthToken{ConnectionID: "conn_2", Version: 1, AccessToken: "old"}}
	store, err := NewCachedTokenStore(base, newTestTokenCacheService(t))
	if err != nil {
		t.Fatalf("new cached token store: %v", err)
	}

	if _, err := store.GetActive(context.Background(), "conn_2"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if _, err := store.Save(context.Background(), core.SaveOAuthTokenInput{ConnectionID: "conn_2", AccessToken: "new"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err := store.GetActive(context.Background(), "conn_2")
	if err != nil {
		t.Fatalf("get after save: %v", err)
	}
	if base.getCalls != 2 {
		t.Fatalf("expected invalidated key to force second base read, got %d", base.getCalls)
	}
	if token.AccessToken != "new" || token.Version != 2 {
		t.Fatalf("expected refreshed token, got %#v", token)
	}
}

func TestCachedTokenStore_RevokeInvalidatesCachedToken(t *testing.T) {
	base := &stubTokenStore{token: core.OAuthToken{ConnectionID: "conn_3", Version: 1, AccessToken: "token"}}
	store, err := NewCachedTokenStore(base, newTestTokenCacheService(t))
	if err != nil {
		t.Fatalf("new cached token store: %v", err)
	}

	if _, err := store.GetActive(context.Background(), "conn_3"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if err := store.Revoke(context.Background(), "conn_3", "user request"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	_, err = store.GetActive(context.Background(), "conn_3")
	if !core.IsEntityNotFound(err) {
		t.Fatalf("expected not found after revoke, got %v", err)
	}
}

func TestCachedTokenStore_PropagatesBaseErrors(t *testing.T) {
	sentinel := errors.New("db down")
	store, err := NewCachedTokenStore(&stubTokenStore{getErr: sentinel}, newTestTokenCacheService(t))
	if err != nil {
		t.Fatalf("new cached token store: %v", err)
	}
	if _, err := store.GetActive(context.Background(), "conn_4"); !errors.Is(err, sentinel) {
		t.Fatalf("expected base error propagation, got %v", err)
	}
}

func TestTokenCacheKey_Contract(t *testing.T) {
	key, err := TokenCacheKey(" Team/Alpha 1 ")
	if err != nil {
		t.Fatalf("build cache key: %v", err)
	}
	const expected = "go-issues::oauth_token::v1::Team%2FAlpha%201"
	if key != expected {
		t.Fatalf("unexpected cache key contract: got %q want %q", key, expected)
	}
	if _, err := TokenCacheKey("  "); err == nil {
		t.Fatalf("expected blank connection id error")
	}
}

func TestNewCachedTokenStore_RequiresDependencies(t *testing.T) {
	if _, err := NewCachedTokenStore(nil, newTestTokenCacheService(t)); err == nil {
		t.Fatalf("expected base store error")
	}
	if _, err := NewCachedTokenStore(&stubTokenStore{}, nil); err == nil {
		t.Fatalf("expected cache service error")
	}
}

func newTestTokenCacheService(t *testing.T) repositorycache.CacheService {
	t.Helper()
	config := repositorycache.DefaultConfig()
	config.TTL = time.Minute
	service, err := repositorycache.NewCacheService(config)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return service
}
