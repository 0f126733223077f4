package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-issues/core"
)

const tokenCacheKeyPrefix = "go-issues::oauth_token::v1"

// CachedTokenStore serves active token reads from a cache and invalidates
// the connection entry on every write.
type CachedTokenStore struct {
	base  core.TokenStore
	cache repositorycache.CacheService
}

func NewCachedTokenStore(base core.TokenStore, cacheService repositorycache.CacheService) (*CachedTokenStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base token store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: token cache service is required")
	}
	return &CachedTokenStore{base: base, cache: cacheService}, nil
}

// TokenCacheKey returns go-issues::oauth_token::v1::<connection_id> with the
// connection id URL-path escaped.
func TokenCacheKey(connectionID string) (string, error) {
	trimmed := strings.TrimSpace(connectionID)
	if trimmed == "" {
		return "", core.NewBadInputError("sqlstore: connection id is required", nil)
	}
	return tokenCacheKeyPrefix + "::" + url.PathEscape(trimmed), nil
}

func (s *CachedTokenStore) GetActive(ctx context.Context, connectionID string) (core.OAuthToken, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.OAuthToken{}, fmt.Errorf("sqlstore: cached token store is not configured")
	}
	cacheKey, err := TokenCacheKey(connectionID)
	if err != nil {
		return core.OAuthToken{}, err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.OAuthToken, error) {
		return s.base.GetActive(ctx, strings.TrimSpace(connectionID))
	})
}

func (s *CachedTokenStore) Save(ctx context.Context, in core.SaveOAuthTokenInput) (core.OAuthToken, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.OAuthToken{}, fmt.Errorf("sqlstore: cached token store is not configured")
	}
	saved, err := s.base.Save(ctx, in)
	if err != nil {
		return core.OAuthToken{}, err
	}
	if err := s.invalidate(ctx, in.ConnectionID); err != nil {
		return core.OAuthToken{}, err
	}
	return saved, nil
}

func (s *CachedTokenStore) Revoke(ctx context.Context, connectionID string, reason string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached token store is not configured")
	}
	if err := s.base.Revoke(ctx, connectionID, reason); err != nil {
		return err
	}
	return s.invalidate(ctx, connectionID)
}

func (s *CachedTokenStore) invalidate(ctx context.Context, connectionID string) error {
	cacheKey, err := TokenCacheKey(connectionID)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}
