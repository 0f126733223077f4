package issues

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-issues/migrations"
	sqlstore "github.com/goliatone/go-issues/store/sql"
)

type DatabaseConfig = sqlstore.DatabaseConfig

// TokenStoreConfig configures the SQL backed token store. A zero CacheTTL
// serves every read from the database.
type TokenStoreConfig struct {
	Database DatabaseConfig `koanf:"database" mapstructure:"database"`
	CacheTTL time.Duration  `koanf:"cache_ttl" mapstructure:"cache_ttl"`
}

// TokenStoreHandle owns the database connection behind a TokenStore.
type TokenStoreHandle struct {
	client *persistence.Client
	store  TokenStore
}

// OpenTokenStore connects to the configured database, applies the embedded
// schema migrations for its dialect and returns the ready store.
func OpenTokenStore(ctx context.Context, cfg TokenStoreConfig) (*TokenStoreHandle, error) {
	dialect, err := migrations.DialectFor(cfg.Database.GetDriver())
	if err != nil {
		return nil, err
	}
	client, err := sqlstore.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	_, err = migrations.Register(ctx, GetMigrationsFS(), func(_ context.Context, target string, _ string, fsys fs.FS) error {
		if target != dialect {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithValidationTargets(dialect))
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("issues: migrate token store: %w", err)
	}

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	var store TokenStore = factory.TokenStore()
	if cfg.CacheTTL > 0 {
		cacheConfig := repositorycache.DefaultConfig()
		cacheConfig.TTL = cfg.CacheTTL
		cacheService, err := repositorycache.NewCacheService(cacheConfig)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("issues: token cache: %w", err)
		}
		cached, err := sqlstore.NewCachedTokenStore(store, cacheService)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		store = cached
	}

	return &TokenStoreHandle{client: client, store: store}, nil
}

func (h *TokenStoreHandle) Store() TokenStore {
	if h == nil {
		return nil
	}
	return h.store
}

func (h *TokenStoreHandle) Client() *persistence.Client {
	if h == nil {
		return nil
	}
	return h.client
}

func (h *TokenStoreHandle) Close() error {
	if h == nil || h.client == nil {
		return nil
	}
	return h.client.Close()
}
