package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-issues/core"
	"github.com/uptrace/bun"
)

// TokenStore keeps versioned OAuth access tokens per connection. Saving a
// token revokes the previously active one in the same transaction.
type TokenStore struct {
	db   *bun.DB
	repo repository.Repository[*oauthTokenRecord]
}

func NewTokenStore(db *bun.DB) (*TokenStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*oauthTokenRecord](db, oauthTokenHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid oauth token repository wiring: %w", err)
		}
	}
	return &TokenStore{db: db, repo: repo}, nil
}

func (s *TokenStore) Save(ctx context.Context, in core.SaveOAuthTokenInput) (core.OAuthToken, error) {
	if s == nil || s.repo == nil || s.db == nil {
		return core.OAuthToken{}, fmt.Errorf("sqlstore: token store is not configured")
	}
	in.ConnectionID = strings.TrimSpace(in.ConnectionID)
	in.AccessToken = strings.TrimSpace(in.AccessToken)
	if in.ConnectionID == "" {
		return core.OAuthToken{}, core.NewBadInputError("sqlstore: connection id is required", nil)
	}
	if in.AccessToken == "" {
		return core.OAuthToken{}, core.NewBadInputError("sqlstore: access token is required", map[string]any{
			"connection_id": in.ConnectionID,
		})
	}
	now := time.Now().UTC()

	var created core.OAuthToken
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		nextVersion, versionErr := s.nextVersion(ctx, tx, in.ConnectionID)
		if versionErr != nil {
			return versionErr
		}

		_, updateErr := tx.NewUpdate().
			Model((*oauthTokenRecord)(nil)).
			Set("status = ?", tokenStatusRevoked).
			Set("revocation_reason = ?", "rotated").
			Set("updated_at = ?", now).
			Where("connection_id = ?", in.ConnectionID).
			Where("status = ?", tokenStatusActive).
			Exec(ctx)
		if updateErr != nil {
			return updateErr
		}

		inserted, createErr := s.repo.CreateTx(ctx, tx, newOAuthTokenRecord(in, nextVersion, now))
		if createErr != nil {
			return createErr
		}
		created = inserted.toDomain()
		return nil
	})
	if err != nil {
		return core.OAuthToken{}, err
	}
	return created, nil
}

func (s *TokenStore) GetActive(ctx context.Context, connectionID string) (core.OAuthToken, error) {
	if s == nil || s.repo == nil {
		return core.OAuthToken{}, fmt.Errorf("sqlstore: token store is not configured")
	}
	connectionID = strings.TrimSpace(connectionID)
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("connection_id", "=", connectionID),
		repository.SelectBy("status", "=", tokenStatusActive),
		repository.OrderBy("version DESC"),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.OAuthToken{}, err
	}
	if len(records) == 0 {
		return core.OAuthToken{}, core.NewEntityNotFoundError("oauth_token", connectionID)
	}
	return records[0].toDomain(), nil
}

func (s *TokenStore) Revoke(ctx context.Context, connectionID string, reason string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	connectionID = strings.TrimSpace(connectionID)
	if connectionID == "" {
		return core.NewBadInputError("sqlstore: connection id is required", nil)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "revoked"
	}

	_, err := s.db.NewUpdate().
		Model((*oauthTokenRecord)(nil)).
		Set("status = ?", tokenStatusRevoked).
		Set("revocation_reason = ?", reason).
		Set("updated_at = ?", time.Now().UTC()).
		Where("connection_id = ?", connectionID).
		Where("status = ?", tokenStatusActive).
		Exec(ctx)
	return err
}

func (s *TokenStore) nextVersion(ctx context.Context, tx bun.Tx, connectionID string) (int, error) {
	var maxVersion int
	if err := tx.NewSelect().
		Model((*oauthTokenRecord)(nil)).
		ColumnExpr("COALESCE(MAX(version), 0)").
		Where("?TableAlias.connection_id = ?", connectionID).
		Scan(ctx, &maxVersion); err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}
