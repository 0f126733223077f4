package sqlstore

import (
	"time"

	"github.com/goliatone/go-issues/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	tokenStatusActive  = "active"
	tokenStatusRevoked = "revoked"
)

type oauthTokenRecord struct {
	bun.BaseModel `bun:"table:issue_oauth_tokens,alias:iot"`

	ID               string    `bun:"id,pk"`
	ConnectionID     string    `bun:"connection_id,notnull"`
	Version          int       `bun:"version,notnull"`
	AccessToken      string    `bun:"access_token,notnull"`
	TokenSecret      string    `bun:"token_secret,notnull"`
	Status           string    `bun:"status,notnull"`
	RevocationReason string    `bun:"revocation_reason,notnull"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newOAuthTokenRecord(in core.SaveOAuthTokenInput, version int, now time.Time) *oauthTokenRecord {
	return &oauthTokenRecord{
		ID:           uuid.NewString(),
		ConnectionID: in.ConnectionID,
		Version:      version,
		AccessToken:  in.AccessToken,
		TokenSecret:  in.TokenSecret,
		Status:       tokenStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (r *oauthTokenRecord) toDomain() core.OAuthToken {
	if r == nil {
		return core.OAuthToken{}
	}
	return core.OAuthToken{
		ID:           r.ID,
		ConnectionID: r.ConnectionID,
		Version:      r.Version,
		AccessToken:  r.AccessToken,
		TokenSecret:  r.TokenSecret,
		CreatedAt:    r.CreatedAt,
	}
}
