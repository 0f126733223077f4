package sqlstore

import "github.com/goliatone/go-issues/core"

var (
	_ core.TokenStore = (*TokenStore)(nil)
	_ core.TokenStore = (*CachedTokenStore)(nil)
)
