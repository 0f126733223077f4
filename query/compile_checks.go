package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-issues/core"
)

var (
	_ gocmd.Querier[GetActiveOAuthTokenMessage, core.OAuthToken]    = (*GetActiveOAuthTokenQuery)(nil)
	_ gocmd.Querier[PreviewFieldUpdatesMessage, []core.FieldUpdate] = (*PreviewFieldUpdatesQuery)(nil)
)
