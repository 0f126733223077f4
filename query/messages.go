package query

import (
	"strings"

	"github.com/goliatone/go-issues/core"
)

const (
	TypeGetActiveOAuthToken = "issues.query.oauth_token.get_active"
	TypePreviewFieldUpdates = "issues.query.field_updates.preview"
)

type GetActiveOAuthTokenMessage struct {
	ConnectionID string
}

func (GetActiveOAuthTokenMessage) Type() string { return TypeGetActiveOAuthToken }

func (m GetActiveOAuthTokenMessage) Validate() error {
	if strings.TrimSpace(m.ConnectionID) == "" {
		return queryValidationError("connection_id", "connection id is required")
	}
	return nil
}

// PreviewFieldUpdatesMessage asks for the updates Providers would send
// without issuing a request.
type PreviewFieldUpdatesMessage struct {
	Providers []core.FieldProvider
}

func (PreviewFieldUpdatesMessage) Type() string { return TypePreviewFieldUpdates }

func (m PreviewFieldUpdatesMessage) Validate() error {
	for _, provider := range m.Providers {
		if provider == nil {
			return queryValidationError("providers", "field providers must not be nil")
		}
	}
	return nil
}
