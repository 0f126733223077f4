package command

import (
	"strings"

	"github.com/goliatone/go-issues/core"
)

const (
	TypeUpdateIssueFields = "issues.command.issue_fields.update"
	TypeExecuteRequest    = "issues.command.request.execute"
	TypeSaveOAuthToken    = "issues.command.oauth_token.save"
	TypeRevokeOAuthToken  = "issues.command.oauth_token.revoke"
)

// UpdateIssueFieldsMessage saves the pending changes of Providers on the
// issue identified by IssueKey.
type UpdateIssueFieldsMessage struct {
	IssueKey  string
	Providers []core.FieldProvider
}

func (UpdateIssueFieldsMessage) Type() string { return TypeUpdateIssueFields }

func (m UpdateIssueFieldsMessage) Validate() error {
	if strings.TrimSpace(m.IssueKey) == "" {
		return commandValidationError("issue_key", "issue key is required")
	}
	for _, provider := range m.Providers {
		if provider == nil {
			return commandValidationError("providers", "field providers must not be nil")
		}
	}
	return nil
}

type ExecuteRequestMessage struct {
	Request *core.Request
}

func (ExecuteRequestMessage) Type() string { return TypeExecuteRequest }

func (m ExecuteRequestMessage) Validate() error {
	if m.Request == nil {
		return commandValidationError("request", "request is required")
	}
	return nil
}

type SaveOAuthTokenMessage struct {
	Input core.SaveOAuthTokenInput
}

func (SaveOAuthTokenMessage) Type() string { return TypeSaveOAuthToken }

func (m SaveOAuthTokenMessage) Validate() error {
	if strings.TrimSpace(m.Input.ConnectionID) == "" {
		return commandValidationError("connection_id", "connection id is required")
	}
	if strings.TrimSpace(m.Input.AccessToken) == "" {
		return commandValidationError("access_token", "access token is required")
	}
	return nil
}

type RevokeOAuthTokenMessage struct {
	ConnectionID string
	Reason       string
}

func (RevokeOAuthTokenMessage) Type() string { return TypeRevokeOAuthToken }

func (m RevokeOAuthTokenMessage) Validate() error {
	if strings.TrimSpace(m.ConnectionID) == "" {
		return commandValidationError("connection_id", "connection id is required")
	}
	return nil
}
