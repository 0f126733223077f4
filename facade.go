package issues

import (
	"fmt"

	issuescommand "github.com/goliatone/go-issues/command"
	issuesquery "github.com/goliatone/go-issues/query"
)

type Commands struct {
	UpdateIssueFields *issuescommand.UpdateIssueFieldsCommand
	ExecuteRequest    *issuescommand.ExecuteRequestCommand
	SaveOAuthToken    *issuescommand.SaveOAuthTokenCommand
	RevokeOAuthToken  *issuescommand.RevokeOAuthTokenCommand
}

type Queries struct {
	GetActiveOAuthToken *issuesquery.GetActiveOAuthTokenQuery
	PreviewFieldUpdates *issuesquery.PreviewFieldUpdatesQuery
}

// Facade exposes the client and token store as go-command handlers.
type Facade struct {
	client   *Client
	tokens   TokenStore
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	tokenStore TokenStore
}

// WithFacadeTokenStore enables the token commands and queries.
func WithFacadeTokenStore(store TokenStore) FacadeOption {
	return func(options *facadeOptions) {
		options.tokenStore = store
	}
}

func NewFacade(client *Client, opts ...FacadeOption) (*Facade, error) {
	if client == nil {
		return nil, fmt.Errorf("issues: client is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	facade := &Facade{client: client, tokens: cfg.tokenStore}
	facade.commands = Commands{
		UpdateIssueFields: issuescommand.NewUpdateIssueFieldsCommand(client),
		ExecuteRequest:    issuescommand.NewExecuteRequestCommand(client),
	}
	facade.queries = Queries{
		PreviewFieldUpdates: issuesquery.NewPreviewFieldUpdatesQuery(client),
	}
	if cfg.tokenStore != nil {
		facade.commands.SaveOAuthToken = issuescommand.NewSaveOAuthTokenCommand(cfg.tokenStore)
		facade.commands.RevokeOAuthToken = issuescommand.NewRevokeOAuthTokenCommand(cfg.tokenStore)
		facade.queries.GetActiveOAuthToken = issuesquery.NewGetActiveOAuthTokenQuery(cfg.tokenStore)
	}

	return facade, nil
}

// Commands returns the command handlers. Token handlers are nil unless a
// token store was configured.
func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Client() *Client {
	if f == nil {
		return nil
	}
	return f.client
}

func (f *Facade) TokenStore() TokenStore {
	if f == nil {
		return nil
	}
	return f.tokens
}
