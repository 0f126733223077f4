package issues

import (
	issuescommand "github.com/goliatone/go-issues/command"
	issuesquery "github.com/goliatone/go-issues/query"
)

var (
	_ issuescommand.IssueFieldUpdater  = (*Client)(nil)
	_ Executor                         = (*Client)(nil)
	_ issuesquery.FieldUpdateCollector = (*Client)(nil)
	_ issuesquery.TokenReader          = TokenStore(nil)
)
