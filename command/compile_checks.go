package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[UpdateIssueFieldsMessage] = (*UpdateIssueFieldsCommand)(nil)
	_ gocmd.Commander[ExecuteRequestMessage]    = (*ExecuteRequestCommand)(nil)
	_ gocmd.Commander[SaveOAuthTokenMessage]    = (*SaveOAuthTokenCommand)(nil)
	_ gocmd.Commander[RevokeOAuthTokenMessage]  = (*RevokeOAuthTokenCommand)(nil)
)
