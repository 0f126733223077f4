package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-issues/core"
)

type IssueFieldUpdater interface {
	UpdateIssueFields(ctx context.Context, issueKey string, providers ...core.FieldProvider) (core.UpdateFieldsResult, error)
}

type UpdateIssueFieldsCommand struct {
	service IssueFieldUpdater
}

func NewUpdateIssueFieldsCommand(service IssueFieldUpdater) *UpdateIssueFieldsCommand {
	return &UpdateIssueFieldsCommand{service: service}
}

func (c *UpdateIssueFieldsCommand) Execute(ctx context.Context, msg UpdateIssueFieldsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: issue field service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.UpdateIssueFields(ctx, msg.IssueKey, msg.Providers...)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ExecuteRequestCommand struct {
	executor core.Executor
}

func NewExecuteRequestCommand(executor core.Executor) *ExecuteRequestCommand {
	return &ExecuteRequestCommand{executor: executor}
}

func (c *ExecuteRequestCommand) Execute(ctx context.Context, msg ExecuteRequestMessage) error {
	if c == nil || c.executor == nil {
		return commandDependencyError("command: request executor is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.executor.Execute(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SaveOAuthTokenCommand struct {
	store core.TokenStore
}

func NewSaveOAuthTokenCommand(store core.TokenStore) *SaveOAuthTokenCommand {
	return &SaveOAuthTokenCommand{store: store}
}

func (c *SaveOAuthTokenCommand) Execute(ctx context.Context, msg SaveOAuthTokenMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: token store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.store.Save(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RevokeOAuthTokenCommand struct {
	store core.TokenStore
}

func NewRevokeOAuthTokenCommand(store core.TokenStore) *RevokeOAuthTokenCommand {
	return &RevokeOAuthTokenCommand{store: store}
}

func (c *RevokeOAuthTokenCommand) Execute(ctx context.Context, msg RevokeOAuthTokenMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: token store is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return c.store.Revoke(ctx, msg.ConnectionID, msg.Reason)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
