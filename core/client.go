package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

const issueResource = "/rest/api/2/issue/{issueKey}"

// Client is the generic REST client for the issue tracker. Requests go
// through the configured Executor, which owns signing and dispatch.
type Client struct {
	config         Config
	executor       Executor
	logger         Logger
	loggerProvider LoggerProvider
	errorMapper    ErrorMapper
}

type UpdateFieldsResult struct {
	IssueKey string
	Updates  []FieldUpdate
	Sent     bool
	Response Response
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	builder := defaultClientBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("issues", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("issues"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	ctx := context.Background()
	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(ctx, defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if strings.TrimSpace(finalConfig.OAuth.AccessToken) == "" && builder.tokenStore != nil {
		connectionID := strings.TrimSpace(finalConfig.OAuth.ConnectionID)
		if connectionID == "" {
			return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: oauth connection_id is required to load a stored token"))
		}
		token, loadErr := builder.tokenStore.GetActive(ctx, connectionID)
		if loadErr != nil {
			return nil, mapBuildError(builder.errorMapper, loadErr)
		}
		finalConfig.OAuth.AccessToken = token.AccessToken
		finalConfig.OAuth.TokenSecret = token.TokenSecret
	}

	executor := builder.executor
	if executor == nil {
		if builder.executorFactory == nil {
			return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: executor or executor factory is required"))
		}
		executor, err = builder.executorFactory(finalConfig)
		if err != nil {
			return nil, mapBuildError(builder.errorMapper, err)
		}
		if executor == nil {
			return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: executor factory returned nil executor"))
		}
	}

	return &Client{
		config:         finalConfig,
		executor:       executor,
		logger:         logger,
		loggerProvider: provider,
		errorMapper:    builder.errorMapper,
	}, nil
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

// Execute sends req through the configured executor. Errors from the
// executor are returned unchanged.
func (c *Client) Execute(ctx context.Context, req *Request) (resp Response, err error) {
	if c == nil || c.executor == nil {
		return Response{}, mapBuildError(defaultErrorMapper, fmt.Errorf("core: client executor is not configured"))
	}
	if req == nil {
		return Response{}, NewBadInputError("core: request is required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"method":   strings.ToUpper(strings.TrimSpace(req.Method)),
		"resource": req.Resource,
	}
	defer func() {
		if err == nil {
			fields["status_code"] = resp.StatusCode
		}
		c.observeOperation(ctx, startedAt, "execute_request", err, fields)
	}()
	return c.executor.Execute(ctx, req)
}

// CollectFieldUpdates gathers the deltas of every provider in order.
func CollectFieldUpdates(ctx context.Context, providers ...FieldProvider) ([]FieldUpdate, error) {
	updates := []FieldUpdate{}
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		found, err := provider.FieldUpdates(ctx)
		if err != nil {
			return nil, err
		}
		updates = append(updates, found...)
	}
	return updates, nil
}

// CollectFieldUpdates reports what UpdateIssueFields would send without
// dispatching a request.
func (c *Client) CollectFieldUpdates(ctx context.Context, providers ...FieldProvider) ([]FieldUpdate, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return CollectFieldUpdates(ctx, providers...)
}

// UpdateIssueFields sends the changed fields of an issue. Nothing is sent
// when no provider reports a change.
func (c *Client) UpdateIssueFields(
	ctx context.Context,
	issueKey string,
	providers ...FieldProvider,
) (UpdateFieldsResult, error) {
	issueKey = strings.TrimSpace(issueKey)
	if issueKey == "" {
		return UpdateFieldsResult{}, NewBadInputError("core: issue key is required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	updates, err := CollectFieldUpdates(ctx, providers...)
	if err != nil {
		return UpdateFieldsResult{}, err
	}
	result := UpdateFieldsResult{IssueKey: issueKey, Updates: updates}
	if len(updates) == 0 {
		c.logDebug(ctx, "issue fields unchanged", map[string]any{"issue_key": issueKey})
		return result, nil
	}

	body, err := encodeFieldUpdates(updates)
	if err != nil {
		return UpdateFieldsResult{}, mapBuildError(c.errorMapper, err)
	}
	req := &Request{
		Resource:    issueResource,
		Method:      http.MethodPut,
		Body:        body,
		ContentType: "application/json",
	}
	req.AddParameter("issueKey", issueKey, ParameterTypeURLSegment)

	resp, err := c.Execute(ctx, req)
	if err != nil {
		return UpdateFieldsResult{}, err
	}
	result.Sent = true
	result.Response = resp
	c.logInfo(ctx, "issue fields updated", map[string]any{
		"issue_key": issueKey,
		"fields":    fieldIDs(updates),
	})
	return result, nil
}

func encodeFieldUpdates(updates []FieldUpdate) ([]byte, error) {
	fields := make(map[string]any, len(updates))
	for _, update := range updates {
		id := strings.TrimSpace(update.ID)
		if id == "" {
			return nil, fmt.Errorf("core: field update id is required")
		}
		if _, exists := fields[id]; exists {
			return nil, NewBadInputError(
				fmt.Sprintf("core: field %q is updated by more than one provider", id),
				map[string]any{"field": id},
			)
		}
		values := make([]map[string]string, 0, len(update.Values))
		for _, value := range update.Values {
			values = append(values, map[string]string{"id": value})
		}
		fields[id] = values
	}
	return json.Marshal(map[string]any{"fields": fields})
}

func fieldIDs(updates []FieldUpdate) []string {
	ids := make([]string, 0, len(updates))
	for _, update := range updates {
		ids = append(ids, update.ID)
	}
	return ids
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		mapper = defaultErrorMapper
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
