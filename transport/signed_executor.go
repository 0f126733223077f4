package transport

import (
	"context"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-issues/auth"
	"github.com/goliatone/go-issues/core"
)

// SignedExecutor moves any query string embedded in a request resource into
// explicit query parameters before delegating, so the signing executor
// underneath sees every parameter it has to sign.
type SignedExecutor struct {
	BaseURL string
	Base    core.Executor
}

func NewSignedExecutor(baseURL string, base core.Executor) *SignedExecutor {
	return &SignedExecutor{BaseURL: baseURL, Base: base}
}

func (e *SignedExecutor) Execute(ctx context.Context, req *core.Request) (core.Response, error) {
	if e == nil || e.Base == nil {
		return core.Response{}, transportError(
			"transport: signed executor requires a base executor",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if req == nil {
		return core.Response{}, transportError(
			"transport: request is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return core.Response{}, err
	}

	resolved, err := core.ResolveURL(e.BaseURL, req.Resource)
	if err != nil {
		return core.Response{}, err
	}

	outgoing := req.Clone()
	if resolved.RawQuery != "" || strings.Contains(req.Resource, "?") {
		params, err := core.SplitQuery(resolved.RawQuery)
		if err != nil {
			return core.Response{}, core.NewMalformedURLError(err, e.BaseURL, req.Resource)
		}
		for _, param := range params {
			outgoing.AddParameter(param.Name, param.Value, core.ParameterTypeQuery)
		}
		outgoing.Resource = core.StripQuery(req.Resource)
	}

	return e.Base.Execute(ctx, outgoing)
}

// NewOAuthExecutor composes the OAuth 1.0a signer, the REST adapter and the
// query-rewriting decorator for cfg.
func NewOAuthExecutor(cfg core.Config, client HTTPDoer) (core.Executor, error) {
	if _, err := core.ResolveURL(cfg.BaseURL, ""); err != nil {
		return nil, err
	}
	signer, err := auth.NewOAuth1SignerFromConfig(cfg.OAuth)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	adapter := NewRESTAdapter(cfg.BaseURL, client)
	adapter.Authenticator = signer
	if cfg.MaxResponseBodyBytes > 0 {
		adapter.MaxResponseBodyBytes = cfg.MaxResponseBodyBytes
	}
	return NewSignedExecutor(cfg.BaseURL, adapter), nil
}

// NewOAuthExecutorFactory adapts NewOAuthExecutor to core.ExecutorFactory.
func NewOAuthExecutorFactory(client HTTPDoer) core.ExecutorFactory {
	return func(cfg core.Config) (core.Executor, error) {
		return NewOAuthExecutor(cfg, client)
	}
}

var (
	_ core.Executor = (*RESTAdapter)(nil)
	_ core.Executor = (*SignedExecutor)(nil)
)
