package query

import (
	"context"

	"github.com/goliatone/go-issues/core"
)

type TokenReader interface {
	GetActive(ctx context.Context, connectionID string) (core.OAuthToken, error)
}

type FieldUpdateCollector interface {
	CollectFieldUpdates(ctx context.Context, providers ...core.FieldProvider) ([]core.FieldUpdate, error)
}

type GetActiveOAuthTokenQuery struct {
	reader TokenReader
}

func NewGetActiveOAuthTokenQuery(reader TokenReader) *GetActiveOAuthTokenQuery {
	return &GetActiveOAuthTokenQuery{reader: reader}
}

func (q *GetActiveOAuthTokenQuery) Query(ctx context.Context, msg GetActiveOAuthTokenMessage) (core.OAuthToken, error) {
	if q == nil || q.reader == nil {
		return core.OAuthToken{}, queryDependencyError("query: token reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.OAuthToken{}, err
	}
	return q.reader.GetActive(ctx, msg.ConnectionID)
}

type PreviewFieldUpdatesQuery struct {
	collector FieldUpdateCollector
}

func NewPreviewFieldUpdatesQuery(collector FieldUpdateCollector) *PreviewFieldUpdatesQuery {
	return &PreviewFieldUpdatesQuery{collector: collector}
}

func (q *PreviewFieldUpdatesQuery) Query(ctx context.Context, msg PreviewFieldUpdatesMessage) ([]core.FieldUpdate, error) {
	if q == nil || q.collector == nil {
		return nil, queryDependencyError("query: field update collector is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.collector.CollectFieldUpdates(ctx, msg.Providers...)
}
