package issues

import (
	"github.com/goliatone/go-issues/core"
	"github.com/goliatone/go-issues/transport"
)

type Config = core.Config
type OAuthConfig = core.OAuthConfig

type Option = core.Option

type Client = core.Client
type UpdateFieldsResult = core.UpdateFieldsResult

type Request = core.Request
type Response = core.Response
type Parameter = core.Parameter
type ParameterType = core.ParameterType
type Executor = core.Executor
type ExecutorFunc = core.ExecutorFunc
type ExecutorFactory = core.ExecutorFactory

type NamedEntity = core.NamedEntity
type Entity = core.Entity
type FieldUpdate = core.FieldUpdate
type FieldProvider = core.FieldProvider

type NamedEntityCollection[T interface {
	comparable
	NamedEntity
}] = core.NamedEntityCollection[T]

type OAuthToken = core.OAuthToken
type SaveOAuthTokenInput = core.SaveOAuthTokenInput
type TokenStore = core.TokenStore

const (
	ParameterTypeQuery      = core.ParameterTypeQuery
	ParameterTypeBody       = core.ParameterTypeBody
	ParameterTypeHeader     = core.ParameterTypeHeader
	ParameterTypeURLSegment = core.ParameterTypeURLSegment

	SignatureMethodRSASHA1    = core.SignatureMethodRSASHA1
	SignatureMethodHMACSHA1   = core.SignatureMethodHMACSHA1
	SignatureMethodHMACSHA256 = core.SignatureMethodHMACSHA256
	SignatureMethodPlainText  = core.SignatureMethodPlainText
)

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithExecutor        = core.WithExecutor
	WithExecutorFactory = core.WithExecutorFactory
	WithTokenStore      = core.WithTokenStore
)

var (
	IsEntityNotFound = core.IsEntityNotFound
	IsMalformedURL   = core.IsMalformedURL
	IsAuthRejected   = core.IsAuthRejected
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewClient builds a client that signs every request with OAuth 1.0a. An
// explicit WithExecutor or WithExecutorFactory option replaces the signed
// HTTP executor.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, core.WithExecutorFactory(transport.NewOAuthExecutorFactory(nil)))
	all = append(all, opts...)
	return core.NewClient(cfg, all...)
}

func NewNamedEntityCollection[T interface {
	comparable
	NamedEntity
}](fieldName string, items []T) *NamedEntityCollection[T] {
	return core.NewNamedEntityCollection(fieldName, items)
}
