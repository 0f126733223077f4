package core

import (
	"context"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// NamedEntity is the shape shared by server-side entities that carry a stable
// identifier and a human readable label (components, versions, labels).
type NamedEntity interface {
	EntityID() string
	EntityName() string
}

// Entity is the default NamedEntity value used by collections.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (e Entity) EntityID() string { return e.ID }

func (e Entity) EntityName() string { return e.Name }

// FieldUpdate is the wire shape of a multi-valued field replacement.
type FieldUpdate struct {
	ID     string   `json:"id"`
	Values []string `json:"values"`
}

// FieldProvider is implemented by anything that contributes field updates to
// an issue save.
type FieldProvider interface {
	FieldUpdates(ctx context.Context) ([]FieldUpdate, error)
}

// ParameterType describes where a request parameter travels.
type ParameterType string

const (
	ParameterTypeQuery      ParameterType = "query"
	ParameterTypeBody       ParameterType = "body"
	ParameterTypeHeader     ParameterType = "header"
	ParameterTypeURLSegment ParameterType = "url_segment"
)

type Parameter struct {
	Name  string
	Value string
	Type  ParameterType
}

type Request struct {
	Resource    string
	Method      string
	Parameters  []Parameter
	Body        []byte
	ContentType string
}

// AddParameter appends a parameter, keeping insertion order.
func (r *Request) AddParameter(name string, value string, typ ParameterType) {
	if r == nil {
		return
	}
	r.Parameters = append(r.Parameters, Parameter{Name: name, Value: value, Type: typ})
}

// ParametersOf returns the parameters of the given types in request order.
func (r *Request) ParametersOf(types ...ParameterType) []Parameter {
	if r == nil || len(r.Parameters) == 0 {
		return []Parameter{}
	}
	out := make([]Parameter, 0, len(r.Parameters))
	for _, param := range r.Parameters {
		for _, typ := range types {
			if param.Type == typ {
				out = append(out, param)
				break
			}
		}
	}
	return out
}

// Clone returns a deep copy so decorators never mutate the caller's request.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	cloned := *r
	cloned.Parameters = append([]Parameter(nil), r.Parameters...)
	if r.Body != nil {
		cloned.Body = append([]byte(nil), r.Body...)
	}
	return &cloned
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// Executor performs a Request against the remote service.
type Executor interface {
	Execute(ctx context.Context, req *Request) (Response, error)
}

type ExecutorFunc func(ctx context.Context, req *Request) (Response, error)

func (f ExecutorFunc) Execute(ctx context.Context, req *Request) (Response, error) {
	return f(ctx, req)
}

// Authenticator attaches credentials to an outbound request. params holds
// the declared parameters that travel in the query string or form body.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request, params []Parameter) error
}

type AuthenticatorFunc func(ctx context.Context, req *http.Request, params []Parameter) error

func (f AuthenticatorFunc) Authenticate(ctx context.Context, req *http.Request, params []Parameter) error {
	return f(ctx, req, params)
}

type OAuthToken struct {
	ID           string
	ConnectionID string
	Version      int
	AccessToken  string
	TokenSecret  string
	CreatedAt    time.Time
}

type SaveOAuthTokenInput struct {
	ConnectionID string
	AccessToken  string
	TokenSecret  string
}

type TokenStore interface {
	Save(ctx context.Context, in SaveOAuthTokenInput) (OAuthToken, error)
	GetActive(ctx context.Context, connectionID string) (OAuthToken, error)
	Revoke(ctx context.Context, connectionID string, reason string) error
}

// ExecutorFactory builds the executor used by a Client from its resolved
// configuration.
type ExecutorFactory func(cfg Config) (Executor, error)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
