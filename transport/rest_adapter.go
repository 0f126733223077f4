package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-issues/core"
)

const KindREST = "rest"

const defaultRESTClientTimeout = 30 * time.Second
const defaultRESTResponseBodyLimit int64 = 10 << 20 // 10 MiB

const formContentType = "application/x-www-form-urlencoded"

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTAdapter is the base executor: it turns a core.Request into an HTTP call
// against BaseURL, lets the Authenticator sign it, and reads the response.
type RESTAdapter struct {
	BaseURL              string
	Client               HTTPDoer
	Authenticator        core.Authenticator
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
}

func NewRESTAdapter(baseURL string, client HTTPDoer) *RESTAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultRESTClientTimeout}
	}
	return &RESTAdapter{
		BaseURL:              baseURL,
		Client:               client,
		DefaultHeaders:       map[string]string{"Accept": "application/json"},
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
	}
}

func (*RESTAdapter) Kind() string {
	return KindREST
}

func (a *RESTAdapter) Execute(ctx context.Context, req *core.Request) (core.Response, error) {
	if a == nil || a.Client == nil {
		return core.Response{}, transportError(
			"transport: rest adapter requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindREST},
		)
	}
	if req == nil {
		return core.Response{}, transportError(
			"transport: request is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"adapter": KindREST},
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	resource, err := expandURLSegments(req.Resource, req.ParametersOf(core.ParameterTypeURLSegment))
	if err != nil {
		return core.Response{}, err
	}
	requestURL, err := core.ResolveURL(a.BaseURL, resource)
	if err != nil {
		return core.Response{}, err
	}
	for _, param := range req.ParametersOf(core.ParameterTypeQuery) {
		requestURL.RawQuery = appendQuery(requestURL.RawQuery, param.Name, param.Value)
	}

	body, contentType, formParams, err := requestBody(req)
	if err != nil {
		return core.Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, requestURL.String(), bytes.NewReader(body))
	if err != nil {
		return core.Response{}, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"adapter": KindREST, "method": method, "url": requestURL.String()},
		)
	}
	for key, value := range a.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	for _, param := range req.ParametersOf(core.ParameterTypeHeader) {
		if strings.TrimSpace(param.Name) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(param.Name), strings.TrimSpace(param.Value))
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if a.Authenticator != nil {
		signed, err := core.SplitQuery(requestURL.RawQuery)
		if err != nil {
			return core.Response{}, core.NewMalformedURLError(err, a.BaseURL, req.Resource)
		}
		if err := a.Authenticator.Authenticate(ctx, httpReq, append(signed, formParams...)); err != nil {
			return core.Response{}, err
		}
	}

	startedAt := time.Now().UTC()
	httpRes, err := a.Client.Do(httpReq)
	if err != nil {
		return core.Response{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: execute http request",
			http.StatusBadGateway,
			map[string]any{"adapter": KindREST, "method": method, "url": requestURL.String()},
		)
	}
	defer httpRes.Body.Close()

	maxBodyBytes := resolveResponseBodyLimit(a.MaxResponseBodyBytes)
	resBody, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return core.Response{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read response body",
			http.StatusBadGateway,
			map[string]any{"adapter": KindREST, "status_code": httpRes.StatusCode},
		)
	}
	if int64(len(resBody)) > maxBodyBytes {
		return core.Response{}, transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"adapter":          KindREST,
				"status_code":      httpRes.StatusCode,
				"response_limit_b": maxBodyBytes,
			},
		)
	}

	if httpRes.StatusCode < 200 || httpRes.StatusCode > 299 {
		return core.Response{}, statusError(method, requestURL, httpRes.StatusCode, resBody)
	}

	return core.Response{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       resBody,
		Metadata: map[string]any{
			"duration_ms": time.Since(startedAt).Milliseconds(),
			"kind":        KindREST,
		},
	}, nil
}

// requestBody returns the payload and, when body parameters were
// form-encoded, the parameters that must take part in the signature.
func requestBody(req *core.Request) ([]byte, string, []core.Parameter, error) {
	formParams := req.ParametersOf(core.ParameterTypeBody)
	if len(req.Body) > 0 {
		if len(formParams) > 0 {
			return nil, "", nil, transportError(
				"transport: body parameters cannot be combined with an explicit body",
				goerrors.CategoryBadInput,
				http.StatusBadRequest,
				map[string]any{"adapter": KindREST, "resource": req.Resource},
			)
		}
		contentType := strings.TrimSpace(req.ContentType)
		if contentType == "" {
			contentType = "application/json"
		}
		return req.Body, contentType, nil, nil
	}
	if len(formParams) == 0 {
		return nil, "", nil, nil
	}
	encoded := ""
	for _, param := range formParams {
		encoded = appendQuery(encoded, param.Name, param.Value)
	}
	return []byte(encoded), formContentType, formParams, nil
}

func expandURLSegments(resource string, segments []core.Parameter) (string, error) {
	for _, segment := range segments {
		placeholder := "{" + segment.Name + "}"
		if !strings.Contains(resource, placeholder) {
			return "", transportError(
				fmt.Sprintf("transport: resource has no %s placeholder", placeholder),
				goerrors.CategoryBadInput,
				http.StatusBadRequest,
				map[string]any{"adapter": KindREST, "resource": resource},
			)
		}
		resource = strings.ReplaceAll(resource, placeholder, url.PathEscape(segment.Value))
	}
	return resource, nil
}

func appendQuery(rawQuery string, name string, value string) string {
	pair := url.QueryEscape(name) + "=" + url.QueryEscape(value)
	if rawQuery == "" {
		return pair
	}
	return rawQuery + "&" + pair
}

func statusError(method string, requestURL *url.URL, statusCode int, body []byte) error {
	category := goerrors.CategoryExternal
	code := http.StatusBadGateway
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		category = goerrors.CategoryAuth
		code = statusCode
	}
	return transportError(
		fmt.Sprintf("transport: %s %s returned status %d", method, requestURL.Path, statusCode),
		category,
		code,
		map[string]any{
			"adapter":     KindREST,
			"status_code": statusCode,
			"body":        string(body),
		},
	)
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func resolveResponseBodyLimit(adapterLimit int64) int64 {
	if adapterLimit > 0 {
		return adapterLimit
	}
	return defaultRESTResponseBodyLimit
}
