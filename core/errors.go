package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	IssuesErrorBadInput         = "ISSUES_BAD_INPUT"
	IssuesErrorEntityNotFound   = "ISSUES_ENTITY_NOT_FOUND"
	IssuesErrorMalformedURL     = "ISSUES_MALFORMED_URL"
	IssuesErrorTransportFailure = "ISSUES_TRANSPORT_FAILURE"
	IssuesErrorAuthRejected     = "ISSUES_AUTH_REJECTED"
	IssuesErrorInternal         = "ISSUES_INTERNAL_ERROR"
)

func NewEntityNotFoundError(field string, name string) error {
	return goerrors.New("core: no entity named \""+name+"\" in "+field, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(IssuesErrorEntityNotFound).
		WithMetadata(map[string]any{"field": field, "name": name})
}

func NewMalformedURLError(source error, baseURL string, resource string) error {
	metadata := map[string]any{"base_url": baseURL, "resource": resource}
	if source == nil {
		return goerrors.New("core: malformed request url", goerrors.CategoryBadInput).
			WithCode(http.StatusBadRequest).
			WithTextCode(IssuesErrorMalformedURL).
			WithMetadata(metadata)
	}
	return goerrors.Wrap(source, goerrors.CategoryBadInput, "core: malformed request url").
		WithCode(http.StatusBadRequest).
		WithTextCode(IssuesErrorMalformedURL).
		WithMetadata(metadata)
}

func NewBadInputError(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(IssuesErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func IsEntityNotFound(err error) bool {
	return hasTextCode(err, IssuesErrorEntityNotFound)
}

func IsMalformedURL(err error) bool {
	return hasTextCode(err, IssuesErrorMalformedURL)
}

func IsAuthRejected(err error) bool {
	return hasTextCode(err, IssuesErrorAuthRejected)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

func issuesErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureIssuesErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"):
		return newIssuesError(err.Error(), goerrors.CategoryNotFound, IssuesErrorEntityNotFound)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "unsupported"):
		return newIssuesError(err.Error(), goerrors.CategoryBadInput, IssuesErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureIssuesErrorEnvelope(mapped)
}

func newIssuesError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureIssuesErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureIssuesErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = issuesHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = DefaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

// DefaultTextCode maps an error category to the text code used by this
// module's envelopes.
func DefaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return IssuesErrorBadInput
	case goerrors.CategoryNotFound:
		return IssuesErrorEntityNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return IssuesErrorAuthRejected
	case goerrors.CategoryExternal:
		return IssuesErrorTransportFailure
	default:
		return IssuesErrorInternal
	}
}

func issuesHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
