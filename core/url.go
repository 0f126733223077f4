package core

import (
	"net/url"
	"strings"
)

// ResolveURL joins resource onto baseURL. Resources are appended to the base
// path rather than resolved against it, so a base of
// https://tracker.example.com/jira keeps its /jira prefix. An absolute
// resource URL is used as is.
func ResolveURL(baseURL string, resource string) (*url.URL, error) {
	baseURL = strings.TrimSpace(baseURL)
	resource = strings.TrimSpace(resource)

	target := resource
	if !hasScheme(resource) {
		// the resource is appended to the base, so the base must end at its path
		if strings.ContainsAny(baseURL, "?#") {
			return nil, NewMalformedURLError(nil, baseURL, resource)
		}
		base := strings.TrimRight(baseURL, "/")
		switch {
		case resource == "":
			target = base
		case strings.HasPrefix(resource, "?"):
			target = base + resource
		default:
			target = base + "/" + strings.TrimLeft(resource, "/")
		}
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return nil, NewMalformedURLError(err, baseURL, resource)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, NewMalformedURLError(nil, baseURL, resource)
	}
	return parsed, nil
}

// SplitQuery decodes a raw query string into ordered name/value pairs.
// Repeated names and blank values are kept.
func SplitQuery(rawQuery string) ([]Parameter, error) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	if rawQuery == "" {
		return []Parameter{}, nil
	}
	out := []Parameter{}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		out = append(out, Parameter{Name: name, Value: value, Type: ParameterTypeQuery})
	}
	return out, nil
}

// StripQuery removes the query component, and any fragment after it, from a
// resource string.
func StripQuery(resource string) string {
	if index := strings.IndexByte(resource, '?'); index >= 0 {
		return resource[:index]
	}
	return resource
}

func hasScheme(value string) bool {
	lower := strings.ToLower(value)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
