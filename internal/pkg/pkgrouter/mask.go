package pkgrouter

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"
)

const maskedValue = "***"

//nolint:gochecknoglobals // read-only lookup
var sensitiveKeys = map[string]struct{}{
	"authorization":         {},
	"cookie":                {},
	"set-cookie":            {},
	"x-api-key":             {},
	"x-amz-security-token":  {},
	"aws_secret_access_key": {},
	"database_url":          {},
	"password":              {},
}

func sensitive(key string) bool {
	_, found := sensitiveKeys[strings.ToLower(key)]
	return found
}

func maskHeaders(headers http.Header) http.Header {
	result := headers.Clone()
	for key := range result {
		if sensitive(key) {
			result.Set(key, maskedValue)
		}
	}
	return result
}

// maskJSON replaces sensitive object values at any depth.
func maskJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if sensitive(k) {
				val[k] = maskedValue
				continue
			}
			val[k] = maskJSON(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = maskJSON(inner)
		}
		return val
	default:
		return v
	}
}

// loggableBody renders a captured body for a log record. JSON is decoded and
// masked, other text is kept as is and binary content is replaced.
func loggableBody(body []byte, truncated bool) any {
	if len(body) == 0 {
		return nil
	}

	var out any
	var decoded any
	switch {
	case !truncated && json.Unmarshal(body, &decoded) == nil:
		out = maskJSON(decoded)
	case utf8.Valid(body):
		out = string(body)
	default:
		return "<binary body omitted>"
	}

	if truncated {
		return map[string]any{"body": out, "truncated": true}
	}
	return out
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "multipart/")
}
