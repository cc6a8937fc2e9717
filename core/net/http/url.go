package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// absoluteURL matches "scheme://" and protocol-relative "//" URLs
var absoluteURL = regexp.MustCompile(`^([a-zA-Z][a-zA-Z\d+\-.]*:)?//`)

// IsAbsoluteURL reports whether rawURL carries its own scheme or host
func IsAbsoluteURL(rawURL string) bool {
	return absoluteURL.MatchString(rawURL)
}

// Join joins base and a relative path with exactly one slash between them
func Join(base, relative string) string {
	if relative == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(relative, "/")
}

// resolveURL combines the base URL, the request URL and the query params.
// Query parameters already present in rawURL are kept.
func resolveURL(base *url.URL, rawURL string, params Params) (string, error) {
	full := rawURL
	if base != nil && !IsAbsoluteURL(rawURL) {
		full = Join(base.String(), rawURL)
	}

	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", full, err)
	}

	if len(params) == 0 {
		return u.String(), nil
	}

	query := u.Query()
	if err := EncodeParams(query, params); err != nil {
		return "", err
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// EncodeParams adds params to query. nil values are skipped, slices repeat
// the key and maps or structs are JSON-encoded.
func EncodeParams(query url.Values, params Params) error {
	for key, value := range params {
		if value == nil {
			continue
		}

		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			rv = rv.Elem()
			value = rv.Interface()
		}

		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Type().Elem().Kind() == reflect.Uint8 {
				query.Add(key, fmt.Sprint(value))
				continue
			}
			for i := 0; i < rv.Len(); i++ {
				s, err := formatParam(rv.Index(i).Interface())
				if err != nil {
					return err
				}
				query.Add(key, s)
			}
		default:
			s, err := formatParam(value)
			if err != nil {
				return err
			}
			query.Add(key, s)
		}
	}
	return nil
}

// formatParam renders a single query value
func formatParam(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	switch reflect.Indirect(reflect.ValueOf(value)).Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		b, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("encode query value: %w", err)
		}
		return string(b), nil
	}

	return fmt.Sprint(value), nil
}
