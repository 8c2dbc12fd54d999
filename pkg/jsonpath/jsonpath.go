// Package jsonpath reads single values out of JSON response bodies using a
// small JSONPath subset ($, dotted keys, [n] indexes, ['key'] brackets).
package jsonpath

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyDocument is returned for an empty body.
	ErrEmptyDocument = errors.New("empty JSON document")

	// ErrEmptyPath is returned for an empty expression.
	ErrEmptyPath = errors.New("empty JSONPath expression")

	// ErrNotFound is returned when the expression matches nothing.
	ErrNotFound = errors.New("path not found")
)

var segmentEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

// Extract returns the value at path in data as a string. Objects and
// arrays come back as their raw JSON text, null as "null".
func Extract(data []byte, path string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	if path == "" {
		return "", ErrEmptyPath
	}

	result := gjson.GetBytes(data, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractAll evaluates every named expression. Values that were found are
// returned even when others fail; the error lists the failures.
func ExtractAll(data []byte, paths map[string]string) (map[string]string, error) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(paths))
	var errs []error
	for _, name := range names {
		value, err := Extract(data, paths[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		results[name] = value
	}
	return results, errors.Join(errs...)
}

// toGjsonPath rewrites $.users[0]['full.name'] as users.0.full\.name.
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	var sb strings.Builder
	for i := 0; i < len(path); i++ {
		if path[i] != '[' {
			sb.WriteByte(path[i])
			continue
		}
		end := strings.IndexByte(path[i:], ']')
		if end < 0 {
			sb.WriteString(path[i:])
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segmentEscaper.Replace(strings.Trim(path[i+1:i+end], `'"`)))
		i += end
	}
	return sb.String()
}
