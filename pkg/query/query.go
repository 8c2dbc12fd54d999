package query

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEncoding is returned when a string cannot be percent-encoded.
	ErrEncoding = errors.New("query encoding error")

	// ErrDecoding is returned for malformed percent-encoded input.
	ErrDecoding = errors.New("query decoding error")
)

// Escape percent-encodes every byte of s outside the unreserved set
// (letters, digits, '-', '_', '.', '~'). s must be valid UTF-8.
func Escape(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: input is not valid UTF-8", ErrEncoding)
	}
	// QueryEscape leaves only the unreserved set unescaped, except that
	// it writes spaces as '+'. A literal '+' is already %2B at this point.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20"), nil
}

// Unescape reverses Escape. '+' is kept as-is.
func Unescape(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	if !utf8.ValidString(decoded) {
		return "", fmt.Errorf("%w: %q does not decode to valid UTF-8", ErrDecoding, s)
	}
	return decoded, nil
}

// Join encodes pairs as key1=value1&key2=value2 with no leading
// separator. Keys are sorted so the result is deterministic.
func Join(pairs map[string]string) (string, error) {
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, key := range keys {
		k, err := Escape(key)
		if err != nil {
			return "", err
		}
		v, err := Escape(pairs[key])
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String(), nil
}

// QueryString is Join with a leading '?'. An empty mapping yields "".
func QueryString(pairs map[string]string) (string, error) {
	if len(pairs) == 0 {
		return "", nil
	}
	joined, err := Join(pairs)
	if err != nil {
		return "", err
	}
	return "?" + joined, nil
}

// Parse decodes a string produced by Join or QueryString. Empty segments
// are skipped, a segment without '=' maps to "", and the last duplicate
// key wins.
func Parse(raw string) (map[string]string, error) {
	pairs := make(map[string]string)
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return pairs, nil
	}

	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key, err := Unescape(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := Unescape(rawValue)
		if err != nil {
			return nil, err
		}
		pairs[key] = value
	}
	return pairs, nil
}

// AppendTo returns rawURL with the encoded pairs added to its query,
// using '&' when rawURL already has one. A fragment stays at the end.
func AppendTo(rawURL string, pairs map[string]string) (string, error) {
	joined, err := Join(pairs)
	if err != nil || joined == "" {
		return rawURL, err
	}

	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}

	result := base + separator + joined
	if hasFragment {
		result += "#" + fragment
	}
	return result, nil
}
