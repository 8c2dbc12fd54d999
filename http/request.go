package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is applied to every request that does not set its own.
const DefaultTimeout = 60 * time.Second

// contentLengthHeader is always derived from the body, never copied from input.
const contentLengthHeader = "Content-Length"

// isContentLength matches the header name in any letter case.
func isContentLength(key string) bool {
	return strings.EqualFold(key, contentLengthHeader)
}

var (
	// ErrInvalidURL is returned when a request URL is not a valid absolute URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidMethod is returned for methods other than GET and POST.
	ErrInvalidMethod = errors.New("invalid HTTP method")
)

// Method is an HTTP method supported by the facade.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	return m == MethodGet || m == MethodPost
}

// Request describes a single HTTP request before dispatch.
// A Request is immutable once built; accessors return copies.
type Request struct {
	url     string
	method  Method
	headers map[string]string
	body    []byte
	hasBody bool
	timeout time.Duration
}

// RequestOption configures a Request while it is being built.
type RequestOption func(*Request)

// WithHeader sets a header. Keys are stored exactly as given and a later
// value for the same key replaces an earlier one.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		r.headers[key] = value
	}
}

// WithHeaders sets every entry of headers as a request header.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		for key, value := range headers {
			r.headers[key] = value
		}
	}
}

// WithBody attaches body to the request. A nil body leaves the request
// without one; an empty non-nil body is sent with Content-Length 0.
func WithBody(body []byte) RequestOption {
	return func(r *Request) {
		if body == nil {
			r.body, r.hasBody = nil, false
			return
		}
		r.body = append(make([]byte, 0, len(body)), body...)
		r.hasBody = true
	}
}

// WithTimeout overrides DefaultTimeout for this request.
// Non-positive values are ignored.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(r *Request) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewRequest builds a Request for method and rawURL.
//
// Example:
//
//	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/users",
//	    http.WithHeader("Content-Type", "application/json"),
//	    http.WithBody([]byte(`{"name":"ada"}`)),
//	)
func NewRequest(method Method, rawURL string, opts ...RequestOption) (*Request, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, string(method))
	}

	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	req := &Request{
		url:     rawURL,
		method:  method,
		headers: make(map[string]string),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(req)
	}

	// Content-Length follows the body, whatever casing the caller used
	for key := range req.headers {
		if isContentLength(key) {
			delete(req.headers, key)
		}
	}
	if req.hasBody {
		req.headers[contentLengthHeader] = strconv.Itoa(len(req.body))
	}

	return req, nil
}

// validateURL requires a parseable URL with both a scheme and a host.
func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, rawURL)
	}
	return nil
}

// URL returns the request URL as supplied.
func (r *Request) URL() string { return r.url }

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// Timeout returns the time allowed for the whole exchange.
func (r *Request) Timeout() time.Duration { return r.timeout }

// HasBody reports whether a body is attached, including an empty one.
func (r *Request) HasBody() bool { return r.hasBody }

// Header returns the value stored for key. Lookup is case-sensitive.
func (r *Request) Header(key string) (string, bool) {
	value, ok := r.headers[key]
	return value, ok
}

// Headers returns a copy of the request headers.
func (r *Request) Headers() map[string]string {
	headers := make(map[string]string, len(r.headers))
	for key, value := range r.headers {
		headers[key] = value
	}
	return headers
}

// Body returns a copy of the request body, or nil when there is none.
func (r *Request) Body() []byte {
	if !r.hasBody {
		return nil
	}
	return append(make([]byte, 0, len(r.body)), r.body...)
}

// with rebuilds the request with extra options applied on top of the
// current values. The receiver is left untouched.
func (r *Request) with(method Method, opts ...RequestOption) (*Request, error) {
	base := []RequestOption{
		WithHeaders(r.headers),
		WithBody(r.Body()),
		WithTimeout(r.timeout),
	}
	return NewRequest(method, r.url, append(base, opts...)...)
}
