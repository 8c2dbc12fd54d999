package http

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name            string
		method          Method
		url             string
		opts            []RequestOption
		expectedHeaders map[string]string
		expectedBody    []byte
	}{
		{
			name:            "Simple GET request",
			method:          MethodGet,
			url:             "https://api.example.com/users",
			expectedHeaders: map[string]string{},
		},
		{
			name:   "Request with headers",
			method: MethodGet,
			url:    "https://api.example.com/users?page=1",
			opts: []RequestOption{
				WithHeaders(map[string]string{"Accept": "application/json", "x-trace-id": "abc"}),
			},
			expectedHeaders: map[string]string{"Accept": "application/json", "x-trace-id": "abc"},
		},
		{
			name:   "POST request with body",
			method: MethodPost,
			url:    "http://localhost:8080/items",
			opts: []RequestOption{
				WithHeader("Content-Type", "application/json"),
				WithBody([]byte(`{"name":"widget"}`)),
			},
			expectedHeaders: map[string]string{"Content-Type": "application/json", "Content-Length": "17"},
			expectedBody:    []byte(`{"name":"widget"}`),
		},
		{
			name:            "Empty body still sets Content-Length",
			method:          MethodPost,
			url:             "http://localhost/empty",
			opts:            []RequestOption{WithBody([]byte{})},
			expectedHeaders: map[string]string{"Content-Length": "0"},
			expectedBody:    []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest(tt.method, tt.url, tt.opts...)
			require.NoError(t, err)

			assert.Equal(t, tt.url, req.URL())
			assert.Equal(t, tt.method, req.Method())
			assert.Equal(t, tt.expectedHeaders, req.Headers())
			assert.Equal(t, tt.expectedBody, req.Body())
			assert.Equal(t, tt.expectedBody != nil, req.HasBody())
			assert.Equal(t, DefaultTimeout, req.Timeout())
		})
	}
}

func TestNewRequest_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		url    string
		err    error
	}{
		{name: "Relative URL", method: MethodGet, url: "/users", err: ErrInvalidURL},
		{name: "Missing host", method: MethodGet, url: "https:///users", err: ErrInvalidURL},
		{name: "Unparseable URL", method: MethodGet, url: "http://[::1", err: ErrInvalidURL},
		{name: "Empty URL", method: MethodGet, url: "", err: ErrInvalidURL},
		{name: "Control character", method: MethodGet, url: "http://example.com/\x7f", err: ErrInvalidURL},
		{name: "Unsupported method", method: "DELETE", url: "https://example.com", err: ErrInvalidMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest(tt.method, tt.url)
			assert.Nil(t, req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewRequest_LastHeaderWins(t *testing.T) {
	req, err := NewRequest(MethodGet, "https://example.com",
		WithHeader("X-Mode", "first"),
		WithHeaders(map[string]string{"X-Mode": "second"}),
		WithHeader("X-Mode", "third"),
	)
	require.NoError(t, err)

	value, ok := req.Header("X-Mode")
	assert.True(t, ok)
	assert.Equal(t, "third", value)
}

func TestNewRequest_HeaderKeysAreCaseSensitive(t *testing.T) {
	req, err := NewRequest(MethodGet, "https://example.com",
		WithHeader("x-api-key", "lower"),
		WithHeader("X-Api-Key", "canonical"),
	)
	require.NoError(t, err)

	assert.Len(t, req.Headers(), 2)
	value, _ := req.Header("x-api-key")
	assert.Equal(t, "lower", value)
	_, ok := req.Header("X-API-KEY")
	assert.False(t, ok)
}

func TestNewRequest_ContentLengthIsDerived(t *testing.T) {
	for _, size := range []int{0, 1, 17, 4096} {
		body := make([]byte, size)
		req, err := NewRequest(MethodPost, "https://example.com/upload",
			WithHeader("Content-Length", "999999"),
			WithBody(body),
		)
		require.NoError(t, err)

		value, ok := req.Header("Content-Length")
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(len(body)), value)
	}

	req, err := NewRequest(MethodGet, "https://example.com",
		WithHeader("Content-Length", "12"),
	)
	require.NoError(t, err)
	_, ok := req.Header("Content-Length")
	assert.False(t, ok, "Content-Length must not survive without a body")

	for _, key := range []string{"content-length", "CONTENT-LENGTH", "Content-length"} {
		t.Run(key, func(t *testing.T) {
			req, err := NewRequest(MethodPost, "https://example.com/upload",
				WithHeader(key, "999"),
				WithBody([]byte("abc")),
			)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"Content-Length": "3"}, req.Headers())

			req, err = NewRequest(MethodGet, "https://example.com", WithHeader(key, "999"))
			require.NoError(t, err)
			assert.Empty(t, req.Headers())
		})
	}
}

func TestNewRequest_IsImmutable(t *testing.T) {
	body := []byte("hello")
	headers := map[string]string{"A": "1"}

	req, err := NewRequest(MethodPost, "https://example.com", WithHeaders(headers), WithBody(body))
	require.NoError(t, err)

	body[0] = 'j'
	headers["A"] = "2"
	req.Headers()["A"] = "3"
	req.Body()[1] = 'a'

	assert.Equal(t, []byte("hello"), req.Body())
	value, _ := req.Header("A")
	assert.Equal(t, "1", value)
}

func TestNewRequest_Timeout(t *testing.T) {
	req, err := NewRequest(MethodGet, "https://example.com", WithTimeout(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, req.Timeout())

	req, err = NewRequest(MethodGet, "https://example.com", WithTimeout(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, req.Timeout())
}
