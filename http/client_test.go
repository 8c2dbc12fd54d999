package http

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wesleyorama2/courier/notify"
	"github.com/wesleyorama2/courier/reachability"
)

// recordingTransport replies with a fixed result and counts calls.
type recordingTransport struct {
	calls atomic.Int32
	reply *Reply
	err   error

	mu   sync.Mutex
	last *Request
}

func (rt *recordingTransport) RoundTrip(ctx context.Context, req *Request) (*Reply, error) {
	rt.calls.Add(1)
	rt.mu.Lock()
	rt.last = req
	rt.mu.Unlock()
	return rt.reply, rt.err
}

func online() Reachability {
	return reachability.New(reachability.WithSource(reachability.Static(true)))
}

func offline() Reachability {
	return reachability.New(reachability.WithSource(reachability.Static(false)))
}

func mustRequest(t *testing.T, method Method, url string, opts ...RequestOption) *Request {
	t.Helper()
	req, err := NewRequest(method, url, opts...)
	require.NoError(t, err)
	return req
}

func TestClient_OfflineNeverCallsTransport(t *testing.T) {
	transport := &recordingTransport{reply: &Reply{StatusCode: 200, Body: []byte(`{}`)}}
	recorder := &notify.Recorder{}

	client := NewClient(
		WithTransport(transport),
		WithReachability(offline()),
		WithNotifier(recorder),
	)

	out := <-client.DispatchJSON(context.Background(), mustRequest(t, MethodGet, "https://example.com"))

	assert.Equal(t, Offline{}, out)
	assert.ErrorIs(t, Err(out), ErrOffline)
	assert.Equal(t, int32(0), transport.calls.Load())
	assert.Equal(t, []notify.Event{notify.OfflineEvent, notify.Indicator(false)}, recorder.Events())
}

func TestClient_Classification(t *testing.T) {
	refused := errors.New("connection refused")

	tests := []struct {
		name       string
		reply      *Reply
		err        error
		decode     bool
		expected   Outcome
		hidesSpins bool
	}{
		{
			name:     "200 map",
			reply:    &Reply{StatusCode: 200, Body: []byte(`{"a":1}`)},
			decode:   true,
			expected: SuccessMap{Fields: map[string]interface{}{"a": float64(1)}},
		},
		{
			name:     "200 list",
			reply:    &Reply{StatusCode: 200, Body: []byte(`[1,2,3]`)},
			decode:   true,
			expected: SuccessList{Items: []interface{}{float64(1), float64(2), float64(3)}},
		},
		{
			name:     "200 raw bytes",
			reply:    &Reply{StatusCode: 200, Body: []byte(`not json`)},
			expected: SuccessBytes{Data: []byte(`not json`)},
		},
		{
			name:     "200 nil body",
			reply:    &Reply{StatusCode: 200},
			expected: SuccessBytes{Data: []byte{}},
		},
		{
			name:       "404 is surfaced",
			reply:      &Reply{StatusCode: 404, Body: []byte("missing")},
			decode:     true,
			expected:   HTTPStatusError{Code: 404, Body: []byte("missing")},
			hidesSpins: true,
		},
		{
			name:       "204 is not 200",
			reply:      &Reply{StatusCode: 204},
			expected:   HTTPStatusError{Code: 204},
			hidesSpins: true,
		},
		{
			name:       "Transport failure",
			err:        refused,
			decode:     true,
			expected:   TransportError{Cause: refused},
			hidesSpins: true,
		},
		{
			name:       "No status and no error",
			reply:      &Reply{},
			expected:   TransportError{Cause: ErrNoResponse},
			hidesSpins: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &recordingTransport{reply: tt.reply, err: tt.err}
			recorder := &notify.Recorder{}
			client := NewClient(
				WithTransport(transport),
				WithReachability(online()),
				WithNotifier(recorder),
			)
			req := mustRequest(t, MethodGet, "https://example.com/resource")

			var out Outcome
			if tt.decode {
				out = client.DoJSON(context.Background(), req)
			} else {
				out = client.Do(context.Background(), req)
			}

			assert.Equal(t, tt.expected, out)
			assert.Equal(t, int32(1), transport.calls.Load())
			if tt.hidesSpins {
				assert.Equal(t, []notify.Event{notify.Indicator(false)}, recorder.Events())
			} else {
				assert.Empty(t, recorder.Events())
			}
		})
	}
}

func TestClient_JSONDecodeErrorOn200(t *testing.T) {
	transport := &recordingTransport{reply: &Reply{StatusCode: 200, Body: []byte("not json")}}
	client := NewClient(WithTransport(transport), WithReachability(online()))

	out := <-client.DispatchJSON(context.Background(), mustRequest(t, MethodGet, "https://example.com"))

	decodeErr, ok := out.(DecodeError)
	require.True(t, ok, "expected DecodeError, got %T", out)
	assert.Equal(t, DecodeErrorCode, decodeErr.Code)
	assert.ErrorIs(t, Err(out), ErrJSONDecode)
}

func TestClient_DispatchDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	transport := TransportFunc(func(ctx context.Context, req *Request) (*Reply, error) {
		<-release
		return &Reply{StatusCode: 200, Body: []byte(`[]`)}, nil
	})
	client := NewClient(WithTransport(transport), WithReachability(online()))

	result := client.DispatchJSON(context.Background(), mustRequest(t, MethodGet, "https://example.com"))

	select {
	case out := <-result:
		t.Fatalf("outcome delivered before transport completed: %#v", out)
	default:
	}

	close(release)
	assert.Equal(t, SuccessList{Items: []interface{}{}}, <-result)

	_, open := <-result
	assert.False(t, open, "channel must be closed after the single outcome")
}

func TestClient_DispatchFuncCalledOnce(t *testing.T) {
	transport := &recordingTransport{reply: &Reply{StatusCode: 200, Body: []byte(`{"ok":true}`)}}
	client := NewClient(WithTransport(transport), WithReachability(online()))

	var calls atomic.Int32
	done := make(chan Outcome, 2)
	client.DispatchJSONFunc(context.Background(), mustRequest(t, MethodGet, "https://example.com"), func(out Outcome) {
		calls.Add(1)
		done <- out
	})

	select {
	case out := <-done:
		assert.Equal(t, SuccessMap{Fields: map[string]interface{}{"ok": true}}, out)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CancelInFlight(t *testing.T) {
	started := make(chan struct{})
	transport := TransportFunc(func(ctx context.Context, req *Request) (*Reply, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	client := NewClient(WithTransport(transport), WithReachability(online()))

	ctx, cancel := context.WithCancel(context.Background())
	result := client.Dispatch(ctx, mustRequest(t, MethodGet, "https://example.com"))

	<-started
	cancel()

	out := <-result
	assert.IsType(t, Cancelled{}, out)
	assert.ErrorIs(t, Err(out), ErrCancelled)
	assert.ErrorIs(t, Err(out), context.Canceled)
}

func TestClient_TimeoutIsTransportError(t *testing.T) {
	transport := TransportFunc(func(ctx context.Context, req *Request) (*Reply, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	client := NewClient(
		WithTransport(transport),
		WithReachability(online()),
		WithClientTimeout(20*time.Millisecond),
	)

	req, err := client.NewRequest(MethodGet, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, req.Timeout())

	out := client.Do(context.Background(), req)
	assert.IsType(t, TransportError{}, out)
	assert.ErrorIs(t, Err(out), context.DeadlineExceeded)
}

func TestClient_ConcurrentDispatches(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprintf(w, `{"path":%q}`, r.URL.Path)
	}))
	defer server.Close()

	client := NewClient(WithReachability(online()))

	const n = 20
	results := make([]<-chan Outcome, n)
	for i := 0; i < n; i++ {
		results[i] = client.DispatchJSON(context.Background(), mustRequest(t, MethodGet, fmt.Sprintf("%s/item/%d", server.URL, i)))
	}

	for i, result := range results {
		out := <-result
		require.IsType(t, SuccessMap{}, out)
		assert.Equal(t, fmt.Sprintf("/item/%d", i), out.(SuccessMap).Fields["path"])
	}
}

func TestClient_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	transport := &recordingTransport{err: errors.New("connection reset")}
	client := NewClient(
		WithTransport(transport),
		WithReachability(online()),
		WithLogger(zap.New(core)),
	)

	client.Do(context.Background(), mustRequest(t, MethodGet, "https://example.com/logs"))

	failed := logs.FilterMessage("request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "transport_error", failed[0].ContextMap()["outcome"])
	assert.Equal(t, "https://example.com/logs", failed[0].ContextMap()["url"])
}

func TestClient_Defaults(t *testing.T) {
	client := NewClient(WithTransport(nil), WithNotifier(nil), WithLogger(nil), WithReachability(nil))

	assert.IsType(t, &NetTransport{}, client.transport)
	assert.IsType(t, notify.Nop{}, client.notifier)
	assert.NotNil(t, client.logger)
	assert.IsType(t, &reachability.Checker{}, client.reachability)
	assert.Equal(t, DefaultTimeout, client.timeout)
}

func TestClient_ContextDoneBeforeDispatch(t *testing.T) {
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		sentinel error
		cause    error
	}{
		{name: "Cancelled", ctx: cancelled, sentinel: ErrCancelled, cause: context.Canceled},
		{name: "Deadline passed", ctx: expired, sentinel: ErrTransport, cause: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &recordingTransport{reply: &Reply{StatusCode: 200}}
			recorder := &notify.Recorder{}
			client := NewClient(
				WithTransport(transport),
				WithReachability(reachability.New()),
				WithNotifier(recorder),
			)

			out := client.Do(tt.ctx, mustRequest(t, MethodGet, "https://example.com"))

			assert.NotEqual(t, Offline{}, out)
			assert.ErrorIs(t, Err(out), tt.sentinel)
			assert.ErrorIs(t, Err(out), tt.cause)
			assert.Equal(t, int32(0), transport.calls.Load())
			assert.Equal(t, []notify.Event{notify.Indicator(false)}, recorder.Events())
		})
	}
}

func TestClient_CancelledDuringReachabilityCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gate := reachability.New(reachability.WithSource(reachability.SourceFunc(
		func(ctx context.Context) (reachability.Flags, error) {
			cancel()
			return reachability.Flags{}, ctx.Err()
		},
	)))
	recorder := &notify.Recorder{}
	client := NewClient(WithTransport(&recordingTransport{}), WithReachability(gate), WithNotifier(recorder))

	out := client.Do(ctx, mustRequest(t, MethodGet, "https://example.com"))

	assert.IsType(t, Cancelled{}, out)
	assert.Equal(t, []notify.Event{notify.Indicator(false)}, recorder.Events())
}
