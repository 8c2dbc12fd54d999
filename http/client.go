package http

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wesleyorama2/courier/notify"
	"github.com/wesleyorama2/courier/reachability"
)

// Reachability reports whether outbound connectivity is available right now.
type Reachability interface {
	Available(ctx context.Context) bool
}

// Notifier receives advisory UI notifications. Calls must not block.
type Notifier interface {
	NotifyOffline()
	NotifyIndicator(show bool)
}

// Client dispatches Requests and classifies their results.
// Client is safe for concurrent use by multiple goroutines; concurrent
// dispatches share no mutable state.
type Client struct {
	transport    Transport
	reachability Reachability
	notifier     Notifier
	logger       *zap.Logger
	timeout      time.Duration
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a client with the given options.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithTransport(http.NewRestyTransport(nil)),
//	    http.WithReachability(reachability.New()),
//	    http.WithLogger(logger),
//	)
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		transport:    NewNetTransport(nil),
		reachability: reachability.New(),
		notifier:     notify.Nop{},
		logger:       zap.NewNop(),
		timeout:      DefaultTimeout,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTransport sets the transport used to submit requests.
func WithTransport(transport Transport) ClientOption {
	return func(c *Client) {
		if transport != nil {
			c.transport = transport
		}
	}
}

// WithReachability sets the connectivity gate consulted before each dispatch.
func WithReachability(r Reachability) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.reachability = r
		}
	}
}

// WithNotifier sets the UI collaborator told about offline state and
// indicator changes.
func WithNotifier(n Notifier) ClientOption {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClientTimeout sets the timeout given to requests built by
// Client.NewRequest. The default is DefaultTimeout.
func WithClientTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewRequest builds a Request carrying the client's timeout. Options may
// still override it.
func (c *Client) NewRequest(method Method, rawURL string, opts ...RequestOption) (*Request, error) {
	return NewRequest(method, rawURL, append([]RequestOption{WithTimeout(c.timeout)}, opts...)...)
}

// Do dispatches req and blocks until its Outcome is known. Most callers
// want Dispatch or DispatchFunc, which never block.
func (c *Client) Do(ctx context.Context, req *Request) Outcome {
	log := c.logger.With(
		zap.String("method", string(req.Method())),
		zap.String("url", req.URL()),
	)

	if ctx.Err() != nil {
		return c.abandon(ctx, log)
	}

	if !c.reachability.Available(ctx) {
		// A probe cut short by the caller says nothing about the network
		if ctx.Err() != nil {
			return c.abandon(ctx, log)
		}
		log.Warn("dispatch skipped, network unreachable")
		c.notifier.NotifyOffline()
		c.notifier.NotifyIndicator(false)
		return Offline{}
	}

	log.Debug("dispatching request", zap.Duration("timeout", req.Timeout()))

	roundTripCtx, cancel := context.WithTimeout(ctx, req.Timeout())
	defer cancel()

	reply, err := c.transport.RoundTrip(roundTripCtx, req)
	out := classify(ctx, reply, err)

	switch o := out.(type) {
	case SuccessBytes:
		log.Debug("request completed",
			zap.Int("status", reply.StatusCode),
			zap.Int("bytes", len(o.Data)),
			zap.Duration("total", reply.Timing.TotalTime),
			zap.Duration("ttfb", reply.Timing.TimeToFirstByte),
		)
	case HTTPStatusError:
		log.Debug("request completed with non-200 status", zap.Int("status", o.Code))
		c.notifier.NotifyIndicator(false)
	default:
		log.Warn("request failed", zap.String("outcome", Kind(out)), zap.Error(Err(out)))
		c.notifier.NotifyIndicator(false)
	}

	return out
}

// abandon reports a dispatch whose context ended before submission.
func (c *Client) abandon(ctx context.Context, log *zap.Logger) Outcome {
	out := classify(ctx, nil, ctx.Err())
	log.Debug("dispatch skipped, context done", zap.String("outcome", Kind(out)), zap.Error(ctx.Err()))
	c.notifier.NotifyIndicator(false)
	return out
}

// classify maps a transport result onto an Outcome. ctx is the caller's
// context, used to tell cancellation apart from timeouts.
func classify(ctx context.Context, reply *Reply, err error) Outcome {
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return Cancelled{Cause: err}
		}
		return TransportError{Cause: err}
	}
	if reply == nil || reply.StatusCode == 0 {
		return TransportError{Cause: ErrNoResponse}
	}
	if reply.StatusCode != 200 {
		return HTTPStatusError{Code: reply.StatusCode, Body: reply.Body}
	}

	data := reply.Body
	if data == nil {
		data = []byte{}
	}
	return SuccessBytes{Data: data}
}

// Dispatch starts req on its own goroutine and returns at once. The
// returned channel yields exactly one Outcome and is then closed.
func (c *Client) Dispatch(ctx context.Context, req *Request) <-chan Outcome {
	return c.start(ctx, req, false)
}

// DispatchFunc starts req and calls handler exactly once with its Outcome
// on a worker goroutine.
func (c *Client) DispatchFunc(ctx context.Context, req *Request, handler func(Outcome)) {
	go func() {
		handler(c.Do(ctx, req))
	}()
}

// DoJSON is Do followed by DecodeJSON on a SuccessBytes outcome.
func (c *Client) DoJSON(ctx context.Context, req *Request) Outcome {
	return decodeOutcome(c.Do(ctx, req))
}

// DispatchJSON is the non-blocking form of DoJSON.
func (c *Client) DispatchJSON(ctx context.Context, req *Request) <-chan Outcome {
	return c.start(ctx, req, true)
}

// DispatchJSONFunc is the continuation form of DoJSON.
func (c *Client) DispatchJSONFunc(ctx context.Context, req *Request, handler func(Outcome)) {
	go func() {
		handler(c.DoJSON(ctx, req))
	}()
}

func (c *Client) start(ctx context.Context, req *Request, decode bool) <-chan Outcome {
	result := make(chan Outcome, 1)
	go func() {
		defer close(result)
		if decode {
			result <- c.DoJSON(ctx, req)
			return
		}
		result <- c.Do(ctx, req)
	}()
	return result
}
